// Package metrics exposes terrain rendering and quadtree figures to
// Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/engine/quadtree"
	"github.com/Faultbox/midgard-terrain/internal/logger"
)

const (
	namespace   = "terrain"
	resultLabel = "result"
)

// Metrics holds the collectors of one viewer process on a private registry.
type Metrics struct {
	reg *prometheus.Registry

	drawnTriangles prometheus.Gauge
	visibleLeaves  prometheus.Gauge
	frames         prometheus.Counter
	frameSeconds   prometheus.Histogram

	treeNodes      prometheus.Gauge
	treeLeaves     prometheus.Gauge
	treeDepth      prometheus.Gauge
	treeDuplicated prometheus.Gauge

	heightQueries *prometheus.CounterVec
}

// New creates the collectors. withRuntime adds the Go runtime and process
// collectors.
func New(withRuntime bool) *Metrics {
	reg := prometheus.NewRegistry()
	if withRuntime {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,

		drawnTriangles: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "drawn_triangles",
			Help:      "Triangles drawn in the last frame, counting border duplicates per leaf.",
		}),
		visibleLeaves: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "visible_leaves",
			Help:      "Quadtree leaves that passed frustum culling in the last frame.",
		}),
		frames: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "The total number of rendered frames.",
		}),
		frameSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_seconds",
			Help:      "Frame render time.",
			Buckets:   []float64{0.001, 0.004, 0.008, 0.0166, 0.033, 0.066, 0.1, 0.25},
		}),

		treeNodes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "quadtree",
			Name:      "nodes",
			Help:      "Nodes in the terrain quadtree.",
		}),
		treeLeaves: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "quadtree",
			Name:      "leaves",
			Help:      "Leaves in the terrain quadtree.",
		}),
		treeDepth: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "quadtree",
			Name:      "depth",
			Help:      "Depth of the deepest quadtree leaf; the root is 0.",
		}),
		treeDuplicated: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "quadtree",
			Name:      "duplicated_triangles",
			Help:      "Triangles stored in more than one leaf, counted once per extra copy.",
		}),

		heightQueries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "height_queries_total",
			Help:      "The total number of ground height queries.",
		}, []string{resultLabel}),
	}
}

// ObserveFrame records one rendered frame.
func (m *Metrics) ObserveFrame(triangles, leaves int, took time.Duration) {
	m.drawnTriangles.Set(float64(triangles))
	m.visibleLeaves.Set(float64(leaves))
	m.frames.Inc()
	m.frameSeconds.Observe(took.Seconds())
}

// SetTreeStats publishes the shape of a freshly built tree.
func (m *Metrics) SetTreeStats(st quadtree.Stats) {
	m.treeNodes.Set(float64(st.Nodes))
	m.treeLeaves.Set(float64(st.Leaves))
	m.treeDepth.Set(float64(st.MaxDepth))
	m.treeDuplicated.Set(float64(st.Duplicated))
}

// ObserveHeightQuery counts a height query by outcome.
func (m *Metrics) ObserveHeightQuery(found bool) {
	result := "miss"
	if found {
		result = "hit"
	}
	m.heightQueries.With(prometheus.Labels{resultLabel: result}).Inc()
}

// Registry returns the registry holding all collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
