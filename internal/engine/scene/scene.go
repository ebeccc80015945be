// Package scene renders a heightmap terrain through its quadtree, with
// optional node bounds overlay.
package scene

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/engine/debug"
	"github.com/Faultbox/midgard-terrain/internal/engine/frustum"
	"github.com/Faultbox/midgard-terrain/internal/engine/lighting"
	"github.com/Faultbox/midgard-terrain/internal/engine/quadtree"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Config contains scene configuration options.
type Config struct {
	ScreenDepth         float32 // Culling distance
	MaxTrianglesPerLeaf int
	MaxDepth            int
	ShowNodeBounds      bool
	FogEnabled          bool
	Sun                 lighting.Sun
}

// DefaultConfig returns a default scene configuration.
func DefaultConfig() Config {
	return Config{
		ScreenDepth:         1000,
		MaxTrianglesPerLeaf: quadtree.DefaultMaxTrianglesPerLeaf,
		MaxDepth:            quadtree.DefaultMaxDepth,
		Sun:                 DefaultSun,
	}
}

// FrameStats describes what one Render call drew.
type FrameStats struct {
	Triangles int // Includes triangles duplicated across leaf borders
	Leaves    int
}

// Scene owns the terrain renderer and its debug overlay.
type Scene struct {
	config Config
	Light  Lighting

	terrain *TerrainRenderer
	bounds  *BoundsRenderer

	log *zap.Logger
}

// New creates the scene's GL resources. The GL context must be current.
func New(cfg Config) (*Scene, error) {
	s := &Scene{
		config: cfg,
		Light:  DefaultLighting(),
		log:    logger.Named("scene"),
	}
	if cfg.Sun != (lighting.Sun{}) {
		s.Light.Direction = cfg.Sun.Direction()
	}
	s.Light.FogEnabled = cfg.FogEnabled
	s.Light.FogNear = cfg.ScreenDepth * 0.6
	s.Light.FogFar = cfg.ScreenDepth
	s.Light.FogColor = [3]float32{0.55, 0.7, 0.9}

	var err error
	s.terrain, err = NewTerrainRenderer(
		quadtree.WithMaxTrianglesPerLeaf(cfg.MaxTrianglesPerLeaf),
		quadtree.WithMaxDepth(cfg.MaxDepth),
		quadtree.WithLogger(logger.Named("quadtree")),
	)
	if err != nil {
		return nil, err
	}

	s.bounds, err = NewBoundsRenderer()
	if err != nil {
		s.terrain.Destroy()
		return nil, err
	}

	return s, nil
}

// LoadTerrain replaces the terrain. A nil ground texture leaves the terrain
// untextured.
func (s *Scene) LoadTerrain(mesh *terrain.Mesh, ground *image.RGBA) error {
	if err := s.terrain.LoadTerrain(mesh, ground); err != nil {
		return fmt.Errorf("load terrain: %w", err)
	}

	st := s.terrain.Tree().Stats()
	s.log.Info("terrain loaded",
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Int("leaves", st.Leaves),
		zap.Int("gpu_meshes", s.terrain.LiveMeshes()),
	)
	return nil
}

// Tree returns the terrain's spatial index.
func (s *Scene) Tree() *quadtree.QuadTree {
	return s.terrain.Tree()
}

// Bounds returns the terrain bounding box.
func (s *Scene) Bounds() terrain.Bounds {
	return s.terrain.Bounds()
}

// GetTerrainHeight returns the ground height at a world position.
func (s *Scene) GetTerrainHeight(worldX, worldZ float32) (float32, bool) {
	return s.terrain.Tree().HeightAt(worldX, worldZ)
}

// SetShowNodeBounds toggles the node bounds overlay.
func (s *Scene) SetShowNodeBounds(show bool) {
	s.config.ShowNodeBounds = show
}

// ShowNodeBounds reports whether the overlay is on.
func (s *Scene) ShowNodeBounds() bool {
	return s.config.ShowNodeBounds
}

// Render draws one frame of the scene from the given camera matrices.
func (s *Scene) Render(view, projection math.Mat4) FrameStats {
	f := frustum.New(s.config.ScreenDepth, projection, view)
	viewProj := projection.Mul(view)

	var st FrameStats
	st.Triangles, st.Leaves = s.terrain.Render(viewProj, f, s.Light)

	if s.config.ShowNodeBounds {
		b := s.terrain.Bounds()
		s.bounds.Update(debug.NodeBounds(s.terrain.Tree(), b.Min[1], b.Max[1], f))
		s.bounds.Render(viewProj)
	}
	return st
}

// Destroy releases all GL resources.
func (s *Scene) Destroy() {
	if s.bounds != nil {
		s.bounds.Destroy()
	}
	if s.terrain != nil {
		s.terrain.Destroy()
	}
}
