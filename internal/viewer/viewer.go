// Package viewer implements the interactive terrain viewer main loop.
package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/camera"
	"github.com/Faultbox/midgard-terrain/internal/engine/debug"
	"github.com/Faultbox/midgard-terrain/internal/engine/input"
	"github.com/Faultbox/midgard-terrain/internal/engine/lighting"
	"github.com/Faultbox/midgard-terrain/internal/engine/renderer"
	"github.com/Faultbox/midgard-terrain/internal/engine/scene"
	"github.com/Faultbox/midgard-terrain/internal/engine/window"
	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/internal/metrics"
)

const title = "Midgard Terrain"

// Viewer is the main viewer instance.
type Viewer struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	scene    *scene.Scene
	camera   *camera.WalkCamera
	shots    *debug.ScreenshotCapture

	metrics     *metrics.Metrics
	stopMetrics context.CancelFunc

	followGround  bool
	mouseCaptured bool

	log *zap.Logger
}

// New opens the window and loads the configured terrain.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:          cfg,
		followGround: cfg.Camera.FollowGround,
		shots:        debug.NewScreenshotCapture("screenshots", "terrain"),
		log:          logger.Named("viewer"),
	}

	v.log.Info("initializing viewer",
		zap.String("heightmap", cfg.Terrain.Heightmap),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	mesh, err := LoadTerrainMesh(cfg.Terrain)
	if err != nil {
		return nil, fmt.Errorf("load terrain: %w", err)
	}
	ground, err := GroundTexture(cfg.Terrain)
	if err != nil {
		return nil, fmt.Errorf("load ground texture: %w", err)
	}

	// Window first: it creates the GL context everything else needs.
	v.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	w, h := v.window.Size()
	v.renderer, err = renderer.New(renderer.Config{Width: w, Height: h})
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.scene, err = scene.New(scene.Config{
		ScreenDepth:         cfg.Graphics.ScreenDepth,
		MaxTrianglesPerLeaf: cfg.Terrain.MaxTrianglesPerLeaf,
		MaxDepth:            cfg.Terrain.MaxDepth,
		ShowNodeBounds:      cfg.Terrain.ShowNodeBounds,
		FogEnabled:          cfg.Graphics.Fog,
		Sun: lighting.Sun{
			Azimuth:   cfg.Graphics.SunAzimuth,
			Elevation: cfg.Graphics.SunElevation,
		},
	})
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}

	if err := v.scene.LoadTerrain(mesh, ground); err != nil {
		v.Close()
		return nil, err
	}

	v.camera = camera.NewWalkCamera(cfg.Camera.StartX, cfg.Camera.StartZ)
	v.camera.EyeHeight = cfg.Camera.EyeHeight
	v.camera.MoveSpeed = cfg.Camera.MoveSpeed
	v.camera.TurnSpeed = cfg.Camera.TurnSpeed
	v.camera.Y = mesh.Bounds.Max[1] + cfg.Camera.EyeHeight
	if v.followGround {
		v.camera.ClampToGround(v.scene.Tree())
	}

	v.input = input.New()

	if cfg.Metrics.Enabled {
		v.startMetrics(cfg.Metrics.ListenAddr)
	}

	v.log.Info("viewer initialized successfully")
	return v, nil
}

func (v *Viewer) startMetrics(addr string) {
	v.metrics = metrics.New(true)
	v.metrics.SetTreeStats(v.scene.Tree().Stats())

	ctx, cancel := context.WithCancel(context.Background())
	v.stopMetrics = cancel
	go func() {
		if err := v.metrics.Serve(ctx, addr); err != nil {
			v.log.Error("metrics server failed", zap.String("addr", addr), zap.Error(err))
		}
	}()
}

// Run starts the main loop and returns when the window is closed.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()
	var last scene.FrameStats

	v.log.Info("starting main loop")

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()

		// 2. Move the camera
		v.update(dt)

		// 3. Render
		frameStart := time.Now()
		last = v.render()
		if v.metrics != nil {
			v.metrics.ObserveFrame(last.Triangles, last.Leaves, time.Since(frameStart))
		}

		// 4. Present
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.window.SetTitle(windowTitle(frameCount, last, v.camera))
			v.log.Debug("frame",
				zap.Int("fps", frameCount),
				zap.Int("drawn_triangles", last.Triangles),
				zap.Int("visible_leaves", last.Leaves),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		if event.Type == input.EventWindowResize {
			w, h := v.window.Size()
			v.renderer.Resize(w, h)
		}
	}

	switch {
	case v.input.IsKeyPressed(sdl.SCANCODE_ESCAPE):
		v.running = false
	case v.input.IsKeyPressed(sdl.SCANCODE_F1):
		v.scene.SetShowNodeBounds(!v.scene.ShowNodeBounds())
	case v.input.IsKeyPressed(sdl.SCANCODE_F2):
		v.renderer.SetWireframe(!v.renderer.Wireframe())
	case v.input.IsKeyPressed(sdl.SCANCODE_G):
		v.followGround = !v.followGround
		v.log.Info("ground follow", zap.Bool("enabled", v.followGround))
	case v.input.IsKeyPressed(sdl.SCANCODE_M):
		v.mouseCaptured = !v.mouseCaptured
		v.window.SetMouseCaptured(v.mouseCaptured)
	case v.input.IsKeyPressed(sdl.SCANCODE_F12):
		v.screenshot()
	}
}

func (v *Viewer) update(dt float32) {
	in := v.input
	cam := v.camera

	cam.Turn(
		in.Axis(sdl.SCANCODE_LEFT, sdl.SCANCODE_RIGHT),
		in.Axis(sdl.SCANCODE_PAGEDOWN, sdl.SCANCODE_PAGEUP),
		dt,
	)
	if v.mouseCaptured {
		dx, dy := in.MouseDelta()
		cam.HandleMouse(float32(dx), float32(dy))
	}

	var up float32
	if !v.followGround {
		up = in.Axis(sdl.SCANCODE_LCTRL, sdl.SCANCODE_SPACE)
	}
	cam.Move(
		in.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W),
		in.Axis(sdl.SCANCODE_A, sdl.SCANCODE_D),
		up,
		dt,
	)

	if v.followGround {
		ok := cam.ClampToGround(v.scene.Tree())
		if v.metrics != nil {
			v.metrics.ObserveHeightQuery(ok)
		}
	}
}

func (v *Viewer) render() scene.FrameStats {
	v.renderer.Begin()

	g := v.cfg.Graphics
	proj := camera.Projection(g.FOVDegrees, v.window.Aspect(), g.ScreenNear, g.ScreenDepth)
	st := v.scene.Render(v.camera.ViewMatrix(), proj)

	v.renderer.End()
	return st
}

func (v *Viewer) screenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases everything New created.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.stopMetrics != nil {
		v.stopMetrics()
	}
	if v.scene != nil {
		v.scene.Destroy()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

func windowTitle(fps int, st scene.FrameStats, cam *camera.WalkCamera) string {
	return fmt.Sprintf("%s | %d fps | %d triangles in %d leaves | (%.1f, %.1f, %.1f)",
		title, fps, st.Triangles, st.Leaves, cam.X, cam.Y, cam.Z)
}
