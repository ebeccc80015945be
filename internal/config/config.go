// Package config handles viewer and terrain configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all settings for the terrain viewer and tools.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Terrain  TerrainConfig  `yaml:"terrain"`
	Camera   CameraConfig   `yaml:"camera"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and projection settings.
type GraphicsConfig struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	Fullscreen   bool    `yaml:"fullscreen"`
	VSync        bool    `yaml:"vsync"`
	FOVDegrees   float32 `yaml:"fov_degrees"`
	ScreenNear   float32 `yaml:"screen_near"`
	ScreenDepth  float32 `yaml:"screen_depth"` // Far plane used for culling
	Fog          bool    `yaml:"fog"`
	SunAzimuth   float32 `yaml:"sun_azimuth"`   // Degrees, 0 = +Z, 90 = +X
	SunElevation float32 `yaml:"sun_elevation"` // Degrees above the horizon
}

// TerrainConfig holds heightmap and quadtree settings.
type TerrainConfig struct {
	Heightmap           string  `yaml:"heightmap"`
	HeightScale         float32 `yaml:"height_scale"`   // Pixel values are divided by this
	Texture             string  `yaml:"texture"`        // Ground texture; empty uses a generated checker
	TextureRepeat       int     `yaml:"texture_repeat"` // Texture tiles across the map
	MaxTrianglesPerLeaf int     `yaml:"max_triangles_per_leaf"`
	MaxDepth            int     `yaml:"max_depth"`
	ShowNodeBounds      bool    `yaml:"show_node_bounds"`
}

// CameraConfig holds the walking camera settings.
type CameraConfig struct {
	StartX       float32 `yaml:"start_x"`
	StartZ       float32 `yaml:"start_z"`
	EyeHeight    float32 `yaml:"eye_height"`
	MoveSpeed    float32 `yaml:"move_speed"` // World units per second
	TurnSpeed    float32 `yaml:"turn_speed"` // Radians per second
	FollowGround bool    `yaml:"follow_ground"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:        1280,
			Height:       720,
			Fullscreen:   false,
			VSync:        true,
			FOVDegrees:   45,
			ScreenNear:   0.1,
			ScreenDepth:  1000,
			SunAzimuth:   90,
			SunElevation: 63.43,
		},
		Terrain: TerrainConfig{
			Heightmap:           "data/heightmap.bmp",
			HeightScale:         15,
			TextureRepeat:       8,
			MaxTrianglesPerLeaf: 10000,
			MaxDepth:            12,
		},
		Camera: CameraConfig{
			StartX:       50,
			StartZ:       -10,
			EyeHeight:    2,
			MoveSpeed:    20,
			TurnSpeed:    1.5,
			FollowGround: true,
		},
		Metrics: MetricsConfig{
			Enabled:    false,
			ListenAddr: "127.0.0.1:9108",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks that the numeric limits are usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Graphics.ScreenNear <= 0 || c.Graphics.ScreenDepth <= c.Graphics.ScreenNear {
		errs = append(errs, fmt.Errorf("graphics: screen_depth (%g) must exceed screen_near (%g) > 0",
			c.Graphics.ScreenDepth, c.Graphics.ScreenNear))
	}
	if c.Graphics.FOVDegrees <= 0 || c.Graphics.FOVDegrees >= 180 {
		errs = append(errs, fmt.Errorf("graphics: fov_degrees out of range: %g", c.Graphics.FOVDegrees))
	}
	if c.Graphics.SunElevation < -90 || c.Graphics.SunElevation > 90 {
		errs = append(errs, fmt.Errorf("graphics: sun_elevation out of range: %g", c.Graphics.SunElevation))
	}
	if c.Terrain.HeightScale <= 0 {
		errs = append(errs, fmt.Errorf("terrain: height_scale must be positive, got %g", c.Terrain.HeightScale))
	}
	if c.Terrain.TextureRepeat <= 0 {
		errs = append(errs, fmt.Errorf("terrain: texture_repeat must be positive, got %d", c.Terrain.TextureRepeat))
	}
	if c.Terrain.MaxTrianglesPerLeaf <= 0 {
		errs = append(errs, fmt.Errorf("terrain: max_triangles_per_leaf must be positive, got %d", c.Terrain.MaxTrianglesPerLeaf))
	}
	if c.Terrain.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("terrain: max_depth must be positive, got %d", c.Terrain.MaxDepth))
	}
	return errors.Join(errs...)
}
