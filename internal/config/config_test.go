package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Graphics defaults
	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}
	if cfg.Graphics.ScreenDepth != 1000 {
		t.Errorf("expected screen depth 1000, got %f", cfg.Graphics.ScreenDepth)
	}

	if cfg.Graphics.SunAzimuth != 90 || cfg.Graphics.SunElevation != 63.43 {
		t.Errorf("expected sun at 90/63.43, got %g/%g", cfg.Graphics.SunAzimuth, cfg.Graphics.SunElevation)
	}

	// Terrain defaults
	if cfg.Terrain.MaxTrianglesPerLeaf != 10000 {
		t.Errorf("expected 10000 triangles per leaf, got %d", cfg.Terrain.MaxTrianglesPerLeaf)
	}
	if cfg.Terrain.HeightScale != 15 {
		t.Errorf("expected height scale 15, got %f", cfg.Terrain.HeightScale)
	}
	if cfg.Terrain.TextureRepeat != 8 {
		t.Errorf("expected texture repeat 8, got %d", cfg.Terrain.TextureRepeat)
	}

	// Camera defaults
	if !cfg.Camera.FollowGround {
		t.Error("expected follow_ground to be true by default")
	}

	// Metrics defaults
	if cfg.Metrics.Enabled {
		t.Error("expected metrics to be disabled by default")
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "terrain.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  screen_depth: 500
  fog: true
  sun_azimuth: 180
  sun_elevation: 30

terrain:
  heightmap: "maps/valley.png"
  height_scale: 10
  max_triangles_per_leaf: 2500
  show_node_bounds: true

camera:
  start_x: 12.5
  eye_height: 3
  follow_ground: false

metrics:
  enabled: true
  listen_addr: ":9200"

logging:
  level: "debug"
  log_file: "terrain.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Graphics.ScreenDepth != 500 {
		t.Errorf("expected screen depth 500, got %f", cfg.Graphics.ScreenDepth)
	}
	if !cfg.Graphics.Fog {
		t.Error("expected fog to be true")
	}
	if cfg.Graphics.SunAzimuth != 180 || cfg.Graphics.SunElevation != 30 {
		t.Errorf("expected sun at 180/30, got %g/%g", cfg.Graphics.SunAzimuth, cfg.Graphics.SunElevation)
	}
	// Unset keys keep their defaults
	if cfg.Graphics.ScreenNear != 0.1 {
		t.Errorf("expected default screen near 0.1, got %f", cfg.Graphics.ScreenNear)
	}

	if cfg.Terrain.Heightmap != "maps/valley.png" {
		t.Errorf("expected heightmap maps/valley.png, got %s", cfg.Terrain.Heightmap)
	}
	if cfg.Terrain.MaxTrianglesPerLeaf != 2500 {
		t.Errorf("expected 2500 triangles per leaf, got %d", cfg.Terrain.MaxTrianglesPerLeaf)
	}
	if !cfg.Terrain.ShowNodeBounds {
		t.Error("expected show_node_bounds to be true")
	}

	if cfg.Camera.StartX != 12.5 {
		t.Errorf("expected start_x 12.5, got %f", cfg.Camera.StartX)
	}
	if cfg.Camera.FollowGround {
		t.Error("expected follow_ground to be false")
	}

	if !cfg.Metrics.Enabled || cfg.Metrics.ListenAddr != ":9200" {
		t.Errorf("unexpected metrics config %+v", cfg.Metrics)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "terrain.log" {
		t.Errorf("expected log file 'terrain.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
terrain:
  max_triangles_per_leaf: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/terrain.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero leaf size", func(c *Config) { c.Terrain.MaxTrianglesPerLeaf = 0 }, "max_triangles_per_leaf"},
		{"negative depth", func(c *Config) { c.Terrain.MaxDepth = -1 }, "max_depth"},
		{"depth before near", func(c *Config) { c.Graphics.ScreenDepth = 0.05 }, "screen_depth"},
		{"zero height scale", func(c *Config) { c.Terrain.HeightScale = 0 }, "height_scale"},
		{"bad fov", func(c *Config) { c.Graphics.FOVDegrees = 180 }, "fov_degrees"},
		{"bad size", func(c *Config) { c.Graphics.Width = 0 }, "invalid size"},
		{"sun below nadir", func(c *Config) { c.Graphics.SunElevation = -91 }, "sun_elevation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "terrain.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find terrain.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Terrain.ShowNodeBounds {
					t.Error("expected node bounds to be shown with debug flag")
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "heightmap flag",
			setup: func() { *flagHeightmap = "other.bmp" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Terrain.Heightmap != "other.bmp" {
					t.Errorf("expected heightmap other.bmp, got %s", cfg.Terrain.Heightmap)
				}
			},
			teardown: func() { *flagHeightmap = "" },
		},
		{
			name:  "leaf max flag",
			setup: func() { *flagLeafMax = 500 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Terrain.MaxTrianglesPerLeaf != 500 {
					t.Errorf("expected 500 triangles per leaf, got %d", cfg.Terrain.MaxTrianglesPerLeaf)
				}
			},
			teardown: func() { *flagLeafMax = 0 },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
				}
				if cfg.Graphics.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "metrics flag",
			setup: func() { *flagMetricsAddr = ":9300" },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Metrics.Enabled || cfg.Metrics.ListenAddr != ":9300" {
					t.Errorf("expected metrics enabled on :9300, got %+v", cfg.Metrics)
				}
			},
			teardown: func() { *flagMetricsAddr = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "terrain.yaml")

	yamlContent := `
terrain:
  max_triangles_per_leaf: 4000
  height_scale: 5
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagLeafMax = 1000
	defer func() {
		*flagConfig = ""
		*flagLeafMax = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Leaf size comes from the flag, not the file
	if cfg.Terrain.MaxTrianglesPerLeaf != 1000 {
		t.Errorf("expected 1000 from flag, got %d", cfg.Terrain.MaxTrianglesPerLeaf)
	}
	// Height scale comes from the file
	if cfg.Terrain.HeightScale != 5 {
		t.Errorf("expected height scale 5 from file, got %f", cfg.Terrain.HeightScale)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "terrain.yaml")
	if err := os.WriteFile(configPath, []byte("terrain:\n  max_triangles_per_leaf: -5\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected Load to reject a negative leaf size")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "terrain.yaml")

	cfg := Default()
	cfg.Terrain.MaxTrianglesPerLeaf = 1234
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Terrain.MaxTrianglesPerLeaf != 1234 {
		t.Errorf("expected 1234 after reload, got %d", loaded.Terrain.MaxTrianglesPerLeaf)
	}
}
