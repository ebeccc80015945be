package viewer

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/camera"
	"github.com/Faultbox/midgard-terrain/internal/engine/scene"
)

func writeHeightmap(t *testing.T, w, h int, height func(x, z int) uint8) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for z := 0; z < h; z++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, z, color.Gray{Y: height(x, z)})
		}
	}
	path := filepath.Join(t.TempDir(), "heightmap.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestLoadTerrainMesh(t *testing.T) {
	path := writeHeightmap(t, 5, 4, func(x, z int) uint8 { return uint8(x * 30) })

	mesh, err := LoadTerrainMesh(config.TerrainConfig{
		Heightmap:     path,
		HeightScale:   10,
		TextureRepeat: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, 4*3*2, mesh.TriangleCount())
	assert.Equal(t, [3]float32{0, 0, 0}, mesh.Bounds.Min)
	assert.InDelta(t, 4, mesh.Bounds.Max[0], 1e-6)
	assert.InDelta(t, 12, mesh.Bounds.Max[1], 1e-5)
	assert.InDelta(t, 3, mesh.Bounds.Max[2], 1e-6)
}

func TestLoadTerrainMeshErrors(t *testing.T) {
	_, err := LoadTerrainMesh(config.TerrainConfig{
		Heightmap:   filepath.Join(t.TempDir(), "missing.png"),
		HeightScale: 1,
	})
	assert.Error(t, err)

	path := writeHeightmap(t, 1, 1, func(int, int) uint8 { return 0 })
	_, err = LoadTerrainMesh(config.TerrainConfig{Heightmap: path, HeightScale: 1})
	assert.Error(t, err)
}

func TestGroundTextureFallback(t *testing.T) {
	img, err := GroundTexture(config.TerrainConfig{})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 256, 256), img.Bounds())
	assert.NotEqual(t, img.RGBAAt(0, 0), img.RGBAAt(32, 0))
}

func TestGroundTextureMissingFile(t *testing.T) {
	_, err := GroundTexture(config.TerrainConfig{Texture: filepath.Join(t.TempDir(), "nope.png")})
	assert.Error(t, err)
}

func TestWindowTitle(t *testing.T) {
	cam := camera.NewWalkCamera(12.5, -3)
	cam.Y = 4
	got := windowTitle(60, scene.FrameStats{Triangles: 1200, Leaves: 3}, cam)
	assert.Equal(t, "Midgard Terrain | 60 fps | 1200 triangles in 3 leaves | (12.5, 4.0, -3.0)", got)
}
