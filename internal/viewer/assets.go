package viewer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/internal/engine/texture"
)

// LoadTerrainMesh loads the configured heightmap and turns it into the
// triangle list the quadtree partitions.
func LoadTerrainMesh(cfg config.TerrainConfig) (*terrain.Mesh, error) {
	hm, err := terrain.LoadHeightmap(cfg.Heightmap)
	if err != nil {
		return nil, err
	}
	hm.Scale(cfg.HeightScale)

	mesh, err := terrain.BuildMesh(hm, terrain.MeshOptions{TextureRepeat: cfg.TextureRepeat})
	if err != nil {
		return nil, fmt.Errorf("build mesh from %s: %w", cfg.Heightmap, err)
	}
	return mesh, nil
}

// GroundTexture loads the configured ground texture, or generates a grass
// checkerboard when none is set.
func GroundTexture(cfg config.TerrainConfig) (*image.RGBA, error) {
	if cfg.Texture == "" {
		return texture.Checker(256, 8,
			color.RGBA{R: 86, G: 125, B: 70, A: 255},
			color.RGBA{R: 110, G: 150, B: 82, A: 255},
		), nil
	}
	return texture.Load(cfg.Texture)
}
