package scene

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-terrain/internal/engine/frustum"
	"github.com/Faultbox/midgard-terrain/internal/engine/glmesh"
	"github.com/Faultbox/midgard-terrain/internal/engine/lighting"
	"github.com/Faultbox/midgard-terrain/internal/engine/quadtree"
	"github.com/Faultbox/midgard-terrain/internal/engine/scene/shaders"
	"github.com/Faultbox/midgard-terrain/internal/engine/shader"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/internal/engine/texture"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Lighting holds the directional light and fog used for the terrain.
type Lighting struct {
	Direction [3]float32 // Direction the light travels, normalized
	Ambient   [3]float32
	Diffuse   [3]float32

	FogEnabled bool
	FogNear    float32
	FogFar     float32
	FogColor   [3]float32
}

// DefaultSun stands high in the east.
var DefaultSun = lighting.Sun{Azimuth: 90, Elevation: 63.43}

// DefaultLighting is a white sun with faint ambient light.
func DefaultLighting() Lighting {
	return Lighting{
		Direction: DefaultSun.Direction(),
		Ambient:   [3]float32{0.05, 0.05, 0.05},
		Diffuse:   [3]float32{1, 1, 1},
	}
}

// TerrainRenderer draws a quadtree-partitioned terrain. Each leaf of the tree
// owns its own GL mesh; only leaves inside the view frustum are drawn.
type TerrainRenderer struct {
	program *shader.Program

	// Uniform locations
	locViewProj int32
	locLightDir int32
	locAmbient  int32
	locDiffuse  int32
	locTexture  int32
	locFogUse   int32
	locFogNear  int32
	locFogFar   int32
	locFogColor int32

	groundTex uint32
	meshes    *glmesh.Allocator
	tree      *quadtree.QuadTree
	bounds    terrain.Bounds
}

// NewTerrainRenderer compiles the terrain shader and creates an empty tree
// configured with opts.
func NewTerrainRenderer(opts ...quadtree.Option) (*TerrainRenderer, error) {
	program, err := shader.Compile("terrain", shaders.TerrainVertexShader, shaders.TerrainFragmentShader)
	if err != nil {
		return nil, err
	}

	tr := &TerrainRenderer{
		program: program,
		meshes:  glmesh.NewAllocator(),
	}
	tr.tree = quadtree.New(tr.meshes, opts...)

	tr.locViewProj = program.MustUniform("uViewProj")
	tr.locLightDir = program.MustUniform("uLightDir")
	tr.locAmbient = program.MustUniform("uAmbient")
	tr.locDiffuse = program.MustUniform("uDiffuse")
	tr.locTexture = program.Uniform("uTexture")
	tr.locFogUse = program.Uniform("uFogUse")
	tr.locFogNear = program.Uniform("uFogNear")
	tr.locFogFar = program.Uniform("uFogFar")
	tr.locFogColor = program.Uniform("uFogColor")

	return tr, nil
}

// LoadTerrain partitions mesh into a fresh quadtree and uploads the ground
// texture. Any previous terrain is released first.
func (tr *TerrainRenderer) LoadTerrain(mesh *terrain.Mesh, ground *image.RGBA) error {
	tr.clearTerrain()

	if err := tr.tree.Initialize(mesh); err != nil {
		return fmt.Errorf("build terrain quadtree: %w", err)
	}
	tr.bounds = mesh.Bounds
	if ground != nil {
		tr.groundTex = texture.Upload(ground)
	}
	return nil
}

// Tree returns the terrain's spatial index.
func (tr *TerrainRenderer) Tree() *quadtree.QuadTree {
	return tr.tree
}

// Bounds returns the bounding box of the loaded terrain.
func (tr *TerrainRenderer) Bounds() terrain.Bounds {
	return tr.bounds
}

// LiveMeshes returns the number of leaf meshes held on the GPU.
func (tr *TerrainRenderer) LiveMeshes() int {
	return tr.meshes.Live()
}

// Render draws the visible part of the terrain and returns the number of
// triangles and leaves drawn.
func (tr *TerrainRenderer) Render(viewProj math.Mat4, f frustum.Frustum, light Lighting) (triangles, leaves int) {
	if tr.tree.Empty() {
		return 0, 0
	}

	tr.program.Use()

	gl.UniformMatrix4fv(tr.locViewProj, 1, false, &viewProj[0])
	gl.Uniform3f(tr.locLightDir, light.Direction[0], light.Direction[1], light.Direction[2])
	gl.Uniform3f(tr.locAmbient, light.Ambient[0], light.Ambient[1], light.Ambient[2])
	gl.Uniform3f(tr.locDiffuse, light.Diffuse[0], light.Diffuse[1], light.Diffuse[2])

	if light.FogEnabled {
		gl.Uniform1i(tr.locFogUse, 1)
		gl.Uniform1f(tr.locFogNear, light.FogNear)
		gl.Uniform1f(tr.locFogFar, light.FogFar)
		gl.Uniform3f(tr.locFogColor, light.FogColor[0], light.FogColor[1], light.FogColor[2])
	} else {
		gl.Uniform1i(tr.locFogUse, 0)
	}

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tr.groundTex)
	gl.Uniform1i(tr.locTexture, 0)

	triangles = tr.tree.Render(f, func(h quadtree.MeshHandle, indexCount int) {
		tr.meshes.Draw(h, indexCount)
		leaves++
	})

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return triangles, leaves
}

func (tr *TerrainRenderer) clearTerrain() {
	tr.tree.Release()
	if tr.groundTex != 0 {
		gl.DeleteTextures(1, &tr.groundTex)
		tr.groundTex = 0
	}
	tr.bounds = terrain.Bounds{}
}

// Destroy releases all resources.
func (tr *TerrainRenderer) Destroy() {
	tr.clearTerrain()
	tr.program.Delete()
}
