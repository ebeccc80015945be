package terrain

import (
	"github.com/go-gl/mathgl/mgl32"
)

// MeshOptions controls how a heightmap is turned into triangles.
type MeshOptions struct {
	// TextureRepeat is how many times the ground texture tiles across the
	// map in each direction.
	TextureRepeat int
}

// BuildMesh creates the terrain triangle list from a heightmap.
// Every grid cell becomes two triangles, (UL, UR, BL) and (BL, UR, BR),
// which gives (Width-1)*(Depth-1)*6 vertices in total.
func BuildMesh(hm *Heightmap, opts MeshOptions) (*Mesh, error) {
	if hm.Width < 2 || hm.Depth < 2 {
		return nil, ErrHeightmapTooSmall
	}

	normals := vertexNormals(hm)
	texCoords := textureCoordinates(hm, opts.TextureRepeat)

	vertex := func(x, z int) Vertex {
		idx := z*hm.Width + x
		return Vertex{
			Position: [3]float32{float32(x), hm.Heights[idx], float32(z)},
			Normal:   normals[idx],
			TexCoord: texCoords[idx],
		}
	}

	vertices := make([]Vertex, 0, (hm.Width-1)*(hm.Depth-1)*6)
	for z := 0; z < hm.Depth-1; z++ {
		for x := 0; x < hm.Width-1; x++ {
			bottomLeft := vertex(x, z)
			bottomRight := vertex(x+1, z)
			upperLeft := vertex(x, z+1)
			upperRight := vertex(x+1, z+1)

			// Cells at the wrap point of the texture need the far edge
			// of the texture instead of restarting at zero.
			upperLeft.TexCoord = topEdge(upperLeft.TexCoord)
			upperRight.TexCoord = rightEdge(topEdge(upperRight.TexCoord))
			bottomRight.TexCoord = rightEdge(bottomRight.TexCoord)

			vertices = append(vertices,
				upperLeft, upperRight, bottomLeft,
				bottomLeft, upperRight, bottomRight,
			)
		}
	}

	return NewMesh(vertices)
}

// vertexNormals averages the face normals of the (up to four) cells touching
// each sample.
func vertexNormals(hm *Heightmap) [][3]float32 {
	cellsX, cellsZ := hm.Width-1, hm.Depth-1

	pos := func(x, z int) mgl32.Vec3 {
		return mgl32.Vec3{float32(x), hm.At(x, z), float32(z)}
	}

	faces := make([]mgl32.Vec3, cellsX*cellsZ)
	for z := 0; z < cellsZ; z++ {
		for x := 0; x < cellsX; x++ {
			bl, br, ul := pos(x, z), pos(x+1, z), pos(x, z+1)
			faces[z*cellsX+x] = bl.Sub(ul).Cross(ul.Sub(br))
		}
	}

	normals := make([][3]float32, hm.Width*hm.Depth)
	for z := 0; z < hm.Depth; z++ {
		for x := 0; x < hm.Width; x++ {
			var sum mgl32.Vec3
			for _, c := range [4][2]int{{x - 1, z - 1}, {x, z - 1}, {x - 1, z}, {x, z}} {
				if c[0] < 0 || c[1] < 0 || c[0] >= cellsX || c[1] >= cellsZ {
					continue
				}
				sum = sum.Add(faces[c[1]*cellsX+c[0]])
			}
			if sum.Len() < 1e-6 {
				normals[z*hm.Width+x] = [3]float32{0, 1, 0}
				continue
			}
			n := sum.Normalize()
			normals[z*hm.Width+x] = [3]float32{n.X(), n.Y(), n.Z()}
		}
	}
	return normals
}

// textureCoordinates tiles [0,1) texture space repeat times across the map.
// V runs from 1 down toward 0 along +Z.
func textureCoordinates(hm *Heightmap, repeat int) [][2]float32 {
	if repeat <= 0 {
		repeat = 1
	}
	step := float32(repeat) / float32(hm.Width)
	period := hm.Width / repeat
	if period < 1 {
		period = 1
	}

	coords := make([][2]float32, hm.Width*hm.Depth)
	for z := 0; z < hm.Depth; z++ {
		v := 1 - float32(z%period)*step
		for x := 0; x < hm.Width; x++ {
			u := float32(x%period) * step
			coords[z*hm.Width+x] = [2]float32{u, v}
		}
	}
	return coords
}

func topEdge(tc [2]float32) [2]float32 {
	if tc[1] == 1 {
		tc[1] = 0
	}
	return tc
}

func rightEdge(tc [2]float32) [2]float32 {
	if tc[0] == 0 {
		tc[0] = 1
	}
	return tc
}
