package terrain

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"

	_ "golang.org/x/image/bmp" // Register BMP decoder
)

// ErrHeightmapTooSmall is returned for heightmaps that cannot form a single cell.
var ErrHeightmapTooSmall = errors.New("terrain: heightmap must be at least 2x2 samples")

// LoadHeightmap decodes a grayscale image file into a heightmap.
// The red channel (0-255) becomes the height of each sample.
func LoadHeightmap(path string) (*Heightmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open heightmap: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode heightmap %s: %w", path, err)
	}

	hm, err := HeightmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("heightmap %s (%s): %w", path, format, err)
	}
	return hm, nil
}

// HeightmapFromImage samples the red channel of every pixel. Image row j maps
// to z = j and column i to x = i.
func HeightmapFromImage(img image.Image) (*Heightmap, error) {
	b := img.Bounds()
	w, d := b.Dx(), b.Dy()
	if w < 2 || d < 2 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrHeightmapTooSmall, w, d)
	}

	hm := &Heightmap{
		Width:   w,
		Depth:   d,
		Heights: make([]float32, w*d),
	}
	for z := 0; z < d; z++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+z).RGBA()
			hm.Heights[z*w+x] = float32(r >> 8)
		}
	}
	return hm, nil
}

// NewHeightmap wraps raw samples (row-major, z*width + x).
func NewHeightmap(width, depth int, heights []float32) (*Heightmap, error) {
	if width < 2 || depth < 2 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrHeightmapTooSmall, width, depth)
	}
	if len(heights) != width*depth {
		return nil, fmt.Errorf("terrain: expected %d height samples, got %d", width*depth, len(heights))
	}
	return &Heightmap{Width: width, Depth: depth, Heights: heights}, nil
}

// Scale divides every height by divisor, flattening raw 0-255 pixel values
// into a walkable range.
func (h *Heightmap) Scale(divisor float32) {
	if divisor == 0 {
		return
	}
	for i := range h.Heights {
		h.Heights[i] /= divisor
	}
}
