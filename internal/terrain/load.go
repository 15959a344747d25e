package terrain

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png" // PNG decoder registration
	"io"
	"os"

	_ "golang.org/x/image/bmp" // BMP decoder registration
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // TIFF decoder registration
)

// ImageOptions controls how a grayscale image maps to heights.
type ImageOptions struct {
	CellSize float32 // world units per pixel step
	Scale    float32 // height of a white pixel; black is 0
	// Resolution, when positive, resamples the image to Resolution x
	// Resolution corners before conversion.
	Resolution int
}

// DecodeHeightmap reads a PNG, BMP or TIFF image and converts its luminance to
// heights. Image columns run along +X and rows along +Z.
func DecodeHeightmap(r io.Reader, opts ImageOptions) (*Heightmap, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode heightmap: %w", err)
	}

	if opts.Resolution > 0 {
		dst := image.NewGray16(image.Rect(0, 0, opts.Resolution, opts.Resolution))
		draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = dst
	}

	b := img.Bounds()
	heights := make([][]float32, b.Dx())
	for x := range heights {
		heights[x] = make([]float32, b.Dy())
		for z := range heights[x] {
			g := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+z)).(color.Gray16)
			heights[x][z] = float32(g.Y) / 0xffff * opts.Scale
		}
	}

	h, err := NewHeightmap(heights, opts.CellSize)
	if err != nil {
		return nil, fmt.Errorf("%s heightmap: %w", format, err)
	}
	return h, nil
}

// LoadHeightmap reads a heightmap image from disk.
func LoadHeightmap(path string, opts ImageOptions) (*Heightmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeHeightmap(f, opts)
}
