package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ErrInvalidInput is returned (wrapped) for empty images and malformed regions.
var ErrInvalidInput = errors.New("invalid input")

// Gray is a single-channel raster of intensities in the range 0-255.
//
// Pixels are stored row-major: the value at (x, y) is Pix[y*Width+x].
type Gray struct {
	Width  int
	Height int
	Pix    []float64
}

// NewGray allocates a zeroed raster. Both dimensions must be positive.
func NewGray(width, height int) (*Gray, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: raster size %dx%d", ErrInvalidInput, width, height)
	}
	return &Gray{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height),
	}, nil
}

// ToGray converts any image into a Gray raster.
//
// Color images are reduced to luminance with the Rec. 601 weights used by
// disintegration/imaging. Images with an empty bounds rectangle are rejected
// with ErrInvalidInput.
func ToGray(img image.Image) (*Gray, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidInput)
	}
	bounds := img.Bounds()
	g, err := NewGray(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	// imaging.Grayscale always returns an NRGBA whose bounds start at (0,0)
	// with R == G == B per pixel.
	gs := imaging.Grayscale(img)
	for y := 0; y < g.Height; y++ {
		row := gs.Pix[y*gs.Stride:]
		for x := 0; x < g.Width; x++ {
			g.Pix[y*g.Width+x] = float64(row[x*4])
		}
	}
	return g, nil
}

// At returns the intensity at (x, y). Coordinates are not bounds checked.
func (g *Gray) At(x, y int) float64 {
	return g.Pix[y*g.Width+x]
}

// Set stores an intensity at (x, y).
func (g *Gray) Set(x, y int, v float64) {
	g.Pix[y*g.Width+x] = v
}

// Bounds returns the raster rectangle anchored at the origin.
func (g *Gray) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.Width, g.Height)
}

// Empty reports whether the raster has no pixels.
func (g *Gray) Empty() bool {
	return g == nil || g.Width <= 0 || g.Height <= 0
}

// Image renders the raster as an 8-bit grayscale image, clamping to 0-255.
func (g *Gray) Image() *image.Gray {
	out := image.NewGray(g.Bounds())
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			out.SetGray(x, y, color.Gray{Y: clampByte(g.At(x, y))})
		}
	}
	return out
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
