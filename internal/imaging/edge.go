package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/effect"
)

// EdgeMapResult contains an edge map encoded as base64 PNG.
type EdgeMapResult struct {
	// Width of the output image in pixels (same as input).
	Width int `json:"width"`

	// Height of the output image in pixels (same as input).
	Height int `json:"height"`

	// ImageBase64 is the edge map encoded as base64 PNG.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png".
	MimeType string `json:"mime_type"`
}

// EdgeMap computes a Sobel gradient-magnitude raster of an image.
//
// Symmetry scans run on this raster rather than on raw intensities: repeated
// facade elements share outlines far more reliably than they share shading,
// so comparing edge strength suppresses lighting gradients across the facade.
//
// # Algorithm
//
//  1. Grayscale conversion (bild weights 0.3R + 0.6G + 0.1B)
//  2. Sobel X and Y convolution
//  3. Per-pixel Gx² + Gy² on normalized values, clamped to 0-255
func EdgeMap(img image.Image) (*Gray, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidInput)
	}

	sobel := effect.Sobel(effect.Grayscale(img))
	bounds := sobel.Bounds()
	g, err := NewGray(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}
	for y := 0; y < g.Height; y++ {
		row := sobel.Pix[y*sobel.Stride:]
		for x := 0; x < g.Width; x++ {
			g.Pix[y*g.Width+x] = float64(row[x*4])
		}
	}
	return g, nil
}

// EncodeEdgeMap encodes an already computed edge raster for transport.
func EncodeEdgeMap(g *Gray) (*EdgeMapResult, error) {
	if g.Empty() {
		return nil, fmt.Errorf("%w: empty edge map", ErrInvalidInput)
	}
	encoded, err := EncodePNGBase64(g.Image())
	if err != nil {
		return nil, fmt.Errorf("failed to encode edge map: %w", err)
	}
	return &EdgeMapResult{
		Width:       g.Width,
		Height:      g.Height,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}
