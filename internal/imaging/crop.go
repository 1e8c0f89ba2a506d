package imaging

import (
	"fmt"
	"image"
)

// Region represents a rectangular region within a raster.
//
// Coordinates follow the standard image convention:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
//   - Width = X2 - X1, Height = Y2 - Y1
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect converts the region back into an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// Dx returns the region width.
func (r Region) Dx() int { return r.X2 - r.X1 }

// Dy returns the region height.
func (r Region) Dy() int { return r.Y2 - r.Y1 }

func (g *Gray) checkRegion(r Region) error {
	if r.X1 < 0 || r.Y1 < 0 || r.X2 > g.Width || r.Y2 > g.Height {
		return fmt.Errorf("%w: region (%d,%d)-(%d,%d) outside raster bounds (0,0)-(%d,%d)",
			ErrInvalidInput, r.X1, r.Y1, r.X2, r.Y2, g.Width, g.Height)
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return fmt.Errorf("%w: region x1 must be < x2, y1 must be < y2", ErrInvalidInput)
	}
	return nil
}

// Crop copies a region of the raster into a new raster anchored at the origin.
func (g *Gray) Crop(r Region) (*Gray, error) {
	if err := g.checkRegion(r); err != nil {
		return nil, err
	}
	out, err := NewGray(r.Dx(), r.Dy())
	if err != nil {
		return nil, err
	}
	for y := 0; y < out.Height; y++ {
		src := g.Pix[(r.Y1+y)*g.Width+r.X1 : (r.Y1+y)*g.Width+r.X2]
		copy(out.Pix[y*out.Width:(y+1)*out.Width], src)
	}
	return out, nil
}
