package imaging

import "fmt"

// MeanSquaredDifference compares two equally sized regions of a raster.
//
// The result is the mean over all pixel pairs of (a - b)², where pixel (dx, dy)
// of r1 is paired with pixel (dx, dy) of r2. Identical content yields 0.
//
// # Errors
//
//   - Either region lies outside the raster or is empty
//   - The regions differ in width or height
func MeanSquaredDifference(g *Gray, r1, r2 Region) (float64, error) {
	if err := g.checkRegion(r1); err != nil {
		return 0, err
	}
	if err := g.checkRegion(r2); err != nil {
		return 0, err
	}
	if r1.Dx() != r2.Dx() || r1.Dy() != r2.Dy() {
		return 0, fmt.Errorf("%w: region sizes differ: %dx%d vs %dx%d",
			ErrInvalidInput, r1.Dx(), r1.Dy(), r2.Dx(), r2.Dy())
	}

	var sum float64
	for dy := 0; dy < r1.Dy(); dy++ {
		a := g.Pix[(r1.Y1+dy)*g.Width+r1.X1:]
		b := g.Pix[(r2.Y1+dy)*g.Width+r2.X1:]
		for dx := 0; dx < r1.Dx(); dx++ {
			d := a[dx] - b[dx]
			sum += d * d
		}
	}
	return sum / float64(r1.Dx()*r1.Dy()), nil
}
