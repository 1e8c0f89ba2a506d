package symmetry

import (
	"testing"

	"github.com/ironsheep/facade-tools-mcp/internal/imaging"
)

// periodicRows builds a raster whose rows repeat every period rows. Within
// one period the intensity ramps so that no shorter offset matches exactly.
func periodicRows(t *testing.T, width, height, period int) *imaging.Gray {
	t.Helper()
	g, err := imaging.NewGray(width, height)
	if err != nil {
		t.Fatalf("NewGray failed: %v", err)
	}
	for y := 0; y < height; y++ {
		v := float64((y%period)*8) + 5
		for x := 0; x < width; x++ {
			g.Set(x, y, v)
		}
	}
	return g
}

// transpose swaps the axes of a raster.
func transpose(t *testing.T, g *imaging.Gray) *imaging.Gray {
	t.Helper()
	out, err := imaging.NewGray(g.Height, g.Width)
	if err != nil {
		t.Fatalf("NewGray failed: %v", err)
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			out.Set(y, x, g.At(x, y))
		}
	}
	return out
}
