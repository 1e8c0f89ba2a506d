package symmetry

import (
	"errors"
	"math"
	"testing"

	"github.com/ironsheep/facade-tools-mcp/internal/imaging"
)

func TestComputeGradientField_Empty(t *testing.T) {
	_, err := ComputeGradientField(&imaging.Gray{}, DefaultGradientOptions(3))
	if !errors.Is(err, imaging.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestComputeGradientField_Uniform(t *testing.T) {
	g, _ := imaging.NewGray(16, 12)
	for i := range g.Pix {
		g.Pix[i] = 90
	}

	field, err := ComputeGradientField(g, DefaultGradientOptions(2))
	if err != nil {
		t.Fatalf("ComputeGradientField failed: %v", err)
	}
	if len(field.Ver) != 12 || len(field.Hor) != 16 {
		t.Fatalf("lengths: got Ver=%d Hor=%d, want 12 and 16", len(field.Ver), len(field.Hor))
	}
	for r, v := range field.Ver {
		if v != 0 {
			t.Errorf("Ver[%d]: got %v, want 0", r, v)
		}
	}
	for c, v := range field.Hor {
		if v != 0 {
			t.Errorf("Hor[%d]: got %v, want 0", c, v)
		}
	}
}

func TestComputeGradientField_VerticalStripes(t *testing.T) {
	// Vertical stripes only produce x-derivatives: every row sees the same
	// vertical edges, no column sees a horizontal edge.
	g, _ := imaging.NewGray(20, 10)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if (x/4)%2 == 0 {
				g.Set(x, y, 200)
			}
		}
	}

	field, err := ComputeGradientField(g, GradientOptions{Sigma: 0, Alpha: DefaultAlpha, Beta: DefaultBeta})
	if err != nil {
		t.Fatalf("ComputeGradientField failed: %v", err)
	}
	for r := 1; r < len(field.Ver); r++ {
		if field.Ver[r] <= 0 {
			t.Errorf("Ver[%d]: got %v, want > 0", r, field.Ver[r])
		}
		if field.Ver[r] != field.Ver[0] {
			t.Errorf("Ver[%d]: got %v, want %v (all rows identical)", r, field.Ver[r], field.Ver[0])
		}
	}
	for c, v := range field.Hor {
		if v > 0 {
			t.Errorf("Hor[%d]: got %v, want <= 0", c, v)
		}
	}
}

func TestComputeGradientField_FloorBoundaryIsMinimum(t *testing.T) {
	// Two floors of window jambs separated by a plain band at rows 18-20.
	g, _ := imaging.NewGray(40, 40)
	for y := 0; y < g.Height; y++ {
		if y >= 18 && y < 21 {
			continue
		}
		for x := 0; x < g.Width; x++ {
			if (x/5)%2 == 0 {
				g.Set(x, y, 180)
			}
		}
	}

	field, err := ComputeGradientField(g, DefaultGradientOptions(2))
	if err != nil {
		t.Fatalf("ComputeGradientField failed: %v", err)
	}
	minima := LocalMinima(field.Ver, 3, 0, len(field.Ver))
	found := false
	for _, m := range minima {
		if m >= 18 && m < 21 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a Ver minimum in the plain band, got minima %v", minima)
	}
}

func TestSmooth(t *testing.T) {
	values := make([]float64, 21)
	values[10] = 1

	out := smooth(values, 2)
	if out[10] <= out[9] || out[10] <= out[11] {
		t.Errorf("smoothed impulse should peak at its position: %v", out[8:13])
	}
	for d := 1; d <= 10; d++ {
		if math.Abs(out[10-d]-out[10+d]) > 1e-12 {
			t.Errorf("smoothed impulse not symmetric at distance %d", d)
		}
	}
	want := 1 / (2 * math.Sqrt(2*math.Pi))
	if math.Abs(out[10]-want) > 1e-12 {
		t.Errorf("peak: got %v, want %v", out[10], want)
	}

	raw := smooth(values, 0)
	if raw[10] != 1 || raw[9] != 0 {
		t.Error("sigma 0 should leave values unchanged")
	}
}
