package symmetry

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEstimateSpacing(t *testing.T) {
	tests := []struct {
		name      string
		offsets   []int
		tolerance int
		want      int
	}{
		{"empty", nil, 3, 0},
		{"all zero", []int{0, 0, 0}, 3, 0},
		{"single value", []int{0, 30, 30, 0}, 3, 30},
		{"cluster beats outlier", []int{30, 30, 30, 12, 12}, 3, 30},
		{"window pools neighbors", []int{28, 30, 30, 33, 40, 40, 40}, 3, 30},
		{"zero tolerance is plain mode", []int{28, 30, 30, 33, 40, 40, 40}, 0, 40},
		{"tie prefers smaller", []int{15, 25}, 3, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateSpacing(tt.offsets, tt.tolerance); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLocalMinima(t *testing.T) {
	values := []float64{5, 4, 3, 2, 3, 4, 5, 6, 1, 6, 7, 7, 7, 0}

	tests := []struct {
		name     string
		radius   int
		from, to int
		want     []int
	}{
		{"radius 1", 1, 0, len(values), []int{3, 8}},
		{"radius 3", 3, 0, len(values), []int{3, 8}},
		{"radius 4 drops windows leaving the slice", 4, 0, len(values), []int{8}},
		{"restricted range", 1, 4, len(values), []int{8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocalMinima(values, tt.radius, tt.from, tt.to)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("LocalMinima mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLocalMinima_PlateauIsNotStrict(t *testing.T) {
	values := []float64{3, 1, 1, 3}
	if got := LocalMinima(values, 1, 0, len(values)); len(got) != 0 {
		t.Errorf("plateau should yield no strict minima, got %v", got)
	}
}
