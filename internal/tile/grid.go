package tile

import (
	"fmt"

	"github.com/ironsheep/facade-tools-mcp/internal/imaging"
)

// Type identifies tiles assumed to be instances of the same unit.
type Type struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Grid is the top-level partition of a facade.
type Grid struct {
	// RowEdges is [0] followed by the row splits and the image height.
	RowEdges []int `json:"row_edges"`
	// ColEdges is [0] followed by the column splits and the image width.
	ColEdges []int `json:"col_edges"`
	// RowTypes[i] is the type of row band i.
	RowTypes []int `json:"row_types"`
	// ColTypes[j] is the type of column band j.
	ColTypes []int `json:"col_types"`
}

// NewGrid builds the grid for the given split sets. Splits must be strictly
// increasing and lie strictly inside the image. Bands whose extents differ by
// at most tolerance from the first band of an existing type join that type.
func NewGrid(rowSplits, colSplits []int, width, height, tolerance int) (Grid, error) {
	if width <= 0 || height <= 0 {
		return Grid{}, fmt.Errorf("%w: grid size %dx%d", imaging.ErrInvalidInput, width, height)
	}
	rowEdges, err := edges(rowSplits, height)
	if err != nil {
		return Grid{}, fmt.Errorf("row splits: %w", err)
	}
	colEdges, err := edges(colSplits, width)
	if err != nil {
		return Grid{}, fmt.Errorf("column splits: %w", err)
	}
	return Grid{
		RowEdges: rowEdges,
		ColEdges: colEdges,
		RowTypes: groupIntervals(rowEdges, tolerance),
		ColTypes: groupIntervals(colEdges, tolerance),
	}, nil
}

// Rows returns the number of row bands.
func (g Grid) Rows() int { return len(g.RowEdges) - 1 }

// Cols returns the number of column bands.
func (g Grid) Cols() int { return len(g.ColEdges) - 1 }

// Bounds returns the top-level region of the tile at (row, col).
func (g Grid) Bounds(row, col int) imaging.Region {
	return imaging.Region{
		X1: g.ColEdges[col],
		Y1: g.RowEdges[row],
		X2: g.ColEdges[col+1],
		Y2: g.RowEdges[row+1],
	}
}

func edges(splits []int, extent int) ([]int, error) {
	out := make([]int, 0, len(splits)+2)
	out = append(out, 0)
	for i, s := range splits {
		if s <= 0 || s >= extent {
			return nil, fmt.Errorf("%w: split %d outside (0, %d)", imaging.ErrInvalidInput, s, extent)
		}
		if i > 0 && s <= splits[i-1] {
			return nil, fmt.Errorf("%w: splits not strictly increasing at %d", imaging.ErrInvalidInput, s)
		}
		out = append(out, s)
	}
	return append(out, extent), nil
}

func groupIntervals(edges []int, tolerance int) []int {
	types := make([]int, len(edges)-1)
	var first []int
	for i := range types {
		ext := edges[i+1] - edges[i]
		types[i] = -1
		for t, f := range first {
			if abs(ext-f) <= tolerance {
				types[i] = t
				break
			}
		}
		if types[i] < 0 {
			types[i] = len(first)
			first = append(first, ext)
		}
	}
	return types
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
