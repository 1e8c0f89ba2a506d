package tile

import (
	"github.com/ironsheep/facade-tools-mcp/internal/imaging"
)

// Tile is one cell of the grid with the cuts applied to it so far.
type Tile struct {
	Row  int  `json:"row"`
	Col  int  `json:"col"`
	Type Type `json:"type"`

	// Bounds is the tile's top-level region.
	Bounds imaging.Region `json:"bounds"`

	// Subdivisions lists the applied cuts, oldest first.
	Subdivisions []Subdivision `json:"subdivisions"`
}

// Region returns the tile's region after all its subdivisions.
func (t Tile) Region() imaging.Region {
	r := t.Bounds
	for _, s := range t.Subdivisions {
		r = s.Apply(r)
	}
	return r
}

// State is an immutable snapshot of all tiles after a number of rounds.
type State struct {
	// Round is the number of rounds that produced this state.
	Round int `json:"round"`

	Grid Grid `json:"grid"`

	// Tiles are stored row-major.
	Tiles []Tile `json:"tiles"`
}

// NewState returns the round-zero state of a grid.
func NewState(g Grid) *State {
	s := &State{Grid: g, Tiles: make([]Tile, 0, g.Rows()*g.Cols())}
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			s.Tiles = append(s.Tiles, Tile{
				Row:          r,
				Col:          c,
				Type:         Type{Row: g.RowTypes[r], Col: g.ColTypes[c]},
				Bounds:       g.Bounds(r, c),
				Subdivisions: []Subdivision{},
			})
		}
	}
	return s
}

// Tile returns the tile at (row, col).
func (s *State) Tile(row, col int) Tile {
	return s.Tiles[row*s.Grid.Cols()+col]
}

// Types returns the distinct tile types in order of first appearance.
func (s *State) Types() []Type {
	seen := make(map[Type]bool)
	var out []Type
	for _, t := range s.Tiles {
		if !seen[t.Type] {
			seen[t.Type] = true
			out = append(out, t.Type)
		}
	}
	return out
}

// Subdivisions returns the cut lists of all tiles, indexed [row][col].
func (s *State) Subdivisions() [][][]Subdivision {
	out := make([][][]Subdivision, s.Grid.Rows())
	for r := range out {
		out[r] = make([][]Subdivision, s.Grid.Cols())
		for c := range out[r] {
			out[r][c] = s.Tile(r, c).Subdivisions
		}
	}
	return out
}

// next returns a copy of s for the following round with cuts appended to the
// selected tiles. Untouched tiles share their Subdivision slices with s, which
// is safe since slices are never appended in place.
func (s *State) next(cuts map[int]Subdivision) *State {
	n := &State{Round: s.Round + 1, Grid: s.Grid, Tiles: make([]Tile, len(s.Tiles))}
	copy(n.Tiles, s.Tiles)
	for i, cut := range cuts {
		subs := make([]Subdivision, len(s.Tiles[i].Subdivisions), len(s.Tiles[i].Subdivisions)+1)
		copy(subs, s.Tiles[i].Subdivisions)
		n.Tiles[i].Subdivisions = append(subs, cut)
	}
	return n
}
