package tile

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Proposal is a tile's suggested cut together with the size of the region it
// was measured in. Distances are relative to that region, not to the tile's
// top-level bounds.
type Proposal struct {
	Sub    Subdivision
	Width  int
	Height int
}

// extent returns the size of the proposal's region along the cut axis.
func (p Proposal) extent() int {
	if p.Sub.Dir.Vertical() {
		return p.Width
	}
	return p.Height
}

// position converts the cut to its offset from the leading (left or top)
// edge of the region it was measured in.
func (p Proposal) position() int {
	switch p.Sub.Dir {
	case Right, Bottom:
		return p.extent() - 1 - p.Sub.Distance
	default:
		return p.Sub.Distance
	}
}

// Ballot is the outcome of voting among the proposals of one tile type.
type Ballot struct {
	// Winner is the cut applied to the type.
	Winner Subdivision `json:"winner"`

	// ColumnPeak and RowPeak are the histogram maxima of each axis, 0 when
	// the axis received no votes.
	ColumnPeak float64 `json:"column_peak"`
	RowPeak    float64 `json:"row_peak"`
}

// Vote pools the proposals of one tile type. ok is false when there are no
// proposals.
func Vote(proposals []Proposal, sigma float64) (Ballot, bool) {
	if len(proposals) == 0 {
		return Ballot{}, false
	}

	var cols, rows []Proposal
	for _, p := range proposals {
		if p.Sub.Dir.Vertical() {
			cols = append(cols, p)
		} else {
			rows = append(rows, p)
		}
	}

	colWin, colPeak := consensus(cols, sigma)
	rowWin, rowPeak := consensus(rows, sigma)

	b := Ballot{ColumnPeak: colPeak, RowPeak: rowPeak}
	if len(cols) > 0 && (len(rows) == 0 || colPeak > rowPeak) {
		b.Winner = colWin
	} else {
		b.Winner = rowWin
	}
	return b, true
}

// consensus builds the Gaussian vote histogram over the largest region extent
// and returns the proposal nearest its peak together with the peak height.
func consensus(proposals []Proposal, sigma float64) (Subdivision, float64) {
	size := 0
	for _, p := range proposals {
		size = max(size, p.extent())
	}
	if size <= 0 {
		return Subdivision{}, 0
	}

	norm := distuv.Normal{Mu: 0, Sigma: sigma}
	hist := make([]float64, size)
	for _, p := range proposals {
		pos := p.position()
		for i := range hist {
			hist[i] += norm.Prob(float64(i - pos))
		}
	}

	peak := floats.MaxIdx(hist)

	winner := proposals[0]
	bestDist := abs(winner.position() - peak)
	for _, p := range proposals[1:] {
		if d := abs(p.position() - peak); d < bestDist {
			winner, bestDist = p, d
		}
	}
	return winner.Sub, hist[peak]
}
