package symmetry

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/facade-tools-mcp/internal/imaging"
)

// DefaultK is the similarity decay constant.
const DefaultK = 0.001

// Range is an inclusive range of mirror offsets in pixels.
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// DefaultRange is the offset range used when none is configured.
var DefaultRange = Range{Min: 10, Max: 40}

// Validate reports whether the range can be scanned.
func (r Range) Validate() error {
	if r.Min < 1 || r.Max < r.Min {
		return fmt.Errorf("%w: offset range [%d, %d]", imaging.ErrInvalidInput, r.Min, r.Max)
	}
	return nil
}

// Profile is the result of a symmetry scan along one axis.
//
// Score[i] is the best similarity found at line i and Offset[i] the offset
// that produced it. Lines for which no offset in range fits inside the image
// keep Score 0 and Offset 0.
type Profile struct {
	Score  []float64 `json:"score"`
	Offset []int     `json:"offset"`
}

// Len returns the number of lines in the profile.
func (p Profile) Len() int {
	return len(p.Score)
}

// Profiles bundles the vertical (per-row) and horizontal (per-column) scans
// of one raster.
type Profiles struct {
	Vertical   Profile `json:"vertical"`
	Horizontal Profile `json:"horizontal"`
}

// Similarity maps a mean squared difference to a score in (0, 1].
func Similarity(msd, k float64) float64 {
	return math.Exp(-k * msd)
}

// RegionSimilarity compares two equally sized regions of a raster.
func RegionSimilarity(g *imaging.Gray, r1, r2 imaging.Region, k float64) (float64, error) {
	msd, err := imaging.MeanSquaredDifference(g, r1, r2)
	if err != nil {
		return 0, err
	}
	return Similarity(msd, k), nil
}

// VerticalProfile scans every row of g for the offset h in hr that makes the
// band of h rows above the row most similar to the band of h rows starting at
// the row. An offset is considered at row r only when r-h >= 0 and
// r+h <= g.Height. Ties go to the smallest offset.
func VerticalProfile(g *imaging.Gray, hr Range, k float64) (Profile, error) {
	if g.Empty() {
		return Profile{}, fmt.Errorf("%w: vertical profile of empty raster", imaging.ErrInvalidInput)
	}
	w := g.Width
	lineDiff := func(a, b int) float64 {
		ra := g.Pix[a*w : (a+1)*w]
		rb := g.Pix[b*w : (b+1)*w]
		var sum float64
		for i := range ra {
			d := ra[i] - rb[i]
			sum += d * d
		}
		return sum
	}
	return scan(g.Height, w, lineDiff, hr, k)
}

// HorizontalProfile is VerticalProfile along columns: left and right bands of
// w columns around each column are compared.
func HorizontalProfile(g *imaging.Gray, wr Range, k float64) (Profile, error) {
	if g.Empty() {
		return Profile{}, fmt.Errorf("%w: horizontal profile of empty raster", imaging.ErrInvalidInput)
	}
	w, h := g.Width, g.Height
	lineDiff := func(a, b int) float64 {
		var sum float64
		for y := 0; y < h; y++ {
			d := g.Pix[y*w+a] - g.Pix[y*w+b]
			sum += d * d
		}
		return sum
	}
	return scan(w, h, lineDiff, wr, k)
}

// scan computes a profile over n lines of lineLen pixels each.
//
// For a fixed offset h the mean squared difference between the bands
// [r-h, r) and [r, r+h) is the sum of lineDiff(y, y-h) for y in [r, r+h)
// divided by h*lineLen, so a prefix sum over y makes every row O(1).
func scan(n, lineLen int, lineDiff func(a, b int) float64, rng Range, k float64) (Profile, error) {
	if err := rng.Validate(); err != nil {
		return Profile{}, err
	}

	offsets := rng.Max - rng.Min + 1
	scores := make([][]float64, offsets)

	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < offsets; i++ {
		h := rng.Min + i
		eg.Go(func() error {
			scores[i] = scanOffset(n, lineLen, h, lineDiff, k)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Profile{}, err
	}

	p := Profile{
		Score:  make([]float64, n),
		Offset: make([]int, n),
	}
	for i, s := range scores {
		if s == nil {
			continue
		}
		h := rng.Min + i
		for r, v := range s {
			if v > p.Score[r] {
				p.Score[r] = v
				p.Offset[r] = h
			}
		}
	}
	return p, nil
}

// scanOffset returns the similarity of every row for one offset, 0 where the
// offset does not fit. It returns nil if the offset fits nowhere.
func scanOffset(n, lineLen, h int, lineDiff func(a, b int) float64, k float64) []float64 {
	if 2*h > n {
		return nil
	}

	cum := make([]float64, n+1)
	for y := 0; y < n; y++ {
		var d float64
		if y >= h {
			d = lineDiff(y, y-h)
		}
		cum[y+1] = cum[y] + d
	}

	out := make([]float64, n)
	area := float64(h * lineLen)
	for r := h; r+h <= n; r++ {
		msd := (cum[r+h] - cum[r]) / area
		out[r] = Similarity(msd, k)
	}
	return out
}
