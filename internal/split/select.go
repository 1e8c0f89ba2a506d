package split

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ironsheep/facade-tools-mcp/internal/symmetry"
)

// ErrSearchSpaceTooLarge is returned when the candidate count exceeds the
// configured maximum under PolicyStrict.
var ErrSearchSpaceTooLarge = errors.New("split search space too large")

// Policy decides what happens when there are more candidates than
// Options.MaxCandidates.
type Policy string

const (
	// PolicyStrict fails with ErrSearchSpaceTooLarge.
	PolicyStrict Policy = "strict"
	// PolicyStrongest keeps the candidates with the highest S_max.
	PolicyStrongest Policy = "strongest"
)

// Default constants of the split search.
const (
	DefaultRadius           = 3
	DefaultMinGap           = 10
	DefaultMaxSpacingFactor = 3.0
	DefaultOffsetTolerance  = 5
	DefaultMaxCandidates    = 20
)

// Options configures Select.
type Options struct {
	// Spacing is the expected repeat distance (floor height or tile width).
	Spacing int

	// Radius is the half-width of the strict local minimum window.
	Radius int

	// MinGap is the smallest allowed distance between consecutive splits.
	MinGap int

	// MaxSpacingFactor times Spacing is the largest allowed distance between
	// consecutive splits.
	MaxSpacingFactor float64

	// OffsetTolerance is the slack allowed when matching a split distance
	// against a mirror offset.
	OffsetTolerance int

	// MaxCandidates caps the exhaustive search.
	MaxCandidates int

	// Policy applies when the cap is exceeded.
	Policy Policy
}

// DefaultOptions returns the standard options for a spacing estimate.
func DefaultOptions(spacing int) Options {
	return Options{
		Spacing:          spacing,
		Radius:           DefaultRadius,
		MinGap:           DefaultMinGap,
		MaxSpacingFactor: DefaultMaxSpacingFactor,
		OffsetTolerance:  DefaultOffsetTolerance,
		MaxCandidates:    DefaultMaxCandidates,
		Policy:           PolicyStrict,
	}
}

// Selection is the outcome of a split search.
type Selection struct {
	// Splits is the chosen SplitLineSet, strictly increasing.
	Splits []int `json:"splits"`

	// Candidates are the positions that were searched.
	Candidates []int `json:"candidates"`

	// Score is the normalized score of the chosen assignment.
	Score float64 `json:"score"`

	// Evaluated is the number of assignments visited.
	Evaluated int `json:"evaluated"`
}

// Candidates returns the strict local minima of a gradient profile.
func Candidates(profile []float64, radius int) []int {
	return symmetry.LocalMinima(profile, radius, 0, len(profile))
}

// Select finds the best split set for a gradient profile and the symmetry
// profile of the same axis.
func Select(profile []float64, sym symmetry.Profile, opts Options) (Selection, error) {
	if len(profile) != sym.Len() {
		return Selection{}, fmt.Errorf("gradient profile has %d entries, symmetry profile %d",
			len(profile), sym.Len())
	}

	cands := Candidates(profile, opts.Radius)
	if opts.MaxCandidates > 0 && len(cands) > opts.MaxCandidates {
		switch opts.Policy {
		case PolicyStrongest:
			cands = strongest(cands, sym, opts.MaxCandidates)
		default:
			return Selection{}, fmt.Errorf("%w: %d candidates, limit %d",
				ErrSearchSpaceTooLarge, len(cands), opts.MaxCandidates)
		}
	}
	if len(cands) > MaxBitmaskCandidates {
		return Selection{}, fmt.Errorf("%w: %d candidates, limit %d",
			ErrSearchSpaceTooLarge, len(cands), MaxBitmaskCandidates)
	}

	return Search(cands, sym, opts, NewBitmaskIterator(len(cands))), nil
}

// Search scores every assignment produced by it and returns the best one.
// The first assignment reaching the maximum wins ties.
func Search(cands []int, sym symmetry.Profile, opts Options, it Iterator) Selection {
	sel := Selection{
		Splits:     []int{},
		Candidates: cands,
		Score:      math.Inf(-1),
	}

	var best []bool
	for it.Next() {
		assignment := it.Assignment()
		sel.Evaluated++

		score, ok := Score(cands, assignment, sym, opts)
		if !ok {
			continue
		}
		if score > sel.Score {
			sel.Score = score
			best = append(best[:0], assignment...)
		}
	}

	for i, inc := range best {
		if inc {
			sel.Splits = append(sel.Splits, cands[i])
		}
	}
	if best == nil {
		sel.Score = 0
	}
	return sel
}

// Score evaluates one assignment. ok is false when the assignment violates
// the spacing constraints.
func Score(cands []int, include []bool, sym symmetry.Profile, opts Options) (score float64, ok bool) {
	maxGap := opts.MaxSpacingFactor * float64(opts.Spacing)
	prev, count := -1, 0

	for i, c := range cands {
		if !include[i] {
			score -= 0.5 * sym.Score[c]
			continue
		}
		count++

		if prev >= 0 {
			delta := c - prev
			if delta < opts.MinGap || float64(delta) > maxGap {
				return 0, false
			}
			if abs(delta-sym.Offset[prev]) < opts.OffsetTolerance ||
				abs(delta-sym.Offset[c]) < opts.OffsetTolerance {
				score += sym.Score[c]
			}
		}
		prev = c
	}

	return score / float64(max(1, count)), true
}

// strongest keeps the n candidates with the highest S_max, in position order.
func strongest(cands []int, sym symmetry.Profile, n int) []int {
	ranked := append([]int(nil), cands...)
	sort.SliceStable(ranked, func(a, b int) bool {
		return sym.Score[ranked[a]] > sym.Score[ranked[b]]
	})
	ranked = ranked[:n]
	sort.Ints(ranked)
	return ranked
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
