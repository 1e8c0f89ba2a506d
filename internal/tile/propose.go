package tile

import (
	"math"

	"github.com/ironsheep/facade-tools-mcp/internal/imaging"
	"github.com/ironsheep/facade-tools-mcp/internal/symmetry"
)

// Default parameters of the subdivider.
const (
	DefaultSigma         = 5.0
	DefaultMinTileSize   = 4
	DefaultMarginRatio   = 0.2
	DefaultDualTolerance = 3
	DefaultVoteSigma     = 3.0
	DefaultTypeTolerance = 5
	DefaultMaxRounds     = 64
)

// Options configures proposals, voting and the round loop.
type Options struct {
	// Sigma smooths the tile-local gradient profiles.
	Sigma float64
	// Alpha and Beta are the gradient weights, see symmetry.GradientOptions.
	Alpha float64
	Beta  float64

	// MinTileSize is the smallest margin and tile extent considered.
	MinTileSize int
	// MarginRatio times the larger top-level tile extent gives the margin
	// inside which cuts are ignored.
	MarginRatio float64

	// DualTolerance is the strict bound on the distance between a cut and
	// the mirrored position of another minimum.
	DualTolerance int

	// VoteSigma is the width of a vote in the position histogram.
	VoteSigma float64

	// MaxRounds caps the round loop.
	MaxRounds int
}

// DefaultOptions returns the standard subdivider options.
func DefaultOptions() Options {
	return Options{
		Sigma:         DefaultSigma,
		Alpha:         symmetry.DefaultAlpha,
		Beta:          symmetry.DefaultBeta,
		MinTileSize:   DefaultMinTileSize,
		MarginRatio:   DefaultMarginRatio,
		DualTolerance: DefaultDualTolerance,
		VoteSigma:     DefaultVoteSigma,
		MaxRounds:     DefaultMaxRounds,
	}
}

// Margin returns the band along each tile edge in which cuts are ignored.
func (o Options) Margin(bounds imaging.Region) int {
	m := int(math.Floor(o.MarginRatio * float64(max(bounds.Dx(), bounds.Dy()))))
	return max(o.MinTileSize, m)
}

// Propose finds the cut a tile suggests for the next round. ok is false when
// the tile is too small, has no interior minima, or its closest minimum
// would not leave a non-empty tile.
func Propose(g *imaging.Gray, t Tile, opts Options) (sub Subdivision, ok bool, err error) {
	region := t.Region()
	margin := opts.Margin(t.Bounds)
	if region.Dx() < opts.MinTileSize || region.Dy() < opts.MinTileSize ||
		region.Dx() < margin || region.Dy() < margin {
		return Subdivision{}, false, nil
	}

	crop, err := g.Crop(region)
	if err != nil {
		return Subdivision{}, false, err
	}
	field, err := symmetry.ComputeGradientField(crop, symmetry.GradientOptions{
		Sigma: opts.Sigma,
		Alpha: opts.Alpha,
		Beta:  opts.Beta,
	})
	if err != nil {
		return Subdivision{}, false, err
	}

	w, h := crop.Width, crop.Height
	xs := symmetry.LocalMinima(field.Hor, 1, margin, w-margin)
	ys := symmetry.LocalMinima(field.Ver, 1, margin, h-margin)
	if len(xs) == 0 && len(ys) == 0 {
		return Subdivision{}, false, nil
	}

	// Closest edge wins; ties resolve left, right, top, bottom.
	best := Subdivision{Distance: math.MaxInt}
	consider := func(d Direction, dist int) {
		if dist < best.Distance {
			best = Subdivision{Dir: d, Distance: dist}
		}
	}
	var chosen int
	if len(xs) > 0 {
		consider(Left, xs[0])
		consider(Right, w-1-xs[len(xs)-1])
	}
	if len(ys) > 0 {
		consider(Top, ys[0])
		consider(Bottom, h-1-ys[len(ys)-1])
	}

	var line []int
	var size int
	switch best.Dir {
	case Left:
		line, size, chosen = xs, w, 0
	case Right:
		line, size, chosen = xs, w, len(xs)-1
	case Top:
		line, size, chosen = ys, h, 0
	case Bottom:
		line, size, chosen = ys, h, len(ys)-1
	}

	// The mirror of a leading-edge cut is measured from the far edge, and
	// the mirror of a far-edge cut from the leading edge.
	for i, m := range line {
		if i == chosen {
			continue
		}
		mirrored := size - 1 - m
		if best.Dir == Right || best.Dir == Bottom {
			mirrored = m
		}
		if abs(mirrored-best.Distance) < opts.DualTolerance {
			best.Dual = true
			break
		}
	}

	if !best.Fits(size) {
		return Subdivision{}, false, nil
	}
	return best, true, nil
}
