package symmetry

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ironsheep/facade-tools-mcp/internal/imaging"
)

// Default weights for the axis-aligned gradient profiles.
const (
	// DefaultAlpha controls how strongly the cross-axis derivative suppresses
	// a pixel's contribution.
	DefaultAlpha = 0.9

	// DefaultBeta weights the opposite-axis total subtracted before smoothing.
	DefaultBeta = 0.1
)

// GradientField holds the smoothed saliency profiles of a raster.
type GradientField struct {
	// Ver is indexed by row. It is high on rows crossed by many vertical
	// edges (window jambs) and low between floors.
	Ver []float64 `json:"ver"`

	// Hor is indexed by column. It is high on columns crossed by many
	// horizontal edges and low between window columns.
	Hor []float64 `json:"hor"`
}

// GradientOptions configures ComputeGradientField.
type GradientOptions struct {
	// Sigma is the standard deviation of the Gaussian smoothing kernel in
	// pixels. Values <= 0 disable smoothing.
	Sigma float64

	// Alpha is the cross-axis suppression weight in [0, 1].
	Alpha float64

	// Beta is the weight of the opposite-axis total.
	Beta float64
}

// DefaultGradientOptions returns the standard weights with the given sigma.
func DefaultGradientOptions(sigma float64) GradientOptions {
	return GradientOptions{Sigma: sigma, Alpha: DefaultAlpha, Beta: DefaultBeta}
}

// ComputeGradientField derives the Ver and Hor profiles of a raster.
//
// # Algorithm
//
//  1. Central differences dIdx, dIdy per pixel (one-sided at the borders)
//  2. hor = max(0, dIdy²(1-α) - dIdx²α), ver = max(0, dIdx²(1-α) - dIdy²α)
//  3. Row and column totals of hor and ver
//  4. Ver(r) = Σ_rr (verRow(rr) - β horRow(rr)) · N(rr - r; 0, σ)
//     Hor(c) = Σ_cc (horCol(cc) - β verCol(cc)) · N(cc - c; 0, σ)
//
// The only failure mode is an empty raster (ErrInvalidInput).
func ComputeGradientField(g *imaging.Gray, opts GradientOptions) (*GradientField, error) {
	if g.Empty() {
		return nil, fmt.Errorf("%w: gradient field of empty raster", imaging.ErrInvalidInput)
	}

	w, h := g.Width, g.Height
	verPix := make([]float64, w*h)
	horPix := make([]float64, w*h)

	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for r := 0; r < h; r++ {
		eg.Go(func() error {
			for c := 0; c < w; c++ {
				dx := derivative(g.Pix[r*w:(r+1)*w], c, 1)
				dy := derivative(g.Pix, r*w+c, w)
				dx2, dy2 := dx*dx, dy*dy
				horPix[r*w+c] = max(0, dy2*(1-opts.Alpha)-dx2*opts.Alpha)
				verPix[r*w+c] = max(0, dx2*(1-opts.Alpha)-dy2*opts.Alpha)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	verRow := make([]float64, h)
	horRow := make([]float64, h)
	verCol := make([]float64, w)
	horCol := make([]float64, w)
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			v, hz := verPix[r*w+c], horPix[r*w+c]
			verRow[r] += v
			horRow[r] += hz
			verCol[c] += v
			horCol[c] += hz
		}
	}

	rowTerm := make([]float64, h)
	for r := range rowTerm {
		rowTerm[r] = verRow[r] - opts.Beta*horRow[r]
	}
	colTerm := make([]float64, w)
	for c := range colTerm {
		colTerm[c] = horCol[c] - opts.Beta*verCol[c]
	}

	return &GradientField{
		Ver: smooth(rowTerm, opts.Sigma),
		Hor: smooth(colTerm, opts.Sigma),
	}, nil
}

// derivative returns the central difference of line at index i with the
// given stride, falling back to a one-sided difference at either end.
// line must cover the full extent along the stride direction.
func derivative(line []float64, i, stride int) float64 {
	n := len(line)
	switch {
	case i-stride < 0 && i+stride >= n:
		return 0
	case i-stride < 0:
		return line[i+stride] - line[i]
	case i+stride >= n:
		return line[i] - line[i-stride]
	default:
		return (line[i+stride] - line[i-stride]) / 2
	}
}

// smooth convolves values with a full-width Gaussian density kernel.
func smooth(values []float64, sigma float64) []float64 {
	n := len(values)
	out := make([]float64, n)
	if sigma <= 0 {
		copy(out, values)
		return out
	}

	norm := distuv.Normal{Mu: 0, Sigma: sigma}
	kernel := make([]float64, 2*n-1)
	for d := -(n - 1); d <= n-1; d++ {
		kernel[d+n-1] = norm.Prob(float64(d))
	}
	for i := 0; i < n; i++ {
		var sum float64
		for j := 0; j < n; j++ {
			sum += values[j] * kernel[j-i+n-1]
		}
		out[i] = sum
	}
	return out
}
