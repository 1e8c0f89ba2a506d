package facade

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/facade-tools-mcp/internal/split"
	"github.com/ironsheep/facade-tools-mcp/internal/symmetry"
	"github.com/ironsheep/facade-tools-mcp/internal/tile"
)

// ErrInvalidConfig is returned (wrapped) when a Config fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every tunable of the pipeline.
type Config struct {
	// VerticalRange bounds the floor-height offsets scanned per row.
	VerticalRange symmetry.Range `yaml:"vertical_range" json:"vertical_range"`
	// HorizontalRange bounds the tile-width offsets scanned per column.
	HorizontalRange symmetry.Range `yaml:"horizontal_range" json:"horizontal_range"`

	// Sigma smooths the top-level gradient field. 0 derives it from the
	// floor height and SigmaRatio.
	Sigma      float64 `yaml:"sigma" json:"sigma"`
	SigmaRatio float64 `yaml:"sigma_ratio" json:"sigma_ratio"`

	// TileSigma smooths the tile-local gradient fields.
	TileSigma       float64 `yaml:"tile_sigma" json:"tile_sigma"`
	MinTileSize     int     `yaml:"min_tile_size" json:"min_tile_size"`
	TileMarginRatio float64 `yaml:"tile_margin_ratio" json:"tile_margin_ratio"`

	MinGap           int     `yaml:"min_gap" json:"min_gap"`
	MaxSpacingFactor float64 `yaml:"max_spacing_factor" json:"max_spacing_factor"`
	OffsetTolerance  int     `yaml:"offset_tolerance" json:"offset_tolerance"`
	SpacingTolerance int     `yaml:"spacing_tolerance" json:"spacing_tolerance"`
	DualTolerance    int     `yaml:"dual_tolerance" json:"dual_tolerance"`
	VoteSigma        float64 `yaml:"vote_sigma" json:"vote_sigma"`

	Alpha float64 `yaml:"alpha" json:"alpha"`
	Beta  float64 `yaml:"beta" json:"beta"`
	K     float64 `yaml:"k" json:"k"`

	MaxCandidates   int          `yaml:"max_candidates" json:"max_candidates"`
	CandidatePolicy split.Policy `yaml:"candidate_policy" json:"candidate_policy"`
	MaxRounds       int          `yaml:"max_rounds" json:"max_rounds"`

	// UseEdgeMap runs the symmetry scan on a Sobel edge map instead of
	// plain luminance.
	UseEdgeMap bool `yaml:"use_edge_map" json:"use_edge_map"`
}

// DefaultConfig returns the standard pipeline constants.
func DefaultConfig() Config {
	return Config{
		VerticalRange:    symmetry.DefaultRange,
		HorizontalRange:  symmetry.DefaultRange,
		SigmaRatio:       0.1,
		TileSigma:        tile.DefaultSigma,
		MinTileSize:      tile.DefaultMinTileSize,
		TileMarginRatio:  tile.DefaultMarginRatio,
		MinGap:           split.DefaultMinGap,
		MaxSpacingFactor: split.DefaultMaxSpacingFactor,
		OffsetTolerance:  split.DefaultOffsetTolerance,
		SpacingTolerance: symmetry.DefaultSpacingTolerance,
		DualTolerance:    tile.DefaultDualTolerance,
		VoteSigma:        tile.DefaultVoteSigma,
		Alpha:            symmetry.DefaultAlpha,
		Beta:             symmetry.DefaultBeta,
		K:                symmetry.DefaultK,
		MaxCandidates:    split.DefaultMaxCandidates,
		CandidatePolicy:  split.PolicyStrict,
		MaxRounds:        tile.DefaultMaxRounds,
		UseEdgeMap:       true,
	}
}

// LoadConfig reads a YAML file over DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration can drive the pipeline.
func (c Config) Validate() error {
	var problems []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Errorf(format, args...))
		}
	}

	check(c.VerticalRange.Validate() == nil, "vertical_range [%d, %d] must satisfy 1 <= min <= max",
		c.VerticalRange.Min, c.VerticalRange.Max)
	check(c.HorizontalRange.Validate() == nil, "horizontal_range [%d, %d] must satisfy 1 <= min <= max",
		c.HorizontalRange.Min, c.HorizontalRange.Max)
	check(c.Sigma >= 0, "sigma must be >= 0")
	check(c.SigmaRatio >= 0, "sigma_ratio must be >= 0")
	check(c.TileSigma >= 0, "tile_sigma must be >= 0")
	check(c.MinTileSize >= 1, "min_tile_size must be >= 1")
	check(c.TileMarginRatio >= 0 && c.TileMarginRatio < 0.5, "tile_margin_ratio must be in [0, 0.5)")
	check(c.MinGap >= 1, "min_gap must be >= 1")
	check(c.MaxSpacingFactor > 0, "max_spacing_factor must be > 0")
	check(c.OffsetTolerance >= 0, "offset_tolerance must be >= 0")
	check(c.SpacingTolerance >= 0, "spacing_tolerance must be >= 0")
	check(c.DualTolerance >= 0, "dual_tolerance must be >= 0")
	check(c.VoteSigma > 0, "vote_sigma must be > 0")
	check(c.Alpha >= 0 && c.Alpha <= 1, "alpha must be in [0, 1]")
	check(c.K > 0, "k must be > 0")
	check(c.MaxCandidates >= 1 && c.MaxCandidates <= split.MaxBitmaskCandidates,
		"max_candidates must be in [1, %d]", split.MaxBitmaskCandidates)
	check(c.CandidatePolicy == split.PolicyStrict || c.CandidatePolicy == split.PolicyStrongest,
		"candidate_policy must be %q or %q", split.PolicyStrict, split.PolicyStrongest)
	check(c.MaxRounds >= 1, "max_rounds must be >= 1")

	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(problems...))
	}
	return nil
}

// SplitOptions returns the split search options for a spacing estimate.
func (c Config) SplitOptions(spacing int) split.Options {
	return split.Options{
		Spacing:          spacing,
		Radius:           split.DefaultRadius,
		MinGap:           c.MinGap,
		MaxSpacingFactor: c.MaxSpacingFactor,
		OffsetTolerance:  c.OffsetTolerance,
		MaxCandidates:    c.MaxCandidates,
		Policy:           c.CandidatePolicy,
	}
}

// TileOptions returns the subdivider options.
func (c Config) TileOptions() tile.Options {
	return tile.Options{
		Sigma:         c.TileSigma,
		Alpha:         c.Alpha,
		Beta:          c.Beta,
		MinTileSize:   c.MinTileSize,
		MarginRatio:   c.TileMarginRatio,
		DualTolerance: c.DualTolerance,
		VoteSigma:     c.VoteSigma,
		MaxRounds:     c.MaxRounds,
	}
}

// GradientOptions returns the gradient weights with the given sigma.
func (c Config) GradientOptions(sigma float64) symmetry.GradientOptions {
	return symmetry.GradientOptions{Sigma: sigma, Alpha: c.Alpha, Beta: c.Beta}
}

// GradientSigma returns the top-level smoothing for a floor height.
func (c Config) GradientSigma(floorHeight int) float64 {
	if c.Sigma > 0 {
		return c.Sigma
	}
	return float64(floorHeight) * c.SigmaRatio
}

// Analyzer returns a symmetry analyzer for this configuration.
func (c Config) Analyzer(cache symmetry.Cache) *symmetry.Analyzer {
	return &symmetry.Analyzer{
		VRange: c.VerticalRange,
		HRange: c.HorizontalRange,
		K:      c.K,
		Cache:  cache,
	}
}
