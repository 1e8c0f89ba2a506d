package facade

import (
	"fmt"
	"image"

	"github.com/ironsheep/facade-tools-mcp/internal/fold"
	"github.com/ironsheep/facade-tools-mcp/internal/imaging"
	"github.com/ironsheep/facade-tools-mcp/internal/split"
	"github.com/ironsheep/facade-tools-mcp/internal/symmetry"
	"github.com/ironsheep/facade-tools-mcp/internal/tile"
)

// Result is everything the pipeline derives from one image.
type Result struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// RowSplits and ColSplits are the top-level SplitLineSets.
	RowSplits []int `json:"row_splits"`
	ColSplits []int `json:"col_splits"`

	FloorHeight int     `json:"floor_height"`
	TileWidth   int     `json:"tile_width"`
	Sigma       float64 `json:"sigma"`

	Rows split.Selection `json:"rows"`
	Cols split.Selection `json:"cols"`

	Profiles symmetry.Profiles       `json:"profiles"`
	Gradient *symmetry.GradientField `json:"gradient"`
	Tiles    *tile.State             `json:"tiles"`

	// Irreducible is the folded facade buffer.
	Irreducible *fold.Buffer `json:"-"`
}

// Segmenter runs the pipeline with a fixed configuration.
type Segmenter struct {
	config   Config
	cache    symmetry.Cache
	observer Observer
}

// Option customizes a Segmenter.
type Option func(*Segmenter)

// WithCache injects a profile cache.
func WithCache(c symmetry.Cache) Option {
	return func(s *Segmenter) { s.cache = c }
}

// WithObserver installs a progress observer.
func WithObserver(o Observer) Option {
	return func(s *Segmenter) { s.observer = o }
}

// NewSegmenter validates cfg and returns a Segmenter.
func NewSegmenter(cfg Config, opts ...Option) (*Segmenter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Segmenter{config: cfg}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Config returns the segmenter's configuration.
func (s *Segmenter) Config() Config {
	return s.config
}

func (s *Segmenter) emit(e Event) {
	if s.observer != nil {
		s.observer(e)
	}
}

// ScanRaster returns the raster symmetry profiles are computed on.
func (s *Segmenter) ScanRaster(img image.Image) (*imaging.Gray, error) {
	if s.config.UseEdgeMap {
		return imaging.EdgeMap(img)
	}
	return imaging.ToGray(img)
}

// Profiles computes (or fetches from the cache) both symmetry profiles of a
// scan raster. id identifies the image for caching and may be empty.
func (s *Segmenter) Profiles(id string, scan *imaging.Gray) (symmetry.Profiles, error) {
	key := id
	if key != "" && s.config.UseEdgeMap {
		key += "#edges"
	}
	return s.config.Analyzer(s.cache).Profiles(key, scan)
}

// Segment runs the pipeline on img. id identifies the image for the profile
// cache and may be empty to bypass it.
func (s *Segmenter) Segment(id string, img image.Image) (*Result, error) {
	lum, err := imaging.ToGray(img)
	if err != nil {
		return nil, err
	}
	scan := lum
	if s.config.UseEdgeMap {
		if scan, err = s.ScanRaster(img); err != nil {
			return nil, err
		}
	}

	res := &Result{Width: lum.Width, Height: lum.Height}

	res.Profiles, err = s.Profiles(id, scan)
	if err != nil {
		return nil, fmt.Errorf("symmetry profiles: %w", err)
	}
	s.emit(Event{Stage: StageProfiles, Message: fmt.Sprintf("scanned %d rows and %d columns", lum.Height, lum.Width), Artifact: res.Profiles})

	res.FloorHeight = symmetry.EstimateSpacing(res.Profiles.Vertical.Offset, s.config.SpacingTolerance)
	res.TileWidth = symmetry.EstimateSpacing(res.Profiles.Horizontal.Offset, s.config.SpacingTolerance)
	s.emit(Event{Stage: StageSpacing, Message: fmt.Sprintf("floor height %d, tile width %d", res.FloorHeight, res.TileWidth)})

	res.Sigma = s.config.GradientSigma(res.FloorHeight)
	res.Gradient, err = symmetry.ComputeGradientField(lum, s.config.GradientOptions(res.Sigma))
	if err != nil {
		return nil, fmt.Errorf("gradient field: %w", err)
	}
	s.emit(Event{Stage: StageGradient, Message: fmt.Sprintf("sigma %.2f", res.Sigma), Artifact: res.Gradient})

	res.Rows, err = split.Select(res.Gradient.Ver, res.Profiles.Vertical, s.config.SplitOptions(res.FloorHeight))
	if err != nil {
		return nil, fmt.Errorf("row splits: %w", err)
	}
	res.RowSplits = res.Rows.Splits
	s.emit(Event{Stage: StageRowSplits, Message: fmt.Sprintf("%d of %d candidates, %d assignments", len(res.Rows.Splits), len(res.Rows.Candidates), res.Rows.Evaluated), Artifact: res.Rows})

	res.Cols, err = split.Select(res.Gradient.Hor, res.Profiles.Horizontal, s.config.SplitOptions(res.TileWidth))
	if err != nil {
		return nil, fmt.Errorf("column splits: %w", err)
	}
	res.ColSplits = res.Cols.Splits
	s.emit(Event{Stage: StageColSplits, Message: fmt.Sprintf("%d of %d candidates, %d assignments", len(res.Cols.Splits), len(res.Cols.Candidates), res.Cols.Evaluated), Artifact: res.Cols})

	grid, err := tile.NewGrid(res.RowSplits, res.ColSplits, lum.Width, lum.Height, s.config.OffsetTolerance)
	if err != nil {
		return nil, fmt.Errorf("tile grid: %w", err)
	}
	res.Tiles, err = tile.Run(lum, grid, s.config.TileOptions(), func(r *tile.RoundResult) {
		s.emit(Event{Stage: StageTileRound, Round: r.State.Round, Message: fmt.Sprintf("%d types voted, %d tiles cut", len(r.Ballots), r.Applied), Artifact: r.State})
	})
	if err != nil {
		return nil, fmt.Errorf("tile subdivision: %w", err)
	}

	res.Irreducible, err = Irreducible(img, res)
	if err != nil {
		return nil, err
	}
	s.emit(Event{Stage: StageFold, Message: fmt.Sprintf("irreducible facade %dx%d", res.Irreducible.Width, res.Irreducible.Height), Artifact: res.Irreducible})

	s.emit(Event{Stage: StageDone, Message: fmt.Sprintf("%d row splits, %d column splits, %d tile rounds", len(res.RowSplits), len(res.ColSplits), res.Tiles.Round)})
	return res, nil
}

// Irreducible folds img along the splits of a result.
func Irreducible(img image.Image, res *Result) (*fold.Buffer, error) {
	buf, err := fold.NewBuffer(img)
	if err != nil {
		return nil, err
	}
	if err := buf.Fold(res.RowSplits, res.Profiles.Vertical.Offset, res.ColSplits, res.Profiles.Horizontal.Offset); err != nil {
		return nil, fmt.Errorf("irreducible facade: %w", err)
	}
	return buf, nil
}
