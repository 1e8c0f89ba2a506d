package facade

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/facade-tools-mcp/internal/imaging"
	"github.com/ironsheep/facade-tools-mcp/internal/split"
	"github.com/ironsheep/facade-tools-mcp/internal/symmetry"
)

// createFacade draws a wall with a regular grid of dark windows, one per
// period x period cell.
func createFacade(cols, rows, period int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cols*period, rows*period))
	wall := color.RGBA{190, 170, 150, 255}
	glass := color.RGBA{30, 40, 60, 255}
	margin := period / 4
	for y := 0; y < rows*period; y++ {
		for x := 0; x < cols*period; x++ {
			c := wall
			if y%period >= margin && y%period < period-margin &&
				x%period >= margin && x%period < period-margin {
				c = glass
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.CandidatePolicy = split.PolicyStrongest
	return cfg
}

func TestSegment_EmptyImage(t *testing.T) {
	s, err := NewSegmenter(DefaultConfig())
	if err != nil {
		t.Fatalf("NewSegmenter failed: %v", err)
	}
	_, err = s.Segment("", image.NewRGBA(image.Rect(0, 0, 0, 0)))
	if !errors.Is(err, imaging.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSegment_Invariants(t *testing.T) {
	img := createFacade(5, 3, 30)
	s, err := NewSegmenter(testConfig())
	if err != nil {
		t.Fatalf("NewSegmenter failed: %v", err)
	}

	res, err := s.Segment("facade", img)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}

	checkSplits := func(name string, splits []int, extent int) {
		for i, v := range splits {
			if v <= 0 || v >= extent {
				t.Errorf("%s: split %d outside (0, %d)", name, v, extent)
			}
			if i > 0 && v <= splits[i-1] {
				t.Errorf("%s: not strictly increasing: %v", name, splits)
			}
		}
	}
	checkSplits("rows", res.RowSplits, res.Height)
	checkSplits("cols", res.ColSplits, res.Width)

	for _, sc := range append(res.Profiles.Vertical.Score, res.Profiles.Horizontal.Score...) {
		if sc < 0 || sc > 1 {
			t.Fatalf("score %v outside [0, 1]", sc)
		}
	}

	if res.Irreducible.Width > res.Width || res.Irreducible.Height > res.Height {
		t.Errorf("irreducible facade %dx%d larger than image %dx%d",
			res.Irreducible.Width, res.Irreducible.Height, res.Width, res.Height)
	}
	if res.Tiles.Grid.Rows() != len(res.RowSplits)+1 || res.Tiles.Grid.Cols() != len(res.ColSplits)+1 {
		t.Errorf("tile grid %dx%d does not match splits", res.Tiles.Grid.Rows(), res.Tiles.Grid.Cols())
	}
}

func TestSegment_Deterministic(t *testing.T) {
	img := createFacade(4, 3, 30)
	s, err := NewSegmenter(testConfig())
	if err != nil {
		t.Fatalf("NewSegmenter failed: %v", err)
	}

	a, err := s.Segment("", img)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	b, err := s.Segment("", img)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}

	if diff := cmp.Diff(a.RowSplits, b.RowSplits); diff != "" {
		t.Errorf("row splits differ:\n%s", diff)
	}
	if diff := cmp.Diff(a.ColSplits, b.ColSplits); diff != "" {
		t.Errorf("column splits differ:\n%s", diff)
	}
	if diff := cmp.Diff(a.Tiles.Subdivisions(), b.Tiles.Subdivisions()); diff != "" {
		t.Errorf("subdivisions differ:\n%s", diff)
	}
	if diff := cmp.Diff(a.Irreducible, b.Irreducible); diff != "" {
		t.Errorf("irreducible facades differ:\n%s", diff)
	}
}

func TestSegment_UsesCache(t *testing.T) {
	cache := symmetry.NewMemoryCache()
	s, err := NewSegmenter(testConfig(), WithCache(cache))
	if err != nil {
		t.Fatalf("NewSegmenter failed: %v", err)
	}
	img := createFacade(3, 2, 30)

	if _, err := s.Segment("", img); err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if cache.Len() != 0 {
		t.Errorf("empty id should bypass the cache, got %d entries", cache.Len())
	}

	if _, err := s.Segment("facade.png", img); err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if _, err := s.Segment("facade.png", img); err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if cache.Len() != 1 {
		t.Errorf("cache entries: got %d, want 1", cache.Len())
	}
}

func TestSegment_Observer(t *testing.T) {
	var stages []Stage
	s, err := NewSegmenter(testConfig(), WithObserver(func(e Event) {
		stages = append(stages, e.Stage)
	}))
	if err != nil {
		t.Fatalf("NewSegmenter failed: %v", err)
	}

	if _, err := s.Segment("", createFacade(3, 2, 30)); err != nil {
		t.Fatalf("Segment failed: %v", err)
	}

	if len(stages) < 7 {
		t.Fatalf("expected at least 7 events, got %v", stages)
	}
	head := []Stage{StageProfiles, StageSpacing, StageGradient, StageRowSplits, StageColSplits}
	if diff := cmp.Diff(head, stages[:5]); diff != "" {
		t.Errorf("stage order mismatch (-want +got):\n%s", diff)
	}
	if stages[len(stages)-2] != StageFold || stages[len(stages)-1] != StageDone {
		t.Errorf("expected fold then done at the end, got %v", stages)
	}
}

func TestNewSegmenter_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.VerticalRange = symmetry.Range{Min: 20, Max: 10}
	_, err := NewSegmenter(cfg)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero min gap", func(c *Config) { c.MinGap = 0 }},
		{"negative sigma", func(c *Config) { c.Sigma = -1 }},
		{"alpha above one", func(c *Config) { c.Alpha = 1.5 }},
		{"zero k", func(c *Config) { c.K = 0 }},
		{"unknown policy", func(c *Config) { c.CandidatePolicy = "beam" }},
		{"too many candidates", func(c *Config) { c.MaxCandidates = 100 }},
		{"zero rounds", func(c *Config) { c.MaxRounds = 0 }},
		{"margin ratio too large", func(c *Config) { c.TileMarginRatio = 0.5 }},
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "facade.yaml")
	yamlText := `
vertical_range:
  min: 15
  max: 60
sigma: 2.5
candidate_policy: strongest
use_edge_map: false
`
	if err := os.WriteFile(path, []byte(yamlText), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	want := DefaultConfig()
	want.VerticalRange = symmetry.Range{Min: 15, Max: 60}
	want.Sigma = 2.5
	want.CandidatePolicy = split.PolicyStrongest
	want.UseEdgeMap = false
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	badYAML := filepath.Join(dir, "bad.yaml")
	os.WriteFile(badYAML, []byte("vertical_range: [1, 2"), 0o644)
	if _, err := LoadConfig(badYAML); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("malformed YAML: expected ErrInvalidConfig, got %v", err)
	}

	badValue := filepath.Join(dir, "value.yaml")
	os.WriteFile(badValue, []byte("max_rounds: -3\n"), 0o644)
	if _, err := LoadConfig(badValue); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("invalid value: expected ErrInvalidConfig, got %v", err)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestConfig_GradientSigma(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.GradientSigma(30); got != 3 {
		t.Errorf("derived sigma: got %v, want 3", got)
	}
	cfg.Sigma = 7
	if got := cfg.GradientSigma(30); got != 7 {
		t.Errorf("explicit sigma: got %v, want 7", got)
	}
}

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := LogObserver(log.New(&buf, "", 0))

	obs(Event{Stage: StageSpacing, Message: "floor height 30"})
	obs(Event{Stage: StageTileRound, Round: 2, Message: "1 types voted"})

	out := buf.String()
	if !strings.Contains(out, "[spacing] floor height 30") {
		t.Errorf("missing spacing line in %q", out)
	}
	if !strings.Contains(out, "[tile_round 2] 1 types voted") {
		t.Errorf("missing round line in %q", out)
	}
}
