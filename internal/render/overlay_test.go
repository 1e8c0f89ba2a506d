package render

import (
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/facade-tools-mcp/internal/imaging"
	"github.com/ironsheep/facade-tools-mcp/internal/tile"
)

func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

var (
	black = color.RGBA{0, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
	green = color.RGBA{0, 255, 0, 255}
)

func TestStructure(t *testing.T) {
	img := createInMemoryImage(60, 40, black)

	result, err := Structure(img, []int{20}, []int{30}, StructureOptions{LineColor: "#00FF00"})
	if err != nil {
		t.Fatalf("Structure failed: %v", err)
	}

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"row split", 10, 20, green},
		{"column split", 30, 5, green},
		{"crossing", 30, 20, green},
		{"background", 5, 5, black},
		{"next to row split", 10, 21, black},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := result.RGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d,%d): got %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}

	// Source must be untouched.
	if got := img.RGBAAt(10, 20); got != black {
		t.Errorf("source modified: got %v", got)
	}
}

func TestStructure_InvalidColorFallsBack(t *testing.T) {
	img := createInMemoryImage(60, 40, black)

	result, err := Structure(img, []int{20}, nil, StructureOptions{LineColor: "nope"})
	if err != nil {
		t.Fatalf("Structure failed: %v", err)
	}

	got := result.RGBAAt(10, 20)
	if got.R < 150 || got.G != 0 || got.B != 0 {
		t.Errorf("fallback line color: got %v, want translucent red over black", got)
	}
}

func TestStructure_Labels(t *testing.T) {
	img := createInMemoryImage(60, 40, black)

	result, err := Structure(img, []int{20}, []int{30}, StructureOptions{LineColor: "#00FF00", Labels: true})
	if err != nil {
		t.Fatalf("Structure failed: %v", err)
	}

	// Top row of the '2' in "20" and of the '3' in "30".
	for _, p := range []image.Point{{2, 22}, {4, 22}, {32, 2}, {34, 2}} {
		if got := result.RGBAAt(p.X, p.Y); got != white {
			t.Errorf("label pixel %v: got %v, want white", p, got)
		}
	}
}

func TestStructure_SplitsOutsideImage(t *testing.T) {
	img := createInMemoryImage(20, 20, black)

	result, err := Structure(img, []int{-5, 100}, []int{20, 500}, StructureOptions{Labels: true})
	if err != nil {
		t.Fatalf("Structure failed: %v", err)
	}
	if got := result.RGBAAt(10, 10); got != black {
		t.Errorf("pixel (10,10): got %v, want black", got)
	}
}

func TestStructure_Empty(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 0, 0))

	_, err := Structure(img, nil, nil, StructureOptions{})
	if !errors.Is(err, imaging.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTiles(t *testing.T) {
	img := createInMemoryImage(60, 40, black)

	grid, err := tile.NewGrid([]int{20}, []int{30}, 60, 40, tile.DefaultTypeTolerance)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}
	s := tile.NewState(grid)
	s.Tiles[0].Subdivisions = []tile.Subdivision{{Dir: tile.Top, Distance: 5}}

	result, err := Tiles(img, s)
	if err != nil {
		t.Fatalf("Tiles failed: %v", err)
	}

	// Region left after the cut starts at y=5 and is drawn in the first
	// palette color, a saturated red.
	cut := result.RGBAAt(10, 5)
	if cut.R < 200 || cut.G > 60 || cut.B > 60 {
		t.Errorf("subdivision outline at (10,5): got %v, want palette red", cut)
	}

	// Top-level bounds are dim gray.
	edge := result.RGBAAt(10, 0)
	if edge.R == 0 || edge.R != edge.G || edge.G != edge.B {
		t.Errorf("tile outline at (10,0): got %v, want gray", edge)
	}

	// Tile (1,1) has no cuts; its interior is untouched.
	if got := result.RGBAAt(45, 30); got != black {
		t.Errorf("interior pixel (45,30): got %v, want black", got)
	}
}

func TestTiles_NilState(t *testing.T) {
	img := createInMemoryImage(10, 10, black)

	_, err := Tiles(img, nil)
	if !errors.Is(err, imaging.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPalette(t *testing.T) {
	if got := Palette(0); len(got) != 0 {
		t.Errorf("Palette(0): got %d colors, want 0", len(got))
	}

	hexes := func(n int) []string {
		var out []string
		for _, c := range Palette(n) {
			out = append(out, c.Hex())
		}
		return out
	}

	first := hexes(6)
	if diff := cmp.Diff(first, hexes(6)); diff != "" {
		t.Errorf("Palette not deterministic (-first +second):\n%s", diff)
	}

	seen := make(map[string]bool)
	for _, h := range first {
		if seen[h] {
			t.Errorf("duplicate palette color %s in %v", h, first)
		}
		seen[h] = true
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		input   string
		want    color.NRGBA
		wantErr bool
	}{
		{"#FF0000", color.NRGBA{255, 0, 0, 255}, false},
		{"00ff00", color.NRGBA{0, 255, 0, 255}, false},
		{"#0000FF80", color.NRGBA{0, 0, 255, 128}, false},
		{"#123456", color.NRGBA{0x12, 0x34, 0x56, 255}, false},
		{"", color.NRGBA{}, true},
		{"#FFF", color.NRGBA{}, true},
		{"#GGGGGG", color.NRGBA{}, true},
		{"#FF0000ZZ", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseHexColor(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHexColor(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseHexColor(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	img := createInMemoryImage(30, 20, black)

	result, err := Encode(img, 2, 3, 12)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := OverlayResult{Width: 30, Height: 20, MimeType: "image/png", RowSplits: 2, ColSplits: 3, Tiles: 12}
	got := *result
	got.ImageBase64 = ""
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Encode mismatch (-want +got):\n%s", diff)
	}

	data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	decoded, err := png.Decode(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	if decoded.Bounds().Dx() != 30 || decoded.Bounds().Dy() != 20 {
		t.Errorf("decoded size: got %v, want 30x20", decoded.Bounds())
	}
}
