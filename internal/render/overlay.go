package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/facade-tools-mcp/internal/imaging"
	"github.com/ironsheep/facade-tools-mcp/internal/tile"
)

// DefaultLineColor is the split line color used when none is given.
const DefaultLineColor = "#FF0000C0"

// OverlayResult contains an annotated image ready to return to a client.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	RowSplits   int    `json:"row_splits"`
	ColSplits   int    `json:"col_splits"`
	Tiles       int    `json:"tiles,omitempty"`
}

// StructureOptions configures Structure.
type StructureOptions struct {
	// LineColor is a hex color, "#RRGGBB" or "#RRGGBBAA".
	LineColor string

	// Labels draws each split's coordinate next to its line.
	Labels bool
}

// Structure draws the top-level row and column splits over img.
//
// Row splits become horizontal lines at y = split, column splits vertical
// lines at x = split. Splits outside the image are skipped.
func Structure(img image.Image, rowSplits, colSplits []int, opts StructureOptions) (*image.RGBA, error) {
	result, err := canvas(img)
	if err != nil {
		return nil, err
	}

	lineColor, err := ParseHexColor(opts.LineColor)
	if err != nil {
		lineColor, _ = ParseHexColor(DefaultLineColor)
	}

	b := result.Bounds()
	for _, y := range rowSplits {
		hline(result, b.Min.X, b.Max.X, b.Min.Y+y, lineColor)
	}
	for _, x := range colSplits {
		vline(result, b.Min.X+x, b.Min.Y, b.Max.Y, lineColor)
	}

	if opts.Labels {
		fg := color.NRGBA{255, 255, 255, 255}
		bg := color.NRGBA{0, 0, 0, 180}
		for _, y := range rowSplits {
			drawLabel(result, b.Min.X+2, b.Min.Y+y+2, strconv.Itoa(y), fg, bg)
		}
		for _, x := range colSplits {
			drawLabel(result, b.Min.X+x+2, b.Min.Y+2, strconv.Itoa(x), fg, bg)
		}
	}
	return result, nil
}

// Tiles outlines every tile of a subdivision state.
//
// The top-level tile bounds are drawn in a dim gray and the region left after
// each tile's subdivisions in its type's palette color, so tiles of the same
// type share a color.
func Tiles(img image.Image, s *tile.State) (*image.RGBA, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil tile state", imaging.ErrInvalidInput)
	}
	result, err := canvas(img)
	if err != nil {
		return nil, err
	}

	types := s.Types()
	palette := Palette(len(types))
	colors := make(map[tile.Type]color.NRGBA, len(types))
	for i, t := range types {
		colors[t] = rgba(palette[i], 255)
	}

	grid := color.NRGBA{128, 128, 128, 160}
	origin := result.Bounds().Min
	for _, t := range s.Tiles {
		outline(result, t.Bounds, origin, grid)
	}
	for _, t := range s.Tiles {
		if len(t.Subdivisions) == 0 {
			continue
		}
		outline(result, t.Region(), origin, colors[t.Type])
	}
	return result, nil
}

// Palette returns n distinct, evenly spaced hues. The result depends only on n.
func Palette(n int) []colorful.Color {
	out := make([]colorful.Color, n)
	for i := range out {
		out[i] = colorful.Hsv(360*float64(i)/float64(max(n, 1)), 0.85, 0.95)
	}
	return out
}

// Encode packages an overlay as base64 PNG.
func Encode(img image.Image, rowSplits, colSplits, tiles int) (*OverlayResult, error) {
	data, err := imaging.EncodePNGBase64(img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	b := img.Bounds()
	return &OverlayResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: data,
		MimeType:    "image/png",
		RowSplits:   rowSplits,
		ColSplits:   colSplits,
		Tiles:       tiles,
	}, nil
}

// ParseHexColor parses a hex color string like "#FF0000" or "#FF000080".
// The leading '#' is optional.
func ParseHexColor(hex string) (color.NRGBA, error) {
	hex = strings.TrimPrefix(hex, "#")

	var alpha uint8 = 255
	switch len(hex) {
	case 6:
	case 8:
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in %q: %w", hex, err)
		}
		alpha = uint8(a)
		hex = hex[:6]
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length %d", len(hex))
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return rgba(c, alpha), nil
}

func rgba(c colorful.Color, alpha uint8) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}
}

func canvas(img image.Image) (*image.RGBA, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", imaging.ErrInvalidInput)
	}
	b := img.Bounds()
	result := image.NewRGBA(b)
	draw.Draw(result, b, img, b.Min, draw.Src)
	return result, nil
}

// fill composites c over the part of r inside img.
func fill(img *image.RGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(img.Rect)
	if r.Empty() {
		return
	}
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Over)
}

func hline(img *image.RGBA, x1, x2, y int, c color.NRGBA) {
	fill(img, image.Rect(x1, y, x2, y+1), c)
}

func vline(img *image.RGBA, x, y1, y2 int, c color.NRGBA) {
	fill(img, image.Rect(x, y1, x+1, y2), c)
}

// outline draws the border pixels of r, which is relative to origin.
func outline(img *image.RGBA, r imaging.Region, origin image.Point, c color.NRGBA) {
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return
	}
	x1, y1 := origin.X+r.X1, origin.Y+r.Y1
	x2, y2 := origin.X+r.X2, origin.Y+r.Y2
	hline(img, x1, x2, y1, c)
	hline(img, x1, x2, y2-1, c)
	vline(img, x1, y1, y2, c)
	vline(img, x2-1, y1, y2, c)
}

// drawLabel draws a small text label at the given position.
// Only digits are rendered; other characters leave a gap.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.NRGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
	}

	const charWidth, labelHeight = 4, 7
	labelWidth := len(text) * charWidth
	fill(img, image.Rect(x-1, y-1, x+labelWidth, y+labelHeight), bg)

	in := func(px, py int) bool {
		return image.Pt(px, py).In(img.Rect)
	}

	cx := x
	for _, ch := range text {
		for row, line := range glyphs[ch] {
			for col, pixel := range line {
				if pixel == '1' && in(cx+col, y+row) {
					img.Set(cx+col, y+row, fg)
				}
			}
		}
		cx += charWidth
	}
}
