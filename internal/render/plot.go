package render

import (
	"bytes"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/ironsheep/facade-tools-mcp/internal/imaging"
	"github.com/ironsheep/facade-tools-mcp/internal/symmetry"
)

// Default plot size.
const (
	DefaultPlotWidth  = 8 * vg.Inch
	DefaultPlotHeight = 4 * vg.Inch
)

// Series is one named curve of a profile plot.
type Series struct {
	Name   string
	Values []float64
}

// Normalize rescales values linearly onto [0, 1].
// A constant input maps to all zeros; an empty input to nil.
func Normalize(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	lo, hi := floats.Min(values), floats.Max(values)
	out := make([]float64, len(values))
	if hi == lo {
		return out
	}
	for i, v := range values {
		out[i] = (v - lo) / (hi - lo)
	}
	return out
}

// ProfilePlot plots each series normalized to [0, 1] against its index and
// draws a vertical marker at every split.
func ProfilePlot(title, axis string, splits []int, series ...Series) (*plot.Plot, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: no series to plot", imaging.ErrInvalidInput)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = axis
	p.Y.Label.Text = "normalized"
	p.Y.Min, p.Y.Max = 0, 1

	for i, s := range series {
		if len(s.Values) == 0 {
			return nil, fmt.Errorf("%w: series %q is empty", imaging.ErrInvalidInput, s.Name)
		}
		norm := Normalize(s.Values)
		pts := make(plotter.XYs, len(norm))
		for x, y := range norm {
			pts[x].X = float64(x)
			pts[x].Y = y
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Name, err)
		}
		l.Color = plotutil.Color(i)
		p.Add(l)
		p.Legend.Add(s.Name, l)
	}

	for _, at := range splits {
		m, err := plotter.NewLine(plotter.XYs{{X: float64(at), Y: 0}, {X: float64(at), Y: 1}})
		if err != nil {
			return nil, err
		}
		m.Color = plotutil.Color(len(series))
		m.Dashes = plotutil.Dashes(1)
		p.Add(m)
	}
	return p, nil
}

// SymmetryPlot plots the best similarity and best offset of a profile.
func SymmetryPlot(title, axis string, prof symmetry.Profile, splits []int) (*plot.Plot, error) {
	offsets := make([]float64, len(prof.Offset))
	for i, o := range prof.Offset {
		offsets[i] = float64(o)
	}
	return ProfilePlot(title, axis, splits,
		Series{Name: "S_max", Values: prof.Score},
		Series{Name: "h_max", Values: offsets},
	)
}

// GradientPlot plots the Ver and Hor profiles of a gradient field on separate
// axes: Ver against row, Hor against column.
func GradientPlot(gf *symmetry.GradientField, rowSplits, colSplits []int) (ver, hor *plot.Plot, err error) {
	if gf == nil {
		return nil, nil, fmt.Errorf("%w: nil gradient field", imaging.ErrInvalidInput)
	}
	ver, err = ProfilePlot("Ver", "row", rowSplits, Series{Name: "Ver", Values: gf.Ver})
	if err != nil {
		return nil, nil, err
	}
	hor, err = ProfilePlot("Hor", "column", colSplits, Series{Name: "Hor", Values: gf.Hor})
	if err != nil {
		return nil, nil, err
	}
	return ver, hor, nil
}

// EncodePlot renders p as PNG. Zero sizes select the defaults.
func EncodePlot(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	if w <= 0 {
		w = DefaultPlotWidth
	}
	if h <= 0 {
		h = DefaultPlotHeight
	}
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to render plot: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to render plot: %w", err)
	}
	return buf.Bytes(), nil
}
