// Package fold builds the irreducible facade: a reduced image in which every
// repeated band has been summed onto its predecessor, so that each pixel holds
// the average of all instances of the repeating unit.
package fold

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	imgpkg "github.com/ironsheep/facade-tools-mcp/internal/imaging"
)

// Buffer accumulates color sums and weights per pixel. Acc[y*Width+x] holds
// (R, G, B, weight).
type Buffer struct {
	Width  int
	Height int
	Acc    [][4]float64
}

// NewBuffer seeds a buffer with the image's colors at weight 1.
func NewBuffer(img image.Image) (*Buffer, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: fold buffer of empty image", imgpkg.ErrInvalidInput)
	}

	src := imaging.Clone(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	b := &Buffer{Width: w, Height: h, Acc: make([][4]float64, w*h)}
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			p := row[x*4:]
			b.Acc[y*w+x] = [4]float64{float64(p[0]), float64(p[1]), float64(p[2]), 1}
		}
	}
	return b, nil
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	acc := make([][4]float64, len(b.Acc))
	copy(acc, b.Acc)
	return &Buffer{Width: b.Width, Height: b.Height, Acc: acc}
}

// FoldRows sums rows [split, split+width) into [split-width, split) and
// removes them. width is clamped to [0, min(split, Height-split)].
func (b *Buffer) FoldRows(split, width int) {
	width = clampWidth(width, split, b.Height)
	if width == 0 {
		return
	}

	w := b.Width
	for i := 0; i < width; i++ {
		dst := b.Acc[(split-width+i)*w : (split-width+i+1)*w]
		src := b.Acc[(split+i)*w : (split+i+1)*w]
		for x := range dst {
			add(&dst[x], src[x])
		}
	}
	b.Acc = append(b.Acc[:split*w], b.Acc[(split+width)*w:]...)
	b.Height -= width
}

// FoldCols is FoldRows along columns.
func (b *Buffer) FoldCols(split, width int) {
	width = clampWidth(width, split, b.Width)
	if width == 0 {
		return
	}

	oldW := b.Width
	newW := oldW - width
	acc := make([][4]float64, newW*b.Height)
	for y := 0; y < b.Height; y++ {
		row := b.Acc[y*oldW : (y+1)*oldW]
		for i := 0; i < width; i++ {
			add(&row[split-width+i], row[split+i])
		}
		out := acc[y*newW : (y+1)*newW]
		copy(out, row[:split])
		copy(out[split:], row[split+width:])
	}
	b.Acc = acc
	b.Width = newW
}

// Fold applies row folds and then column folds. rowWidths and colWidths are
// indexed by position (the offset profiles), and splits are processed from
// the highest to the lowest so that earlier positions stay valid.
func (b *Buffer) Fold(rowSplits []int, rowWidths []int, colSplits []int, colWidths []int) error {
	for i := len(rowSplits) - 1; i >= 0; i-- {
		s := rowSplits[i]
		if s < 0 || s >= len(rowWidths) {
			return fmt.Errorf("%w: row split %d outside offset profile", imgpkg.ErrInvalidInput, s)
		}
		b.FoldRows(s, rowWidths[s])
	}
	for i := len(colSplits) - 1; i >= 0; i-- {
		s := colSplits[i]
		if s < 0 || s >= len(colWidths) {
			return fmt.Errorf("%w: column split %d outside offset profile", imgpkg.ErrInvalidInput, s)
		}
		b.FoldCols(s, colWidths[s])
	}
	return nil
}

// Image renders the weighted average of every pixel. Pixels with zero weight
// come out transparent black.
func (b *Buffer) Image() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for i, a := range b.Acc {
		if a[3] <= 0 {
			continue
		}
		out.Set(i%b.Width, i/b.Width, color.NRGBA{
			R: channel(a[0] / a[3]),
			G: channel(a[1] / a[3]),
			B: channel(a[2] / a[3]),
			A: 255,
		})
	}
	return out
}

func add(dst *[4]float64, src [4]float64) {
	for k := range dst {
		dst[k] += src[k]
	}
}

func clampWidth(width, split, extent int) int {
	if split <= 0 || split >= extent {
		return 0
	}
	return max(0, min(width, split, extent-split))
}

func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
