// Package portrait estimates where a character's face sits in a roster
// portrait and how much the portrait should be scaled for display.
package portrait

import (
	"image"
)

const (
	// alphaThreshold is the lowest alpha (0-255) that is NOT foreground
	alphaThreshold = 30
	// whiteThreshold is the channel mean at which a pixel counts as background
	whiteThreshold = 250
)

// Mask is a per-pixel foreground flag, indexed from the image's top-left corner.
type Mask struct {
	Width, Height int
	fg            []bool
}

// NewMask builds the foreground mask of img.
// Images with an alpha channel use alpha > 30, all others use mean(R,G,B) < 250.
func NewMask(img image.Image) *Mask {
	b := img.Bounds()
	m := &Mask{Width: b.Dx(), Height: b.Dy(), fg: make([]bool, b.Dx()*b.Dy())}
	useAlpha := HasAlpha(img)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := (y - b.Min.Y) * m.Width
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if useAlpha {
				m.fg[row+x-b.Min.X] = a>>8 > alphaThreshold
				continue
			}
			// mean < 250 without leaving integer arithmetic
			m.fg[row+x-b.Min.X] = (r>>8)+(g>>8)+(bl>>8) < 3*whiteThreshold
		}
	}
	return m
}

// At reports whether the pixel at column x, row y is foreground.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.fg[y*m.Width+x]
}

// Set marks a pixel as foreground or background.
func (m *Mask) Set(x, y int, v bool) {
	m.fg[y*m.Width+x] = v
}

// HasAlpha reports whether img carries a meaningful alpha channel.
// Truecolor PNGs without alpha decode to an opaque *image.RGBA and are
// treated like any other RGB image.
func HasAlpha(img image.Image) bool {
	switch im := img.(type) {
	case *image.NRGBA, *image.NRGBA64, *image.NYCbCrA, *image.Alpha, *image.Alpha16:
		return true
	case *image.RGBA:
		return !im.Opaque()
	case *image.RGBA64:
		return !im.Opaque()
	case *image.Paletted:
		return !im.Opaque()
	default:
		return false
	}
}

// ContentBounds is the tightest rectangle (inclusive) enclosing all foreground pixels.
type ContentBounds struct {
	RowMin, RowMax int
	ColMin, ColMax int
}

// Height returns the number of rows spanned by the content.
func (c ContentBounds) Height() int { return c.RowMax - c.RowMin + 1 }

// Width returns the number of columns spanned by the content.
func (c ContentBounds) Width() int { return c.ColMax - c.ColMin + 1 }

// Bounds reduces the mask to its content bounding box.
// ok is false when the mask has no foreground pixel at all.
func (m *Mask) Bounds() (c ContentBounds, ok bool) {
	rows := make([]bool, m.Height)
	cols := make([]bool, m.Width)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.fg[y*m.Width+x] {
				rows[y] = true
				cols[x] = true
			}
		}
	}

	rmin, rmax, rok := firstLast(rows)
	cmin, cmax, cok := firstLast(cols)
	if !rok || !cok {
		return ContentBounds{}, false
	}
	return ContentBounds{RowMin: rmin, RowMax: rmax, ColMin: cmin, ColMax: cmax}, true
}

func firstLast(v []bool) (first, last int, ok bool) {
	first, last = -1, -1
	for i, set := range v {
		if !set {
			continue
		}
		if first == -1 {
			first = i
		}
		last = i
	}
	return first, last, first != -1
}
