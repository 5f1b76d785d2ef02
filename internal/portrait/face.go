package portrait

import (
	"image"

	"github.com/andresmejia3/rosterface/internal/types"
)

// The face is assumed to sit in this vertical band of the figure,
// measured from the top of the content box.
const (
	faceBandStart  = 0.15
	faceBandEnd    = 0.35
	faceBandMiddle = 0.25
)

// FaceEstimate is a single point expected to lie on the character's face.
type FaceEstimate struct {
	CenterX, CenterY int
}

// EstimateFace returns the centroid of the foreground inside the face band of c.
//
// Content too short to have a band falls back to the column midpoint at 25%
// of the content height. A band without any foreground pixel falls back to
// the midpoint of the band rectangle.
func EstimateFace(m *Mask, c ContentBounds) FaceEstimate {
	h := c.Height()
	start := c.RowMin + int(float64(h)*faceBandStart)
	end := c.RowMin + int(float64(h)*faceBandEnd)
	midX := (c.ColMin + c.ColMax) / 2

	if end <= start {
		return FaceEstimate{
			CenterX: midX,
			CenterY: c.RowMin + int(float64(h)*faceBandMiddle),
		}
	}

	var sumX, sumY, n int
	for y := start; y < end; y++ {
		for x := c.ColMin; x <= c.ColMax; x++ {
			if m.At(x, y) {
				sumX += x - c.ColMin
				sumY += y - start
				n++
			}
		}
	}

	if n == 0 {
		return FaceEstimate{CenterX: midX, CenterY: (start + end) / 2}
	}
	return FaceEstimate{
		CenterX: sumX/n + c.ColMin,
		CenterY: sumY/n + start,
	}
}

// Analyze runs bounding-box extraction and face estimation on img.
// A blank image yields the geometric center and the full height as content height.
func Analyze(img image.Image) types.Analysis {
	m := NewMask(img)
	a := types.Analysis{Width: m.Width, Height: m.Height}

	c, ok := m.Bounds()
	if !ok {
		a.CenterX = m.Width / 2
		a.CenterY = m.Height / 2
		a.ContentHeight = m.Height
		return a
	}

	f := EstimateFace(m, c)
	a.CenterX = f.CenterX
	a.CenterY = f.CenterY
	a.ContentHeight = c.Height()
	a.ContentWidth = c.Width()
	return a
}
