package portrait

import (
	"github.com/andresmejia3/rosterface/internal/types"
)

const (
	// TargetFaceHeight is the on-screen face height, in pixels, the
	// automatic generator aims for.
	TargetFaceHeight = 60.0
	// FaceHeightRatio is the assumed share of the content height taken by the face.
	FaceHeightRatio = 0.15
	// ClickBaseScale is the fixed base scale of the manual-click generator.
	// It is not derived from TargetFaceHeight; the two generators are
	// alternatives and are never mixed in one map.
	ClickBaseScale = 1.6
)

// BaseScale derives the single-character scale from the content height.
// Non-positive heights keep the neutral scale of 1.
func BaseScale(contentHeight int) float64 {
	base := 1.0
	if contentHeight > 0 {
		estimatedFace := float64(contentHeight) * FaceHeightRatio
		if estimatedFace > 0 {
			base = TargetFaceHeight / estimatedFace
		}
	}
	return base
}

// FinalScale splits base across the depicted characters and rounds to 3 decimals.
func FinalScale(base float64, numCharacters int) types.Scale {
	if numCharacters < 1 {
		numCharacters = 1
	}
	return types.RoundScale(base / float64(numCharacters))
}

// NewEntry builds the map entry for an automatically analyzed portrait.
func NewEntry(id string, a types.Analysis, reg Registry) types.CharacterEntry {
	n := reg.Count(id)
	return types.CharacterEntry{
		FaceCenter:    types.Point{X: a.CenterX, Y: a.CenterY},
		Scale:         FinalScale(BaseScale(a.ContentHeight), n),
		NumCharacters: n,
	}
}

// NewClickEntry builds the map entry for a manually clicked face center.
func NewClickEntry(id string, p types.Point, reg Registry) types.CharacterEntry {
	n := reg.Count(id)
	return types.CharacterEntry{
		FaceCenter:    p,
		Scale:         FinalScale(ClickBaseScale, n),
		NumCharacters: n,
	}
}
