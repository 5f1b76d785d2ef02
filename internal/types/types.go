package types

import (
	"math"
	"strconv"
)

// Point is an integer pixel coordinate (x = column, y = row)
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Scale is a display scale factor rounded to 3 decimals.
// It always serializes with a fractional part ("2.0", not "2") so the
// generated map reads the same as the hand-maintained one.
type Scale float64

// RoundScale rounds v to 3 decimal places using the exact binary value of v,
// so ties such as 1.5625 go to even ("1.562"). Re-rounding a rounded value
// is a no-op.
func RoundScale(v float64) Scale {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 3, 64), 64)
	if err != nil {
		return Scale(v)
	}
	return Scale(r)
}

func (s Scale) MarshalJSON() ([]byte, error) {
	f := float64(s)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, &strconv.NumError{Func: "MarshalJSON", Num: strconv.FormatFloat(f, 'g', -1, 64), Err: strconv.ErrRange}
	}
	b := strconv.AppendFloat(nil, f, 'f', -1, 64)
	if f == math.Trunc(f) {
		b = append(b, '.', '0')
	}
	return b, nil
}

// CharacterEntry is the persisted unit of the character image map, one per identifier.
type CharacterEntry struct {
	FaceCenter    Point `json:"faceCenter"`
	Scale         Scale `json:"scale"`
	NumCharacters int   `json:"numCharacters"`
}

// Mapping is the character image map keyed by character identifier
type Mapping map[string]CharacterEntry

// Analysis is the full result of analyzing one portrait.
// ContentWidth is zero when the image has no foreground content.
type Analysis struct {
	CenterX       int `json:"centerX"`
	CenterY       int `json:"centerY"`
	Width         int `json:"width"`
	Height        int `json:"height"`
	ContentHeight int `json:"contentHeight"`
	ContentWidth  int `json:"contentWidth,omitempty"`
}
