package imageio

import (
	"io"

	"github.com/rwcarlsen/goexif/exif"
)

// ExifOrient returns the EXIF orientation tag (1-8) of r, or 1 when there is none.
func ExifOrient(r io.Reader) int {
	x, err := exif.Decode(r)
	if err == nil && x != nil {
		orient, err := x.Get(exif.Orientation)
		if err == nil && orient != nil && orient.Count != 0 {
			if i, err := orient.Int(0); err == nil && i >= 1 && i <= 8 {
				return i
			}
		}
	}
	return 1
}

// RotWH swaps w and h for orientations that turn the image on its side.
func RotWH(orient int, w, h int) (int, int) {
	switch orient {
	case 5, 6, 7, 8:
		w, h = h, w
	}
	return w, h
}
