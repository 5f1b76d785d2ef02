// Package imageio loads and stores roster portraits.
package imageio

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Quality is the JPEG quality used when a portrait is rewritten.
const Quality = 95

// Extensions lists the file extensions treated as portraits.
var Extensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp"}

// IsImage reports whether name has a portrait extension.
func IsImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Stem returns the file name without directory and extension; it is the character identifier.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load decodes the image at path and applies its EXIF orientation.
// It returns the decoder's format name ("jpeg", "png", ...).
func Load(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, "", err
	}
	orient := ExifOrient(f)
	if orient != 1 {
		log.Debug().Str("module", "imageio").Str("path", path).Int("orientation", orient).Msg("Applying EXIF orientation")
	}
	return Orient(img, orient), format, nil
}

// Dimensions reads only the header of the image at path and returns its
// displayed width and height.
func Dimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, 0, err
	}
	w, h := RotWH(ExifOrient(f), cfg.Width, cfg.Height)
	return w, h, nil
}

// Orient rotates and flips img so it is displayed upright.
// Opaque sources stay opaque RGB images so they keep their background rules.
func Orient(img image.Image, orient int) image.Image {
	var out *image.NRGBA
	switch orient {
	case 2:
		out = imaging.FlipH(img)
	case 3:
		out = imaging.Rotate180(img)
	case 4:
		out = imaging.FlipV(img)
	case 5:
		out = imaging.Transpose(img)
	case 6:
		out = imaging.Rotate270(img)
	case 7:
		out = imaging.Transverse(img)
	case 8:
		out = imaging.Rotate90(img)
	default:
		return img
	}

	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		rgb := image.NewRGBA(out.Bounds())
		draw.Draw(rgb, rgb.Bounds(), out, out.Bounds().Min, draw.Src)
		return rgb
	}
	return out
}

// Save encodes img in the format implied by path's extension and replaces
// the file at path. JPEGs are written at Quality; PNGs at best compression.
func Save(path string, img image.Image) error {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return fmt.Errorf("cannot save %s: %w", path, err)
	}

	mode := os.FileMode(0644)
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	// no-op once renamed
	defer os.Remove(tmp.Name())

	err = imaging.Encode(tmp, img, format,
		imaging.JPEGQuality(Quality),
		imaging.PNGCompressionLevel(png.BestCompression),
	)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
