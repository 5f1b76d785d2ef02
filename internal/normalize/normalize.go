// Package normalize shrinks oversized portraits to the pixel count of a reference portrait.
package normalize

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"

	"github.com/andresmejia3/rosterface/internal/imageio"
)

// DefaultReference is the portrait whose pixel count the others are matched to.
const DefaultReference = "kirby.jpg"

var (
	// LargeImages are portraits far above the reference size.
	LargeImages = []string{"hero.jpg", "terry.jpg", "byleth.jpg", "shulk.jpg"}
	// MediumImages are portraits slightly above the reference size.
	MediumImages = []string{
		"mii_fighters.jpg", "banjo_kazooie.jpg", "pyra_mythra.jpg",
		"pokemon_trainer.jpg", "inkling.jpg", "cloud.jpg",
	}
)

// DefaultTargets returns the large portraits followed by the medium ones.
func DefaultTargets() []string {
	return append(append([]string(nil), LargeImages...), MediumImages...)
}

// ScaleFactor returns the uniform linear factor that brings current pixels
// down to reference pixels. ok is false when no shrinking is needed.
func ScaleFactor(referencePixels, currentPixels int) (factor float64, ok bool) {
	if currentPixels <= referencePixels {
		return 1, false
	}
	return math.Sqrt(float64(referencePixels) / float64(currentPixels)), true
}

// TargetSize scales w and h by factor, truncating, never below 1 pixel.
func TargetSize(w, h int, factor float64) (int, int) {
	nw := int(float64(w) * factor)
	nh := int(float64(h) * factor)
	return max(nw, 1), max(nh, 1)
}

// ReferencePixels returns width*height of the image at path.
func ReferencePixels(path string) (int, error) {
	w, h, err := imageio.Dimensions(path)
	if err != nil {
		return 0, err
	}
	return w * h, nil
}

// Result describes what happened to one target.
type Result struct {
	Path          string
	Missing       bool
	Resized       bool
	Width, Height int
	NewW, NewH    int
}

// Normalizer resizes targets above ReferencePixels in place.
type Normalizer struct {
	ReferencePixels int
	// DryRun reports the resize without writing anything.
	DryRun bool
	// Filter defaults to Lanczos.
	Filter *imaging.ResampleFilter
}

// Normalize processes one target. Missing files are skipped; decode and
// encode failures are returned.
func (n *Normalizer) Normalize(path string) (Result, error) {
	res := Result{Path: path}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		res.Missing = true
		return res, nil
	}

	img, _, err := imageio.Load(path)
	if err != nil {
		return res, err
	}
	res.Width, res.Height = img.Bounds().Dx(), img.Bounds().Dy()
	res.NewW, res.NewH = res.Width, res.Height

	factor, ok := ScaleFactor(n.ReferencePixels, res.Width*res.Height)
	if !ok {
		return res, nil
	}
	res.NewW, res.NewH = TargetSize(res.Width, res.Height, factor)
	res.Resized = true

	log.Info().
		Str("path", path).
		Str("from", fmt.Sprintf("%dx%d", res.Width, res.Height)).
		Str("to", fmt.Sprintf("%dx%d", res.NewW, res.NewH)).
		Int("from_px", res.Width*res.Height).
		Int("to_px", res.NewW*res.NewH).
		Bool("dry_run", n.DryRun).
		Msg("Scaling portrait")

	if n.DryRun {
		return res, nil
	}

	filter := imaging.Lanczos
	if n.Filter != nil {
		filter = *n.Filter
	}
	resized := imaging.Resize(img, res.NewW, res.NewH, filter)
	if err := imageio.Save(path, resized); err != nil {
		return res, err
	}
	return res, nil
}

// Run normalizes paths in order, stopping at the first fault.
func (n *Normalizer) Run(ctx context.Context, paths []string, step func(Result)) ([]Result, error) {
	results := make([]Result, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := n.Normalize(p)
		if err != nil {
			return results, fmt.Errorf("failed to normalize %s: %w", p, err)
		}
		results = append(results, res)
		if step != nil {
			step(res)
		}
	}
	return results, nil
}
