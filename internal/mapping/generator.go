package mapping

import (
	"context"
	"image"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/andresmejia3/rosterface/internal/imageio"
	"github.com/andresmejia3/rosterface/internal/portrait"
	"github.com/andresmejia3/rosterface/internal/types"
)

// Generator regenerates the map from portrait files.
type Generator struct {
	Registry portrait.Registry
	// Previous is the map of the last run; multi-character entries found
	// here are kept instead of recomputed.
	Previous types.Mapping
	// Load decodes a portrait. Defaults to imageio.Load.
	Load func(path string) (image.Image, error)
	// Step, when set, is called once per processed file.
	Step func(id string, carried bool)
}

// Run analyzes paths in file-name order and returns the complete map.
// Decode failures abort the run; nothing is returned for a partial pass.
func (g *Generator) Run(ctx context.Context, paths []string) (types.Mapping, error) {
	load := g.Load
	if load == nil {
		load = func(path string) (image.Image, error) {
			img, _, err := imageio.Load(path)
			return img, err
		}
	}
	reg := g.Registry
	if reg == nil {
		reg = portrait.DefaultRegistry()
	}

	sorted := append([]string(nil), paths...)
	sort.Slice(sorted, func(i, j int) bool {
		return filepath.Base(sorted[i]) < filepath.Base(sorted[j])
	})

	out := make(types.Mapping, len(sorted))
	for _, path := range sorted {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		id := imageio.Stem(path)
		if prev, ok := g.Previous[id]; ok && reg.IsMulti(id) {
			log.Info().Str("character", id).Msg("Skipping multi-character portrait, keeping existing data")
			out[id] = prev
			g.step(id, true)
			continue
		}

		img, err := load(path)
		if err != nil {
			return nil, err
		}
		a := portrait.Analyze(img)
		out[id] = portrait.NewEntry(id, a, reg)

		log.Debug().
			Str("character", id).
			Int("center_x", a.CenterX).
			Int("center_y", a.CenterY).
			Int("content_height", a.ContentHeight).
			Float64("scale", float64(out[id].Scale)).
			Msg("Analyzed portrait")
		g.step(id, false)
	}
	return out, nil
}

func (g *Generator) step(id string, carried bool) {
	if g.Step != nil {
		g.Step(id, carried)
	}
}
