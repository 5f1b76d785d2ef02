package mapping

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/andresmejia3/rosterface/internal/portrait"
	"github.com/andresmejia3/rosterface/internal/types"
)

//go:embed clicks.json
var defaultClicks []byte

// ClickSet holds manually clicked face centers keyed by character identifier.
type ClickSet map[string]types.Point

// DefaultClicks returns the face centers clicked for the shipped roster.
func DefaultClicks() (ClickSet, error) {
	return parseClicks(defaultClicks, "embedded clicks")
}

// LoadClicks reads a ClickSet from a JSON file of the form {"mario": {"x": 1, "y": 2}}.
func LoadClicks(path string) (ClickSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseClicks(data, path)
}

func parseClicks(data []byte, name string) (ClickSet, error) {
	c := ClickSet{}
	if err := jsonAPI.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	for id, p := range c {
		if p.X < 0 || p.Y < 0 {
			return nil, fmt.Errorf("%s: click for %q at (%d, %d) is negative", name, id, p.X, p.Y)
		}
	}
	return c, nil
}

// FromClicks builds the complete map from manual clicks. Every entry is
// regenerated; nothing is carried over from earlier runs.
func FromClicks(clicks ClickSet, reg portrait.Registry) types.Mapping {
	if reg == nil {
		reg = portrait.DefaultRegistry()
	}
	out := make(types.Mapping, len(clicks))
	for id, p := range clicks {
		out[id] = portrait.NewClickEntry(id, p, reg)
	}
	return out
}
