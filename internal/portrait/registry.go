package portrait

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Registry maps identifiers of portraits that show several characters to
// how many are shown. Identifiers not in the registry show one character.
type Registry map[string]int

// DefaultRegistry returns the built-in multi-character table.
func DefaultRegistry() Registry {
	return Registry{
		"ice_climbers":    2,
		"banjo_kazooie":   2,
		"pyra_mythra":     2,
		"rosalina_luma":   2,
		"duck_hunt":       2,
		"pokemon_trainer": 3, // all three Pokemon
		"mii_fighters":    3, // Brawler, Gunner, Swordfighter
	}
}

// Count returns the number of characters depicted for id.
func (r Registry) Count(id string) int {
	if n, ok := r[id]; ok && n > 0 {
		return n
	}
	return 1
}

// IsMulti reports whether id depicts more than one character.
func (r Registry) IsMulti(id string) bool {
	return r.Count(id) > 1
}

type registryFile struct {
	Characters map[string]int `toml:"characters"`
}

// LoadRegistry reads a registry from a TOML file of the form
//
//	[characters]
//	ice_climbers = 2
func LoadRegistry(path string) (Registry, error) {
	var f registryFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("failed to decode registry %s: %w", path, err)
	}

	reg := make(Registry, len(f.Characters))
	for id, n := range f.Characters {
		if n < 1 {
			return nil, fmt.Errorf("registry %s: %q has character count %d, must be >= 1", path, id, n)
		}
		reg[id] = n
	}
	return reg, nil
}
