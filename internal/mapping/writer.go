// Package mapping builds, persists and reloads the character image map
// consumed by the roster UI.
package mapping

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"github.com/andresmejia3/rosterface/internal/types"
)

// ExportName is the JS binding the roster UI imports.
const ExportName = "characterImageMap"

// Headers of the generated JS module, one per generator.
const (
	AutoHeader = `// Auto-generated character image map
// Each entry contains:
// - faceCenter: {x, y} coordinates of the character's face center
// - scale: proportional scale to make faces roughly the same size
// - numCharacters: number of primary characters in the image
`
	ClickHeader = `// Auto-generated character image map
// Each entry contains:
// - faceCenter: {x, y} coordinates of the character's face center (manually clicked)
// - scale: proportional scale to make faces roughly the same size
// - numCharacters: number of primary characters in the image
`
)

// jsonAPI sorts map keys and matches encoding/json output byte for byte.
var jsonAPI = sonic.ConfigStd

func marshal(m types.Mapping) ([]byte, error) {
	if m == nil {
		m = types.Mapping{}
	}
	return jsonAPI.MarshalIndent(m, "", "  ")
}

// RenderJS renders m as a JS module exporting the map under ExportName.
func RenderJS(m types.Mapping, header string) ([]byte, error) {
	body, err := marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode character map: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	buf.WriteString("\nexport const " + ExportName + " = ")
	buf.Write(body)
	buf.WriteString(";\n")
	return buf.Bytes(), nil
}

// WriteJS renders m and writes it to path in one step.
func WriteJS(path string, m types.Mapping, header string) error {
	data, err := RenderJS(m, header)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
