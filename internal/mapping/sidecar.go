package mapping

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/andresmejia3/rosterface/internal/types"
)

// SidecarPath returns the default sidecar location for a JS map path.
func SidecarPath(jsPath string) string {
	return strings.TrimSuffix(jsPath, filepath.Ext(jsPath)) + ".json"
}

// WriteSidecar stores m as plain JSON so the next run can reload it without
// scraping the JS module.
func WriteSidecar(path string, m types.Mapping) error {
	body, err := marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode sidecar: %w", err)
	}
	return writeFile(path, append(body, '\n'))
}

// ReadSidecar loads a mapping written by WriteSidecar.
func ReadSidecar(path string) (types.Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := types.Mapping{}
	if err := jsonAPI.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode sidecar %s: %w", path, err)
	}
	return m, nil
}

// ExtractLegacy pulls the map out of a generated JS module. The object is
// the text between the first '{' after the ExportName binding and the last
// '}'. Without the binding, "//" comment lines are dropped before the
// braces are searched. Text without such a span yields an empty mapping.
func ExtractLegacy(content []byte) (types.Mapping, error) {
	m := types.Mapping{}
	body := content
	if i := bytes.Index(body, []byte("export const "+ExportName)); i >= 0 {
		body = body[i:]
	} else {
		body = dropLineComments(body)
	}

	start := bytes.IndexByte(body, '{')
	end := bytes.LastIndexByte(body, '}') + 1
	if start == -1 || end <= start {
		return m, nil
	}
	if err := jsonAPI.Unmarshal(body[start:end], &m); err != nil {
		return nil, fmt.Errorf("failed to decode map body: %w", err)
	}
	return m, nil
}

func dropLineComments(content []byte) []byte {
	var out []byte
	for _, line := range bytes.SplitAfter(content, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimSpace(line), []byte("//")) {
			continue
		}
		out = append(out, line...)
	}
	return out
}

// LoadPrevious returns the mapping produced by the previous run.
// The sidecar is preferred; the JS module is only scraped when no sidecar
// exists yet. Any failure is logged and yields an empty mapping.
func LoadPrevious(sidecarPath, jsPath string) types.Mapping {
	m, err := Load(sidecarPath, jsPath)
	if err != nil {
		log.Warn().Err(err).Msg("Could not load existing map")
		return types.Mapping{}
	}
	log.Info().Int("entries", len(m)).Msg("Loaded existing entries")
	return m
}

// Load reads the sidecar, or the JS module when no sidecar exists, and
// reports every failure.
func Load(sidecarPath, jsPath string) (types.Mapping, error) {
	if sidecarPath != "" {
		m, err := ReadSidecar(sidecarPath)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		log.Debug().Str("sidecar", sidecarPath).Msg("No sidecar, falling back to JS map")
	}

	content, err := os.ReadFile(jsPath)
	if err != nil {
		return nil, err
	}
	return ExtractLegacy(content)
}
