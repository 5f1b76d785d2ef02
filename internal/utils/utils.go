package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"

	"github.com/andresmejia3/rosterface/internal/imageio"
)

// --- 1. Error Reporting ---

// ShowError prints the formatted error box without exiting.
func ShowError(context string, err error) {
	writeErrorBox(os.Stderr, context, err)
}

// Die is the unified exit strategy for rosterface.
// It prints a formatted error box and exits with status 1.
func Die(context string, err error) {
	ShowError(context, err)
	os.Exit(1)
}

func writeErrorBox(w io.Writer, context string, err error) {
	fmt.Fprintf(w, "\n---------------------------------------------------------\n")
	fmt.Fprintf(w, "🚨 ROSTERFACE ERROR: %s\n", context)
	if err != nil {
		fmt.Fprintf(w, "DETAILS: %v\n", err)
	}
	fmt.Fprintf(w, "---------------------------------------------------------\n")
}

// --- 2. Portrait Discovery ---

// ListPortraits returns the portrait files in dir whose names match pattern,
// sorted by file name. An empty pattern matches every portrait.
func ListPortraits(dir, pattern string) ([]string, error) {
	var g glob.Glob
	if pattern != "" {
		var err error
		if g, err = glob.Compile(pattern); err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !imageio.IsImage(name) {
			continue
		}
		if g != nil && !g.Match(name) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}
