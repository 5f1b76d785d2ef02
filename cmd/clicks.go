package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/andresmejia3/rosterface/internal/config"
	"github.com/andresmejia3/rosterface/internal/imageio"
	"github.com/andresmejia3/rosterface/internal/mapping"
	"github.com/andresmejia3/rosterface/internal/types"
	"github.com/andresmejia3/rosterface/internal/utils"
)

var clicksOpts Options

var clicksCmd = &cobra.Command{
	Use:   "clicks [clicks.json]",
	Short: "Regenerate the JS map from hand-clicked face centers",
	Long: `Builds the map from manually recorded face centers instead of image analysis.
Without an argument the built-in click set is used; a JSON file of the form
{"mario": {"x": 60, "y": 48}} replaces it.

Every click entry uses a base scale of 1.6 divided by the portrait's character
count. This differs from the 60 / (0.15 * height) base that analyze derives, so
do not mix entries from both sources without checking them visually.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 1 {
			clicksOpts.ClicksPath = args[0]
		}
		m, err := runClicks(cfg, clicksOpts)
		if err != nil {
			utils.Die("Failed to generate map from clicks", err)
		}
		fmt.Fprintf(os.Stderr, "✅ Wrote %d characters to %s\n", len(m), cfg.MapPath)
	},
}

func init() {
	clicksCmd.Flags().BoolVar(&clicksOpts.CheckClicks, "check", false, "Warn about clicks that fall outside their portrait in --images")
	rootCmd.AddCommand(clicksCmd)
}

func runClicks(c config.Config, opts Options) (types.Mapping, error) {
	reg, err := loadRegistry(c)
	if err != nil {
		return nil, err
	}

	var clicks mapping.ClickSet
	if opts.ClicksPath != "" {
		clicks, err = mapping.LoadClicks(opts.ClicksPath)
	} else {
		clicks, err = mapping.DefaultClicks()
	}
	if err != nil {
		return nil, err
	}

	if opts.CheckClicks {
		if _, err := checkClicks(c.ImageDir, clicks); err != nil {
			return nil, err
		}
	}

	m := mapping.FromClicks(clicks, reg)
	if err := mapping.WriteJS(c.MapPath, m, mapping.ClickHeader); err != nil {
		return nil, fmt.Errorf("failed to write map: %w", err)
	}
	if err := mapping.WriteSidecar(c.SidecarPath, m); err != nil {
		return nil, fmt.Errorf("failed to write sidecar: %w", err)
	}
	return m, nil
}

// checkClicks logs every click that lies outside its portrait or has no
// portrait at all, and returns the offending identifiers in sorted order.
func checkClicks(dir string, clicks mapping.ClickSet) ([]string, error) {
	paths, err := utils.ListPortraits(dir, "")
	if err != nil {
		return nil, err
	}
	byID := make(map[string]string, len(paths))
	for _, p := range paths {
		byID[imageio.Stem(p)] = p
	}

	var bad []string
	for id, p := range clicks {
		path, ok := byID[id]
		if !ok {
			log.Warn().Str("character", id).Msg("No portrait for click")
			bad = append(bad, id)
			continue
		}
		w, h, err := imageio.Dimensions(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if p.X >= w || p.Y >= h {
			log.Warn().
				Str("character", id).
				Int("x", p.X).Int("y", p.Y).
				Int("width", w).Int("height", h).
				Msg("Click outside portrait")
			bad = append(bad, id)
		}
	}
	sort.Strings(bad)
	return bad, nil
}
