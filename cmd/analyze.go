package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gobwas/glob"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/andresmejia3/rosterface/internal/config"
	"github.com/andresmejia3/rosterface/internal/mapping"
	"github.com/andresmejia3/rosterface/internal/types"
	"github.com/andresmejia3/rosterface/internal/utils"
)

var analyzeOpts Options

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Detect face placement in every portrait and regenerate the JS map",
	Long: `Scans the portrait directory, estimates where each character's face sits
and how far the portrait must be scaled, then rewrites the JS map and its JSON
sidecar. Entries of multi-character portraits already present in the previous
map are kept as they are so hand-tuned coordinates survive regeneration.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := validateAnalyzeFlags(cfg, &analyzeOpts); err != nil {
			utils.Die("Configuration Error", err)
		}
		sum, err := runAnalyze(cmd.Context(), cfg, analyzeOpts)
		if err != nil {
			utils.Die("Failed to analyze portraits", err)
		}
		printAnalyzeSummary(cfg, sum)
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOpts.Pattern, "pattern", "p", "*.jpg", "Glob selecting portrait file names inside --images")
	rootCmd.AddCommand(analyzeCmd)
}

// analyzeSummary reports what one analyze pass did.
type analyzeSummary struct {
	Mapping  types.Mapping
	Analyzed int
	Carried  int
	Elapsed  time.Duration
}

func validateAnalyzeFlags(c config.Config, opts *Options) error {
	info, err := os.Stat(c.ImageDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("image directory %s does not exist", c.ImageDir)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("image path %s is not a directory", c.ImageDir)
	}
	if opts.Pattern == "" {
		opts.Pattern = "*"
	}
	if _, err := glob.Compile(opts.Pattern); err != nil {
		return fmt.Errorf("invalid pattern %q: %w", opts.Pattern, err)
	}
	return nil
}

// runAnalyze regenerates the map and writes both the JS module and its sidecar.
func runAnalyze(ctx context.Context, c config.Config, opts Options) (analyzeSummary, error) {
	start := time.Now()
	var sum analyzeSummary

	reg, err := loadRegistry(c)
	if err != nil {
		return sum, err
	}
	paths, err := utils.ListPortraits(c.ImageDir, opts.Pattern)
	if err != nil {
		return sum, err
	}
	if len(paths) == 0 {
		return sum, fmt.Errorf("no portraits matching %q in %s", opts.Pattern, c.ImageDir)
	}

	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionSetDescription("🔍 Analyzing portraits"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)

	gen := mapping.Generator{
		Registry: reg,
		Previous: mapping.LoadPrevious(c.SidecarPath, c.MapPath),
		Step: func(id string, carried bool) {
			if carried {
				sum.Carried++
			} else {
				sum.Analyzed++
			}
			bar.Add(1)
		},
	}
	m, err := gen.Run(ctx, paths)
	bar.Finish()
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return sum, err
	}

	if err := mapping.WriteJS(c.MapPath, m, mapping.AutoHeader); err != nil {
		return sum, fmt.Errorf("failed to write map: %w", err)
	}
	if err := mapping.WriteSidecar(c.SidecarPath, m); err != nil {
		return sum, fmt.Errorf("failed to write sidecar: %w", err)
	}

	sum.Mapping = m
	sum.Elapsed = time.Since(start)
	return sum, nil
}

func printAnalyzeSummary(c config.Config, sum analyzeSummary) {
	fmt.Fprintf(os.Stderr, "\n---------------------------------------------------------\n")
	fmt.Fprintf(os.Stderr, "✅ Map written to %s\n", c.MapPath)
	fmt.Fprintf(os.Stderr, "   Sidecar:       %s\n", c.SidecarPath)
	fmt.Fprintf(os.Stderr, "   Characters:    %d\n", len(sum.Mapping))
	fmt.Fprintf(os.Stderr, "   Analyzed:      %d\n", sum.Analyzed)
	fmt.Fprintf(os.Stderr, "   Kept as-is:    %d\n", sum.Carried)
	fmt.Fprintf(os.Stderr, "   Elapsed:       %s\n", sum.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "---------------------------------------------------------\n")
}
