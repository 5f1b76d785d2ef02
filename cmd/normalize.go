package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/andresmejia3/rosterface/internal/config"
	"github.com/andresmejia3/rosterface/internal/normalize"
	"github.com/andresmejia3/rosterface/internal/utils"
)

var normalizeOpts Options

var normalizeCmd = &cobra.Command{
	Use:   "normalize [portrait...]",
	Short: "Shrink oversized portraits in place to the reference pixel count",
	Long: `Resizes each target portrait so its pixel count matches the reference
portrait while keeping its aspect ratio. Portraits already at or below the
reference size are left untouched and missing files are skipped.

Without arguments the known oversized portraits of the roster are processed.
Names are resolved inside --images unless they are paths.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := validateNormalizeFlags(cfg, &normalizeOpts); err != nil {
			utils.Die("Configuration Error", err)
		}
		results, err := runNormalize(cmd.Context(), cfg, normalizeOpts, args)
		if err != nil {
			utils.Die("Failed to normalize portraits", err)
		}
		printNormalizeSummary(results, normalizeOpts.DryRun)
	},
}

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeOpts.Reference, "reference", "r", normalize.DefaultReference, "Portrait whose pixel count the targets are matched to")
	normalizeCmd.Flags().BoolVarP(&normalizeOpts.DryRun, "dry-run", "n", false, "Report the new sizes without writing any file")
	rootCmd.AddCommand(normalizeCmd)
}

func validateNormalizeFlags(c config.Config, opts *Options) error {
	if opts.Reference == "" {
		opts.Reference = normalize.DefaultReference
	}
	ref := resolvePortrait(c.ImageDir, opts.Reference)
	info, err := os.Stat(ref)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("reference portrait %s does not exist", ref)
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("reference %s is a directory, expected an image", ref)
	}
	return nil
}

func runNormalize(ctx context.Context, c config.Config, opts Options, targets []string) ([]normalize.Result, error) {
	refPixels, err := normalize.ReferencePixels(resolvePortrait(c.ImageDir, opts.Reference))
	if err != nil {
		return nil, fmt.Errorf("failed to read reference portrait: %w", err)
	}

	if len(targets) == 0 {
		targets = normalize.DefaultTargets()
	}
	paths := make([]string, len(targets))
	for i, t := range targets {
		paths[i] = resolvePortrait(c.ImageDir, t)
	}

	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionSetDescription("📐 Normalizing portraits"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)
	defer fmt.Fprintln(os.Stderr)

	n := normalize.Normalizer{ReferencePixels: refPixels, DryRun: opts.DryRun}
	return n.Run(ctx, paths, func(normalize.Result) { bar.Add(1) })
}

// resolvePortrait joins bare file names onto dir and leaves paths alone.
func resolvePortrait(dir, name string) string {
	if filepath.Base(name) != name {
		return name
	}
	return filepath.Join(dir, name)
}

func printNormalizeSummary(results []normalize.Result, dryRun bool) {
	verb := "Resized"
	if dryRun {
		verb = "Would resize"
	}
	fmt.Fprintf(os.Stderr, "\n---------------------------------------------------------\n")
	for _, r := range results {
		switch {
		case r.Missing:
			fmt.Fprintf(os.Stderr, "⚠️  %s not found, skipped\n", r.Path)
		case r.Resized:
			fmt.Fprintf(os.Stderr, "📉 %s %s: %dx%d -> %dx%d\n", verb, filepath.Base(r.Path), r.Width, r.Height, r.NewW, r.NewH)
		default:
			fmt.Fprintf(os.Stderr, "✔️  %s already within reference size (%dx%d)\n", filepath.Base(r.Path), r.Width, r.Height)
		}
	}
	fmt.Fprintf(os.Stderr, "---------------------------------------------------------\n")
}
