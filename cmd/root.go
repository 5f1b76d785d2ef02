package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andresmejia3/rosterface/internal/config"
	"github.com/andresmejia3/rosterface/internal/mapping"
	"github.com/andresmejia3/rosterface/internal/portrait"
	"github.com/andresmejia3/rosterface/internal/utils"
)

// Options holds per-command settings for analyze, clicks, normalize and show
type Options struct {
	Pattern     string
	ClicksPath  string
	Reference   string
	DryRun      bool
	CheckClicks bool
}

var (
	// cfg is resolved from the environment and root flags before any subcommand runs
	cfg config.Config
	// flagCfg holds raw root flag values; non-empty values override cfg
	flagCfg config.Config

	closeLog = func() {}
)

// Version is the application version.
const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:     "rosterface",
	Short:   "Face placement and scale metadata for roster portraits",
	Version: Version, // This enables the --version flag
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = resolveConfig(flagCfg); err != nil {
			return err
		}

		closeLog, err = utils.InitLogger(utils.LogOptions{Level: cfg.LogLevel, File: cfg.LogFile})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLog()
	},
}

func Execute() {
	// Create a context that listens for Ctrl+C (SIGINT) or Kill (SIGTERM)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// This tells Cobra not to print the version in the help text, which is cleaner.
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagCfg.ImageDir, "images", "", "Portrait directory (default: ROSTERFACE_IMAGE_DIR or "+config.DefaultImageDir+")")
	pf.StringVarP(&flagCfg.MapPath, "output", "o", "", "Generated JS map (default: ROSTERFACE_MAP_PATH or "+config.DefaultMapPath+")")
	pf.StringVar(&flagCfg.SidecarPath, "sidecar", "", "JSON sidecar of the map (default: next to --output with a .json extension)")
	pf.StringVar(&flagCfg.RegistryPath, "registry", "", "TOML table of multi-character portraits (default: built-in table)")
	pf.StringVar(&flagCfg.LogFile, "log-file", "", "Also write debug logs to this rotating file")
	pf.StringVar(&flagCfg.LogLevel, "log-level", "", "Console log level: debug, info, warn or error (default: info)")
}

// resolveConfig layers root flags over the environment.
func resolveConfig(flags config.Config) (config.Config, error) {
	c, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&c.ImageDir, flags.ImageDir)
	override(&c.MapPath, flags.MapPath)
	override(&c.SidecarPath, flags.SidecarPath)
	override(&c.RegistryPath, flags.RegistryPath)
	override(&c.LogFile, flags.LogFile)
	override(&c.LogLevel, flags.LogLevel)

	if c.SidecarPath == "" {
		c.SidecarPath = mapping.SidecarPath(c.MapPath)
	}
	return c, nil
}

// loadRegistry returns the configured multi-character table.
func loadRegistry(c config.Config) (portrait.Registry, error) {
	if c.RegistryPath == "" {
		return portrait.DefaultRegistry(), nil
	}
	return portrait.LoadRegistry(c.RegistryPath)
}
