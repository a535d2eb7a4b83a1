package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"docsync/internal/config"
	"docsync/internal/slogutil"
	"docsync/internal/version"
)

var (
	rootFlag    string
	verbosity   int
	quietFlag   bool
	excludeFlag []string
)

var rootCmd = &cobra.Command{
	Use:   "docsync",
	Short: "docsync - documentation synchronization engine",
	Long: `docsync models a source tree statically, scores its complexity, detects
structural patterns and dependency cycles, and keeps generated documentation
in sync with the code via fingerprint-based drift tracking.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("docsync version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", ".", "Root directory of the tree to analyze")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().StringSliceVar(&excludeFlag, "exclude", nil, "Additional exclusion globs (repeatable)")
}

// loadConfig reads <root>/.docsync/config.json and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(rootFlag)
	if err != nil {
		return nil, err
	}
	cfg.Root = rootFlag
	cfg.Excludes = append(cfg.Excludes, excludeFlag...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the run logger. Verbosity flags override the configured
// level.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slogutil.LevelFromString(cfg.Logging.Level)
	if verbosity > 0 || quietFlag {
		level = slogutil.LevelFromVerbosity(verbosity, quietFlag)
	}
	return slogutil.NewLogger(os.Stderr, level)
}
