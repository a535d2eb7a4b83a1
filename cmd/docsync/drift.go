package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"docsync/internal/engine"
	"docsync/internal/output"
	"docsync/internal/storage"
)

var driftJSONFlag bool

var driftCmd = &cobra.Command{
	Use:   "drift",
	Short: "Score artifact freshness without regenerating artifacts",
	Long: `Re-parses the tree and compares current fingerprints against the ones each
generated artifact was built from. Artifacts whose sources still match
advance their match time; drifted artifacts keep aging until the next
analyze run rebuilds them.`,
	RunE: runDrift,
}

func init() {
	driftCmd.Flags().BoolVar(&driftJSONFlag, "json", false, "Emit drift records as JSON")
	rootCmd.AddCommand(driftCmd)
}

func runDrift(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	history, err := storage.Open(cfg.Root, logger)
	if err != nil {
		logger.Warn("run history unavailable", "error", err)
		history = nil
	}
	if history != nil {
		defer history.Close()
	}

	eng := engine.New(cfg, logger, history)
	result, err := eng.Drift(ctx)
	if err != nil {
		return err
	}

	if driftJSONFlag {
		encoded, err := output.DeterministicEncode(result.Drift)
		if err != nil {
			return err
		}
		os.Stdout.Write(encoded)
	} else {
		os.Stdout.Write(output.RenderDriftReport(result.Drift))
	}

	if result.ParseErrorCount > 0 {
		fmt.Fprintf(os.Stderr, "%d files failed to parse\n", result.ParseErrorCount)
		exitCode = 2
	}
	return nil
}
