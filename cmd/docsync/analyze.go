package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"docsync/internal/engine"
	"docsync/internal/lang"
	"docsync/internal/storage"
)

var (
	outputFlag   string
	scipFlag     bool
	compressFlag bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the tree and regenerate all documentation artifacts",
	Long: `Parses every recognized source file, builds the dependency graph, scores
complexity, detects patterns, scores artifact drift and rewrites the
generated pages, the drift report and the machine-readable analysis result.

Exits 2 when the run completed but some files failed to parse.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output directory (overrides config)")
	analyzeCmd.Flags().BoolVar(&scipFlag, "scip", false, "Also export a SCIP index of the symbol model")
	analyzeCmd.Flags().BoolVar(&compressFlag, "compress", false, "Write exports zstd-compressed")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if outputFlag != "" {
		cfg.OutputDir = outputFlag
	}
	if scipFlag {
		cfg.Export.SCIP = true
	}
	if compressFlag {
		cfg.Export.Compress = true
	}

	logger := newLogger(cfg)
	if !lang.IsAvailable() {
		logger.Warn("built without cgo, no language adapters registered, files will carry no symbols")
	}

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
	result, err := eng.Analyze(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Analyzed %d files, %d parse errors, %d cycles, %d pattern matches\n",
		result.Analysis.Model.Len(), result.ParseErrorCount,
		len(result.Analysis.Cycles), len(result.Analysis.Patterns))

	drifted := 0
	for _, rec := range result.Drift {
		if rec.Drifted {
			drifted++
		}
	}
	fmt.Printf("Artifacts: %d tracked, %d drifted\n", len(result.Drift), drifted)

	if result.ParseErrorCount > 0 {
		exitCode = 2
	}
	return nil
}
