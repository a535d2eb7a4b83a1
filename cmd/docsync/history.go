package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"docsync/internal/storage"
)

var historyLimitFlag int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent pipeline runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", 20, "Maximum runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	db, err := storage.Open(cfg.Root, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.RecentRuns(historyLimitFlag)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	fmt.Printf("%-36s %-8s %-20s %-9s %6s %8s %7s %7s %s\n",
		"ID", "COMMAND", "STARTED", "DURATION", "FILES", "SYMBOLS", "ERRORS", "DRIFTED", "STATUS")
	for _, run := range runs {
		fmt.Printf("%-36s %-8s %-20s %-9s %6d %8d %7d %7d %s\n",
			run.ID, run.Command,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond),
			run.Files, run.Symbols, run.ParseErrors, run.Drifted, run.Status)
	}
	return nil
}
