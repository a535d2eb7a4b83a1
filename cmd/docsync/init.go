package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docsync/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration under <root>/.docsync",
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfgPath := filepath.Join(rootFlag, ".docsync", "config.json")
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := config.DefaultConfig()
	cfg.Root = rootFlag
	if err := cfg.Save(rootFlag); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", cfgPath)
	return nil
}
