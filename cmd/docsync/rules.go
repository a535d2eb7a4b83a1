package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"docsync/internal/patterns"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List pattern detection rules and their tuning",
	RunE:  runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rulesPath := cfg.Patterns.RulesPath
	if !filepath.IsAbs(rulesPath) {
		rulesPath = filepath.Join(cfg.Root, rulesPath)
	}
	rulesCfg, err := patterns.LoadRulesConfig(rulesPath)
	if err != nil {
		return err
	}

	enabled := map[string]bool{}
	for _, id := range cfg.Patterns.Enabled {
		enabled[id] = true
	}

	for _, rule := range patterns.BuiltinRules(rulesCfg) {
		state := "enabled"
		if len(cfg.Patterns.Enabled) > 0 && !enabled[rule.ID] {
			state = "disabled"
		}
		fmt.Printf("%-18s %-10s %s\n", rule.ID, rule.Tag, state)
	}
	return nil
}
