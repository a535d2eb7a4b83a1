// Package config loads and validates docsync run configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"docsync/internal/errors"
)

// Config represents the complete docsync configuration.
type Config struct {
	Version int    `json:"version" mapstructure:"version"`
	Root    string `json:"root" mapstructure:"root"`

	// OutputDir receives rendered pages, the drift report and exports.
	OutputDir string `json:"outputDir" mapstructure:"outputDir"`

	// FingerprintPath is the persisted fingerprint store file.
	FingerprintPath string `json:"fingerprintPath" mapstructure:"fingerprintPath"`

	// Excludes are gitignore-style glob patterns relative to Root.
	Excludes []string `json:"excludes" mapstructure:"excludes"`

	Extract  ExtractConfig  `json:"extract" mapstructure:"extract"`
	Patterns PatternsConfig `json:"patterns" mapstructure:"patterns"`
	Export   ExportConfig   `json:"export" mapstructure:"export"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// ExtractConfig bounds the parse stage.
type ExtractConfig struct {
	// Workers is the parse worker pool size; 0 means GOMAXPROCS.
	Workers int `json:"workers" mapstructure:"workers"`

	// ParseTimeoutMs is the per-file parse deadline.
	ParseTimeoutMs int `json:"parseTimeoutMs" mapstructure:"parseTimeoutMs"`

	// MaxFileSizeBytes skips files larger than this entirely.
	MaxFileSizeBytes int `json:"maxFileSizeBytes" mapstructure:"maxFileSizeBytes"`
}

// PatternsConfig selects and tunes pattern rules.
type PatternsConfig struct {
	// Enabled lists rule identifiers to run; empty means all registered rules.
	Enabled []string `json:"enabled" mapstructure:"enabled"`

	// RulesPath points at an optional rules.toml with per-rule tuning.
	RulesPath string `json:"rulesPath" mapstructure:"rulesPath"`
}

// ExportConfig controls machine-readable exports.
type ExportConfig struct {
	// SCIP emits a SCIP index of the symbol model alongside analysis.json.
	SCIP bool `json:"scip" mapstructure:"scip"`

	// Compress writes exports zstd-compressed with a .zst suffix.
	Compress bool `json:"compress" mapstructure:"compress"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration rooted at ".".
func DefaultConfig() *Config {
	return &Config{
		Version:         1,
		Root:            ".",
		OutputDir:       "docs/generated",
		FingerprintPath: ".docsync/fingerprints.yaml",
		Excludes: []string{
			"vendor/",
			"node_modules/",
			".git/",
			"dist/",
			"build/",
			"docs/generated/",
		},
		Extract: ExtractConfig{
			Workers:          0,
			ParseTimeoutMs:   10000,
			MaxFileSizeBytes: 1000000,
		},
		Patterns: PatternsConfig{
			Enabled:   nil,
			RulesPath: ".docsync/rules.toml",
		},
		Export: ExportConfig{
			SCIP:     false,
			Compress: false,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from <root>/.docsync/config.json, falling back to
// defaults when no config file exists.
func Load(root string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(root, ".docsync"))

	cfg := DefaultConfig()
	cfg.Root = root

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, errors.New(errors.ConfigInvalid, "reading config file", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.New(errors.ConfigInvalid, "decoding config file", err)
	}
	if cfg.Root == "" || cfg.Root == "." {
		cfg.Root = root
	}

	return cfg, nil
}

// Save writes the configuration to <root>/.docsync/config.json.
func (c *Config) Save(root string) error {
	dir := filepath.Join(root, ".docsync")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks the configuration, returning a fatal ConfigInvalid error
// on the first problem found.
func (c *Config) Validate() error {
	info, err := os.Stat(c.Root)
	if err != nil {
		return errors.New(errors.ConfigInvalid, "root path unreadable: "+c.Root, err)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ConfigInvalid, "root path is not a directory: %s", c.Root)
	}
	if c.OutputDir == "" {
		return errors.Newf(errors.ConfigInvalid, "outputDir must not be empty")
	}
	if c.FingerprintPath == "" {
		return errors.Newf(errors.ConfigInvalid, "fingerprintPath must not be empty")
	}
	if c.Extract.ParseTimeoutMs < 0 {
		return errors.Newf(errors.ConfigInvalid, "extract.parseTimeoutMs must be >= 0")
	}
	if c.Extract.Workers < 0 {
		return errors.Newf(errors.ConfigInvalid, "extract.workers must be >= 0")
	}
	return nil
}
