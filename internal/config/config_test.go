package config

import (
	"os"
	"path/filepath"
	"testing"

	"docsync/internal/errors"
)

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	root := t.TempDir()
	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Root != root {
		t.Errorf("Root = %q, want %q", cfg.Root, root)
	}
	if cfg.OutputDir != "docs/generated" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.Extract.ParseTimeoutMs != 10000 {
		t.Errorf("ParseTimeoutMs = %d", cfg.Extract.ParseTimeoutMs)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".docsync")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := `{
		"outputDir": "site/docs",
		"excludes": ["generated/"],
		"extract": {"workers": 2, "parseTimeoutMs": 500},
		"export": {"scip": true}
	}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OutputDir != "site/docs" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.Extract.Workers != 2 || cfg.Extract.ParseTimeoutMs != 500 {
		t.Errorf("Extract = %+v", cfg.Extract)
	}
	if !cfg.Export.SCIP {
		t.Error("Export.SCIP not read")
	}
	// Unset fields keep defaults.
	if cfg.FingerprintPath != ".docsync/fingerprints.yaml" {
		t.Errorf("FingerprintPath = %q", cfg.FingerprintPath)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".docsync")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(root)
	if err == nil {
		t.Fatal("Load() should fail on malformed config")
	}
	if errors.CodeOf(err) != errors.ConfigInvalid {
		t.Errorf("code = %s, want %s", errors.CodeOf(err), errors.ConfigInvalid)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultConfig()
	cfg.Root = root
	cfg.OutputDir = "out"

	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.OutputDir != "out" {
		t.Errorf("OutputDir = %q after round trip", loaded.OutputDir)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Root = t.TempDir()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default config", func(*Config) {}, false},
		{"missing root", func(c *Config) { c.Root = filepath.Join(c.Root, "absent") }, true},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }, true},
		{"empty fingerprint path", func(c *Config) { c.FingerprintPath = "" }, true},
		{"negative timeout", func(c *Config) { c.Extract.ParseTimeoutMs = -1 }, true},
		{"negative workers", func(c *Config) { c.Extract.Workers = -2 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && errors.CodeOf(err) != errors.ConfigInvalid {
				t.Errorf("code = %s, want %s", errors.CodeOf(err), errors.ConfigInvalid)
			}
		})
	}
}

func TestValidateRootIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "afile")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.Root = file
	if cfg.Validate() == nil {
		t.Error("Validate() should reject a file root")
	}
}
