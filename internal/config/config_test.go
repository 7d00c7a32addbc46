package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DefaultModel != "fast" {
		t.Errorf("DefaultModel = %s, want fast", cfg.DefaultModel)
	}
	if cfg.Verbose {
		t.Error("Verbose should default to false")
	}
	if cfg.MarkdownStyle != "dark" {
		t.Errorf("MarkdownStyle = %s, want dark", cfg.MarkdownStyle)
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.DefaultModel != "fast" {
		t.Errorf("missing config file should yield defaults, got %+v", cfg)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.DefaultModel = "pro"
	cfg.Verbose = true
	cfg.PersonaName = "analyst"

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.DefaultModel != "pro" || !loaded.Verbose || loaded.PersonaName != "analyst" {
		t.Errorf("loaded config = %+v", loaded)
	}
}

func TestLoadConfig_CorruptFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	configDir := filepath.Join(home, ".companion")
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("{broken"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err == nil {
		t.Error("expected error for corrupt config")
	}
	if cfg.DefaultModel != "fast" {
		t.Error("corrupt config should fall back to defaults")
	}
}

func TestEnsureConfigDirPermissions(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir, err := EnsureConfigDir()
	if err != nil {
		t.Fatalf("EnsureConfigDir failed: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o700 {
		t.Errorf("config dir permissions = %o, want 700", info.Mode().Perm())
	}
}
