package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dataJSA/radiant-mlhub/internal/config"
)

func TestRunNoArgs(t *testing.T) {
	if code := run(nil); code != ExitInvalidArgs {
		t.Errorf("run() = %d, want %d", code, ExitInvalidArgs)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	if code := run([]string{"bogus"}); code != ExitInvalidArgs {
		t.Errorf("run(bogus) = %d, want %d", code, ExitInvalidArgs)
	}
}

func TestRunHelp(t *testing.T) {
	for _, arg := range []string{"help", "-h", "--help"} {
		if code := run([]string{arg}); code != ExitSuccess {
			t.Errorf("run(%s) = %d, want %d", arg, code, ExitSuccess)
		}
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"), config.Config{}); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("max_items: 3\nlimit: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	override := config.Config{Limit: 25}

	cfg, err := loadConfig(path, override)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.MaxItems != 3 {
		t.Errorf("MaxItems = %d, want 3 from file", cfg.MaxItems)
	}
	if cfg.Limit != 25 {
		t.Errorf("Limit = %d, want flag override 25", cfg.Limit)
	}
}
