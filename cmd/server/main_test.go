package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirecircle/internal/config"
)

func TestResolveConfigAppliesFlagsBeforeValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("max_history: 0\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	logger := zerolog.Nop()

	if _, _, err := resolveConfig(&logger, path, config.Config{}); err == nil {
		t.Fatal("expected invalid config without override")
	}

	cfg, _, err := resolveConfig(&logger, path, config.Config{MaxHistory: 10})
	if err != nil {
		t.Fatalf("resolve with override: %v", err)
	}
	if cfg.MaxHistory != 10 {
		t.Fatalf("max_history = %d, want 10", cfg.MaxHistory)
	}
}

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCommand()
	for _, name := range []string{"config", "addr", "log-level", "max-history", "static-dir"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("missing flag --%s", name)
		}
	}
}
