package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sethvargo/go-envconfig"

	"github.com/joao-fontenele/retail-ledger/internal/config"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"SQLITE_PATH": filepath.Join(t.TempDir(), "retail.db"),
		"LOG_LEVEL":   "error",
	}))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func TestExecute(t *testing.T) {
	t.Run("missing command", func(t *testing.T) {
		err := execute(sqliteConfig(t), nil)
		if err == nil || !strings.Contains(err.Error(), "usage") {
			t.Fatalf("expected usage error, got %v", err)
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		err := execute(sqliteConfig(t), []string{"sideways"})
		if err == nil || !strings.Contains(err.Error(), "sideways") {
			t.Fatalf("expected unknown command error, got %v", err)
		}
	})

	t.Run("up then version", func(t *testing.T) {
		cfg := sqliteConfig(t)
		if err := execute(cfg, []string{"up"}); err != nil {
			t.Fatalf("up failed: %v", err)
		}
		if err := execute(cfg, []string{"up"}); err != nil {
			t.Fatalf("second up should be a no-op, got %v", err)
		}
		if err := execute(cfg, []string{"version"}); err != nil {
			t.Fatalf("version failed: %v", err)
		}
	})
}
