package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"

	"github.com/joao-fontenele/retail-ledger/internal/config"
	"github.com/joao-fontenele/retail-ledger/internal/store"
	"github.com/joao-fontenele/retail-ledger/internal/telemetry"
)

func main() {
	flag.Parse()

	if err := run(flag.Args()); err != nil {
		slog.Error("migrate failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(context.Background())
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	return execute(cfg, args)
}

func execute(cfg *config.Config, args []string) error {
	logger := telemetry.NewLogger(os.Stdout, cfg.Log.Level, "text")
	slog.SetDefault(logger)

	if len(args) < 1 {
		return errors.New("usage: migrate <up|down|version>")
	}

	m, err := store.NewMigrator(cfg.Dialect(), cfg.DatabaseSource())
	if err != nil {
		return fmt.Errorf("create migrate instance for %s: %w", cfg.Dialect(), err)
	}
	defer func() { _, _ = m.Close() }()

	switch command := args[0]; command {
	case "up":
		err = m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("no pending migrations")
			return nil
		}
		if err != nil {
			return fmt.Errorf("migration up: %w", err)
		}
		logger.Info("migrations applied successfully", "driver", cfg.Dialect())

	case "down":
		err = m.Steps(-1)
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("no migrations to rollback")
			return nil
		}
		if err != nil {
			return fmt.Errorf("migration down: %w", err)
		}
		logger.Info("migration rolled back successfully")

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			logger.Info("no migrations applied yet")
			return nil
		}
		if err != nil {
			return fmt.Errorf("get version: %w", err)
		}
		logger.Info("current migration version", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))

	default:
		return fmt.Errorf("unknown command %q", command)
	}
	return nil
}
