package store

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/joao-fontenele/retail-ledger/migrations"
)

// NewMigrator builds a migrate instance over the embedded schema of the
// dialect. The caller owns Close.
func NewMigrator(dialect Dialect, source string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations.FS, string(dialect))
	if err != nil {
		return nil, fmt.Errorf("load %s migrations: %w", dialect, err)
	}

	var databaseURL string
	switch dialect {
	case SQLite:
		databaseURL = "sqlite://" + source
	case Postgres:
		databaseURL = source
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}

// Migrate applies every pending migration.
func Migrate(dialect Dialect, source string) error {
	m, err := NewMigrator(dialect, source)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
