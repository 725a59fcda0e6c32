// Package storetest provides migrated throwaway databases for tests.
package storetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/joao-fontenele/retail-ledger/internal/store"
)

// NewSQLite returns a migrated SQLite database in a temp dir, closed when
// the test ends.
func NewSQLite(t *testing.T) *store.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "retail.db")
	if err := store.Migrate(store.SQLite, path); err != nil {
		t.Fatalf("failed to migrate sqlite database: %v", err)
	}

	db, err := store.Open(context.Background(), store.SQLite, path)
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}
