package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/joao-fontenele/retail-ledger/internal/telemetry"
)

// DB is a database handle that knows its SQL dialect.
type DB struct {
	*sql.DB
	Dialect Dialect
}

func (db *DB) Rebind(query string) string {
	return db.Dialect.Rebind(query)
}

// Open connects to the store. source is a file path for SQLite and a
// connection URL for Postgres.
func Open(ctx context.Context, dialect Dialect, source string) (*DB, error) {
	var (
		dsn    string
		system attribute.KeyValue
	)
	switch dialect {
	case SQLite:
		dsn = sqliteDSN(source)
		system = semconv.DBSystemSqlite
	case Postgres:
		dsn = source
		system = semconv.DBSystemPostgreSQL
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	db, err := telemetry.OpenDB(string(dialect), dsn, system)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}

	if dialect == SQLite {
		// single writer; the ledger serializes writes anyway
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to %s database: %w", dialect, err)
	}

	return &DB{DB: db, Dialect: dialect}, nil
}

func sqliteDSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Set("_time_format", "sqlite")
	return "file:" + path + "?" + q.Encode()
}

// IsUniqueViolation reports whether err is a unique constraint failure from
// either supported driver.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}

	return false
}
