package seed

import (
	"context"
	"testing"

	"github.com/joao-fontenele/retail-ledger/internal/auth"
	"github.com/joao-fontenele/retail-ledger/internal/store"
	"github.com/joao-fontenele/retail-ledger/internal/store/storetest"
)

func count(t *testing.T, db *store.DB, query string) int {
	t.Helper()
	var n int
	if err := db.QueryRowContext(context.Background(), query).Scan(&n); err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	return n
}

func TestRun_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := storetest.NewSQLite(t)

	first, err := Run(ctx, db, auth.Plain{}, DefaultDefaults())
	if err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	if !first.AdminCreated || first.ProductsCreated != 5 {
		t.Fatalf("unexpected first result: %+v", first)
	}

	second, err := Run(ctx, db, auth.Plain{}, DefaultDefaults())
	if err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	if second.AdminCreated || second.ProductsCreated != 0 {
		t.Fatalf("expected second seed to be a no-op, got %+v", second)
	}

	if n := count(t, db, `SELECT COUNT(*) FROM products`); n != 5 {
		t.Fatalf("expected 5 products, got %d", n)
	}
	if n := count(t, db, `SELECT COUNT(*) FROM users WHERE role = 'admin'`); n != 1 {
		t.Fatalf("expected 1 administrator, got %d", n)
	}
}

func TestRun_DefaultCatalog(t *testing.T) {
	ctx := context.Background()
	db := storetest.NewSQLite(t)

	if _, err := Run(ctx, db, auth.Plain{}, DefaultDefaults()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	var (
		name  string
		price int64
		stock int
	)
	err := db.QueryRowContext(ctx, `SELECT name, price_cents, stock_quantity FROM products ORDER BY product_id LIMIT 1`).Scan(&name, &price, &stock)
	if err != nil {
		t.Fatalf("failed to read first product: %v", err)
	}
	if name != "Laptop" || price != 99999 || stock != 50 {
		t.Fatalf("unexpected first product: %s %d %d", name, price, stock)
	}

	var password string
	if err := db.QueryRowContext(ctx, `SELECT password FROM users WHERE username = 'admin'`).Scan(&password); err != nil {
		t.Fatalf("failed to read admin: %v", err)
	}
	if password != "admin123" {
		t.Fatalf("expected plain default credential, got %s", password)
	}
}

func TestRun_KeepsExistingCatalog(t *testing.T) {
	ctx := context.Background()
	db := storetest.NewSQLite(t)

	if _, err := db.ExecContext(ctx, `INSERT INTO products (name, price_cents, stock_quantity) VALUES ('Camera', 25000, 3)`); err != nil {
		t.Fatalf("failed to insert product: %v", err)
	}

	res, err := Run(ctx, db, auth.Plain{}, DefaultDefaults())
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if res.ProductsCreated != 0 || !res.AdminCreated {
		t.Fatalf("unexpected result: %+v", res)
	}
	if n := count(t, db, `SELECT COUNT(*) FROM products`); n != 1 {
		t.Fatalf("expected catalog untouched, got %d products", n)
	}
}
