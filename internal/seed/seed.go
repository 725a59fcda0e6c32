// Package seed performs first-run initialization of a store: one
// administrator account and the default catalog. Running it again is a no-op.
package seed

import (
	"context"
	"fmt"

	"github.com/joao-fontenele/retail-ledger/internal/auth"
	"github.com/joao-fontenele/retail-ledger/internal/domain"
	"github.com/joao-fontenele/retail-ledger/internal/store"
)

type Defaults struct {
	AdminUsername string
	AdminPassword string
	Products      []domain.Product
}

func DefaultProducts() []domain.Product {
	return []domain.Product{
		{Name: "Laptop", Price: 99999, Stock: 50},
		{Name: "Smartphone", Price: 69999, Stock: 100},
		{Name: "Headphones", Price: 14999, Stock: 200},
		{Name: "Tablet", Price: 39999, Stock: 75},
		{Name: "Smartwatch", Price: 19999, Stock: 150},
	}
}

func DefaultDefaults() Defaults {
	return Defaults{
		AdminUsername: "admin",
		AdminPassword: "admin123",
		Products:      DefaultProducts(),
	}
}

type Result struct {
	AdminCreated    bool
	ProductsCreated int
}

// Run creates the administrator when no admin exists and the default
// products when the catalog is empty, in one transaction.
func Run(ctx context.Context, db *store.DB, hasher auth.Hasher, d Defaults) (Result, error) {
	var res Result

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return res, err
	}
	defer func() { _ = tx.Rollback() }()

	var admins int
	if err := tx.QueryRowContext(ctx, db.Rebind(`SELECT COUNT(*) FROM users WHERE role = ?`), domain.RoleAdmin).Scan(&admins); err != nil {
		return res, fmt.Errorf("count administrators: %w", err)
	}

	if admins == 0 {
		credential, err := hasher.Hash(d.AdminPassword)
		if err != nil {
			return res, fmt.Errorf("hash administrator credential: %w", err)
		}
		if _, err := tx.ExecContext(ctx, db.Rebind(`
			INSERT INTO users (username, password, role) VALUES (?, ?, ?)
		`), d.AdminUsername, credential, domain.RoleAdmin); err != nil {
			return res, fmt.Errorf("create administrator: %w", err)
		}
		res.AdminCreated = true
	}

	var products int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&products); err != nil {
		return res, fmt.Errorf("count products: %w", err)
	}

	if products == 0 {
		for _, p := range d.Products {
			if _, err := tx.ExecContext(ctx, db.Rebind(`
				INSERT INTO products (name, price_cents, stock_quantity) VALUES (?, ?, ?)
			`), p.Name, p.Price, p.Stock); err != nil {
				return res, fmt.Errorf("create product %q: %w", p.Name, err)
			}
			res.ProductsCreated++
		}
	}

	if err := tx.Commit(); err != nil {
		return Result{}, err
	}

	return res, nil
}
