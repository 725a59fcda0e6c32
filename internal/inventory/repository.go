package inventory

import (
	"context"

	"github.com/joao-fontenele/retail-ledger/internal/domain"
	"github.com/joao-fontenele/retail-ledger/internal/store"
)

type ProductRepository struct {
	db *store.DB
}

func NewProductRepository(db *store.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, name, price_cents, stock_quantity
		FROM products
		ORDER BY product_id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *ProductRepository) Create(ctx context.Context, name string, price domain.Money, stock int) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`
		INSERT INTO products (name, price_cents, stock_quantity)
		VALUES (?, ?, ?)
		RETURNING product_id
	`), name, price, stock).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}
