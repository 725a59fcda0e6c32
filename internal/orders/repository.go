package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/joao-fontenele/retail-ledger/internal/domain"
	"github.com/joao-fontenele/retail-ledger/internal/store"
)

type OrderRepository struct {
	db *store.DB
}

func NewOrderRepository(db *store.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Place records the order, its lines and the stock decrements in one
// transaction. Stock is re-read for every line, in the order given, before
// anything is written. On success order and its lines carry generated ids.
func (r *OrderRepository) Place(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, line := range order.Lines {
		stock, err := r.stockInTx(ctx, tx, line.ProductID)
		if err != nil {
			return err
		}
		if line.Quantity > stock {
			return &domain.StockError{ProductID: line.ProductID, Requested: line.Quantity, Available: stock}
		}
	}

	err = tx.QueryRowContext(ctx, r.db.Rebind(`
		INSERT INTO orders (user_id, order_date, total_cents, payment_status)
		VALUES (?, ?, ?, ?)
		RETURNING order_id
	`), order.UserID, order.CreatedAt, order.Total, order.Status).Scan(&order.ID)
	if err != nil {
		return err
	}

	for i := range order.Lines {
		line := &order.Lines[i]
		line.OrderID = order.ID

		err = tx.QueryRowContext(ctx, r.db.Rebind(`
			INSERT INTO order_items (order_id, product_id, quantity, unit_price_cents)
			VALUES (?, ?, ?, ?)
			RETURNING id
		`), line.OrderID, line.ProductID, line.Quantity, line.UnitPrice).Scan(&line.ID)
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, r.db.Rebind(`
			UPDATE products
			SET stock_quantity = stock_quantity - ?
			WHERE product_id = ? AND stock_quantity >= ?
		`), line.Quantity, line.ProductID, line.Quantity)
		if err != nil {
			return err
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if rowsAffected == 0 {
			stock, err := r.stockInTx(ctx, tx, line.ProductID)
			if err != nil {
				return err
			}
			return &domain.StockError{ProductID: line.ProductID, Requested: line.Quantity, Available: stock}
		}
	}

	return tx.Commit()
}

func (r *OrderRepository) stockInTx(ctx context.Context, tx *sql.Tx, productID int64) (int, error) {
	var stock int
	err := tx.QueryRowContext(ctx, r.db.Rebind(`
		SELECT stock_quantity FROM products WHERE product_id = ?
	`), productID).Scan(&stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("product %d: %w", productID, domain.ErrProductNotFound)
		}
		return 0, err
	}
	return stock, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	order := &domain.Order{}

	err := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT order_id, user_id, order_date, total_cents, payment_status
		FROM orders
		WHERE order_id = ?
	`), id).Scan(&order.ID, &order.UserID, &order.CreatedAt, &order.Total, &order.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT id, order_id, product_id, quantity, unit_price_cents
		FROM order_items
		WHERE order_id = ?
		ORDER BY id
	`), id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	order.Lines = []domain.OrderLine{}
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.Quantity, &line.UnitPrice); err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return order, nil
}

// ListByUser returns the user's orders newest first, lines included.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT order_id, user_id, order_date, total_cents, payment_status
		FROM orders
		WHERE user_id = ?
		ORDER BY order_date DESC, order_id DESC
	`), userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orderMap := make(map[int64]*domain.Order)
	var orderIDs []int64

	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.UserID, &order.CreatedAt, &order.Total, &order.Status); err != nil {
			return nil, err
		}
		order.Lines = []domain.OrderLine{}
		orderMap[order.ID] = &order
		orderIDs = append(orderIDs, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(orderIDs) == 0 {
		return []domain.Order{}, nil
	}

	lineRows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.unit_price_cents
		FROM order_items oi
		JOIN orders o ON o.order_id = oi.order_id
		WHERE o.user_id = ?
		ORDER BY oi.id
	`), userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lineRows.Close() }()

	for lineRows.Next() {
		var line domain.OrderLine
		if err := lineRows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.Quantity, &line.UnitPrice); err != nil {
			return nil, err
		}
		if order, ok := orderMap[line.OrderID]; ok {
			order.Lines = append(order.Lines, line)
		}
	}

	if err := lineRows.Err(); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		orders = append(orders, *orderMap[id])
	}

	return orders, nil
}

// SalesStatistics aggregates every order line per product. Products without
// sales are reported with zero quantity and revenue.
func (r *OrderRepository) SalesStatistics(ctx context.Context) ([]domain.ProductSales, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.product_id,
		       p.name,
		       COALESCE(SUM(oi.quantity), 0) AS total_quantity,
		       COALESCE(SUM(oi.quantity * oi.unit_price_cents), 0) AS total_sales
		FROM products p
		LEFT JOIN order_items oi ON oi.product_id = p.product_id
		GROUP BY p.product_id, p.name
		ORDER BY total_sales DESC, p.product_id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	stats := []domain.ProductSales{}
	for rows.Next() {
		var s domain.ProductSales
		if err := rows.Scan(&s.ProductID, &s.Name, &s.QuantitySold, &s.Revenue); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
