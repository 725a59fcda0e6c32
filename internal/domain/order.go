package domain

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusPending OrderStatus = "pending"
)

type OrderLine struct {
	ID        int64 `json:"id"`
	OrderID   int64 `json:"order_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	UnitPrice Money `json:"unit_price"`
}

// LineTotal is quantity times the unit price captured at purchase.
func (l OrderLine) LineTotal() (Money, error) {
	return l.UnitPrice.Mul(l.Quantity)
}

type Order struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"user_id"`
	Lines     []OrderLine `json:"lines"`
	Total     Money       `json:"total"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// CartLine is what a cart believes about one product at add-to-cart time.
type CartLine struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice Money  `json:"unit_price"`
}

// CartLines maps product id to the requested line.
type CartLines map[int64]CartLine

// Total sums quantity times unit price over every line. A total that does
// not fit in int64 cents is an *InputError.
func (c CartLines) Total() (Money, error) {
	var total Money
	for id, line := range c {
		sub, err := line.UnitPrice.Mul(line.Quantity)
		if err == nil {
			total, err = total.Plus(sub)
		}
		if err != nil {
			return 0, &InputError{Field: "total", Message: fmt.Sprintf("out of range at product %d", id)}
		}
	}
	return total, nil
}

type ProductSales struct {
	ProductID    int64  `json:"product_id"`
	Name         string `json:"name"`
	QuantitySold int64  `json:"quantity_sold"`
	Revenue      Money  `json:"revenue"`
}
