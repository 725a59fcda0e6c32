package session

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/joao-fontenele/retail-ledger/internal/domain"
)

// Cart holds lines a user intends to buy. Prices and stock are what the
// catalog showed when the line was added; the ledger re-checks stock at
// checkout.
type Cart struct {
	lines map[int64]domain.CartLine
}

func NewCart() *Cart {
	return &Cart{lines: make(map[int64]domain.CartLine)}
}

// Add accumulates qty of product. The accumulated quantity may not exceed
// the stock the product was displayed with, and the cart total must stay
// within range.
func (c *Cart) Add(product domain.Product, qty int) error {
	if qty < 1 {
		return &domain.InputError{Field: "quantity", Message: "must be at least 1"}
	}

	line := c.lines[product.ID]
	if product.Stock <= 0 || qty > product.Stock-line.Quantity {
		requested := line.Quantity + qty
		if requested < line.Quantity {
			requested = math.MaxInt
		}
		return &domain.StockError{ProductID: product.ID, Requested: requested, Available: product.Stock}
	}
	want := line.Quantity + qty

	next := maps.Clone(c.lines)
	next[product.ID] = domain.CartLine{
		Name:      product.Name,
		Quantity:  want,
		UnitPrice: product.Price,
	}
	if _, err := domain.CartLines(next).Total(); err != nil {
		return err
	}
	c.lines = next
	return nil
}

func (c *Cart) Remove(productID int64) error {
	if _, ok := c.lines[productID]; !ok {
		return fmt.Errorf("product %d is not in the cart", productID)
	}
	delete(c.lines, productID)
	return nil
}

// Lines returns a copy suitable for ledger.PlaceOrder.
func (c *Cart) Lines() domain.CartLines {
	return maps.Clone(domain.CartLines(c.lines))
}

type Entry struct {
	ProductID int64
	domain.CartLine
}

// Subtotal is in range for every entry Add accepted.
func (e Entry) Subtotal() domain.Money {
	sub, _ := e.UnitPrice.Mul(e.Quantity)
	return sub
}

// Entries lists the cart ordered by product id.
func (c *Cart) Entries() []Entry {
	ids := slices.Sorted(maps.Keys(c.lines))
	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, Entry{ProductID: id, CartLine: c.lines[id]})
	}
	return entries
}

func (c *Cart) Total() domain.Money {
	total, _ := domain.CartLines(c.lines).Total()
	return total
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) Clear() {
	clear(c.lines)
}
