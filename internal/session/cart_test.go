package session

import (
	"errors"
	"math"
	"testing"

	"github.com/joao-fontenele/retail-ledger/internal/domain"
)

var laptop = domain.Product{ID: 1, Name: "Laptop", Price: 99999, Stock: 3}

func TestCart_Add(t *testing.T) {
	t.Run("accumulates quantity", func(t *testing.T) {
		c := NewCart()
		if err := c.Add(laptop, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := c.Add(laptop, 2); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := c.Lines()
		if lines[laptop.ID].Quantity != 3 {
			t.Fatalf("expected quantity 3, got %d", lines[laptop.ID].Quantity)
		}
		if c.Total() != 3*99999 {
			t.Fatalf("unexpected total: %s", c.Total())
		}
	})

	t.Run("cannot exceed displayed stock", func(t *testing.T) {
		c := NewCart()
		if err := c.Add(laptop, 2); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		err := c.Add(laptop, 2)
		var stockErr *domain.StockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("expected *StockError, got %v", err)
		}
		if stockErr.Requested != 4 || stockErr.Available != 3 {
			t.Fatalf("unexpected stock error: %+v", stockErr)
		}
		if c.Lines()[laptop.ID].Quantity != 2 {
			t.Fatal("rejected add changed the cart")
		}
	})

	t.Run("out of stock product", func(t *testing.T) {
		c := NewCart()
		soldOut := domain.Product{ID: 2, Name: "Tablet", Price: 100, Stock: 0}
		if err := c.Add(soldOut, 1); !errors.Is(err, domain.ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		c := NewCart()
		if err := c.Add(laptop, 0); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
		if c.Len() != 0 {
			t.Fatalf("expected empty cart, got %d lines", c.Len())
		}
	})
}

func TestCart_AddRejectsTotalOutOfRange(t *testing.T) {
	bulk := domain.Product{ID: 2, Name: "Bulk", Price: 100, Stock: math.MaxInt64}

	c := NewCart()
	if err := c.Add(laptop, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := c.Add(bulk, math.MaxInt64/10)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if c.Len() != 1 || c.Total() != 99999 {
		t.Fatalf("expected cart unchanged, got %d lines totalling %s", c.Len(), c.Total())
	}
}

func TestCart_AddHugeQuantity(t *testing.T) {
	c := NewCart()
	if err := c.Add(laptop, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var stockErr *domain.StockError
	if err := c.Add(laptop, math.MaxInt); !errors.As(err, &stockErr) {
		t.Fatalf("expected StockError, got %v", err)
	}
	if stockErr.Requested != math.MaxInt {
		t.Fatalf("expected saturated request, got %d", stockErr.Requested)
	}
	if got := c.Lines()[laptop.ID].Quantity; got != 2 {
		t.Fatalf("expected quantity 2, got %d", got)
	}
}

func TestCart_LinesIsACopy(t *testing.T) {
	c := NewCart()
	if err := c.Add(laptop, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := c.Lines()
	delete(lines, laptop.ID)

	if c.Len() != 1 {
		t.Fatal("mutating Lines() changed the cart")
	}
}

func TestCart_RemoveAndEntries(t *testing.T) {
	c := NewCart()
	phone := domain.Product{ID: 5, Name: "Smartphone", Price: 69999, Stock: 10}
	watch := domain.Product{ID: 2, Name: "Smartwatch", Price: 19999, Stock: 10}

	for _, p := range []domain.Product{phone, watch, laptop} {
		if err := c.Add(p, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	entries := c.Entries()
	if len(entries) != 3 || entries[0].ProductID != 1 || entries[1].ProductID != 2 || entries[2].ProductID != 5 {
		t.Fatalf("expected entries ordered by id, got %+v", entries)
	}
	if entries[2].Subtotal() != 69999 {
		t.Fatalf("unexpected subtotal: %s", entries[2].Subtotal())
	}

	if err := c.Remove(watch.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Remove(watch.ID); err == nil {
		t.Fatal("expected error removing a missing line")
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 lines, got %d", c.Len())
	}

	c.Clear()
	if c.Len() != 0 || c.Total() != 0 {
		t.Fatal("expected empty cart after Clear")
	}
}

func TestSession_LoginLogout(t *testing.T) {
	s := New()
	if s.ID == "" {
		t.Fatal("expected session id")
	}
	if s.LoggedIn() || s.IsAdmin() {
		t.Fatal("new session should be anonymous")
	}

	s.Login(&domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin})
	if !s.IsAdmin() {
		t.Fatal("expected admin session")
	}

	s.Login(&domain.User{ID: 2, Username: "alice", Role: domain.RoleCustomer})
	if s.IsAdmin() || !s.LoggedIn() {
		t.Fatal("expected customer session")
	}
	if err := s.Cart.Add(laptop, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Logout()
	if s.LoggedIn() || s.Cart.Len() != 0 {
		t.Fatal("logout should clear user and cart")
	}
}
