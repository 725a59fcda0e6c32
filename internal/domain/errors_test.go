package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsMatchSentinels(t *testing.T) {
	t.Run("stock error", func(t *testing.T) {
		err := fmt.Errorf("place order: %w", &StockError{ProductID: 1, Requested: 51, Available: 50})
		if !errors.Is(err, ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}
		var stockErr *StockError
		if !errors.As(err, &stockErr) {
			t.Fatal("expected *StockError")
		}
		if stockErr.Available != 50 {
			t.Fatalf("expected available 50, got %d", stockErr.Available)
		}
	})

	t.Run("auth error hides reason", func(t *testing.T) {
		err := &AuthError{Reason: AuthUnknownUser}
		if !errors.Is(err, ErrAuthFailure) {
			t.Fatalf("expected ErrAuthFailure, got %v", err)
		}
		if err.Error() != ErrAuthFailure.Error() {
			t.Fatalf("unexpected message: %s", err.Error())
		}
	})

	t.Run("input error", func(t *testing.T) {
		err := &InputError{Field: "price", Message: "must not be negative"}
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
		if err.Error() != "invalid input: price must not be negative" {
			t.Fatalf("unexpected message: %s", err.Error())
		}
	})
}
