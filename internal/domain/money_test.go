package domain

import (
	"errors"
	"math"
	"testing"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    Money
		wantErr bool
	}{
		{in: "999.99", want: 99999},
		{in: "$149.99", want: 14999},
		{in: "0", want: 0},
		{in: "12", want: 1200},
		{in: "0.5", want: 50},
		{in: " 7.10 ", want: 710},
		{in: "-1.25", want: -125},
		{in: "1.005", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMoney(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestMoney_String(t *testing.T) {
	if got := Money(4999950).String(); got != "49999.50" {
		t.Fatalf("expected 49999.50, got %s", got)
	}
	if got := Money(0).String(); got != "0.00" {
		t.Fatalf("expected 0.00, got %s", got)
	}
	if got := Money(5).String(); got != "0.05" {
		t.Fatalf("expected 0.05, got %s", got)
	}
}

func TestCartLines_Total(t *testing.T) {
	lines := CartLines{
		1: {Name: "Laptop", Quantity: 2, UnitPrice: 99999},
		2: {Name: "Headphones", Quantity: 3, UnitPrice: 14999},
	}

	got, err := lines.Total()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 244995 {
		t.Fatalf("expected 244995, got %d", got)
	}
}

func TestCartLines_TotalOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		lines CartLines
	}{
		{name: "line", lines: CartLines{1: {Quantity: math.MaxInt64 / 10, UnitPrice: 100}}},
		{name: "sum", lines: CartLines{
			1: {Quantity: 1, UnitPrice: math.MaxInt64},
			2: {Quantity: 1, UnitPrice: 1},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.lines.Total()
			var inputErr *InputError
			if !errors.As(err, &inputErr) || inputErr.Field != "total" {
				t.Fatalf("expected total InputError, got %v", err)
			}
		})
	}
}

func TestMoney_Mul(t *testing.T) {
	got, err := Money(99999).Mul(50)
	if err != nil || got != 4999950 {
		t.Fatalf("expected 4999950, got %d (%v)", got, err)
	}

	if _, err := Money(math.MaxInt64).Mul(2); !errors.Is(err, ErrAmountOutOfRange) {
		t.Fatalf("expected ErrAmountOutOfRange, got %v", err)
	}
	if _, err := Money(math.MaxInt64).Plus(1); !errors.Is(err, ErrAmountOutOfRange) {
		t.Fatalf("expected ErrAmountOutOfRange, got %v", err)
	}
}
