package receipts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/joao-fontenele/retail-ledger/internal/domain"
	"github.com/joao-fontenele/retail-ledger/internal/messaging"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func placedEvent() domain.OrderPlacedEvent {
	return domain.OrderPlacedEvent{
		EventID: "e1",
		OrderID: 7,
		UserID:  3,
		Lines: []domain.OrderLine{
			{ProductID: 1, Quantity: 2, UnitPrice: 99999},
			{ProductID: 3, Quantity: 1, UnitPrice: 14999},
		},
		Total:     214997,
		Timestamp: time.Date(2026, 10, 16, 9, 30, 15, 0, time.UTC),
	}
}

func delivery(t *testing.T, eventType string, event any) messaging.Delivery {
	t.Helper()
	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}
	return messaging.Delivery{Key: "7", EventType: eventType, Value: data}
}

func TestFormat(t *testing.T) {
	want := "Receipt for order #7\n" +
		"Customer: 3\n" +
		"Date: 2026-10-16 09:30:15 UTC\n" +
		"  product 1  2 x 999.99 = 1999.98\n" +
		"  product 3  1 x 149.99 = 149.99\n" +
		"Total: 2149.97\n\n"

	got, err := Format(placedEvent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("unexpected receipt:\n%s", got)
	}
}

func TestFormat_LineOutOfRange(t *testing.T) {
	event := placedEvent()
	event.Lines[0].Quantity = math.MaxInt64 / 10

	if _, err := Format(event); !errors.Is(err, domain.ErrAmountOutOfRange) {
		t.Fatalf("expected ErrAmountOutOfRange, got %v", err)
	}
}

func TestPrinter_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("prints order placed events", func(t *testing.T) {
		var out bytes.Buffer
		p := NewPrinter(&out, discard)

		if err := p.Handle(ctx, delivery(t, domain.EventTypeOrderPlaced, placedEvent())); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "Receipt for order #7") {
			t.Fatalf("expected receipt, got %q", out.String())
		}
	})

	t.Run("untyped payload is treated as order placed", func(t *testing.T) {
		var out bytes.Buffer
		p := NewPrinter(&out, discard)

		if err := p.Handle(ctx, delivery(t, "", placedEvent())); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Len() == 0 {
			t.Fatal("expected receipt")
		}
	})

	t.Run("skips other event types", func(t *testing.T) {
		var out bytes.Buffer
		p := NewPrinter(&out, discard)

		if err := p.Handle(ctx, delivery(t, "user.registered", map[string]string{"username": "alice"})); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Len() != 0 {
			t.Fatalf("expected no output, got %q", out.String())
		}
	})

	t.Run("skips malformed payloads", func(t *testing.T) {
		var out bytes.Buffer
		p := NewPrinter(&out, discard)

		d := messaging.Delivery{Key: "7", EventType: domain.EventTypeOrderPlaced, Value: []byte("{not json")}
		if err := p.Handle(ctx, d); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Len() != 0 {
			t.Fatalf("expected no output, got %q", out.String())
		}
	})

	t.Run("write failure is returned", func(t *testing.T) {
		p := NewPrinter(failingWriter{}, discard)

		err := p.Handle(ctx, delivery(t, domain.EventTypeOrderPlaced, placedEvent()))
		if !errors.Is(err, errDiskFull) {
			t.Fatalf("expected errDiskFull, got %v", err)
		}
	})
}

var errDiskFull = errors.New("disk full")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errDiskFull }
