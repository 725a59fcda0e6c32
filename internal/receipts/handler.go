// Package receipts turns order placed events into plain-text receipts.
package receipts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/joao-fontenele/retail-ledger/internal/domain"
	"github.com/joao-fontenele/retail-ledger/internal/messaging"
)

type Printer struct {
	out    io.Writer
	logger *slog.Logger

	mu sync.Mutex
}

func NewPrinter(out io.Writer, logger *slog.Logger) *Printer {
	return &Printer{out: out, logger: logger}
}

// Handle prints a receipt for an order placed event. Other event types and
// undecodable payloads are logged and skipped so they do not block the
// partition; only write failures are returned.
func (p *Printer) Handle(ctx context.Context, d messaging.Delivery) error {
	if d.EventType != "" && d.EventType != domain.EventTypeOrderPlaced {
		p.logger.InfoContext(ctx, "skipping event", "event_type", d.EventType, "key", d.Key)
		return nil
	}

	var event domain.OrderPlacedEvent
	if err := json.Unmarshal(d.Value, &event); err != nil {
		p.logger.ErrorContext(ctx, "failed to decode order placed event", "error", err, "key", d.Key)
		return nil
	}

	p.logger.InfoContext(ctx, "processing order placed event", "event_id", event.EventID, "order_id", event.OrderID, "user_id", event.UserID)

	receipt, err := Format(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to format receipt", "error", err, "order_id", event.OrderID)
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := io.WriteString(p.out, receipt); err != nil {
		p.logger.ErrorContext(ctx, "failed to write receipt", "error", err, "order_id", event.OrderID)
		return fmt.Errorf("write receipt for order %d: %w", event.OrderID, err)
	}

	return nil
}

// Format renders a receipt. A line whose total is out of range fails the
// whole receipt.
func Format(event domain.OrderPlacedEvent) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Receipt for order #%d\n", event.OrderID)
	fmt.Fprintf(&b, "Customer: %d\n", event.UserID)
	fmt.Fprintf(&b, "Date: %s\n", event.Timestamp.UTC().Format("2006-01-02 15:04:05 UTC"))
	for _, line := range event.Lines {
		sub, err := line.LineTotal()
		if err != nil {
			return "", fmt.Errorf("line for product %d: %w", line.ProductID, err)
		}
		fmt.Fprintf(&b, "  product %d  %d x %s = %s\n", line.ProductID, line.Quantity, line.UnitPrice, sub)
	}
	fmt.Fprintf(&b, "Total: %s\n\n", event.Total)

	return b.String(), nil
}
