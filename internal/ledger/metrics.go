package ledger

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/joao-fontenele/retail-ledger/internal/ledger"

type metrics struct {
	ordersPlaced    metric.Int64Counter
	ordersRejected  metric.Int64Counter
	revenue         metric.Int64Counter
	usersRegistered metric.Int64Counter
	productsAdded   metric.Int64Counter
}

func newMetrics() (*metrics, error) {
	meter := otel.Meter(instrumentationName)

	var (
		m   metrics
		err error
	)

	if m.ordersPlaced, err = meter.Int64Counter("ledger.orders.placed",
		metric.WithDescription("Orders committed to the ledger")); err != nil {
		return nil, err
	}
	if m.ordersRejected, err = meter.Int64Counter("ledger.orders.rejected",
		metric.WithDescription("Checkouts that left the ledger unchanged")); err != nil {
		return nil, err
	}
	if m.revenue, err = meter.Int64Counter("ledger.revenue",
		metric.WithUnit("{cent}"),
		metric.WithDescription("Sum of committed order totals")); err != nil {
		return nil, err
	}
	if m.usersRegistered, err = meter.Int64Counter("ledger.users.registered"); err != nil {
		return nil, err
	}
	if m.productsAdded, err = meter.Int64Counter("ledger.products.added"); err != nil {
		return nil, err
	}

	return &m, nil
}

func (m *metrics) rejected(ctx context.Context, reason string) {
	m.ordersRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
