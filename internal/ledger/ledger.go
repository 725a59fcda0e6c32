// Package ledger owns users, products, orders and order lines, and the
// invariants between them. It keeps no state between calls besides the store.
//
// Role checks are the caller's job: AddProduct and SalesStatistics accept any
// caller.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/joao-fontenele/retail-ledger/internal/auth"
	"github.com/joao-fontenele/retail-ledger/internal/domain"
	"github.com/joao-fontenele/retail-ledger/internal/inventory"
	"github.com/joao-fontenele/retail-ledger/internal/orders"
	"github.com/joao-fontenele/retail-ledger/internal/store"
	"github.com/joao-fontenele/retail-ledger/internal/users"
)

var tracer = otel.Tracer("ledger")

// Publisher receives an event after an order is committed.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type Ledger struct {
	users     *users.UserRepository
	products  *inventory.ProductRepository
	orders    *orders.OrderRepository
	hasher    auth.Hasher
	publisher Publisher
	validate  *validator.Validate
	metrics   *metrics
	logger    *slog.Logger
	now       func() time.Time

	// serializes writes
	mu sync.Mutex
}

type Option func(*Ledger)

func WithHasher(h auth.Hasher) Option {
	return func(l *Ledger) { l.hasher = h }
}

func WithPublisher(p Publisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func New(db *store.DB, opts ...Option) (*Ledger, error) {
	m, err := newMetrics()
	if err != nil {
		return nil, fmt.Errorf("create ledger metrics: %w", err)
	}

	l := &Ledger{
		users:    users.NewUserRepository(db),
		products: inventory.NewProductRepository(db),
		orders:   orders.NewOrderRepository(db),
		hasher:   auth.Plain{},
		validate: validator.New(),
		metrics:  m,
		logger:   slog.Default(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

func (l *Ledger) RegisterCustomer(ctx context.Context, username, password string) (int64, error) {
	ctx, span := tracer.Start(ctx, "ledger.RegisterCustomer")
	defer span.End()

	req := registration{
		Username: strings.TrimSpace(username),
		Password: strings.TrimSpace(password),
	}
	if err := l.check(req); err != nil {
		return 0, fail(span, err)
	}

	credential, err := l.hasher.Hash(req.Password)
	if err != nil {
		return 0, fail(span, fmt.Errorf("hash credential: %w", err))
	}

	l.mu.Lock()
	id, err := l.users.Create(ctx, req.Username, credential, domain.RoleCustomer)
	l.mu.Unlock()
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			l.logger.Info("registration rejected", "username", req.Username, "reason", err)
		} else {
			l.logger.Error("failed to register customer", "error", err, "username", req.Username)
		}
		return 0, fail(span, err)
	}

	l.metrics.usersRegistered.Add(ctx, 1)
	l.logger.Info("customer registered", "user_id", id, "username", req.Username)
	return id, nil
}

func (l *Ledger) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "ledger.Authenticate")
	defer span.End()

	req := registration{
		Username: strings.TrimSpace(username),
		Password: strings.TrimSpace(password),
	}
	if err := l.check(req); err != nil {
		return nil, fail(span, err)
	}

	user, err := l.users.GetByUsername(ctx, req.Username)
	if err != nil {
		l.logger.Error("failed to look up user", "error", err, "username", req.Username)
		return nil, fail(span, err)
	}

	if user == nil {
		l.logger.Info("authentication failed", "username", req.Username, "reason", domain.AuthUnknownUser)
		return nil, fail(span, &domain.AuthError{Reason: domain.AuthUnknownUser})
	}

	if !l.hasher.Compare(user.Password, req.Password) {
		l.logger.Info("authentication failed", "username", req.Username, "reason", domain.AuthCredentialMismatch)
		return nil, fail(span, &domain.AuthError{Reason: domain.AuthCredentialMismatch})
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID), attribute.String("user.role", string(user.Role)))
	l.logger.Info("user authenticated", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// ListProducts returns the current catalog ordered by id. Every call reads
// the store again.
func (l *Ledger) ListProducts(ctx context.Context) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "ledger.ListProducts")
	defer span.End()

	products, err := l.products.ListAll(ctx)
	if err != nil {
		l.logger.Error("failed to list products", "error", err)
		return nil, fail(span, err)
	}

	span.SetAttributes(attribute.Int("products.count", len(products)))
	return products, nil
}

func (l *Ledger) AddProduct(ctx context.Context, name string, price domain.Money, stock int) (int64, error) {
	ctx, span := tracer.Start(ctx, "ledger.AddProduct")
	defer span.End()

	req := newProduct{Name: strings.TrimSpace(name), Price: price, Stock: stock}
	if err := l.check(req); err != nil {
		return 0, fail(span, err)
	}

	l.mu.Lock()
	id, err := l.products.Create(ctx, req.Name, req.Price, req.Stock)
	l.mu.Unlock()
	if err != nil {
		l.logger.Error("failed to add product", "error", err, "name", req.Name)
		return 0, fail(span, err)
	}

	l.metrics.productsAdded.Add(ctx, 1)
	l.logger.Info("product added", "product_id", id, "name", req.Name, "price", req.Price.String(), "stock", req.Stock)
	return id, nil
}

// PlaceOrder checks every cart line against the stored stock and, when all
// fit, records the order, its lines and the stock decrements atomically.
// The total and the line prices come from the cart, not the live catalog.
func (l *Ledger) PlaceOrder(ctx context.Context, userID int64, cart domain.CartLines) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "ledger.PlaceOrder", trace.WithAttributes(
		attribute.Int64("user.id", userID),
		attribute.Int("cart.lines", len(cart)),
	))
	defer span.End()

	order, err := l.buildOrder(userID, cart)
	if err != nil {
		l.metrics.rejected(ctx, "invalid_input")
		return nil, fail(span, err)
	}

	l.mu.Lock()
	err = l.orders.Place(ctx, order)
	l.mu.Unlock()
	if err != nil {
		var stockErr *domain.StockError
		switch {
		case errors.As(err, &stockErr):
			l.metrics.rejected(ctx, "insufficient_stock")
			l.logger.Info("order rejected", "user_id", userID, "product_id", stockErr.ProductID,
				"requested", stockErr.Requested, "available", stockErr.Available)
		case errors.Is(err, domain.ErrProductNotFound):
			l.metrics.rejected(ctx, "product_not_found")
			l.logger.Info("order rejected", "user_id", userID, "reason", err)
		default:
			l.metrics.rejected(ctx, "store_error")
			l.logger.Error("failed to place order", "error", err, "user_id", userID)
		}
		return nil, fail(span, err)
	}

	span.SetAttributes(attribute.Int64("order.id", order.ID))
	l.metrics.ordersPlaced.Add(ctx, 1)
	l.metrics.revenue.Add(ctx, int64(order.Total))
	l.logger.Info("order placed", "order_id", order.ID, "user_id", userID, "total", order.Total.String(), "lines", len(order.Lines))

	l.publish(ctx, order)

	return order, nil
}

func (l *Ledger) buildOrder(userID int64, cart domain.CartLines) (*domain.Order, error) {
	if len(cart) == 0 {
		return nil, &domain.InputError{Field: "cart", Message: "is empty"}
	}

	ids := make([]int64, 0, len(cart))
	for id := range cart {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	lines := make([]domain.OrderLine, 0, len(ids))
	for _, id := range ids {
		item := cart[id]
		if item.Quantity <= 0 {
			return nil, &domain.InputError{Field: "quantity", Message: fmt.Sprintf("must be positive for product %d", id)}
		}
		if item.UnitPrice < 0 {
			return nil, &domain.InputError{Field: "price", Message: fmt.Sprintf("must not be negative for product %d", id)}
		}
		lines = append(lines, domain.OrderLine{
			ProductID: id,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	total, err := cart.Total()
	if err != nil {
		return nil, err
	}

	return &domain.Order{
		UserID:    userID,
		Lines:     lines,
		Total:     total,
		Status:    domain.OrderStatusPaid,
		CreatedAt: l.now().UTC().Truncate(time.Second),
	}, nil
}

func (l *Ledger) publish(ctx context.Context, order *domain.Order) {
	if l.publisher == nil {
		return
	}

	event := domain.OrderPlacedEvent{
		EventID:   uuid.NewString(),
		OrderID:   order.ID,
		UserID:    order.UserID,
		Lines:     order.Lines,
		Total:     order.Total,
		Timestamp: order.CreatedAt,
	}
	if err := l.publisher.Publish(ctx, strconv.FormatInt(order.ID, 10), event); err != nil {
		l.logger.Error("failed to publish order placed event", "error", err, "order_id", order.ID)
	}
}

// SalesStatistics aggregates quantity and revenue per product, best sellers
// first. It is recomputed on every call.
func (l *Ledger) SalesStatistics(ctx context.Context) ([]domain.ProductSales, error) {
	ctx, span := tracer.Start(ctx, "ledger.SalesStatistics")
	defer span.End()

	stats, err := l.orders.SalesStatistics(ctx)
	if err != nil {
		l.logger.Error("failed to compute sales statistics", "error", err)
		return nil, fail(span, err)
	}

	return stats, nil
}

func (l *Ledger) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "ledger.GetOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := l.orders.GetByID(ctx, id)
	if err != nil {
		l.logger.Error("failed to get order", "error", err, "order_id", id)
		return nil, fail(span, err)
	}
	if order == nil {
		return nil, fail(span, domain.ErrOrderNotFound)
	}

	return order, nil
}

// ListOrders returns a user's order history, newest first.
func (l *Ledger) ListOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	ctx, span := tracer.Start(ctx, "ledger.ListOrders", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()

	list, err := l.orders.ListByUser(ctx, userID)
	if err != nil {
		l.logger.Error("failed to list orders", "error", err, "user_id", userID)
		return nil, fail(span, err)
	}

	return list, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
