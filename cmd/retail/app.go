package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joao-fontenele/retail-ledger/internal/config"
	"github.com/joao-fontenele/retail-ledger/internal/ledger"
	"github.com/joao-fontenele/retail-ledger/internal/messaging"
	"github.com/joao-fontenele/retail-ledger/internal/ops"
	"github.com/joao-fontenele/retail-ledger/internal/seed"
	"github.com/joao-fontenele/retail-ledger/internal/store"
	"github.com/joao-fontenele/retail-ledger/internal/telemetry"
)

const serviceVersion = "0.1.0"

// app is everything a subcommand needs, built from the environment.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *store.DB
	ledger *ledger.Ledger

	closers []func(context.Context) error
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	// stdout belongs to the shell
	logger := telemetry.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	a := &app{cfg: cfg, logger: logger}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.Telemetry.OTLPEndpoint, cfg.ServiceName, serviceVersion)
	if err != nil {
		return nil, fmt.Errorf("initialize tracer: %w", err)
	}
	a.closers = append(a.closers, shutdownTracer)

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(cfg.ServiceName, serviceVersion)
	if err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("initialize meter: %w", err)
	}
	a.closers = append(a.closers, shutdownMeter)

	if err := store.Migrate(cfg.Dialect(), cfg.DatabaseSource()); err != nil {
		a.close(ctx)
		return nil, err
	}

	db, err := store.Open(ctx, cfg.Dialect(), cfg.DatabaseSource())
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	a.db = db
	a.closers = append(a.closers, func(context.Context) error { return db.Close() })

	opts := []ledger.Option{
		ledger.WithHasher(cfg.Hasher()),
		ledger.WithLogger(logger),
	}
	if cfg.KafkaEnabled() {
		producer := messaging.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, messaging.WithWriteTimeout(5*time.Second))
		a.closers = append(a.closers, func(context.Context) error { return producer.Close() })
		opts = append(opts, ledger.WithPublisher(producer))
	}

	l, err := ledger.New(db, opts...)
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	a.ledger = l

	if cfg.Ops.Addr != "" {
		a.serveOps(ops.NewServer(cfg.Ops.Addr, ops.NewHandler(db, logger), metricsHandler))
	}

	logger.Info("ledger ready", "driver", cfg.Dialect(), "password_scheme", cfg.Hasher().Name(), "kafka", cfg.KafkaEnabled())
	return a, nil
}

func (a *app) serveOps(server *http.Server) {
	go func() {
		a.logger.Info("starting ops server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("ops server error", "error", err)
		}
	}()
	a.closers = append(a.closers, server.Shutdown)
}

func (a *app) seed(ctx context.Context) (seed.Result, error) {
	d := seed.DefaultDefaults()
	d.AdminUsername = a.cfg.Auth.AdminUsername
	d.AdminPassword = a.cfg.Auth.AdminPassword

	res, err := seed.Run(ctx, a.db, a.cfg.Hasher(), d)
	if err != nil {
		return res, fmt.Errorf("seed store: %w", err)
	}
	a.logger.Info("store seeded", "admin_created", res.AdminCreated, "products_created", res.ProductsCreated)
	return res, nil
}

// close runs closers in reverse order.
func (a *app) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.logger.Error("shutdown error", "error", err)
		}
	}
	a.closers = nil
}
