package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joao-fontenele/retail-ledger/internal/config"
	"github.com/joao-fontenele/retail-ledger/internal/messaging"
	"github.com/joao-fontenele/retail-ledger/internal/receipts"
	"github.com/joao-fontenele/retail-ledger/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		slog.Error("receipts consumer failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	return consume(ctx, cfg)
}

// consume prints a receipt for every order placed event until ctx is done.
func consume(ctx context.Context, cfg *config.Config) error {
	// receipts go to stdout
	logger := telemetry.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	if !cfg.KafkaEnabled() {
		return errors.New("KAFKA_BROKERS environment variable is required")
	}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.Telemetry.OTLPEndpoint, "receipts", "0.1.0")
	if err != nil {
		return fmt.Errorf("initialize tracer: %w", err)
	}
	defer func() { _ = shutdownTracer(context.WithoutCancel(ctx)) }()

	consumer := messaging.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID)
	defer func() { _ = consumer.Close() }()

	printer := receipts.NewPrinter(os.Stdout, logger)

	logger.Info("starting receipts consumer", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic, "group_id", cfg.Kafka.GroupID)

	if err := consumer.Consume(ctx, printer.Handle); err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	logger.Info("consumer stopped")
	return nil
}
