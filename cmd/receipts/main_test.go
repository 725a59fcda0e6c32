package main

import (
	"context"
	"strings"
	"testing"

	"github.com/joao-fontenele/retail-ledger/internal/config"
)

func TestConsume_RequiresBrokers(t *testing.T) {
	cfg := &config.Config{}
	cfg.Log.Level = "error"
	cfg.Log.Format = "text"

	err := consume(context.Background(), cfg)
	if err == nil || !strings.Contains(err.Error(), "KAFKA_BROKERS") {
		t.Fatalf("expected missing brokers error, got %v", err)
	}
}
