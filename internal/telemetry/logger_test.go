package telemetry

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, "info", "json")
		logger.Info("order placed", "order_id", 7)

		if !strings.Contains(buf.String(), `"order_id":7`) {
			t.Fatalf("expected json output, got %s", buf.String())
		}
	})

	t.Run("level filters debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, "warn", "text")
		logger.Info("hidden")

		if buf.Len() != 0 {
			t.Fatalf("expected no output, got %s", buf.String())
		}
		if !logger.Enabled(context.Background(), slog.LevelError) {
			t.Fatal("expected error level enabled")
		}
	})
}
