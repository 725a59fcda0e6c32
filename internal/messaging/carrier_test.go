package messaging

import (
	"context"
	"slices"
	"testing"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestHeaderCarrier(t *testing.T) {
	msg := kafka.Message{Headers: []kafka.Header{{Key: HeaderContentType, Value: []byte("text/plain")}}}
	c := carrier(&msg)

	c.Set(HeaderContentType, contentTypeJSON)
	c.Set(HeaderEventType, "order.placed")

	if len(msg.Headers) != 2 {
		t.Fatalf("expected 2 headers on the message, got %d", len(msg.Headers))
	}
	if got := c.Get(HeaderContentType); got != contentTypeJSON {
		t.Fatalf("expected replaced content type, got %q", got)
	}
	if got := c.Get("missing"); got != "" {
		t.Fatalf("expected empty value, got %q", got)
	}
	if keys := c.Keys(); !slices.Equal(keys, []string{HeaderContentType, HeaderEventType}) {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

func TestHeaderCarrier_PropagatesTraceContext(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	var msg kafka.Message
	prop := propagation.TraceContext{}
	prop.Inject(ctx, carrier(&msg))

	if len(msg.Headers) == 0 {
		t.Fatal("expected traceparent header")
	}

	got := trace.SpanContextFromContext(prop.Extract(context.Background(), carrier(&msg)))
	if got.TraceID() != traceID || got.SpanID() != spanID {
		t.Fatalf("expected propagated span context, got %v/%v", got.TraceID(), got.SpanID())
	}
	if !got.IsRemote() {
		t.Fatal("expected extracted span context to be remote")
	}
}
