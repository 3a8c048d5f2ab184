package ctxutil

import (
	"context"
	"testing"
)

func TestWithRequestID_And_RequestIDFromCtx(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "req-123")

	got := RequestIDFromCtx(ctx)
	if got != "req-123" {
		t.Fatalf("expected req-123, got %s", got)
	}
}

func TestRequestIDFromCtx_EmptyContext(t *testing.T) {
	t.Parallel()

	got := RequestIDFromCtx(context.Background())
	if got != "" {
		t.Fatalf("expected empty string, got %s", got)
	}
}

func TestRequestIDFromCtx_WrongType(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), ctxKey("request_id"), 12345)

	got := RequestIDFromCtx(ctx)
	if got != "" {
		t.Fatalf("expected empty string, got %s", got)
	}
}

func TestWithSource(t *testing.T) {
	t.Parallel()

	ctx := WithSource(context.Background(), SourceSubscription)
	if got := SourceFromCtx(ctx); got != SourceSubscription {
		t.Fatalf("expected %s, got %s", SourceSubscription, got)
	}

	if got := SourceFromCtx(context.Background()); got != "" {
		t.Fatalf("expected empty string, got %s", got)
	}
}
