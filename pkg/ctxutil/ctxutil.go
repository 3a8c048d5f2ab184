package ctxutil

import "context"

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	sourceKey    ctxKey = "source"
)

// Sources of cache writes.
const (
	SourceCommand      = "command"
	SourceSubscription = "subscription"
)

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithSource records what triggered the work carried by ctx.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey, source)
}

// SourceFromCtx returns the source stored by WithSource, or "".
func SourceFromCtx(ctx context.Context) string {
	s, _ := ctx.Value(sourceKey).(string)
	return s
}
