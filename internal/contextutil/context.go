package contextutil

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const TraceIDKey contextKey = "traceID"

// WithTraceID attaches a fresh trace id to ctx so storage and session
// backends can correlate their log lines with one request.
func WithTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, uuid.New().String())
}

func TraceIDFromContext(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return "unknown-trace-id"
	}
	return traceID
}
