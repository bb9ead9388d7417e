package telemetry

import (
	"context"

	"github.com/google/uuid"
)

// traceIDKey is the private context key for the correlation id.
type traceIDKey struct{}

// GenerateTraceID returns a new random correlation id.
func GenerateTraceID() string {
	return uuid.NewString()
}

// WithTraceID establishes the correlation id for a logical request.
// A caller-supplied id is kept verbatim; an empty id is replaced with a
// freshly generated one. The returned context carries the id for the rest
// of the request and the id itself is returned for response stamping.
func WithTraceID(ctx context.Context, id string) (context.Context, string) {
	if id == "" {
		id = GenerateTraceID()
	}
	return context.WithValue(ctx, traceIDKey{}, id), id
}

// TraceID returns the correlation id carried by ctx, or the empty string
// when none was established.
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}
