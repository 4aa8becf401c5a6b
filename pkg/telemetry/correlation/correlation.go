// Package correlation carries a ULID correlation identifier across a request,
// its logs and its spans.
package correlation

import (
	"context"
	"strings"

	"github.com/oklog/ulid/v2"
)

// Header is the HTTP header used to propagate the correlation ID.
const Header = "X-Correlation-Id"

type correlationKey struct{}

// ExtractCorrelationID fetches a correlation ID from the context if present.
func ExtractCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if val, ok := ctx.Value(correlationKey{}).(string); ok {
		return val
	}
	return ""
}

// ContextWithCorrelationID sets the correlation ID onto the context.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	id = strings.TrimSpace(id)
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationKey{}, id)
}

// EnsureCorrelationID guarantees a correlation ID on the context, generating one when missing.
func EnsureCorrelationID(ctx context.Context) (context.Context, string) {
	cid := ExtractCorrelationID(ctx)
	if cid == "" {
		cid = ulid.Make().String()
	}
	return ContextWithCorrelationID(ctx, cid), cid
}

// FromHeader returns a context carrying the inbound header value, or a fresh ID.
func FromHeader(ctx context.Context, value string) (context.Context, string) {
	return EnsureCorrelationID(ContextWithCorrelationID(ctx, value))
}
