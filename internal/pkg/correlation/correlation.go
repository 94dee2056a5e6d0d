// internal/pkg/correlation/correlation.go
package correlation

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	HeaderCorrelationID = "X-Correlation-Id"
	HeaderTraceID       = "X-Trace-Id"
)

type ctxKey struct{}

// WithID returns a copy of ctx carrying the correlation id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the correlation id stored in ctx, or "".
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}

// FromRequest reads the id from the inbound headers, X-Correlation-Id first.
func FromRequest(r *http.Request) string {
	if id := r.Header.Get(HeaderCorrelationID); id != "" {
		return id
	}
	return r.Header.Get(HeaderTraceID)
}

// Inject copies the correlation id of ctx onto outbound headers.
func Inject(ctx context.Context, h http.Header) {
	id := FromContext(ctx)
	if id == "" {
		return
	}
	h.Set(HeaderCorrelationID, id)
	h.Set(HeaderTraceID, id)
}

// Middleware makes sure every request has a correlation id: it is taken from the
// request headers or generated, stored in the request context and echoed back.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := FromRequest(r)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderCorrelationID, id)
		w.Header().Set(HeaderTraceID, id)
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}
