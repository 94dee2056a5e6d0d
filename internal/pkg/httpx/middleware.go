package httpx

import (
	"net/http"

	"autohub/internal/pkg/correlation"
	"autohub/internal/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Chain applies the standard inbound middleware: trace context extraction,
// correlation id and request logging.
func Chain(h http.Handler) http.Handler {
	return traceContext(correlation.Middleware(logger.RequestLogger(h)))
}

func traceContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
