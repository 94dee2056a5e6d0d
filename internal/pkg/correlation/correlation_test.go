package correlation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		wantID  string
	}{
		{name: "correlation header wins", headers: map[string]string{HeaderCorrelationID: "c-1", HeaderTraceID: "t-1"}, wantID: "c-1"},
		{name: "trace header fallback", headers: map[string]string{HeaderTraceID: "t-2"}, wantID: "t-2"},
		{name: "generated when absent", headers: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = FromContext(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.NotEmpty(t, seen)
			if tt.wantID != "" {
				assert.Equal(t, tt.wantID, seen)
			}
			assert.Equal(t, seen, rec.Header().Get(HeaderCorrelationID))
			assert.Equal(t, seen, rec.Header().Get(HeaderTraceID))
		})
	}
}

func TestInject(t *testing.T) {
	h := http.Header{}
	Inject(context.Background(), h)
	assert.Empty(t, h.Get(HeaderCorrelationID))

	Inject(WithID(context.Background(), "abc"), h)
	assert.Equal(t, "abc", h.Get(HeaderCorrelationID))
	assert.Equal(t, "abc", h.Get(HeaderTraceID))
}
