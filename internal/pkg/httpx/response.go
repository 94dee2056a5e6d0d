// internal/pkg/httpx/response.go
package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"autohub/internal/pkg/apperr"
	"autohub/internal/pkg/correlation"
	"autohub/internal/pkg/logger"

	"github.com/pkg/errors"
)

// ErrorResponse is the error body shared by every service.
type ErrorResponse struct {
	Code          string            `json:"code"`
	Message       string            `json:"message"`
	Timestamp     time.Time         `json:"timestamp"`
	Service       string            `json:"service"`
	CorrelationID string            `json:"correlationId,omitempty"`
	FieldErrors   map[string]string `json:"fieldErrors,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err onto its status code and error body.
func WriteError(w http.ResponseWriter, r *http.Request, service string, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)

	ev := logger.Ctx(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		ev = logger.Ctx(r.Context()).Error().Str("stack", stackOf(err))
	}
	ev.Err(err).Str("code", apperr.Code(kind)).Int("status", status).Msg("request failed")

	msg := apperr.Message(err)
	if kind == apperr.KindInternal {
		msg = "An unexpected error occurred"
	}
	WriteJSON(w, status, ErrorResponse{
		Code:          apperr.Code(kind),
		Message:       msg,
		Timestamp:     time.Now().UTC(),
		Service:       service,
		CorrelationID: correlation.FromContext(r.Context()),
		FieldErrors:   apperr.FieldsOf(err),
	})
}

// DecodeJSON decodes the request body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Validation("malformed request body: "+err.Error(), nil)
	}
	return nil
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func stackOf(err error) string {
	var st stackTracer
	if errors.As(err, &st) {
		return fmt.Sprintf("%+v", st.StackTrace())
	}
	return ""
}
