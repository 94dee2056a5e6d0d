package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"autohub/internal/pkg/apperr"
	"autohub/internal/pkg/correlation"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"not found", apperr.New(apperr.KindNotFound, "car not found"), http.StatusNotFound, "RESOURCE_NOT_FOUND", "car not found"},
		{"insufficient stock", apperr.New(apperr.KindInsufficientStock, "no stock"), http.StatusConflict, "INSUFFICIENT_STOCK", "no stock"},
		{"unmapped", errors.New("db exploded"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(correlation.WithID(req.Context(), "corr-1"))
			rec := httptest.NewRecorder()

			WriteError(rec, req, "inventory-service", tt.err)

			require.Equal(t, tt.wantStatus, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMsg, body.Message)
			assert.Equal(t, "inventory-service", body.Service)
			assert.Equal(t, "corr-1", body.CorrelationID)
		})
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"itemId":"a","bogus":1}`))
	var v struct {
		ItemID string `json:"itemId"`
	}
	err := DecodeJSON(req, &v)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
