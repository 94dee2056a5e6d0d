// internal/service/gateway/interfaces/http_handler.go
package interfaces

import (
	"context"
	"net/http"
	"strconv"

	"autohub/internal/pkg/apperr"
	"autohub/internal/pkg/constants"
	"autohub/internal/pkg/httpx"
	"autohub/internal/service/gateway/application"
)

// GatewayHandler serves the aggregated read API.
type GatewayHandler struct {
	service *application.AggregationService
	ready   func(context.Context) error
}

func NewGatewayHandler(service *application.AggregationService, ready func(context.Context) error) *GatewayHandler {
	return &GatewayHandler{service: service, ready: ready}
}

func (h *GatewayHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /readyz", h.readyz)
	mux.HandleFunc("GET /api/cars/listing", h.listing)
	mux.HandleFunc("GET /api/cars/{carId}/details", h.details)
}

// details answers 206 when the availability part is missing.
func (h *GatewayHandler) details(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetDetails(r.Context(), r.PathValue("carId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	status := http.StatusOK
	if view.Partial {
		status = http.StatusPartialContent
	}
	httpx.WriteJSON(w, status, toCarDetailsResponse(view, status))
}

func (h *GatewayHandler) listing(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page", 1)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	size, err := intParam(r, "size", application.DefaultPageSize)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	listing, err := h.service.GetListing(r.Context(), page, size)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toListingResponse(listing))
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation(name+" must be an integer", map[string]string{name: "not an integer: " + raw})
	}
	return v, nil
}

func (h *GatewayHandler) readyz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			h.fail(w, r, apperr.Wrap(err, apperr.KindServiceUnavailable, "downstream unreachable"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

func (h *GatewayHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteError(w, r, constants.APIGatewayService, err)
}
