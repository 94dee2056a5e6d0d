// internal/service/inventory/interfaces/http_handler.go
package interfaces

import (
	"context"
	"net/http"

	"autohub/internal/pkg/apperr"
	"autohub/internal/pkg/constants"
	"autohub/internal/pkg/httpx"
	"autohub/internal/service/inventory/application"
)

// InventoryHandler serves the ledger over HTTP.
type InventoryHandler struct {
	service *application.LedgerService
	ready   func(context.Context) error
}

// NewInventoryHandler builds the handler. ready backs /readyz; nil means always ready.
func NewInventoryHandler(service *application.LedgerService, ready func(context.Context) error) *InventoryHandler {
	return &InventoryHandler{service: service, ready: ready}
}

func (h *InventoryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /readyz", h.readyz)
	mux.HandleFunc("GET /inventory/availability/{itemId}", h.availability)
	mux.HandleFunc("POST /inventory/reserve", h.reserve)
	mux.HandleFunc("POST /inventory/release", h.release)
	mux.HandleFunc("GET /inventory", h.list)
	mux.HandleFunc("POST /inventory", h.create)
	mux.HandleFunc("GET /inventory/{itemId}", h.get)
	mux.HandleFunc("PUT /inventory/{itemId}", h.update)
}

func (h *InventoryHandler) availability(w http.ResponseWriter, r *http.Request) {
	av, err := h.service.CheckAvailability(r.Context(), r.PathValue("itemId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	status := http.StatusOK
	if !av.Available() {
		status = http.StatusConflict
	}
	httpx.WriteJSON(w, status, availabilityResponse{
		ItemID:         av.ItemID,
		Available:      av.Available(),
		TotalUnits:     av.TotalUnits,
		ReservedUnits:  av.ReservedUnits,
		AvailableUnits: av.AvailableUnits,
	})
}

func (h *InventoryHandler) reserve(w http.ResponseWriter, r *http.Request) {
	var req unitsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.service.Reserve(r.Context(), req.ItemID, req.Units)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, reservationResponse{
		ReservationID:  res.ReservationID,
		ItemID:         res.ItemID,
		UnitsReserved:  res.UnitsReserved,
		UnitsRemaining: res.UnitsRemaining,
		ExpiresAt:      res.ExpiresAt,
	})
}

func (h *InventoryHandler) release(w http.ResponseWriter, r *http.Request) {
	var req unitsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	item, err := h.service.Release(r.Context(), req.ItemID, req.Units)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *InventoryHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	item, err := h.service.Create(r.Context(), req.ItemID, req.AvailableUnits, req.Location)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toItemResponse(item))
}

func (h *InventoryHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.AvailableUnits == nil {
		h.fail(w, r, apperr.Validation("availableUnits is required", map[string]string{"availableUnits": "must be present"}))
		return
	}
	item, err := h.service.Update(r.Context(), r.PathValue("itemId"), *req.AvailableUnits, req.Location)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *InventoryHandler) get(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Get(r.Context(), r.PathValue("itemId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *InventoryHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *InventoryHandler) readyz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			h.fail(w, r, apperr.Wrap(err, apperr.KindServiceUnavailable, "store unreachable"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

func (h *InventoryHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteError(w, r, constants.InventoryService, err)
}
