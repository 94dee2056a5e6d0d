// internal/service/order/interfaces/http_handler.go
package interfaces

import (
	"context"
	"net/http"
	"time"

	"autohub/internal/pkg/apperr"
	"autohub/internal/pkg/constants"
	"autohub/internal/pkg/correlation"
	"autohub/internal/pkg/httpx"
	"autohub/internal/pkg/logger"
	"autohub/internal/service/order/application"
	"autohub/internal/service/order/domain"

	"github.com/pkg/errors"
)

// OrderHandler serves the order API.
type OrderHandler struct {
	service *application.OrderApplicationService
	ready   func(context.Context) error
}

func NewOrderHandler(service *application.OrderApplicationService, ready func(context.Context) error) *OrderHandler {
	return &OrderHandler{service: service, ready: ready}
}

func (h *OrderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /readyz", h.readyz)
	mux.HandleFunc("POST /orders", h.create)
	mux.HandleFunc("GET /orders", h.list)
	mux.HandleFunc("GET /orders/{id}", h.get)
	mux.HandleFunc("GET /orders/user/{userId}", h.listByUser)
	mux.HandleFunc("PUT /orders/{id}/status", h.updateStatus)
	mux.HandleFunc("POST /orders/{id}/cancel", h.cancel)
}

func (h *OrderHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.service.CreateOrder(r.Context(), application.CreateOrderRequest{
		ItemID:                   req.ItemID,
		UserID:                   req.UserID,
		ReservationExpiryMinutes: req.ReservationExpiryMinutes,
	})
	if err != nil {
		var sagaErr *application.SagaError
		if errors.As(err, &sagaErr) {
			h.writeSagaError(w, r, sagaErr)
			return
		}
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, createOrderResponse{
		orderResponse: toOrderResponse(res.Order),
		Outcome:       string(res.Outcome),
	})
}

// writeSagaError answers with the saga outcome code instead of the generic
// error kind, so clients can tell INSUFFICIENT_STOCK from INVENTORY_UNAVAILABLE.
func (h *OrderHandler) writeSagaError(w http.ResponseWriter, r *http.Request, err *application.SagaError) {
	status := err.Code.HTTPStatus()
	msg := err.Msg
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		msg = "An unexpected error occurred"
	}
	logger.Ctx(r.Context()).Warn().Err(err).Str("code", string(err.Code)).Int("status", status).Msg("order request rejected")
	httpx.WriteJSON(w, status, httpx.ErrorResponse{
		Code:          string(err.Code),
		Message:       msg,
		Timestamp:     time.Now().UTC(),
		Service:       constants.OrderService,
		CorrelationID: correlation.FromContext(r.Context()),
	})
}

func (h *OrderHandler) get(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *OrderHandler) listByUser(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListByUser(r.Context(), r.PathValue("userId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *OrderHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	status, ok := domain.ParseStatus(req.Status)
	if !ok {
		h.fail(w, r, apperr.Validation("unknown order status", map[string]string{"status": "unknown value " + req.Status}))
		return
	}
	order, err := h.service.UpdateStatus(r.Context(), r.PathValue("id"), status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) cancel(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Cancel(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) readyz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			h.fail(w, r, apperr.Wrap(err, apperr.KindServiceUnavailable, "store unreachable"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

func (h *OrderHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteError(w, r, constants.OrderService, err)
}
