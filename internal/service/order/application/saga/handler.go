// internal/service/order/application/saga/handler.go
package saga

import (
	"context"
	"net/http"
	"sync"
	"time"

	"autohub/internal/pkg/logger"
	"autohub/internal/service/order/domain"
	"autohub/internal/service/order/domain/port"

	"go.opentelemetry.io/otel/trace"
)

// Code is the outcome code of a failed saga, surfaced to the client.
type Code string

const (
	CodeNotFound             Code = "NOT_FOUND"
	CodeInventoryUnavailable Code = "INVENTORY_UNAVAILABLE"
	CodeInsufficientStock    Code = "INSUFFICIENT_STOCK"
	CodeReservationFailed    Code = "RESERVATION_FAILED"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeInternalError        Code = "INTERNAL_ERROR"
)

func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInventoryUnavailable, CodeInsufficientStock, CodeReservationFailed:
		return http.StatusConflict
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error ends a saga. Err is the cause.
type Error struct {
	Code Code
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Msg + ": " + e.Err.Error()
	}
	return string(e.Code) + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func fail(code Code, msg string, err error) *Error {
	return &Error{Code: code, Msg: msg, Err: err}
}

// OrderContext carries the state of one CreateOrder run through the chain.
type OrderContext struct {
	Ctx    context.Context
	Tracer trace.Tracer
	Now    func() time.Time

	ItemID        string
	UserID        string
	ExpiryMinutes int

	InventoryService port.InventoryService
	CatalogService   port.CatalogService

	// filled in by the steps
	Availability port.Availability
	Reservation  port.Reservation
	Details      port.CarDetails
	Order        *domain.Order

	compensations []func(ctx context.Context)
	compLock      sync.Mutex
}

// AddCompensation registers an undo step. Compensations run newest first.
func (c *OrderContext) AddCompensation(comp func(ctx context.Context)) {
	c.compLock.Lock()
	defer c.compLock.Unlock()
	c.compensations = append([]func(context.Context){comp}, c.compensations...)
}

// TriggerCompensation runs and clears the registered compensations.
func (c *OrderContext) TriggerCompensation(ctx context.Context) {
	c.compLock.Lock()
	comps := c.compensations
	c.compensations = nil
	c.compLock.Unlock()

	if len(comps) == 0 {
		return
	}
	logger.Ctx(ctx).Warn().Str("item_id", c.ItemID).Int("count", len(comps)).Msg("running saga compensations")
	for _, comp := range comps {
		comp(ctx)
	}
}

type Handler interface {
	SetNext(handler Handler) Handler
	Handle(orderCtx *OrderContext) error
}

type NextHandler struct {
	next Handler
}

func (h *NextHandler) SetNext(handler Handler) Handler {
	h.next = handler
	return handler
}

func (h *NextHandler) executeNext(orderCtx *OrderContext) error {
	if h.next != nil {
		return h.next.Handle(orderCtx)
	}
	return nil
}
