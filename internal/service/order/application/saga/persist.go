// internal/service/order/application/saga/persist.go
package saga

import (
	"autohub/internal/service/order/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PersistHandler writes the order in INVENTORY_RESERVED. It is the only local
// mutation of the saga.
type PersistHandler struct {
	NextHandler
	repo domain.OrderRepository
}

func NewPersistHandler(repo domain.OrderRepository) *PersistHandler {
	return &PersistHandler{repo: repo}
}

func (h *PersistHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.PersistOrder")
	defer span.End()

	now := orderCtx.Now().UTC()
	order, err := domain.NewOrder(uuid.NewString(), orderCtx.ItemID, orderCtx.UserID, orderCtx.Details.Price, orderCtx.ExpiryMinutes, now)
	if err != nil {
		return fail(CodeInternalError, "order could not be built", err)
	}
	order.PriceDegraded = orderCtx.Details.Degraded
	if err := order.MarkInventoryReserved(orderCtx.Reservation.ReservationID, now); err != nil {
		return fail(CodeInternalError, "order could not be marked reserved", err)
	}

	if err := h.repo.Save(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		return fail(CodeInternalError, "order could not be persisted", err)
	}
	span.SetAttributes(attribute.String("order.id", order.ID))
	orderCtx.Order = order

	return h.executeNext(orderCtx)
}
