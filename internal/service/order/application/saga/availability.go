// internal/service/order/application/saga/availability.go
package saga

import (
	"errors"

	"autohub/internal/pkg/apperr"
	"autohub/internal/pkg/logger"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// AvailabilityHandler is the read-only pre-check. It stops the saga before any
// mutation when the item is unknown, out of stock or the ledger is unreachable.
type AvailabilityHandler struct {
	NextHandler
}

func (h *AvailabilityHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.CheckAvailability")
	defer span.End()
	span.SetAttributes(attribute.String("item.id", orderCtx.ItemID))

	av, err := orderCtx.InventoryService.CheckAvailability(ctx, orderCtx.ItemID)
	switch {
	case apperr.Is(err, apperr.KindNotFound):
		span.SetStatus(codes.Error, "item not found")
		return fail(CodeNotFound, "item has no inventory record", err)
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, "availability check failed")
		return fail(CodeServiceUnavailable, "inventory availability could not be checked", err)
	case !av.Known:
		span.SetStatus(codes.Error, "availability unknown")
		logger.Ctx(ctx).Warn().Str("item_id", orderCtx.ItemID).Str("reason", av.Reason).Msg("inventory availability unknown")
		return fail(CodeServiceUnavailable, "inventory availability unknown", errors.New(av.Reason))
	case av.AvailableUnits <= 0:
		span.SetStatus(codes.Error, "no units available")
		return fail(CodeInventoryUnavailable, "item is not available", nil)
	}

	orderCtx.Availability = av
	span.SetAttributes(attribute.Int("inventory.available", av.AvailableUnits))
	return h.executeNext(orderCtx)
}
