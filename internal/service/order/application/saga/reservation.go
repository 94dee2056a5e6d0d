// internal/service/order/application/saga/reservation.go
package saga

import (
	"context"

	"autohub/internal/pkg/apperr"
	"autohub/internal/pkg/logger"
	"autohub/internal/pkg/resilience"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// unitsPerOrder is how many units one order reserves.
const unitsPerOrder = 1

// ReservationHandler reserves the unit. The call is made exactly once; on
// success it registers the release as compensation.
type ReservationHandler struct {
	NextHandler
}

func (h *ReservationHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.ReserveInventory")
	defer span.End()
	span.SetAttributes(attribute.String("item.id", orderCtx.ItemID), attribute.Int("units", unitsPerOrder))

	res, err := orderCtx.InventoryService.Reserve(ctx, orderCtx.ItemID, unitsPerOrder)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reservation failed")
		sagaErr := reservationFailure(err)
		if sagaErr.Code == CodeReservationFailed {
			// the ledger may have committed before the call gave up
			logger.Ctx(ctx).Error().Err(err).
				Str("item_id", orderCtx.ItemID).
				Str("user_id", orderCtx.UserID).
				Int("units", unitsPerOrder).
				Msg("reserve outcome unknown, unit may be held without an order and need manual reclaim")
		}
		return sagaErr
	}
	orderCtx.Reservation = res
	span.SetAttributes(attribute.String("reservation.id", res.ReservationID))

	itemID, reservationID := orderCtx.ItemID, res.ReservationID
	orderCtx.AddCompensation(func(compCtx context.Context) {
		compCtx, compSpan := orderCtx.Tracer.Start(compCtx, "saga.compensation.ReleaseInventory")
		defer compSpan.End()
		compSpan.SetAttributes(attribute.String("reservation.id", reservationID))

		if err := orderCtx.InventoryService.Release(compCtx, itemID, unitsPerOrder); err != nil {
			compSpan.RecordError(err)
			compSpan.SetStatus(codes.Error, "release failed")
			logger.Ctx(compCtx).Error().Err(err).
				Str("item_id", itemID).
				Str("reservation_id", reservationID).
				Msg("compensation failed, reserved unit needs manual reclaim")
			return
		}
		logger.Ctx(compCtx).Info().Str("item_id", itemID).Str("reservation_id", reservationID).Msg("reserved unit released")
	})

	return h.executeNext(orderCtx)
}

func reservationFailure(err error) *Error {
	switch {
	case apperr.Is(err, apperr.KindInsufficientStock):
		return fail(CodeInsufficientStock, "not enough stock to reserve", err)
	case apperr.Is(err, apperr.KindNotFound):
		return fail(CodeNotFound, "item has no inventory record", err)
	case errors.Is(err, resilience.ErrCircuitOpen), apperr.Is(err, apperr.KindOverloaded):
		return fail(CodeServiceUnavailable, "inventory is not accepting reservations", err)
	default:
		return fail(CodeReservationFailed, "reservation could not be made", err)
	}
}
