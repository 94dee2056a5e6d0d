// internal/service/order/application/saga/pricing.go
package saga

import (
	"autohub/internal/pkg/logger"

	"go.opentelemetry.io/otel/attribute"
)

// PricingHandler stamps the catalog price. It never aborts the saga: a
// degraded lookup continues with the zero default price.
type PricingHandler struct {
	NextHandler
}

func (h *PricingHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.Pricing")
	defer span.End()

	details := orderCtx.CatalogService.GetDetails(ctx, orderCtx.ItemID)
	orderCtx.Details = details
	span.SetAttributes(
		attribute.String("price", details.Price.String()),
		attribute.Bool("price.degraded", details.Degraded),
	)
	if details.Degraded {
		logger.Ctx(ctx).Warn().
			Str("item_id", orderCtx.ItemID).
			Str("reason", details.Reason).
			Msg("catalog lookup degraded, using default price")
		span.AddEvent("default price applied")
	}

	return h.executeNext(orderCtx)
}
