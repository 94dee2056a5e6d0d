// internal/service/order/application/reaper.go
package application

import (
	"context"
	"time"

	"autohub/internal/pkg/logger"
	"autohub/internal/service/order/domain"
	"autohub/internal/service/order/domain/port"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ExpiryReaper cancels INVENTORY_RESERVED orders whose reservation window has
// passed and hands their unit back to the ledger. Sweeps run under a
// cluster-wide lock so only one instance reclaims at a time.
type ExpiryReaper struct {
	repo      domain.OrderRepository
	inventory port.InventoryService
	locker    port.Locker
	tracer    trace.Tracer
	interval  time.Duration
	batchSize int
	now       func() time.Time
}

func NewExpiryReaper(repo domain.OrderRepository, inventory port.InventoryService, locker port.Locker, tracer trace.Tracer, interval time.Duration, batchSize int) *ExpiryReaper {
	return &ExpiryReaper{
		repo:      repo,
		inventory: inventory,
		locker:    locker,
		tracer:    tracer,
		interval:  interval,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// Run sweeps every interval until ctx is done.
func (r *ExpiryReaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Sweep(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Ctx(ctx).Error().Err(err).Msg("expiry sweep failed")
			}
		}
	}
}

// Sweep runs one reclaim pass and returns how many orders it cancelled.
func (r *ExpiryReaper) Sweep(ctx context.Context) (int, error) {
	ctx, span := r.tracer.Start(ctx, "reaper.Sweep")
	defer span.End()

	lockCtx, cancel := context.WithTimeout(ctx, r.interval)
	unlock, err := r.locker.Lock(lockCtx)
	cancel()
	if err != nil {
		return 0, errors.Wrap(err, "acquire reaper lock")
	}
	defer func() {
		if err := unlock(); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("failed to release reaper lock")
		}
	}()

	now := r.now().UTC()
	expired, err := r.repo.ListExpired(ctx, domain.StatusInventoryReserved, now, r.batchSize)
	if err != nil {
		return 0, err
	}

	reclaimed := 0
	for _, order := range expired {
		err := r.repo.UpdateStatus(ctx, order.ID, domain.StatusInventoryReserved, domain.StatusCancelled, now)
		if errors.Is(err, domain.ErrStaleStatus) {
			// confirmed or cancelled since the read
			continue
		}
		if err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Msg("failed to cancel expired order")
			continue
		}
		if err := r.inventory.Release(ctx, order.ItemID, 1); err != nil {
			logger.Ctx(ctx).Error().Err(err).
				Str("order_id", order.ID).
				Str("reservation_id", order.InventoryReservationID).
				Msg("expired order cancelled but unit not released")
		}
		reclaimed++
	}

	span.SetAttributes(attribute.Int("reaper.expired", len(expired)), attribute.Int("reaper.reclaimed", reclaimed))
	if reclaimed > 0 {
		logger.Ctx(ctx).Info().Int("reclaimed", reclaimed).Msg("expired reservations reclaimed")
	}
	return reclaimed, nil
}
