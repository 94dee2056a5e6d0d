// internal/service/inventory/application/service.go
package application

import (
	"context"
	"strings"
	"time"

	"autohub/internal/pkg/apperr"
	"autohub/internal/pkg/logger"
	"autohub/internal/pkg/metrics"
	"autohub/internal/service/inventory/domain"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// LedgerService exposes the inventory ledger operations. It holds no locks:
// atomicity of every mutation is the repository's job.
type LedgerService struct {
	repo           domain.Repository
	tracer         trace.Tracer
	reservationTTL time.Duration
	now            func() time.Time
}

type Option func(*LedgerService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) { s.now = now }
}

// WithReservationTTL sets how long a reservation is held before it may be reclaimed.
func WithReservationTTL(ttl time.Duration) Option {
	return func(s *LedgerService) { s.reservationTTL = ttl }
}

func NewLedgerService(repo domain.Repository, tracer trace.Tracer, opts ...Option) *LedgerService {
	s := &LedgerService{
		repo:           repo,
		tracer:         tracer,
		reservationTTL: 15 * time.Minute,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckAvailability returns the counters of itemID.
func (s *LedgerService) CheckAvailability(ctx context.Context, itemID string) (domain.Availability, error) {
	ctx, span := s.tracer.Start(ctx, "inventory.CheckAvailability", trace.WithAttributes(attribute.String("item.id", itemID)))
	defer span.End()

	if err := validateItemID(itemID); err != nil {
		return domain.Availability{}, err
	}
	item, err := s.repo.FindByItemID(ctx, itemID)
	if err != nil {
		recordError(span, err)
		return domain.Availability{}, err
	}
	av := domain.AvailabilityOf(item)
	span.SetAttributes(attribute.Int("inventory.available", av.AvailableUnits))
	return av, nil
}

// Reserve atomically moves units of itemID from available to reserved.
func (s *LedgerService) Reserve(ctx context.Context, itemID string, units int) (domain.Reservation, error) {
	ctx, span := s.tracer.Start(ctx, "inventory.Reserve", trace.WithAttributes(
		attribute.String("item.id", itemID),
		attribute.Int("units", units),
	))
	defer span.End()

	if err := validateItemID(itemID); err != nil {
		return domain.Reservation{}, err
	}
	if units < 1 {
		return domain.Reservation{}, errors.WithStack(domain.ErrInvalidUnits)
	}

	item, err := s.repo.Reserve(ctx, itemID, units)
	if err != nil {
		recordError(span, err)
		metrics.ReservationFailures.WithLabelValues(apperr.Code(apperr.KindOf(err))).Inc()
		logger.Ctx(ctx).Warn().Err(err).Str("item_id", itemID).Int("units", units).Msg("reservation rejected")
		return domain.Reservation{}, err
	}

	res := domain.Reservation{
		ReservationID:  uuid.NewString(),
		ItemID:         itemID,
		UnitsReserved:  units,
		UnitsRemaining: item.AvailableUnits,
		ExpiresAt:      s.now().Add(s.reservationTTL).UTC(),
	}
	span.SetAttributes(attribute.String("reservation.id", res.ReservationID))
	logger.Ctx(ctx).Info().
		Str("item_id", itemID).
		Str("reservation_id", res.ReservationID).
		Int("units", units).
		Int("remaining", res.UnitsRemaining).
		Msg("units reserved")
	return res, nil
}

// Release atomically moves units of itemID from reserved back to available.
func (s *LedgerService) Release(ctx context.Context, itemID string, units int) (*domain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "inventory.Release", trace.WithAttributes(
		attribute.String("item.id", itemID),
		attribute.Int("units", units),
	))
	defer span.End()

	if err := validateItemID(itemID); err != nil {
		return nil, err
	}
	if units < 1 {
		return nil, errors.WithStack(domain.ErrInvalidUnits)
	}
	item, err := s.repo.Release(ctx, itemID, units)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	logger.Ctx(ctx).Info().Str("item_id", itemID).Int("units", units).Msg("units released")
	return item, nil
}

// Update is the administrative resize of an item's available stock.
func (s *LedgerService) Update(ctx context.Context, itemID string, available int, location string) (*domain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "inventory.Update", trace.WithAttributes(attribute.String("item.id", itemID)))
	defer span.End()

	if err := validateItemID(itemID); err != nil {
		return nil, err
	}
	if available < 0 {
		return nil, errors.WithStack(domain.ErrNegativeStock)
	}
	item, err := s.repo.Resize(ctx, itemID, available, strings.TrimSpace(location))
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	logger.Ctx(ctx).Info().Str("item_id", itemID).Int("available", available).Msg("stock resized")
	return item, nil
}

// Create records the first stock intake for an item.
func (s *LedgerService) Create(ctx context.Context, itemID string, available int, location string) (*domain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "inventory.Create", trace.WithAttributes(attribute.String("item.id", itemID)))
	defer span.End()

	if err := validateItemID(itemID); err != nil {
		return nil, err
	}
	if available < 0 {
		return nil, errors.WithStack(domain.ErrNegativeStock)
	}
	item := &domain.Item{
		ID:             uuid.NewString(),
		ItemID:         itemID,
		AvailableUnits: available,
		Location:       strings.TrimSpace(location),
		LastUpdated:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		recordError(span, err)
		return nil, err
	}
	return item, nil
}

func (s *LedgerService) Get(ctx context.Context, itemID string) (*domain.Item, error) {
	if err := validateItemID(itemID); err != nil {
		return nil, err
	}
	return s.repo.FindByItemID(ctx, itemID)
}

func (s *LedgerService) List(ctx context.Context) ([]*domain.Item, error) {
	return s.repo.List(ctx)
}

func validateItemID(itemID string) error {
	if strings.TrimSpace(itemID) == "" {
		return apperr.Validation("item id is required", map[string]string{"itemId": "must not be blank"})
	}
	return nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	if !apperr.Is(err, apperr.KindInternal) {
		return
	}
	span.SetStatus(codes.Error, err.Error())
}
