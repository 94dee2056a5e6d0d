// internal/service/gateway/application/service.go
package application

import (
	"context"
	"time"

	"autohub/internal/pkg/apperr"
	"autohub/internal/pkg/logger"
	"autohub/internal/service/gateway/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	MaxPageSize     = 100
	DefaultPageSize = 20
)

// AggregationService joins catalog and inventory data for display. The
// catalog is mandatory, inventory only annotates.
type AggregationService struct {
	catalog     domain.CatalogReader
	inventory   domain.InventoryReader
	tracer      trace.Tracer
	concurrency int
	now         func() time.Time
	lookups     singleflight.Group
}

type Option func(*AggregationService)

// WithConcurrency bounds the inventory lookups of one listing page.
func WithConcurrency(n int) Option {
	return func(s *AggregationService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *AggregationService) { s.now = now }
}

func NewAggregationService(catalog domain.CatalogReader, inventory domain.InventoryReader, tracer trace.Tracer, opts ...Option) *AggregationService {
	s := &AggregationService{
		catalog:     catalog,
		inventory:   inventory,
		tracer:      tracer,
		concurrency: 8,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetDetails returns the car with its availability. A catalog miss is a not
// found error and any other catalog failure is service unavailable; an
// inventory failure only marks the view partial.
func (s *AggregationService) GetDetails(ctx context.Context, carID string) (*domain.CarDetailsView, error) {
	ctx, span := s.tracer.Start(ctx, "app.GetCarDetails", trace.WithAttributes(attribute.String("car.id", carID)))
	defer span.End()

	car, err := s.getCar(ctx, carID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog lookup failed")
		return nil, catalogFailure(err)
	}

	availability, partial := s.availability(ctx, carID)
	span.SetAttributes(attribute.String("availability", string(availability.Status)), attribute.Bool("partial", partial))
	if partial {
		logger.Ctx(ctx).Warn().Str("car_id", carID).Str("reason", availability.Reason).Msg("returning details without availability")
	}
	return &domain.CarDetailsView{
		Car:          car,
		Availability: availability,
		Partial:      partial,
		AggregatedAt: s.now().UTC(),
	}, nil
}

// GetListing returns one page of the catalog. page must be >= 1; size is
// clamped to [1, MaxPageSize]. Both are settled before any downstream call.
func (s *AggregationService) GetListing(ctx context.Context, page, size int) (*domain.Listing, error) {
	if page < 1 {
		return nil, apperr.Validation("page must be at least 1", map[string]string{"page": "must be >= 1"})
	}
	size = min(max(size, 1), MaxPageSize)

	ctx, span := s.tracer.Start(ctx, "app.GetCarListing", trace.WithAttributes(
		attribute.Int("page", page),
		attribute.Int("size", size),
	))
	defer span.End()

	cars, err := s.listCars(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog listing failed")
		return nil, catalogFailure(err)
	}

	total := len(cars)
	listing := &domain.Listing{
		Items: []domain.ListingItem{},
		Pagination: domain.Pagination{
			TotalCount:  total,
			PageSize:    size,
			CurrentPage: page,
			TotalPages:  (total + size - 1) / size,
		},
		AggregatedAt: s.now().UTC(),
	}
	start := (page - 1) * size
	if start >= total {
		return listing, nil
	}
	pageCars := cars[start:min(start+size, total)]

	items := make([]domain.ListingItem, len(pageCars))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, car := range pageCars {
		g.Go(func() error {
			availability, _ := s.availability(ctx, car.ID)
			items[i] = domain.ListingItem{Car: car, Availability: availability}
			return nil
		})
	}
	_ = g.Wait()

	listing.Items = items
	span.SetAttributes(attribute.Int("items", len(items)))
	return listing, nil
}

// availability never fails; the bool reports whether the answer is partial.
func (s *AggregationService) availability(ctx context.Context, itemID string) (domain.AvailabilityInfo, bool) {
	stock, err := s.inventory.GetStock(ctx, itemID)
	switch {
	case err == nil:
		return domain.AvailabilityFromStock(stock), false
	case apperr.Is(err, apperr.KindNotFound):
		return domain.NotStocked(), false
	default:
		logger.Ctx(ctx).Debug().Err(err).Str("item_id", itemID).Msg("inventory lookup failed")
		return domain.UnknownAvailability("inventory service temporarily unavailable"), true
	}
}

// getCar and listCars collapse concurrent identical catalog lookups into one
// downstream call. The shared call is detached from any single caller's
// cancellation and bounded by the catalog policy timeout; each caller still
// stops waiting when its own context ends.
func (s *AggregationService) getCar(ctx context.Context, id string) (domain.Car, error) {
	return shared(ctx, &s.lookups, "car:"+id, func(ctx context.Context) (domain.Car, error) {
		return s.catalog.GetCar(ctx, id)
	})
}

func (s *AggregationService) listCars(ctx context.Context) ([]domain.Car, error) {
	return shared(ctx, &s.lookups, "cars", s.catalog.ListCars)
}

func shared[T any](ctx context.Context, g *singleflight.Group, key string, fn func(context.Context) (T, error)) (T, error) {
	detached := context.WithoutCancel(ctx)
	ch := g.DoChan(key, func() (any, error) {
		return fn(detached)
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func catalogFailure(err error) error {
	if apperr.Is(err, apperr.KindNotFound) {
		return err
	}
	return apperr.Wrap(err, apperr.KindServiceUnavailable, "catalog service unavailable")
}
