// internal/service/catalog/application/service.go
package application

import (
	"context"
	"time"

	"autohub/internal/pkg/logger"
	"autohub/internal/service/catalog/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type CatalogService struct {
	repo     domain.Repository
	compiler domain.FilterCompiler
	tracer   trace.Tracer
	now      func() time.Time
}

func NewCatalogService(repo domain.Repository, compiler domain.FilterCompiler, tracer trace.Tracer) *CatalogService {
	return &CatalogService{repo: repo, compiler: compiler, tracer: tracer, now: time.Now}
}

func (s *CatalogService) Create(ctx context.Context, in CarInput) (*domain.Car, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Create")
	defer span.End()

	now := s.now().UTC()
	car := &domain.Car{ID: uuid.NewString(), Status: domain.StatusAvailable, CreatedAt: now, LastUpdated: now}
	in.apply(car)
	if err := car.Validate(now); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, car); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("car.id", car.ID))
	logger.Ctx(ctx).Info().Str("car_id", car.ID).Str("brand", car.Brand).Str("model", car.Model).Msg("car added to catalog")
	return car, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Car, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Get", trace.WithAttributes(attribute.String("car.id", id)))
	defer span.End()

	car, err := s.repo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return car, nil
}

func (s *CatalogService) List(ctx context.Context) ([]*domain.Car, error) {
	return s.repo.List(ctx)
}

func (s *CatalogService) Update(ctx context.Context, id string, in CarInput) (*domain.Car, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Update", trace.WithAttributes(attribute.String("car.id", id)))
	defer span.End()

	car, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	in.apply(car)
	car.LastUpdated = now
	if err := car.Validate(now); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, car); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return car, nil
}

// Delete discontinues the car; catalog entries are never removed.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	car, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	car.Discontinue(s.now().UTC())
	if err := s.repo.Update(ctx, car); err != nil {
		return err
	}
	logger.Ctx(ctx).Info().Str("car_id", id).Msg("car discontinued")
	return nil
}

func (s *CatalogService) Search(ctx context.Context, criteria domain.SearchCriteria) ([]*domain.Car, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Search")
	defer span.End()

	filter, err := s.compiler.Compile(criteria)
	if err != nil {
		return nil, err
	}
	cars, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Car, 0, len(cars))
	for _, car := range cars {
		ok, err := filter.Match(car)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, car)
		}
	}
	span.SetAttributes(attribute.Int("search.matches", len(out)))
	return out, nil
}
