// internal/service/catalog/infrastructure/memory_repository.go
package infrastructure

import (
	"context"
	"sort"
	"sync"

	"autohub/internal/service/catalog/domain"

	"github.com/pkg/errors"
)

type MemoryRepository struct {
	mu   sync.RWMutex
	cars map[string]*domain.Car
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{cars: make(map[string]*domain.Car)}
}

func (r *MemoryRepository) Create(_ context.Context, car *domain.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *car
	r.cars[car.ID] = &cp
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*domain.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	car, ok := r.cars[id]
	if !ok {
		return nil, errors.WithStack(domain.ErrCarNotFound)
	}
	cp := *car
	return &cp, nil
}

// List returns cars oldest first.
func (r *MemoryRepository) List(_ context.Context) ([]*domain.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Car, 0, len(r.cars))
	for _, car := range r.cars {
		cp := *car
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) Update(_ context.Context, car *domain.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cars[car.ID]; !ok {
		return errors.WithStack(domain.ErrCarNotFound)
	}
	cp := *car
	r.cars[car.ID] = &cp
	return nil
}
