// internal/service/order/infrastructure/memory_repository.go
package infrastructure

import (
	"context"
	"sort"
	"sync"
	"time"

	"autohub/internal/service/order/domain"

	"github.com/pkg/errors"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{orders: make(map[string]*domain.Order)}
}

func (r *MemoryRepository) Save(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; ok {
		return errors.WithStack(domain.ErrOrderExists)
	}
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, errors.WithStack(domain.ErrOrderNotFound)
	}
	cp := *o
	return &cp, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]*domain.Order, error) {
	return r.filter(func(*domain.Order) bool { return true }, newestFirst), nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	return r.filter(func(o *domain.Order) bool { return o.UserID == userID }, newestFirst), nil
}

func (r *MemoryRepository) ListExpired(_ context.Context, status domain.Status, before time.Time, limit int) ([]*domain.Order, error) {
	out := r.filter(func(o *domain.Order) bool {
		return o.Status == status && o.ReservationExpiry.Before(before)
	}, func(a, b *domain.Order) bool { return a.ReservationExpiry.Before(b.ReservationExpiry) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id string, from, to domain.Status, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return errors.WithStack(domain.ErrOrderNotFound)
	}
	if o.Status != from {
		return errors.WithStack(domain.ErrStaleStatus)
	}
	next := *o
	next.Status = to
	next.LastUpdated = now
	r.orders[id] = &next
	return nil
}

func (r *MemoryRepository) filter(keep func(*domain.Order) bool, less func(a, b *domain.Order) bool) []*domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if keep(o) {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func newestFirst(a, b *domain.Order) bool {
	if a.OrderDate.Equal(b.OrderDate) {
		return a.ID < b.ID
	}
	return a.OrderDate.After(b.OrderDate)
}
