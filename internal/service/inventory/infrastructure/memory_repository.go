// internal/service/inventory/infrastructure/memory_repository.go
package infrastructure

import (
	"context"
	"sort"
	"sync"
	"time"

	"autohub/internal/service/inventory/domain"

	"github.com/pkg/errors"
)

// MemoryRepository keeps the ledger in process. One mutex serialises every
// read-modify-write, which is what makes Reserve and Release atomic here.
type MemoryRepository struct {
	mu    sync.Mutex
	items map[string]*domain.Item
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]*domain.Item), now: time.Now}
}

func (r *MemoryRepository) Create(_ context.Context, item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ItemID]; ok {
		return errors.WithStack(domain.ErrItemExists)
	}
	cp := *item
	r.items[item.ItemID] = &cp
	return nil
}

func (r *MemoryRepository) FindByItemID(_ context.Context, itemID string) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return nil, errors.WithStack(domain.ErrItemNotFound)
	}
	cp := *item
	return &cp, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Item, 0, len(r.items))
	for _, item := range r.items {
		cp := *item
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

func (r *MemoryRepository) Reserve(_ context.Context, itemID string, units int) (*domain.Item, error) {
	return r.mutate(itemID, func(item *domain.Item, now time.Time) error {
		return item.Reserve(units, now)
	})
}

func (r *MemoryRepository) Release(_ context.Context, itemID string, units int) (*domain.Item, error) {
	return r.mutate(itemID, func(item *domain.Item, now time.Time) error {
		return item.Release(units, now)
	})
}

func (r *MemoryRepository) Resize(_ context.Context, itemID string, available int, location string) (*domain.Item, error) {
	return r.mutate(itemID, func(item *domain.Item, now time.Time) error {
		return item.Resize(available, location, now)
	})
}

// mutate applies fn to a copy and stores it only when fn succeeds.
func (r *MemoryRepository) mutate(itemID string, fn func(*domain.Item, time.Time) error) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[itemID]
	if !ok {
		return nil, errors.WithStack(domain.ErrItemNotFound)
	}
	next := *stored
	if err := fn(&next, r.now().UTC()); err != nil {
		return nil, errors.WithStack(err)
	}
	r.items[itemID] = &next
	out := next
	return &out, nil
}
