// internal/service/inventory/domain/repository.go
package domain

import "context"

// Repository persists ledger items. Reserve, Release and Resize must each be a
// single atomic read-modify-write in the backing store: callers hold no lock.
// On a failed precondition nothing is written and the domain error is returned.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	FindByItemID(ctx context.Context, itemID string) (*Item, error)
	List(ctx context.Context) ([]*Item, error)

	Reserve(ctx context.Context, itemID string, units int) (*Item, error)
	Release(ctx context.Context, itemID string, units int) (*Item, error)
	Resize(ctx context.Context, itemID string, available int, location string) (*Item, error)
}
