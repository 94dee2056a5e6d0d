// internal/service/order/domain/repository.go
package domain

import (
	"context"
	"time"
)

// OrderRepository persists orders. Implementations live in infrastructure.
type OrderRepository interface {
	// Save inserts a new order.
	Save(ctx context.Context, order *Order) error

	FindByID(ctx context.Context, id string) (*Order, error)

	// List returns every order, newest first.
	List(ctx context.Context) ([]*Order, error)

	ListByUser(ctx context.Context, userID string) ([]*Order, error)

	// ListExpired returns up to limit orders in status whose reservation
	// expired before the given time, oldest first.
	ListExpired(ctx context.Context, status Status, before time.Time, limit int) ([]*Order, error)

	// UpdateStatus is a compare-and-set: it moves id from from to to and
	// returns ErrStaleStatus when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to Status, now time.Time) error
}
