// internal/service/order/domain/order.go
package domain

import (
	"strings"
	"time"

	"autohub/internal/pkg/apperr"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// DefaultExpiryMinutes applies when a request asks for no positive expiry.
const DefaultExpiryMinutes = 30

var (
	ErrOrderNotFound     = &apperr.Error{Kind: apperr.KindNotFound, Msg: "order not found"}
	ErrOrderExists       = &apperr.Error{Kind: apperr.KindConflict, Msg: "order already exists"}
	ErrInvalidTransition = &apperr.Error{Kind: apperr.KindConflict, Msg: "invalid status transition"}
	// ErrStaleStatus means the order moved on between read and conditional write.
	ErrStaleStatus = &apperr.Error{Kind: apperr.KindConflict, Msg: "order status changed concurrently"}
)

// Order is the aggregate root of the order service. It only exists once a
// unit has been reserved for it, and it is never deleted.
type Order struct {
	ID                     string
	ItemID                 string
	UserID                 string
	PriceAtPurchase        decimal.Decimal
	PriceDegraded          bool
	Status                 Status
	OrderDate              time.Time
	ReservationExpiry      time.Time
	LastUpdated            time.Time
	InventoryReservationID string
}

// NewOrder builds an order in CREATED. expiryMinutes <= 0 means DefaultExpiryMinutes.
func NewOrder(id, itemID, userID string, price decimal.Decimal, expiryMinutes int, now time.Time) (*Order, error) {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(itemID) == "" || strings.TrimSpace(userID) == "" {
		return nil, apperr.Validation("order needs an id, an item and a user", nil)
	}
	if expiryMinutes <= 0 {
		expiryMinutes = DefaultExpiryMinutes
	}
	return &Order{
		ID:                id,
		ItemID:            itemID,
		UserID:            userID,
		PriceAtPurchase:   price,
		Status:            StatusCreated,
		OrderDate:         now,
		ReservationExpiry: now.Add(time.Duration(expiryMinutes) * time.Minute),
		LastUpdated:       now,
	}, nil
}

// MarkInventoryReserved links the order to its ledger reservation.
func (o *Order) MarkInventoryReserved(reservationID string, now time.Time) error {
	if err := o.TransitionTo(StatusInventoryReserved, now); err != nil {
		return err
	}
	o.InventoryReservationID = reservationID
	return nil
}

// TransitionTo moves the order to status to, or fails with ErrInvalidTransition.
func (o *Order) TransitionTo(to Status, now time.Time) error {
	if !o.Status.CanTransitionTo(to) {
		return errors.Wrapf(ErrInvalidTransition, "%s -> %s", o.Status, to)
	}
	o.Status = to
	o.LastUpdated = now
	return nil
}

// Expired reports whether the reservation window has passed at now.
func (o *Order) Expired(now time.Time) bool {
	return o.Status == StatusInventoryReserved && o.ReservationExpiry.Before(now)
}
