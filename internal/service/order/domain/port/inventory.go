// internal/service/order/domain/port/inventory.go
package port

import (
	"context"
	"time"
)

// Availability is the ledger's answer for one item. Known is false when the
// ledger could not be asked and Reason says why.
type Availability struct {
	ItemID         string
	Known          bool
	TotalUnits     int
	ReservedUnits  int
	AvailableUnits int
	Reason         string
}

// Reservation is the transient outcome of a successful reserve.
type Reservation struct {
	ReservationID  string
	ItemID         string
	UnitsReserved  int
	UnitsRemaining int
	ExpiresAt      time.Time
}

// InventoryService is the outbound port to the inventory ledger.
type InventoryService interface {
	// CheckAvailability never fails on transport problems: those yield an
	// Availability with Known=false. Only a missing item is an error.
	CheckAvailability(ctx context.Context, itemID string) (Availability, error)

	// Reserve is attempted exactly once per call, never retried.
	Reserve(ctx context.Context, itemID string, units int) (Reservation, error)

	// Release hands reserved units back; it is the compensation of Reserve.
	Release(ctx context.Context, itemID string, units int) error
}
