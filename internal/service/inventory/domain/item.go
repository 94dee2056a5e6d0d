// internal/service/inventory/domain/item.go
package domain

import "time"

// Item is the ledger record of one catalog item at one location.
// AvailableUnits+ReservedUnits only changes through Resize.
type Item struct {
	ID             string
	ItemID         string
	AvailableUnits int
	ReservedUnits  int
	Location       string
	Version        int64
	LastUpdated    time.Time
}

func (i *Item) TotalUnits() int {
	return i.AvailableUnits + i.ReservedUnits
}

// Reserve moves units from available to reserved, or leaves the item untouched.
func (i *Item) Reserve(units int, now time.Time) error {
	if units < 1 {
		return ErrInvalidUnits
	}
	if i.AvailableUnits < units {
		return ErrInsufficientStock
	}
	i.AvailableUnits -= units
	i.ReservedUnits += units
	i.touch(now)
	return nil
}

// Release moves units from reserved back to available, or leaves the item untouched.
func (i *Item) Release(units int, now time.Time) error {
	if units < 1 {
		return ErrInvalidUnits
	}
	if i.ReservedUnits < units {
		return ErrInvalidRelease
	}
	i.ReservedUnits -= units
	i.AvailableUnits += units
	i.touch(now)
	return nil
}

// Resize is the administrative stock adjustment. Reserved units are kept.
func (i *Item) Resize(available int, location string, now time.Time) error {
	if available < 0 {
		return ErrNegativeStock
	}
	i.AvailableUnits = available
	if location != "" {
		i.Location = location
	}
	i.touch(now)
	return nil
}

func (i *Item) touch(now time.Time) {
	i.Version++
	i.LastUpdated = now
}

// Availability is a read-only snapshot of an item's counters.
type Availability struct {
	ItemID         string
	TotalUnits     int
	ReservedUnits  int
	AvailableUnits int
}

func (a Availability) Available() bool {
	return a.AvailableUnits > 0
}

func AvailabilityOf(i *Item) Availability {
	return Availability{
		ItemID:         i.ItemID,
		TotalUnits:     i.TotalUnits(),
		ReservedUnits:  i.ReservedUnits,
		AvailableUnits: i.AvailableUnits,
	}
}

// Reservation is the outcome of a successful reserve. It is not persisted.
type Reservation struct {
	ReservationID  string
	ItemID         string
	UnitsReserved  int
	UnitsRemaining int
	ExpiresAt      time.Time
}
