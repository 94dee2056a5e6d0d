// internal/service/gateway/domain/view.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AvailabilityStatus string

const (
	InStock    AvailabilityStatus = "IN_STOCK"
	OutOfStock AvailabilityStatus = "OUT_OF_STOCK"
	Unknown    AvailabilityStatus = "UNKNOWN"
)

// Car is the catalog part of an aggregated view.
type Car struct {
	ID      string
	Brand   string
	Model   string
	Variant string
	Year    int
	Price   decimal.Decimal
	Color   string
	Status  string
}

// Stock is the raw ledger answer for one item.
type Stock struct {
	TotalUnits     int
	ReservedUnits  int
	AvailableUnits int
}

// AvailabilityInfo is the inventory part of an aggregated view. Counts are
// only meaningful when Status is not Unknown; Reason explains Unknown.
type AvailabilityInfo struct {
	Status         AvailabilityStatus
	TotalUnits     int
	AvailableUnits int
	ReservedUnits  int
	Reason         string
}

// AvailabilityFromStock classifies a ledger answer.
func AvailabilityFromStock(s Stock) AvailabilityInfo {
	info := AvailabilityInfo{
		Status:         OutOfStock,
		TotalUnits:     s.TotalUnits,
		AvailableUnits: s.AvailableUnits,
		ReservedUnits:  s.ReservedUnits,
	}
	if s.AvailableUnits > 0 {
		info.Status = InStock
	} else {
		info.Reason = "car is not in stock"
	}
	return info
}

// NotStocked is the availability of an item the ledger has no record for.
func NotStocked() AvailabilityInfo {
	return AvailabilityInfo{Status: OutOfStock, Reason: "car is not in stock"}
}

func UnknownAvailability(reason string) AvailabilityInfo {
	return AvailabilityInfo{Status: Unknown, Reason: reason}
}

// CarDetailsView joins a car with its availability. Partial is set when the
// availability could not be determined.
type CarDetailsView struct {
	Car          Car
	Availability AvailabilityInfo
	Partial      bool
	AggregatedAt time.Time
}

type ListingItem struct {
	Car          Car
	Availability AvailabilityInfo
}

type Pagination struct {
	TotalCount  int
	PageSize    int
	CurrentPage int
	TotalPages  int
}

// Listing is one page of cars, each with its own availability.
type Listing struct {
	Items        []ListingItem
	Pagination   Pagination
	AggregatedAt time.Time
}
