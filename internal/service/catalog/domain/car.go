// internal/service/catalog/domain/car.go
package domain

import (
	"strings"
	"time"

	"autohub/internal/pkg/apperr"

	"github.com/shopspring/decimal"
)

type FuelType string

const (
	FuelPetrol   FuelType = "PETROL"
	FuelDiesel   FuelType = "DIESEL"
	FuelElectric FuelType = "ELECTRIC"
	FuelHybrid   FuelType = "HYBRID"
)

func (f FuelType) Valid() bool {
	switch f {
	case FuelPetrol, FuelDiesel, FuelElectric, FuelHybrid:
		return true
	}
	return false
}

type Transmission string

const (
	TransmissionManual    Transmission = "MANUAL"
	TransmissionAutomatic Transmission = "AUTOMATIC"
)

func (t Transmission) Valid() bool {
	return t == TransmissionManual || t == TransmissionAutomatic
}

type Status string

const (
	StatusAvailable    Status = "AVAILABLE"
	StatusReserved     Status = "RESERVED"
	StatusSold         Status = "SOLD"
	StatusDiscontinued Status = "DISCONTINUED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusSold, StatusDiscontinued:
		return true
	}
	return false
}

// firstCarYear is the year of the first production automobile.
const firstCarYear = 1886

// Car is a catalog entry. Its ID is the item id the inventory ledger keys on.
type Car struct {
	ID           string
	Brand        string
	Model        string
	Variant      string
	Year         int
	FuelType     FuelType
	Transmission Transmission
	Price        decimal.Decimal
	Color        string
	Status       Status
	Description  string
	CreatedAt    time.Time
	LastUpdated  time.Time
}

// Validate checks the car against the catalog rules and reports every
// offending field at once.
func (c *Car) Validate(now time.Time) error {
	fields := map[string]string{}
	if strings.TrimSpace(c.Brand) == "" {
		fields["brand"] = "must not be blank"
	}
	if strings.TrimSpace(c.Model) == "" {
		fields["model"] = "must not be blank"
	}
	if c.Year < firstCarYear || c.Year > now.Year()+1 {
		fields["year"] = "out of range"
	}
	if !c.FuelType.Valid() {
		fields["fuelType"] = "must be one of PETROL, DIESEL, ELECTRIC, HYBRID"
	}
	if !c.Transmission.Valid() {
		fields["transmission"] = "must be MANUAL or AUTOMATIC"
	}
	if c.Price.IsNegative() {
		fields["price"] = "must not be negative"
	}
	if !c.Status.Valid() {
		fields["status"] = "unknown status"
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid car", fields)
	}
	return nil
}

// Discontinue is the soft delete of a catalog entry.
func (c *Car) Discontinue(now time.Time) {
	c.Status = StatusDiscontinued
	c.LastUpdated = now
}
