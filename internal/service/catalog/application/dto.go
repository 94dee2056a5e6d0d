// internal/service/catalog/application/dto.go
package application

import (
	"autohub/internal/service/catalog/domain"

	"github.com/shopspring/decimal"
)

// CarInput carries the writable fields of a car for create and update.
type CarInput struct {
	Brand        string
	Model        string
	Variant      string
	Year         int
	FuelType     domain.FuelType
	Transmission domain.Transmission
	Price        decimal.Decimal
	Color        string
	Status       domain.Status
	Description  string
}

func (in CarInput) apply(car *domain.Car) {
	car.Brand = in.Brand
	car.Model = in.Model
	car.Variant = in.Variant
	car.Year = in.Year
	car.FuelType = in.FuelType
	car.Transmission = in.Transmission
	car.Price = in.Price
	car.Color = in.Color
	car.Description = in.Description
	if in.Status != "" {
		car.Status = in.Status
	}
}
