// internal/service/catalog/interfaces/dto.go
package interfaces

import (
	"time"

	"autohub/internal/service/catalog/application"
	"autohub/internal/service/catalog/domain"

	"github.com/shopspring/decimal"
)

type carRequest struct {
	Brand        string          `json:"brand"`
	Model        string          `json:"model"`
	Variant      string          `json:"variant"`
	Year         int             `json:"year"`
	FuelType     string          `json:"fuelType"`
	Transmission string          `json:"transmission"`
	Price        decimal.Decimal `json:"price"`
	Color        string          `json:"color"`
	Status       string          `json:"status"`
	Description  string          `json:"description"`
}

func (r carRequest) toInput() application.CarInput {
	return application.CarInput{
		Brand:        r.Brand,
		Model:        r.Model,
		Variant:      r.Variant,
		Year:         r.Year,
		FuelType:     domain.FuelType(r.FuelType),
		Transmission: domain.Transmission(r.Transmission),
		Price:        r.Price,
		Color:        r.Color,
		Status:       domain.Status(r.Status),
		Description:  r.Description,
	}
}

type searchRequest struct {
	Brand        string           `json:"brand"`
	Model        string           `json:"model"`
	FuelType     string           `json:"fuelType"`
	Transmission string           `json:"transmission"`
	Status       string           `json:"status"`
	MinPrice     *decimal.Decimal `json:"minPrice"`
	MaxPrice     *decimal.Decimal `json:"maxPrice"`
	Expr         string           `json:"expr"`
}

func (r searchRequest) toCriteria() domain.SearchCriteria {
	return domain.SearchCriteria{
		Brand:        r.Brand,
		Model:        r.Model,
		FuelType:     domain.FuelType(r.FuelType),
		Transmission: domain.Transmission(r.Transmission),
		Status:       domain.Status(r.Status),
		MinPrice:     r.MinPrice,
		MaxPrice:     r.MaxPrice,
		Expr:         r.Expr,
	}
}

// CarResponse is the wire form of a car, shared with the clients of this service.
type CarResponse struct {
	ID           string          `json:"id"`
	Brand        string          `json:"brand"`
	Model        string          `json:"model"`
	Variant      string          `json:"variant,omitempty"`
	Year         int             `json:"year"`
	FuelType     string          `json:"fuelType"`
	Transmission string          `json:"transmission"`
	Price        decimal.Decimal `json:"price"`
	Color        string          `json:"color,omitempty"`
	Status       string          `json:"status"`
	Description  string          `json:"description,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	LastUpdated  time.Time       `json:"lastUpdated"`
}

func toCarResponse(c *domain.Car) CarResponse {
	return CarResponse{
		ID:           c.ID,
		Brand:        c.Brand,
		Model:        c.Model,
		Variant:      c.Variant,
		Year:         c.Year,
		FuelType:     string(c.FuelType),
		Transmission: string(c.Transmission),
		Price:        c.Price,
		Color:        c.Color,
		Status:       string(c.Status),
		Description:  c.Description,
		CreatedAt:    c.CreatedAt,
		LastUpdated:  c.LastUpdated,
	}
}

func toCarResponses(cars []*domain.Car) []CarResponse {
	out := make([]CarResponse, 0, len(cars))
	for _, c := range cars {
		out = append(out, toCarResponse(c))
	}
	return out
}
