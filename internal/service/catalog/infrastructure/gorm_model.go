// internal/service/catalog/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"autohub/internal/service/catalog/domain"

	"github.com/shopspring/decimal"
)

// CarModel maps the cars table.
type CarModel struct {
	ID           string              `gorm:"primaryKey;size:36"`
	Brand        string              `gorm:"size:64;not null;index:idx_brand_model"`
	Model        string              `gorm:"size:64;not null;index:idx_brand_model"`
	Variant      string              `gorm:"size:64"`
	Year         int                 `gorm:"not null"`
	FuelType     domain.FuelType     `gorm:"size:16;not null"`
	Transmission domain.Transmission `gorm:"size:16;not null"`
	Price        decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Color        string              `gorm:"size:32"`
	Status       domain.Status       `gorm:"size:16;not null;index"`
	Description  string              `gorm:"type:text"`
	CreatedAt    time.Time
	LastUpdated  time.Time
}

func (CarModel) TableName() string {
	return "cars"
}

func toDomainCar(m *CarModel) *domain.Car {
	return &domain.Car{
		ID:           m.ID,
		Brand:        m.Brand,
		Model:        m.Model,
		Variant:      m.Variant,
		Year:         m.Year,
		FuelType:     m.FuelType,
		Transmission: m.Transmission,
		Price:        m.Price,
		Color:        m.Color,
		Status:       m.Status,
		Description:  m.Description,
		CreatedAt:    m.CreatedAt,
		LastUpdated:  m.LastUpdated,
	}
}

func fromDomainCar(c *domain.Car) *CarModel {
	return &CarModel{
		ID:           c.ID,
		Brand:        c.Brand,
		Model:        c.Model,
		Variant:      c.Variant,
		Year:         c.Year,
		FuelType:     c.FuelType,
		Transmission: c.Transmission,
		Price:        c.Price,
		Color:        c.Color,
		Status:       c.Status,
		Description:  c.Description,
		CreatedAt:    c.CreatedAt,
		LastUpdated:  c.LastUpdated,
	}
}
