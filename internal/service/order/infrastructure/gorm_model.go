// internal/service/order/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"autohub/internal/service/order/domain"

	"github.com/shopspring/decimal"
)

// OrderModel maps the orders table.
type OrderModel struct {
	ID                     string          `gorm:"primaryKey;size:36"`
	ItemID                 string          `gorm:"size:64;not null;index"`
	UserID                 string          `gorm:"size:64;not null;index"`
	PriceAtPurchase        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PriceDegraded          bool            `gorm:"not null;default:false"`
	Status                 domain.Status   `gorm:"size:32;not null;index:idx_status_expiry"`
	OrderDate              time.Time       `gorm:"not null"`
	ReservationExpiry      time.Time       `gorm:"not null;index:idx_status_expiry"`
	LastUpdated            time.Time       `gorm:"not null"`
	InventoryReservationID string          `gorm:"size:36"`
}

func (OrderModel) TableName() string {
	return "orders"
}

func toDomainOrder(m *OrderModel) *domain.Order {
	return &domain.Order{
		ID:                     m.ID,
		ItemID:                 m.ItemID,
		UserID:                 m.UserID,
		PriceAtPurchase:        m.PriceAtPurchase,
		PriceDegraded:          m.PriceDegraded,
		Status:                 m.Status,
		OrderDate:              m.OrderDate,
		ReservationExpiry:      m.ReservationExpiry,
		LastUpdated:            m.LastUpdated,
		InventoryReservationID: m.InventoryReservationID,
	}
}

func fromDomainOrder(o *domain.Order) *OrderModel {
	return &OrderModel{
		ID:                     o.ID,
		ItemID:                 o.ItemID,
		UserID:                 o.UserID,
		PriceAtPurchase:        o.PriceAtPurchase,
		PriceDegraded:          o.PriceDegraded,
		Status:                 o.Status,
		OrderDate:              o.OrderDate,
		ReservationExpiry:      o.ReservationExpiry,
		LastUpdated:            o.LastUpdated,
		InventoryReservationID: o.InventoryReservationID,
	}
}

func toDomainOrders(models []OrderModel) []*domain.Order {
	out := make([]*domain.Order, 0, len(models))
	for i := range models {
		out = append(out, toDomainOrder(&models[i]))
	}
	return out
}
