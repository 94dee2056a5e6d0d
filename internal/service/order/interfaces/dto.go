// internal/service/order/interfaces/dto.go
package interfaces

import (
	"time"

	"autohub/internal/service/order/domain"

	"github.com/shopspring/decimal"
)

type createOrderRequest struct {
	ItemID                   string `json:"itemId"`
	UserID                   string `json:"userId"`
	ReservationExpiryMinutes int    `json:"reservationExpiryMinutes"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type orderResponse struct {
	ID                     string          `json:"id"`
	ItemID                 string          `json:"itemId"`
	UserID                 string          `json:"userId"`
	PriceAtPurchase        decimal.Decimal `json:"priceAtPurchase"`
	PriceDegraded          bool            `json:"priceDegraded"`
	Status                 string          `json:"status"`
	OrderDate              time.Time       `json:"orderDate"`
	ReservationExpiry      time.Time       `json:"reservationExpiry"`
	LastUpdated            time.Time       `json:"lastUpdated"`
	InventoryReservationID string          `json:"inventoryReservationId,omitempty"`
}

type createOrderResponse struct {
	orderResponse
	Outcome string `json:"outcome"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		ID:                     o.ID,
		ItemID:                 o.ItemID,
		UserID:                 o.UserID,
		PriceAtPurchase:        o.PriceAtPurchase,
		PriceDegraded:          o.PriceDegraded,
		Status:                 string(o.Status),
		OrderDate:              o.OrderDate,
		ReservationExpiry:      o.ReservationExpiry,
		LastUpdated:            o.LastUpdated,
		InventoryReservationID: o.InventoryReservationID,
	}
}

func toOrderResponses(orders []*domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}
