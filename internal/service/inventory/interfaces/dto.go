// internal/service/inventory/interfaces/dto.go
package interfaces

import (
	"time"

	"autohub/internal/service/inventory/domain"
)

type unitsRequest struct {
	ItemID string `json:"itemId"`
	Units  int    `json:"units"`
}

type createRequest struct {
	ItemID         string `json:"itemId"`
	AvailableUnits int    `json:"availableUnits"`
	Location       string `json:"location"`
}

type updateRequest struct {
	AvailableUnits *int   `json:"availableUnits"`
	Location       string `json:"location"`
}

type itemResponse struct {
	ID             string    `json:"id"`
	ItemID         string    `json:"itemId"`
	AvailableUnits int       `json:"availableUnits"`
	ReservedUnits  int       `json:"reservedUnits"`
	TotalUnits     int       `json:"totalUnits"`
	Location       string    `json:"location"`
	Version        int64     `json:"version"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

type availabilityResponse struct {
	ItemID         string `json:"itemId"`
	Available      bool   `json:"available"`
	TotalUnits     int    `json:"totalUnits"`
	ReservedUnits  int    `json:"reservedUnits"`
	AvailableUnits int    `json:"availableUnits"`
}

type reservationResponse struct {
	ReservationID  string    `json:"reservationId"`
	ItemID         string    `json:"itemId"`
	UnitsReserved  int       `json:"unitsReserved"`
	UnitsRemaining int       `json:"unitsRemaining"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

func toItemResponse(item *domain.Item) itemResponse {
	return itemResponse{
		ID:             item.ID,
		ItemID:         item.ItemID,
		AvailableUnits: item.AvailableUnits,
		ReservedUnits:  item.ReservedUnits,
		TotalUnits:     item.TotalUnits(),
		Location:       item.Location,
		Version:        item.Version,
		LastUpdated:    item.LastUpdated,
	}
}
