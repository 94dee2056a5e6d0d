// internal/service/order/infrastructure/adapter/inventory_http_adapter.go
package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"autohub/internal/pkg/constants"
	"autohub/internal/pkg/httpclient"
	"autohub/internal/pkg/logger"
	"autohub/internal/pkg/resilience"
	"autohub/internal/service/order/domain/port"
)

// InventoryHTTPAdapter implements port.InventoryService over the ledger's
// HTTP API. Reads go through a retrying policy; reserve and release through
// policies that never retry.
type InventoryHTTPAdapter struct {
	client  *httpclient.Client
	read    *resilience.Policy
	reserve *resilience.Policy
	release *resilience.Policy
}

func NewInventoryHTTPAdapter(client *httpclient.Client, policies *resilience.Registry) *InventoryHTTPAdapter {
	return &InventoryHTTPAdapter{
		client:  client,
		read:    policies.Get(constants.PolicyInventoryRead),
		reserve: policies.Get(constants.PolicyInventoryReserve),
		release: policies.Get(constants.PolicyInventoryRelease),
	}
}

type availabilityBody struct {
	ItemID         string `json:"itemId"`
	TotalUnits     int    `json:"totalUnits"`
	ReservedUnits  int    `json:"reservedUnits"`
	AvailableUnits int    `json:"availableUnits"`
}

func (b availabilityBody) toPort() port.Availability {
	return port.Availability{
		ItemID:         b.ItemID,
		Known:          true,
		TotalUnits:     b.TotalUnits,
		ReservedUnits:  b.ReservedUnits,
		AvailableUnits: b.AvailableUnits,
	}
}

type unitsBody struct {
	ItemID string `json:"itemId"`
	Units  int    `json:"units"`
}

type reservationBody struct {
	ReservationID  string    `json:"reservationId"`
	ItemID         string    `json:"itemId"`
	UnitsReserved  int       `json:"unitsReserved"`
	UnitsRemaining int       `json:"unitsRemaining"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

func (a *InventoryHTTPAdapter) CheckAvailability(ctx context.Context, itemID string) (port.Availability, error) {
	path := constants.InventoryAvailabilityPath + url.PathEscape(itemID)
	return resilience.Execute(ctx, a.read, func(ctx context.Context) (port.Availability, error) {
		var body availabilityBody
		_, err := a.client.GetJSON(ctx, constants.InventoryService, path, &body)
		if serr, ok := httpclient.AsStatusError(err); ok && serr.StatusCode == http.StatusConflict {
			// out of stock still answers with the counters
			if jerr := json.Unmarshal(serr.Body, &body); jerr == nil {
				return body.toPort(), nil
			}
		}
		if err != nil {
			return port.Availability{}, err
		}
		return body.toPort(), nil
	}, func(ctx context.Context, err error) (port.Availability, error) {
		logger.Ctx(ctx).Warn().Err(err).Str("item_id", itemID).Msg("inventory availability fallback")
		return port.Availability{ItemID: itemID, Known: false, Reason: err.Error()}, nil
	})
}

func (a *InventoryHTTPAdapter) Reserve(ctx context.Context, itemID string, units int) (port.Reservation, error) {
	return resilience.Execute(ctx, a.reserve, func(ctx context.Context) (port.Reservation, error) {
		var body reservationBody
		if _, err := a.client.PostJSON(ctx, constants.InventoryService, constants.InventoryReservePath, unitsBody{ItemID: itemID, Units: units}, &body); err != nil {
			return port.Reservation{}, err
		}
		return port.Reservation{
			ReservationID:  body.ReservationID,
			ItemID:         body.ItemID,
			UnitsReserved:  body.UnitsReserved,
			UnitsRemaining: body.UnitsRemaining,
			ExpiresAt:      body.ExpiresAt,
		}, nil
	}, nil)
}

func (a *InventoryHTTPAdapter) Release(ctx context.Context, itemID string, units int) error {
	_, err := resilience.Execute(ctx, a.release, func(ctx context.Context) (struct{}, error) {
		_, err := a.client.PostJSON(ctx, constants.InventoryService, constants.InventoryReleasePath, unitsBody{ItemID: itemID, Units: units}, nil)
		return struct{}{}, err
	}, nil)
	return err
}
