// internal/service/gateway/infrastructure/inventory_client.go
package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"autohub/internal/pkg/constants"
	"autohub/internal/pkg/httpclient"
	"autohub/internal/pkg/resilience"
	"autohub/internal/service/gateway/domain"
)

const inventoryDownstream = "inventory"

// InventoryClient reads stock counters from the inventory service.
type InventoryClient struct {
	client *httpclient.Client
	policy *resilience.Policy
}

func NewInventoryClient(client *httpclient.Client, policies *resilience.Registry) *InventoryClient {
	return &InventoryClient{client: client, policy: policies.Get(constants.PolicyGatewayInventory)}
}

type stockBody struct {
	TotalUnits     int `json:"totalUnits"`
	ReservedUnits  int `json:"reservedUnits"`
	AvailableUnits int `json:"availableUnits"`
}

func (c *InventoryClient) GetStock(ctx context.Context, itemID string) (domain.Stock, error) {
	path := constants.InventoryAvailabilityPath + url.PathEscape(itemID)
	return observe(inventoryDownstream, func() (domain.Stock, error) {
		return resilience.Execute(ctx, c.policy, func(ctx context.Context) (domain.Stock, error) {
			var body stockBody
			_, err := c.client.GetJSON(ctx, constants.InventoryService, path, &body)
			if serr, ok := httpclient.AsStatusError(err); ok && serr.StatusCode == http.StatusConflict {
				// sold out answers 409 with the counters
				if jerr := json.Unmarshal(serr.Body, &body); jerr == nil {
					err = nil
				}
			}
			if err != nil {
				return domain.Stock{}, err
			}
			return domain.Stock{
				TotalUnits:     body.TotalUnits,
				ReservedUnits:  body.ReservedUnits,
				AvailableUnits: body.AvailableUnits,
			}, nil
		}, nil)
	})
}
