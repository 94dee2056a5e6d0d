// internal/service/order/infrastructure/adapter/catalog_http_adapter.go
package adapter

import (
	"context"
	"net/url"
	"time"

	"autohub/internal/pkg/constants"
	"autohub/internal/pkg/httpclient"
	"autohub/internal/pkg/logger"
	"autohub/internal/pkg/metrics"
	"autohub/internal/pkg/resilience"
	"autohub/internal/service/order/domain/port"

	"github.com/shopspring/decimal"
)

// CatalogHTTPAdapter implements port.CatalogService. Every failure, a missing
// car included, comes back as degraded details.
type CatalogHTTPAdapter struct {
	client *httpclient.Client
	policy *resilience.Policy
}

func NewCatalogHTTPAdapter(client *httpclient.Client, policies *resilience.Registry) *CatalogHTTPAdapter {
	return &CatalogHTTPAdapter{client: client, policy: policies.Get(constants.PolicyCatalogRead)}
}

type carBody struct {
	ID      string          `json:"id"`
	Brand   string          `json:"brand"`
	Model   string          `json:"model"`
	Variant string          `json:"variant"`
	Year    int             `json:"year"`
	Price   decimal.Decimal `json:"price"`
}

func (a *CatalogHTTPAdapter) GetDetails(ctx context.Context, itemID string) port.CarDetails {
	start := time.Now()
	defer func() { metrics.CatalogLookupDuration.Observe(time.Since(start).Seconds()) }()

	path := constants.CatalogCarsPath + "/" + url.PathEscape(itemID)
	details, err := resilience.Execute(ctx, a.policy, func(ctx context.Context) (port.CarDetails, error) {
		var body carBody
		if _, err := a.client.GetJSON(ctx, constants.CatalogService, path, &body); err != nil {
			return port.CarDetails{}, err
		}
		return port.CarDetails{
			ItemID:  itemID,
			Brand:   body.Brand,
			Model:   body.Model,
			Variant: body.Variant,
			Year:    body.Year,
			Price:   body.Price,
		}, nil
	}, func(ctx context.Context, err error) (port.CarDetails, error) {
		return port.DegradedDetails(itemID, err.Error()), nil
	})
	if err != nil {
		// business answers such as not found bypass the fallback
		details = port.DegradedDetails(itemID, err.Error())
	}
	if details.Degraded {
		logger.Ctx(ctx).Warn().Str("item_id", itemID).Str("reason", details.Reason).Msg("catalog details degraded")
	}
	return details
}
