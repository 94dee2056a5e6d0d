// internal/service/gateway/infrastructure/catalog_client.go
package infrastructure

import (
	"context"
	"net/url"
	"time"

	"autohub/internal/pkg/constants"
	"autohub/internal/pkg/httpclient"
	"autohub/internal/pkg/metrics"
	"autohub/internal/pkg/resilience"
	"autohub/internal/service/gateway/domain"

	"github.com/shopspring/decimal"
)

const catalogDownstream = "catalog"

// carBody is the part of the catalog car payload the gateway shows.
type carBody struct {
	ID      string          `json:"id"`
	Brand   string          `json:"brand"`
	Model   string          `json:"model"`
	Variant string          `json:"variant"`
	Year    int             `json:"year"`
	Price   decimal.Decimal `json:"price"`
	Color   string          `json:"color"`
	Status  string          `json:"status"`
}

// CatalogClient reads cars from the catalog service under the gateway's
// catalog policy.
type CatalogClient struct {
	client *httpclient.Client
	policy *resilience.Policy
}

func NewCatalogClient(client *httpclient.Client, policies *resilience.Registry) *CatalogClient {
	return &CatalogClient{client: client, policy: policies.Get(constants.PolicyGatewayCatalog)}
}

func (c *CatalogClient) GetCar(ctx context.Context, id string) (domain.Car, error) {
	path := constants.CatalogCarsPath + "/" + url.PathEscape(id)
	return observe(catalogDownstream, func() (domain.Car, error) {
		return resilience.Execute(ctx, c.policy, func(ctx context.Context) (domain.Car, error) {
			var body carBody
			if _, err := c.client.GetJSON(ctx, constants.CatalogService, path, &body); err != nil {
				return domain.Car{}, err
			}
			return toCar(body), nil
		}, nil)
	})
}

func (c *CatalogClient) ListCars(ctx context.Context) ([]domain.Car, error) {
	return observe(catalogDownstream, func() ([]domain.Car, error) {
		return resilience.Execute(ctx, c.policy, func(ctx context.Context) ([]domain.Car, error) {
			var body []carBody
			if _, err := c.client.GetJSON(ctx, constants.CatalogService, constants.CatalogCarsPath, &body); err != nil {
				return nil, err
			}
			cars := make([]domain.Car, 0, len(body))
			for _, b := range body {
				cars = append(cars, toCar(b))
			}
			return cars, nil
		}, nil)
	})
}

func toCar(b carBody) domain.Car {
	return domain.Car{
		ID:      b.ID,
		Brand:   b.Brand,
		Model:   b.Model,
		Variant: b.Variant,
		Year:    b.Year,
		Price:   b.Price,
		Color:   b.Color,
		Status:  b.Status,
	}
}

// observe records latency and failures of one downstream call. Business
// answers such as not found are not counted as errors.
func observe[T any](downstream string, call func() (T, error)) (T, error) {
	start := time.Now()
	res, err := call()
	metrics.DownstreamDuration.WithLabelValues(downstream).Observe(time.Since(start).Seconds())
	if err != nil && !resilience.IsBusinessError(err) {
		metrics.DownstreamErrors.WithLabelValues(downstream).Inc()
	}
	return res, err
}
