package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"autohub/internal/pkg/apperr"
	"autohub/internal/pkg/constants"
	"autohub/internal/pkg/httpclient"
	"autohub/internal/pkg/resilience"
	"autohub/internal/service/gateway/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newDownstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /catalog/cars", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": "CAR-1", "brand": "Mahindra", "model": "XUV700", "year": 2024, "price": "2100000.00", "status": "AVAILABLE"},
		})
	})
	mux.HandleFunc("GET /catalog/cars/{carId}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("carId") != "CAR-1" {
			writeJSON(w, http.StatusNotFound, map[string]string{"code": "RESOURCE_NOT_FOUND"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": "CAR-1", "brand": "Mahindra", "model": "XUV700", "year": 2024, "price": "2100000.00"})
	})
	mux.HandleFunc("GET /inventory/availability/{itemId}", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("itemId") {
		case "CAR-1":
			writeJSON(w, http.StatusOK, map[string]any{"totalUnits": 2, "reservedUnits": 0, "availableUnits": 2})
		case "CAR-0":
			writeJSON(w, http.StatusConflict, map[string]any{"totalUnits": 1, "reservedUnits": 1, "availableUnits": 0})
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"code": "RESOURCE_NOT_FOUND"})
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newClients(baseURL string) (*CatalogClient, *InventoryClient) {
	client := httpclient.NewClient(noop.NewTracerProvider().Tracer("test"), httpclient.StaticResolver{
		constants.CatalogService:   baseURL,
		constants.InventoryService: baseURL,
	})
	policies := resilience.NewRegistry(map[string]resilience.Config{
		constants.PolicyGatewayCatalog:   {Timeout: time.Second},
		constants.PolicyGatewayInventory: {Timeout: time.Second},
	})
	return NewCatalogClient(client, policies), NewInventoryClient(client, policies)
}

func TestCatalogClient(t *testing.T) {
	catalog, _ := newClients(newDownstream(t).URL)
	ctx := context.Background()

	car, err := catalog.GetCar(ctx, "CAR-1")
	require.NoError(t, err)
	assert.Equal(t, "XUV700", car.Model)
	assert.True(t, car.Price.Equal(decimal.NewFromInt(2_100_000)))

	_, err = catalog.GetCar(ctx, "CAR-9")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	cars, err := catalog.ListCars(ctx)
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, "AVAILABLE", cars[0].Status)
}

func TestInventoryClient(t *testing.T) {
	_, inventory := newClients(newDownstream(t).URL)
	ctx := context.Background()

	stock, err := inventory.GetStock(ctx, "CAR-1")
	require.NoError(t, err)
	assert.Equal(t, domain.Stock{TotalUnits: 2, AvailableUnits: 2}, stock)

	stock, err = inventory.GetStock(ctx, "CAR-0")
	require.NoError(t, err)
	assert.Equal(t, domain.Stock{TotalUnits: 1, ReservedUnits: 1}, stock)

	_, err = inventory.GetStock(ctx, "CAR-9")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestInventoryClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, inventory := newClients(url)
	_, err := inventory.GetStock(context.Background(), "CAR-1")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindServiceUnavailable))
}
