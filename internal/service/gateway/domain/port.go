// internal/service/gateway/domain/port.go
package domain

import "context"

// CatalogReader is the mandatory downstream of the aggregation.
type CatalogReader interface {
	GetCar(ctx context.Context, id string) (Car, error)
	ListCars(ctx context.Context) ([]Car, error)
}

// InventoryReader is the optional downstream. A missing item is reported as
// a not found error, not as zero stock.
type InventoryReader interface {
	GetStock(ctx context.Context, itemID string) (Stock, error)
}
