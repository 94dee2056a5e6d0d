// internal/service/order/domain/port/catalog.go
package port

import (
	"context"

	"github.com/shopspring/decimal"
)

// UnknownAttribute fills brand and model of a degraded lookup.
const UnknownAttribute = "UNKNOWN"

// CarDetails is what pricing needs from the catalog. A degraded value carries
// a zero price and the reason the lookup failed.
type CarDetails struct {
	ItemID   string
	Brand    string
	Model    string
	Variant  string
	Year     int
	Price    decimal.Decimal
	Degraded bool
	Reason   string
}

// DegradedDetails is the default returned when the catalog cannot answer.
func DegradedDetails(itemID, reason string) CarDetails {
	return CarDetails{
		ItemID:   itemID,
		Brand:    UnknownAttribute,
		Model:    UnknownAttribute,
		Price:    decimal.Zero,
		Degraded: true,
		Reason:   reason,
	}
}

// CatalogService is the outbound port to the catalog. GetDetails always
// returns a value; failures come back degraded.
type CatalogService interface {
	GetDetails(ctx context.Context, itemID string) CarDetails
}
