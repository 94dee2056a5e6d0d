// internal/pkg/constants/servicenames.go
package constants

// Standard service names, used for registration, discovery, logging and metrics.
const (
	APIGatewayService = "api-gateway"
	OrderService      = "order-service"
	InventoryService  = "inventory-service"
	CatalogService    = "catalog-service"
)

const (
	// InventoryService paths
	InventoryAvailabilityPath = "/inventory/availability/"
	InventoryReservePath      = "/inventory/reserve"
	InventoryReleasePath      = "/inventory/release"

	// CatalogService paths
	CatalogCarsPath = "/catalog/cars"
)

// Resilience policy names.
const (
	PolicyInventoryRead    = "inventoryRead"
	PolicyInventoryReserve = "inventoryReserve"
	PolicyInventoryRelease = "inventoryRelease"
	PolicyCatalogRead      = "catalogRead"
	PolicyGatewayInventory = "gatewayInventory"
	PolicyGatewayCatalog   = "gatewayCatalog"
)
