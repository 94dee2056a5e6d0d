// internal/service/catalog/domain/search.go
package domain

import "github.com/shopspring/decimal"

// SearchCriteria narrows a catalog search. Zero values do not filter.
// Expr is an optional boolean expression over the car fields, e.g.
// `year >= 2022 && fuelType == "ELECTRIC"`.
type SearchCriteria struct {
	Brand        string
	Model        string
	FuelType     FuelType
	Transmission Transmission
	Status       Status
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Expr         string
}

// Filter decides whether a car matches a compiled search.
type Filter interface {
	Match(car *Car) (bool, error)
}

// FilterCompiler turns criteria into a reusable Filter. An invalid Expr is a
// validation error.
type FilterCompiler interface {
	Compile(criteria SearchCriteria) (Filter, error)
}
