package infrastructure

import (
	"fmt"
	"testing"

	"autohub/internal/pkg/apperr"
	"autohub/internal/service/catalog/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func car(brand, model string, year int, fuel domain.FuelType, price string) *domain.Car {
	return &domain.Car{
		ID:           brand + "-" + model,
		Brand:        brand,
		Model:        model,
		Year:         year,
		FuelType:     fuel,
		Transmission: domain.TransmissionAutomatic,
		Price:        decimal.RequireFromString(price),
		Status:       domain.StatusAvailable,
	}
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCELFilter(t *testing.T) {
	nexon := car("Tata", "Nexon", 2024, domain.FuelElectric, "1499000")
	creta := car("Hyundai", "Creta", 2022, domain.FuelDiesel, "1650000")
	alto := car("Maruti", "Alto", 2019, domain.FuelPetrol, "350000")

	tests := []struct {
		name     string
		criteria domain.SearchCriteria
		want     []*domain.Car
	}{
		{name: "no criteria matches everything", want: []*domain.Car{nexon, creta, alto}},
		{name: "brand", criteria: domain.SearchCriteria{Brand: "Tata"}, want: []*domain.Car{nexon}},
		{name: "fuel type", criteria: domain.SearchCriteria{FuelType: domain.FuelDiesel}, want: []*domain.Car{creta}},
		{name: "price range", criteria: domain.SearchCriteria{MinPrice: price("400000"), MaxPrice: price("1500000")}, want: []*domain.Car{nexon}},
		{name: "expression", criteria: domain.SearchCriteria{Expr: `year >= 2022 && fuelType != "ELECTRIC"`}, want: []*domain.Car{creta}},
		{name: "expression and criteria combined", criteria: domain.SearchCriteria{Brand: "Maruti", Expr: "year > 2020"}},
		{name: "quotes in values are data not code", criteria: domain.SearchCriteria{Brand: `Tata" || true || "`}},
	}

	compiler, err := NewCELFilterCompiler()
	require.NoError(t, err)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := compiler.Compile(tt.criteria)
			require.NoError(t, err)

			var got []*domain.Car
			for _, c := range []*domain.Car{nexon, creta, alto} {
				ok, err := filter.Match(c)
				require.NoError(t, err)
				if ok {
					got = append(got, c)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCELFilterRejectsBadExpressions(t *testing.T) {
	compiler, err := NewCELFilterCompiler()
	require.NoError(t, err)

	for _, expr := range []string{"year >", "brand", "unknownField == 1"} {
		_, err := compiler.Compile(domain.SearchCriteria{Expr: expr})
		assert.True(t, apperr.Is(err, apperr.KindValidation), expr)
	}
}

func TestCELFilterProgramCacheIsBounded(t *testing.T) {
	compiler, err := NewCELFilterCompiler(WithProgramCacheSize(8))
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		_, err := compiler.Compile(domain.SearchCriteria{Expr: fmt.Sprintf("year > %d", 1900+i)})
		require.NoError(t, err)
	}
	assert.Equal(t, 8, compiler.programs.Len())

	// structured criteria share one program whatever their values
	for _, brand := range []string{"Tata", "Kia", "Honda"} {
		_, err := compiler.Compile(domain.SearchCriteria{Brand: brand})
		require.NoError(t, err)
	}
	assert.True(t, compiler.programs.Contains("brand == qBrand"))
	assert.Equal(t, 8, compiler.programs.Len())
}

func TestCELFilterCostLimit(t *testing.T) {
	compiler, err := NewCELFilterCompiler(WithCostLimit(100))
	require.NoError(t, err)

	expensive := `[1,2,3,4,5,6,7,8,9,10].all(a, [1,2,3,4,5,6,7,8,9,10].all(b, a + b < year))`
	filter, err := compiler.Compile(domain.SearchCriteria{Expr: expensive})
	require.NoError(t, err)

	_, err = filter.Match(car("Tata", "Nexon", 2024, domain.FuelElectric, "1499000"))
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	cheap, err := compiler.Compile(domain.SearchCriteria{Expr: "year > 2020"})
	require.NoError(t, err)
	ok, err := cheap.Match(car("Tata", "Nexon", 2024, domain.FuelElectric, "1499000"))
	require.NoError(t, err)
	assert.True(t, ok)
}
