// internal/service/gateway/interfaces/dto.go
package interfaces

import (
	"time"

	"autohub/internal/service/gateway/domain"

	"github.com/shopspring/decimal"
)

type availabilityResponse struct {
	Status         string `json:"status"`
	TotalUnits     *int   `json:"totalUnits,omitempty"`
	AvailableUnits *int   `json:"availableUnits,omitempty"`
	ReservedUnits  *int   `json:"reservedUnits,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

type metadataResponse struct {
	AggregatedAt      time.Time `json:"aggregatedAt"`
	Sources           []string  `json:"sources"`
	AggregationStatus int       `json:"aggregationStatus"`
}

type carDetailsResponse struct {
	CarID        string               `json:"carId"`
	Brand        string               `json:"brand"`
	Model        string               `json:"model"`
	Variant      string               `json:"variant,omitempty"`
	Year         int                  `json:"year"`
	Price        decimal.Decimal      `json:"price"`
	Color        string               `json:"color,omitempty"`
	Availability availabilityResponse `json:"availability"`
	Metadata     metadataResponse     `json:"metadata"`
}

type listItemResponse struct {
	CarID              string          `json:"carId"`
	Brand              string          `json:"brand"`
	Model              string          `json:"model"`
	Year               int             `json:"year"`
	Price              decimal.Decimal `json:"price"`
	Color              string          `json:"color,omitempty"`
	AvailabilityStatus string          `json:"availabilityStatus"`
	AvailableUnits     *int            `json:"availableUnits,omitempty"`
}

type paginationResponse struct {
	TotalCount  int `json:"totalCount"`
	PageSize    int `json:"pageSize"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
}

type listingResponse struct {
	Cars       []listItemResponse `json:"cars"`
	Pagination paginationResponse `json:"pagination"`
	Metadata   metadataResponse   `json:"metadata"`
}

var sources = []string{"catalog:v1", "inventory:v1"}

func toAvailabilityResponse(a domain.AvailabilityInfo) availabilityResponse {
	out := availabilityResponse{Status: string(a.Status), Reason: a.Reason}
	if a.Status != domain.Unknown {
		out.TotalUnits, out.AvailableUnits, out.ReservedUnits = &a.TotalUnits, &a.AvailableUnits, &a.ReservedUnits
	}
	return out
}

func toCarDetailsResponse(v *domain.CarDetailsView, status int) carDetailsResponse {
	return carDetailsResponse{
		CarID:        v.Car.ID,
		Brand:        v.Car.Brand,
		Model:        v.Car.Model,
		Variant:      v.Car.Variant,
		Year:         v.Car.Year,
		Price:        v.Car.Price,
		Color:        v.Car.Color,
		Availability: toAvailabilityResponse(v.Availability),
		Metadata:     metadataResponse{AggregatedAt: v.AggregatedAt, Sources: sources, AggregationStatus: status},
	}
}

func toListingResponse(l *domain.Listing) listingResponse {
	cars := make([]listItemResponse, 0, len(l.Items))
	for _, item := range l.Items {
		li := listItemResponse{
			CarID:              item.Car.ID,
			Brand:              item.Car.Brand,
			Model:              item.Car.Model,
			Year:               item.Car.Year,
			Price:              item.Car.Price,
			Color:              item.Car.Color,
			AvailabilityStatus: string(item.Availability.Status),
		}
		if item.Availability.Status != domain.Unknown {
			units := item.Availability.AvailableUnits
			li.AvailableUnits = &units
		}
		cars = append(cars, li)
	}
	return listingResponse{
		Cars: cars,
		Pagination: paginationResponse{
			TotalCount:  l.Pagination.TotalCount,
			PageSize:    l.Pagination.PageSize,
			CurrentPage: l.Pagination.CurrentPage,
			TotalPages:  l.Pagination.TotalPages,
		},
		Metadata: metadataResponse{AggregatedAt: l.AggregatedAt, Sources: sources, AggregationStatus: 200},
	}
}
