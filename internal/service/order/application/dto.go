// internal/service/order/application/dto.go
package application

import (
	"autohub/internal/service/order/application/saga"
	"autohub/internal/service/order/domain"
)

// CreateOrderRequest is the input of the create-order use case.
type CreateOrderRequest struct {
	ItemID                   string
	UserID                   string
	ReservationExpiryMinutes int
}

// Outcome describes how a successful saga ended.
type Outcome string

const (
	OutcomeCreated         Outcome = "ORDER_CREATED"
	OutcomeCreatedDegraded Outcome = "ORDER_CREATED_PRICE_DEGRADED"
)

// CreateOrderResult is the output of a successful saga.
type CreateOrderResult struct {
	Order   *domain.Order
	Outcome Outcome
}

// SagaError is returned by CreateOrder when no order was created, or when the
// order could not be persisted after the unit was reserved.
type SagaError = saga.Error
