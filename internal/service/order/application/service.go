// internal/service/order/application/service.go
package application

import (
	"context"
	"strings"
	"time"

	"autohub/internal/pkg/apperr"
	"autohub/internal/pkg/logger"
	"autohub/internal/pkg/metrics"
	"autohub/internal/service/order/application/saga"
	"autohub/internal/service/order/domain"
	"autohub/internal/service/order/domain/port"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// compensationTimeout bounds the compensations, which run detached from the
// request deadline.
const compensationTimeout = 5 * time.Second

// OrderApplicationService orchestrates the order use cases.
type OrderApplicationService struct {
	orderRepo         domain.OrderRepository
	inventoryService  port.InventoryService
	catalogService    port.CatalogService
	tracer            trace.Tracer
	processingTimeout time.Duration
	defaultExpiry     int
	now               func() time.Time
}

type Option func(*OrderApplicationService)

func WithProcessingTimeout(d time.Duration) Option {
	return func(s *OrderApplicationService) { s.processingTimeout = d }
}

// WithDefaultExpiryMinutes sets the expiry used when a request gives none.
func WithDefaultExpiryMinutes(m int) Option {
	return func(s *OrderApplicationService) { s.defaultExpiry = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *OrderApplicationService) { s.now = now }
}

func NewOrderApplicationService(orderRepo domain.OrderRepository, inventoryService port.InventoryService, catalogService port.CatalogService, tracer trace.Tracer, opts ...Option) *OrderApplicationService {
	s := &OrderApplicationService{
		orderRepo:         orderRepo,
		inventoryService:  inventoryService,
		catalogService:    catalogService,
		tracer:            tracer,
		processingTimeout: 10 * time.Second,
		defaultExpiry:     domain.DefaultExpiryMinutes,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder runs the order saga: availability, reservation, pricing and
// persistence. It returns a *SagaError when the saga stops.
func (s *OrderApplicationService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	ctx, span := s.tracer.Start(ctx, "app.CreateOrder", trace.WithAttributes(
		attribute.String("item.id", req.ItemID),
		attribute.String("user.id", req.UserID),
	))
	defer span.End()

	if err := validateCreate(req); err != nil {
		return nil, err
	}
	expiry := req.ReservationExpiryMinutes
	if expiry <= 0 {
		expiry = s.defaultExpiry
	}

	processingCtx, cancel := context.WithTimeout(ctx, s.processingTimeout)
	defer cancel()

	orderCtx := &saga.OrderContext{
		Ctx:              processingCtx,
		Tracer:           s.tracer,
		Now:              s.now,
		ItemID:           strings.TrimSpace(req.ItemID),
		UserID:           strings.TrimSpace(req.UserID),
		ExpiryMinutes:    expiry,
		InventoryService: s.inventoryService,
		CatalogService:   s.catalogService,
	}

	if err := s.buildChain().Handle(orderCtx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "order saga failed")

		// the request deadline may be gone; compensations still have to run
		compCtx, compCancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
		orderCtx.TriggerCompensation(compCtx)
		compCancel()

		var sagaErr *saga.Error
		if !errors.As(err, &sagaErr) {
			sagaErr = &saga.Error{Code: saga.CodeInternalError, Msg: "order saga failed", Err: err}
		}
		metrics.OrdersFailed.WithLabelValues(string(sagaErr.Code)).Inc()
		ev := logger.Ctx(ctx).Warn()
		if sagaErr.Code == saga.CodeInternalError {
			ev = logger.Ctx(ctx).Error()
		}
		ev.Err(err).Str("item_id", orderCtx.ItemID).Str("code", string(sagaErr.Code)).Msg("order not created")
		return nil, sagaErr
	}

	order := orderCtx.Order
	metrics.OrdersCreated.Inc()
	span.SetAttributes(attribute.String("order.id", order.ID))
	logger.Ctx(ctx).Info().
		Str("order_id", order.ID).
		Str("item_id", order.ItemID).
		Str("reservation_id", order.InventoryReservationID).
		Bool("price_degraded", order.PriceDegraded).
		Msg("order created")

	outcome := OutcomeCreated
	if order.PriceDegraded {
		outcome = OutcomeCreatedDegraded
	}
	return &CreateOrderResult{Order: order, Outcome: outcome}, nil
}

func (s *OrderApplicationService) buildChain() saga.Handler {
	chain := new(saga.AvailabilityHandler)
	chain.
		SetNext(new(saga.ReservationHandler)).
		SetNext(new(saga.PricingHandler)).
		SetNext(saga.NewPersistHandler(s.orderRepo))
	return chain
}

func (s *OrderApplicationService) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

func (s *OrderApplicationService) List(ctx context.Context) ([]*domain.Order, error) {
	return s.orderRepo.List(ctx)
}

func (s *OrderApplicationService) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Validation("user id is required", map[string]string{"userId": "must not be blank"})
	}
	return s.orderRepo.ListByUser(ctx, userID)
}

// UpdateStatus moves an order along the status machine. Leaving a state that
// holds a reservation for CANCELLED or FAILED hands the unit back.
func (s *OrderApplicationService) UpdateStatus(ctx context.Context, id string, to domain.Status) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.UpdateOrderStatus", trace.WithAttributes(
		attribute.String("order.id", id),
		attribute.String("order.status", string(to)),
	))
	defer span.End()

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if err := order.TransitionTo(to, s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateStatus(ctx, id, from, to, order.LastUpdated); err != nil {
		span.RecordError(err)
		return nil, err
	}
	logger.Ctx(ctx).Info().Str("order_id", id).Str("from", string(from)).Str("to", string(to)).Msg("order status changed")

	if from.HoldsReservation() && (to == domain.StatusCancelled || to == domain.StatusFailed) {
		s.releaseReservation(ctx, order)
	}
	return order, nil
}

// Cancel is UpdateStatus to CANCELLED.
func (s *OrderApplicationService) Cancel(ctx context.Context, id string) (*domain.Order, error) {
	return s.UpdateStatus(ctx, id, domain.StatusCancelled)
}

// releaseReservation is best effort: the order is already cancelled, a failed
// release is logged for manual reclaim.
func (s *OrderApplicationService) releaseReservation(ctx context.Context, order *domain.Order) {
	if err := s.inventoryService.Release(ctx, order.ItemID, 1); err != nil {
		logger.Ctx(ctx).Error().Err(err).
			Str("order_id", order.ID).
			Str("item_id", order.ItemID).
			Str("reservation_id", order.InventoryReservationID).
			Msg("failed to release reserved unit")
	}
}

func validateCreate(req CreateOrderRequest) error {
	fields := map[string]string{}
	if strings.TrimSpace(req.ItemID) == "" {
		fields["itemId"] = "must not be blank"
	}
	if strings.TrimSpace(req.UserID) == "" {
		fields["userId"] = "must not be blank"
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid order request", fields)
	}
	return nil
}
