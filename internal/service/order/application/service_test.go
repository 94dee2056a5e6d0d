package application_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"autohub/internal/pkg/apperr"
	"autohub/internal/pkg/resilience"
	"autohub/internal/service/order/application"
	"autohub/internal/service/order/application/saga"
	"autohub/internal/service/order/domain"
	"autohub/internal/service/order/domain/port"
	"autohub/internal/service/order/infrastructure"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/trace/noop"
)

type CreateOrderSuite struct {
	suite.Suite
	repo      *infrastructure.MemoryRepository
	inventory *fakeInventory
	catalog   *fakeCatalog
	svc       *application.OrderApplicationService
}

func TestCreateOrderSuite(t *testing.T) {
	suite.Run(t, new(CreateOrderSuite))
}

func (s *CreateOrderSuite) SetupTest() {
	s.repo = infrastructure.NewMemoryRepository()
	s.inventory = newFakeInventory(3)
	s.catalog = newFakeCatalog()
	s.svc = s.newService(s.repo)
}

func (s *CreateOrderSuite) newService(repo domain.OrderRepository) *application.OrderApplicationService {
	return application.NewOrderApplicationService(repo, s.inventory, s.catalog,
		noop.NewTracerProvider().Tracer("test"),
		application.WithClock(func() time.Time { return fixedNow }))
}

func (s *CreateOrderSuite) create() (*application.CreateOrderResult, error) {
	return s.svc.CreateOrder(context.Background(), application.CreateOrderRequest{ItemID: "CAR-1", UserID: "user-1"})
}

func (s *CreateOrderSuite) requireSagaCode(err error, code saga.Code) {
	var sagaErr *application.SagaError
	s.Require().True(errors.As(err, &sagaErr), "expected saga error, got %v", err)
	s.Equal(code, sagaErr.Code)
}

func (s *CreateOrderSuite) orderCount() int {
	orders, err := s.repo.List(context.Background())
	s.Require().NoError(err)
	return len(orders)
}

func (s *CreateOrderSuite) TestCreatesReservedOrder() {
	res, err := s.create()
	s.Require().NoError(err)

	s.Equal(application.OutcomeCreated, res.Outcome)
	order := res.Order
	s.NotEmpty(order.ID)
	s.Equal(domain.StatusInventoryReserved, order.Status)
	s.Equal("res-1", order.InventoryReservationID)
	s.True(order.PriceAtPurchase.Equal(decimal.RequireFromString("1250000")))
	s.False(order.PriceDegraded)
	s.Equal(fixedNow, order.OrderDate)
	s.Equal(fixedNow.Add(30*time.Minute), order.ReservationExpiry)

	s.Equal(1, s.inventory.reserveCalls)
	s.Zero(s.inventory.releaseCount())

	stored, err := s.repo.FindByID(context.Background(), order.ID)
	s.Require().NoError(err)
	s.Equal(order.ID, stored.ID)
}

func (s *CreateOrderSuite) TestCustomExpiry() {
	res, err := s.svc.CreateOrder(context.Background(), application.CreateOrderRequest{
		ItemID: "CAR-1", UserID: "user-1", ReservationExpiryMinutes: 5,
	})
	s.Require().NoError(err)
	s.Equal(fixedNow.Add(5*time.Minute), res.Order.ReservationExpiry)
}

func (s *CreateOrderSuite) TestDegradedPriceStillCreates() {
	s.catalog.details = port.DegradedDetails("CAR-1", "catalog timed out")

	res, err := s.create()
	s.Require().NoError(err)
	s.Equal(application.OutcomeCreatedDegraded, res.Outcome)
	s.True(res.Order.PriceDegraded)
	s.True(res.Order.PriceAtPurchase.IsZero())
	s.Equal(1, s.orderCount())
}

func (s *CreateOrderSuite) TestValidationStopsBeforeDownstream() {
	_, err := s.svc.CreateOrder(context.Background(), application.CreateOrderRequest{ItemID: " ", UserID: ""})
	s.Require().Error(err)
	s.True(apperr.Is(err, apperr.KindValidation))
	s.Equal(map[string]string{"itemId": "must not be blank", "userId": "must not be blank"}, apperr.FieldsOf(err))
	s.Zero(s.inventory.availCalls)
}

func (s *CreateOrderSuite) TestAvailabilityOutcomes() {
	cases := []struct {
		name  string
		setup func(f *fakeInventory)
		code  saga.Code
	}{
		{"item unknown", func(f *fakeInventory) {
			f.availErr = apperr.New(apperr.KindNotFound, "inventory item not found")
		}, saga.CodeNotFound},
		{"transport failure", func(f *fakeInventory) {
			f.availErr = errors.New("connection refused")
		}, saga.CodeServiceUnavailable},
		{"fallback", func(f *fakeInventory) {
			f.availability = port.Availability{ItemID: "CAR-1", Reason: "circuit breaker is open"}
		}, saga.CodeServiceUnavailable},
		{"sold out", func(f *fakeInventory) {
			f.availability = port.Availability{ItemID: "CAR-1", Known: true, TotalUnits: 2, ReservedUnits: 2}
		}, saga.CodeInventoryUnavailable},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.SetupTest()
			tc.setup(s.inventory)

			_, err := s.create()
			s.requireSagaCode(err, tc.code)
			s.Zero(s.inventory.reserveCalls)
			s.Zero(s.inventory.releaseCount())
			s.Zero(s.orderCount())
		})
	}
}

func (s *CreateOrderSuite) TestReservationOutcomes() {
	cases := []struct {
		name string
		err  error
		code saga.Code
	}{
		{"insufficient stock", apperr.New(apperr.KindInsufficientStock, "insufficient stock"), saga.CodeInsufficientStock},
		{"item unknown", apperr.New(apperr.KindNotFound, "inventory item not found"), saga.CodeNotFound},
		{"circuit open", errors.WithStack(resilience.ErrCircuitOpen), saga.CodeServiceUnavailable},
		{"bulkhead full", errors.WithStack(resilience.ErrOverloaded), saga.CodeServiceUnavailable},
		{"timed out", apperr.New(apperr.KindServiceUnavailable, "call timed out"), saga.CodeReservationFailed},
		{"server error", apperr.New(apperr.KindInternal, "boom"), saga.CodeReservationFailed},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.inventory.reserveErr = tc.err

			_, err := s.create()
			s.requireSagaCode(err, tc.code)
			s.Equal(1, s.inventory.reserveCalls)
			s.Zero(s.inventory.releaseCount())
			s.Zero(s.orderCount())
		})
	}
}

func (s *CreateOrderSuite) TestUnknownReserveOutcomeIsLoggedForReclaim() {
	var buf bytes.Buffer
	saved := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = saved }()

	s.inventory.reserveErr = apperr.Wrap(context.DeadlineExceeded, apperr.KindServiceUnavailable, "inventoryReserve: call timed out")
	_, err := s.create()
	s.requireSagaCode(err, saga.CodeReservationFailed)
	s.Contains(buf.String(), `"level":"error"`)
	s.Contains(buf.String(), "manual reclaim")
	s.Contains(buf.String(), `"item_id":"CAR-1"`)

	buf.Reset()
	s.SetupTest()
	s.inventory.reserveErr = apperr.New(apperr.KindInsufficientStock, "insufficient stock")
	_, err = s.create()
	s.requireSagaCode(err, saga.CodeInsufficientStock)
	s.NotContains(buf.String(), "manual reclaim")
}

func (s *CreateOrderSuite) TestPersistFailureReleasesUnit() {
	repo := &failingRepo{MemoryRepository: s.repo, saveErr: errors.New("disk full")}
	s.svc = s.newService(repo)

	_, err := s.create()
	s.requireSagaCode(err, saga.CodeInternalError)
	s.Equal(1, s.inventory.reserveCalls)
	s.Equal([]string{"CAR-1"}, s.inventory.released)
	s.Zero(s.orderCount())
}

func (s *CreateOrderSuite) TestFailedCompensationStillReportsInternalError() {
	repo := &failingRepo{MemoryRepository: s.repo, saveErr: errors.New("disk full")}
	s.svc = s.newService(repo)
	s.inventory.releaseErr = errors.New("inventory down")

	_, err := s.create()
	s.requireSagaCode(err, saga.CodeInternalError)
	s.Equal(1, s.inventory.releaseCount())
}

func (s *CreateOrderSuite) TestCancelReleasesHeldUnit() {
	res, err := s.create()
	s.Require().NoError(err)

	cancelled, err := s.svc.Cancel(context.Background(), res.Order.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusCancelled, cancelled.Status)
	s.Equal(1, s.inventory.releaseCount())

	_, err = s.svc.Cancel(context.Background(), res.Order.ID)
	s.True(apperr.Is(err, apperr.KindConflict))
	s.Equal(1, s.inventory.releaseCount())
}

func (s *CreateOrderSuite) TestStatusMachine() {
	ctx := context.Background()
	res, err := s.create()
	s.Require().NoError(err)
	id := res.Order.ID

	_, err = s.svc.UpdateStatus(ctx, id, domain.StatusCompleted)
	s.True(apperr.Is(err, apperr.KindConflict))

	for _, st := range []domain.Status{domain.StatusConfirmed, domain.StatusProcessing} {
		order, err := s.svc.UpdateStatus(ctx, id, st)
		s.Require().NoError(err)
		s.Equal(st, order.Status)
	}

	order, err := s.svc.UpdateStatus(ctx, id, domain.StatusFailed)
	s.Require().NoError(err)
	s.Equal(domain.StatusFailed, order.Status)
	// PROCESSING no longer holds the unit
	s.Zero(s.inventory.releaseCount())

	_, err = s.svc.UpdateStatus(ctx, "missing", domain.StatusConfirmed)
	s.True(apperr.Is(err, apperr.KindNotFound))
}

func (s *CreateOrderSuite) TestListByUser() {
	ctx := context.Background()
	_, err := s.create()
	s.Require().NoError(err)
	_, err = s.svc.CreateOrder(ctx, application.CreateOrderRequest{ItemID: "CAR-1", UserID: "user-2"})
	s.Require().NoError(err)

	orders, err := s.svc.ListByUser(ctx, "user-2")
	s.Require().NoError(err)
	s.Len(orders, 1)
	s.Equal("user-2", orders[0].UserID)

	_, err = s.svc.ListByUser(ctx, "")
	s.True(apperr.Is(err, apperr.KindValidation))
}
