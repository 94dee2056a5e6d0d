package application_test

import (
	"context"
	"sync"
	"time"

	"autohub/internal/service/order/domain"
	"autohub/internal/service/order/domain/port"
	"autohub/internal/service/order/infrastructure"

	"github.com/shopspring/decimal"
)

type fakeInventory struct {
	mu sync.Mutex

	availability port.Availability
	availErr     error
	reservation  port.Reservation
	reserveErr   error
	releaseErr   error

	availCalls   int
	reserveCalls int
	released     []string
}

func newFakeInventory(available int) *fakeInventory {
	return &fakeInventory{
		availability: port.Availability{ItemID: "CAR-1", Known: true, TotalUnits: available, AvailableUnits: available},
		reservation:  port.Reservation{ReservationID: "res-1", ItemID: "CAR-1", UnitsReserved: 1, UnitsRemaining: available - 1},
	}
}

func (f *fakeInventory) CheckAvailability(_ context.Context, _ string) (port.Availability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.availCalls++
	return f.availability, f.availErr
}

func (f *fakeInventory) Reserve(_ context.Context, _ string, _ int) (port.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reserveCalls++
	if f.reserveErr != nil {
		return port.Reservation{}, f.reserveErr
	}
	return f.reservation, nil
}

func (f *fakeInventory) Release(_ context.Context, itemID string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, itemID)
	return f.releaseErr
}

func (f *fakeInventory) releaseCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.released)
}

type fakeCatalog struct {
	details port.CarDetails
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{details: port.CarDetails{
		ItemID: "CAR-1",
		Brand:  "Tata",
		Model:  "Nexon",
		Year:   2024,
		Price:  decimal.RequireFromString("1250000.00"),
	}}
}

func (f *fakeCatalog) GetDetails(_ context.Context, itemID string) port.CarDetails {
	return f.details
}

// failingRepo fails every Save and delegates everything else.
type failingRepo struct {
	*infrastructure.MemoryRepository
	saveErr error
}

func (r *failingRepo) Save(context.Context, *domain.Order) error { return r.saveErr }

type fakeLocker struct {
	err   error
	held  int
	freed int
}

func (l *fakeLocker) Lock(context.Context) (func() error, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.held++
	return func() error {
		l.freed++
		return nil
	}, nil
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
