package application_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"autohub/internal/pkg/apperr"
	"autohub/internal/service/gateway/application"
	"autohub/internal/service/gateway/domain"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type fakeCatalog struct {
	cars     []domain.Car
	err      error
	calls    atomic.Int32
	block    chan struct{}
	inflight atomic.Int32
}

func (f *fakeCatalog) GetCar(_ context.Context, id string) (domain.Car, error) {
	f.calls.Add(1)
	if f.block != nil {
		f.inflight.Add(1)
		<-f.block
	}
	if f.err != nil {
		return domain.Car{}, f.err
	}
	for _, c := range f.cars {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Car{}, apperr.New(apperr.KindNotFound, "car not found")
}

func (f *fakeCatalog) ListCars(context.Context) ([]domain.Car, error) {
	f.calls.Add(1)
	return f.cars, f.err
}

type fakeInventory struct {
	mu     sync.Mutex
	stock  map[string]domain.Stock
	failOn map[string]bool
}

func (f *fakeInventory) GetStock(_ context.Context, itemID string) (domain.Stock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn[itemID] {
		return domain.Stock{}, apperr.New(apperr.KindServiceUnavailable, "inventory down")
	}
	s, ok := f.stock[itemID]
	if !ok {
		return domain.Stock{}, apperr.New(apperr.KindNotFound, "inventory item not found")
	}
	return s, nil
}

func cars(n int) []domain.Car {
	out := make([]domain.Car, n)
	for i := range out {
		out[i] = domain.Car{ID: fmt.Sprintf("CAR-%d", i+1), Brand: "Hyundai", Model: "Creta", Year: 2023, Price: decimal.NewFromInt(1_500_000)}
	}
	return out
}

func newService(catalog domain.CatalogReader, inventory domain.InventoryReader) *application.AggregationService {
	return application.NewAggregationService(catalog, inventory, noop.NewTracerProvider().Tracer("test"),
		application.WithConcurrency(2),
		application.WithClock(func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }))
}

func TestGetDetails(t *testing.T) {
	catalog := &fakeCatalog{cars: cars(3)}
	inventory := &fakeInventory{
		stock:  map[string]domain.Stock{"CAR-1": {TotalUnits: 3, ReservedUnits: 1, AvailableUnits: 2}, "CAR-2": {TotalUnits: 1, ReservedUnits: 1}},
		failOn: map[string]bool{"CAR-3": true},
	}
	svc := newService(catalog, inventory)
	ctx := context.Background()

	view, err := svc.GetDetails(ctx, "CAR-1")
	require.NoError(t, err)
	assert.False(t, view.Partial)
	assert.Equal(t, domain.InStock, view.Availability.Status)
	assert.Equal(t, 2, view.Availability.AvailableUnits)

	view, err = svc.GetDetails(ctx, "CAR-2")
	require.NoError(t, err)
	assert.False(t, view.Partial)
	assert.Equal(t, domain.OutOfStock, view.Availability.Status)

	view, err = svc.GetDetails(ctx, "CAR-3")
	require.NoError(t, err)
	assert.True(t, view.Partial)
	assert.Equal(t, domain.Unknown, view.Availability.Status)
	assert.NotEmpty(t, view.Availability.Reason)
}

func TestGetDetailsWithoutInventoryRecord(t *testing.T) {
	svc := newService(&fakeCatalog{cars: cars(1)}, &fakeInventory{})

	view, err := svc.GetDetails(context.Background(), "CAR-1")
	require.NoError(t, err)
	assert.False(t, view.Partial)
	assert.Equal(t, domain.OutOfStock, view.Availability.Status)
}

func TestGetDetailsCatalogFailures(t *testing.T) {
	svc := newService(&fakeCatalog{cars: cars(1)}, &fakeInventory{})
	_, err := svc.GetDetails(context.Background(), "CAR-404")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	svc = newService(&fakeCatalog{err: errors.New("connection refused")}, &fakeInventory{})
	_, err = svc.GetDetails(context.Background(), "CAR-1")
	assert.True(t, apperr.Is(err, apperr.KindServiceUnavailable))
}

func TestGetListingIsolatesInventoryFailures(t *testing.T) {
	inventory := &fakeInventory{
		stock: map[string]domain.Stock{
			"CAR-1": {TotalUnits: 2, AvailableUnits: 2},
			"CAR-3": {TotalUnits: 1, ReservedUnits: 1},
		},
		failOn: map[string]bool{"CAR-2": true},
	}
	svc := newService(&fakeCatalog{cars: cars(3)}, inventory)

	listing, err := svc.GetListing(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, listing.Items, 3)
	assert.Equal(t, "CAR-1", listing.Items[0].Car.ID)
	assert.Equal(t, domain.InStock, listing.Items[0].Availability.Status)
	assert.Equal(t, domain.Unknown, listing.Items[1].Availability.Status)
	assert.Equal(t, domain.OutOfStock, listing.Items[2].Availability.Status)
	assert.Equal(t, domain.Pagination{TotalCount: 3, PageSize: 10, CurrentPage: 1, TotalPages: 1}, listing.Pagination)
}

func TestGetListingPagination(t *testing.T) {
	svc := newService(&fakeCatalog{cars: cars(45)}, &fakeInventory{})
	ctx := context.Background()

	listing, err := svc.GetListing(ctx, 3, 20)
	require.NoError(t, err)
	assert.Len(t, listing.Items, 5)
	assert.Equal(t, "CAR-41", listing.Items[0].Car.ID)
	assert.Equal(t, 3, listing.Pagination.TotalPages)

	listing, err = svc.GetListing(ctx, 4, 20)
	require.NoError(t, err)
	assert.Empty(t, listing.Items)
	assert.NotNil(t, listing.Items)
	assert.Equal(t, 45, listing.Pagination.TotalCount)

	listing, err = svc.GetListing(ctx, 1, 500)
	require.NoError(t, err)
	assert.Equal(t, application.MaxPageSize, listing.Pagination.PageSize)
	assert.Len(t, listing.Items, 45)

	listing, err = svc.GetListing(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, listing.Pagination.PageSize)
	assert.Equal(t, 45, listing.Pagination.TotalPages)
}

func TestGetListingValidatesBeforeDownstream(t *testing.T) {
	catalog := &fakeCatalog{cars: cars(3)}
	svc := newService(catalog, &fakeInventory{})

	_, err := svc.GetListing(context.Background(), 0, 10)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Zero(t, catalog.calls.Load())
}

func TestGetListingCatalogDown(t *testing.T) {
	svc := newService(&fakeCatalog{err: errors.New("timeout")}, &fakeInventory{})
	_, err := svc.GetListing(context.Background(), 1, 10)
	assert.True(t, apperr.Is(err, apperr.KindServiceUnavailable))
}

func TestConcurrentDetailsShareCatalogLookup(t *testing.T) {
	catalog := &fakeCatalog{cars: cars(1), block: make(chan struct{})}
	svc := newService(catalog, &fakeInventory{})

	const callers = 5
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			view, err := svc.GetDetails(context.Background(), "CAR-1")
			assert.NoError(t, err)
			assert.Equal(t, "CAR-1", view.Car.ID)
		}()
	}
	require.Eventually(t, func() bool { return catalog.inflight.Load() == 1 }, time.Second, time.Millisecond)
	// let the other callers join the in-flight lookup
	time.Sleep(50 * time.Millisecond)
	close(catalog.block)
	wg.Wait()

	assert.Equal(t, int32(1), catalog.calls.Load())
}

// slowCatalog holds GetCar until released, honouring the context it is given.
type slowCatalog struct {
	car     domain.Car
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (c *slowCatalog) GetCar(ctx context.Context, _ string) (domain.Car, error) {
	if c.calls.Add(1) == 1 {
		close(c.entered)
	}
	select {
	case <-ctx.Done():
		return domain.Car{}, ctx.Err()
	case <-c.release:
		return c.car, nil
	}
}

func (c *slowCatalog) ListCars(context.Context) ([]domain.Car, error) {
	return []domain.Car{c.car}, nil
}

func TestCancelledCallerDoesNotFailSharedLookup(t *testing.T) {
	catalog := &slowCatalog{car: cars(1)[0], entered: make(chan struct{}), release: make(chan struct{})}
	inventory := &fakeInventory{stock: map[string]domain.Stock{"CAR-1": {TotalUnits: 1, AvailableUnits: 1}}}
	svc := newService(catalog, inventory)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.GetDetails(firstCtx, "CAR-1")
		firstErr <- err
	}()
	<-catalog.entered

	type result struct {
		view *domain.CarDetailsView
		err  error
	}
	second := make(chan result, 1)
	go func() {
		view, err := svc.GetDetails(context.Background(), "CAR-1")
		second <- result{view, err}
	}()
	// let the second caller join the in-flight lookup
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	select {
	case err := <-firstErr:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting on the shared lookup")
	}

	close(catalog.release)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, "CAR-1", res.view.Car.ID)
	assert.Equal(t, domain.InStock, res.view.Availability.Status)
	assert.Equal(t, int32(1), catalog.calls.Load())
}
