package application_test

import (
	"context"
	"testing"
	"time"

	"autohub/internal/pkg/apperr"
	"autohub/internal/service/inventory/application"
	"autohub/internal/service/inventory/domain"
	"autohub/internal/service/inventory/infrastructure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) *application.LedgerService {
	t.Helper()
	svc := application.NewLedgerService(
		infrastructure.NewMemoryRepository(),
		noop.NewTracerProvider().Tracer("test"),
		application.WithClock(func() time.Time { return fixedNow }),
		application.WithReservationTTL(10*time.Minute),
	)
	_, err := svc.Create(context.Background(), "CAR-1", 2, "Pune")
	require.NoError(t, err)
	return svc
}

func TestCheckAvailability(t *testing.T) {
	svc := newService(t)

	av, err := svc.CheckAvailability(context.Background(), "CAR-1")
	require.NoError(t, err)
	assert.Equal(t, domain.Availability{ItemID: "CAR-1", TotalUnits: 2, AvailableUnits: 2}, av)

	_, err = svc.CheckAvailability(context.Background(), "CAR-404")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.CheckAvailability(context.Background(), " ")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestReserve(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	res, err := svc.Reserve(ctx, "CAR-1", 1)
	require.NoError(t, err)
	assert.NotEmpty(t, res.ReservationID)
	assert.Equal(t, 1, res.UnitsReserved)
	assert.Equal(t, 1, res.UnitsRemaining)
	assert.Equal(t, fixedNow.Add(10*time.Minute), res.ExpiresAt)

	second, err := svc.Reserve(ctx, "CAR-1", 1)
	require.NoError(t, err)
	assert.NotEqual(t, res.ReservationID, second.ReservationID)
	assert.Zero(t, second.UnitsRemaining)

	_, err = svc.Reserve(ctx, "CAR-1", 1)
	assert.True(t, apperr.Is(err, apperr.KindInsufficientStock))

	_, err = svc.Reserve(ctx, "CAR-1", 0)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Reserve(ctx, "CAR-404", 1)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestReleaseAfterReserveRestoresCounters(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	before, err := svc.CheckAvailability(ctx, "CAR-1")
	require.NoError(t, err)

	_, err = svc.Reserve(ctx, "CAR-1", 2)
	require.NoError(t, err)
	_, err = svc.Release(ctx, "CAR-1", 2)
	require.NoError(t, err)

	after, err := svc.CheckAvailability(ctx, "CAR-1")
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = svc.Release(ctx, "CAR-1", 1)
	assert.True(t, apperr.Is(err, apperr.KindInvalidRelease))
}

func TestUpdateAndCreate(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Reserve(ctx, "CAR-1", 1)
	require.NoError(t, err)

	item, err := svc.Update(ctx, "CAR-1", 5, "Chennai")
	require.NoError(t, err)
	assert.Equal(t, 5, item.AvailableUnits)
	assert.Equal(t, 1, item.ReservedUnits)
	assert.Equal(t, "Chennai", item.Location)

	_, err = svc.Update(ctx, "CAR-1", -1, "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Create(ctx, "CAR-1", 3, "")
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	items, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
