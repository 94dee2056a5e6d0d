package domain

import (
	"math/rand"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestReserve(t *testing.T) {
	tests := []struct {
		name          string
		available     int
		units         int
		wantErr       error
		wantAvailable int
		wantReserved  int
	}{
		{name: "reserve one of ten", available: 10, units: 1, wantAvailable: 9, wantReserved: 1},
		{name: "reserve everything", available: 3, units: 3, wantAvailable: 0, wantReserved: 3},
		{name: "out of stock", available: 0, units: 1, wantErr: ErrInsufficientStock},
		{name: "more than available is rejected not clamped", available: 2, units: 5, wantErr: ErrInsufficientStock, wantAvailable: 2},
		{name: "zero units", available: 5, units: 0, wantErr: ErrInvalidUnits, wantAvailable: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &Item{ItemID: "X", AvailableUnits: tt.available}
			err := item.Reserve(tt.units, now)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Equal(t, tt.available, item.AvailableUnits)
				assert.Zero(t, item.ReservedUnits)
				assert.Zero(t, item.Version, "failed reserve must not mutate")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAvailable, item.AvailableUnits)
			assert.Equal(t, tt.wantReserved, item.ReservedUnits)
			assert.Equal(t, now, item.LastUpdated)
		})
	}
}

func TestRelease(t *testing.T) {
	item := &Item{ItemID: "X", AvailableUnits: 5, ReservedUnits: 2}

	err := item.Release(3, now)
	assert.True(t, errors.Is(err, ErrInvalidRelease))
	assert.Equal(t, 5, item.AvailableUnits)
	assert.Equal(t, 2, item.ReservedUnits)

	require.NoError(t, item.Release(2, now))
	assert.Equal(t, 7, item.AvailableUnits)
	assert.Zero(t, item.ReservedUnits)
}

func TestResize(t *testing.T) {
	item := &Item{ItemID: "X", AvailableUnits: 5, ReservedUnits: 2, Location: "Pune"}

	assert.True(t, errors.Is(item.Resize(-1, "", now), ErrNegativeStock))
	require.NoError(t, item.Resize(8, "", now))
	assert.Equal(t, 8, item.AvailableUnits)
	assert.Equal(t, 2, item.ReservedUnits)
	assert.Equal(t, "Pune", item.Location)
	assert.Equal(t, 10, item.TotalUnits())
}

func TestReserveReleaseConservesTotal(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	item := &Item{ItemID: "X", AvailableUnits: 20}
	total := item.TotalUnits()

	for i := 0; i < 1000; i++ {
		units := rng.Intn(5) + 1
		if rng.Intn(2) == 0 {
			_ = item.Reserve(units, now)
		} else {
			_ = item.Release(units, now)
		}
		require.GreaterOrEqual(t, item.AvailableUnits, 0)
		require.GreaterOrEqual(t, item.ReservedUnits, 0)
		require.Equal(t, total, item.TotalUnits())
	}
}
