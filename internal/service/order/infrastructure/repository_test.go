package infrastructure

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"autohub/internal/pkg/bootstrap"
	"autohub/internal/pkg/database"
	"autohub/internal/service/order/domain"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reservedOrder(t *testing.T, id, userID string, created time.Time) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(id, "CAR-1", userID, decimal.RequireFromString("999.50"), 30, created)
	require.NoError(t, err)
	require.NoError(t, order.MarkInventoryReserved("res-"+id, created))
	return order
}

// testOrderRepository runs the contract every order store must satisfy.
func testOrderRepository(t *testing.T, repo domain.OrderRepository) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("save and find", func(t *testing.T) {
		order := reservedOrder(t, "order-1", "user-1", base)
		require.NoError(t, repo.Save(ctx, order))

		got, err := repo.FindByID(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInventoryReserved, got.Status)
		assert.True(t, got.PriceAtPurchase.Equal(order.PriceAtPurchase))
		assert.Equal(t, "res-order-1", got.InventoryReservationID)
		assert.True(t, got.ReservationExpiry.Equal(base.Add(30*time.Minute)))
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		dup := reservedOrder(t, "order-1", "user-9", base.Add(time.Hour))
		err := repo.Save(ctx, dup)
		assert.True(t, errors.Is(err, domain.ErrOrderExists))

		got, err := repo.FindByID(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, "user-1", got.UserID)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "nope")
		assert.True(t, errors.Is(err, domain.ErrOrderNotFound))
	})

	t.Run("list newest first and by user", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, reservedOrder(t, "order-2", "user-2", base.Add(time.Minute))))

		all, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "order-2", all[0].ID)

		mine, err := repo.ListByUser(ctx, "user-2")
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, "order-2", mine[0].ID)
	})

	t.Run("list expired", func(t *testing.T) {
		expired, err := repo.ListExpired(ctx, domain.StatusInventoryReserved, base.Add(30*time.Minute+30*time.Second), 10)
		require.NoError(t, err)
		require.Len(t, expired, 1)
		assert.Equal(t, "order-1", expired[0].ID)

		expired, err = repo.ListExpired(ctx, domain.StatusInventoryReserved, base.Add(time.Hour), 1)
		require.NoError(t, err)
		require.Len(t, expired, 1)
		assert.Equal(t, "order-1", expired[0].ID)
	})

	t.Run("conditional status update", func(t *testing.T) {
		now := base.Add(2 * time.Minute)
		require.NoError(t, repo.UpdateStatus(ctx, "order-2", domain.StatusInventoryReserved, domain.StatusConfirmed, now))

		err := repo.UpdateStatus(ctx, "order-2", domain.StatusInventoryReserved, domain.StatusCancelled, now)
		assert.True(t, errors.Is(err, domain.ErrStaleStatus))

		err = repo.UpdateStatus(ctx, "nope", domain.StatusInventoryReserved, domain.StatusCancelled, now)
		assert.True(t, errors.Is(err, domain.ErrOrderNotFound))

		got, err := repo.FindByID(ctx, "order-2")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, got.Status)
		assert.True(t, got.LastUpdated.Equal(now))
	})

	t.Run("one winner per transition", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, reservedOrder(t, "order-race", "user-1", base)))

		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := repo.UpdateStatus(ctx, "order-race", domain.StatusInventoryReserved, domain.StatusCancelled, base)
				if err == nil {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())
	})
}

func TestMemoryRepository(t *testing.T) {
	testOrderRepository(t, NewMemoryRepository())
}

func TestMemoryRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	order := reservedOrder(t, "order-1", "user-1", time.Now().UTC())
	require.NoError(t, repo.Save(ctx, order))

	order.Status = domain.StatusCompleted
	got, err := repo.FindByID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInventoryReserved, got.Status)
}

func TestGormRepository(t *testing.T) {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		t.Skip("MYSQL_DSN not set")
	}
	ctx := context.Background()
	db, err := database.OpenMySQL(ctx, bootstrap.MySQLConfig{DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	repo := NewGormRepository(db)
	require.NoError(t, repo.AutoMigrate())
	require.NoError(t, db.Exec("DELETE FROM orders").Error)

	testOrderRepository(t, repo)
}

func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set")
	}
	ctx := context.Background()
	pool, err := database.OpenPostgres(ctx, bootstrap.PostgresConfig{DSN: dsn, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := NewPostgresRepository(pool)
	require.NoError(t, repo.Migrate(ctx))
	_, err = pool.Exec(ctx, "TRUNCATE orders")
	require.NoError(t, err)

	testOrderRepository(t, repo)
}
