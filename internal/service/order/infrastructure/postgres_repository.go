// internal/service/order/infrastructure/postgres_repository.go
package infrastructure

import (
	"context"
	"time"

	"autohub/internal/pkg/database"
	"autohub/internal/service/order/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const ordersSchema = `
CREATE TABLE IF NOT EXISTS orders (
	id                       VARCHAR(36) PRIMARY KEY,
	item_id                  VARCHAR(64) NOT NULL,
	user_id                  VARCHAR(64) NOT NULL,
	price_at_purchase        NUMERIC(12,2) NOT NULL,
	price_degraded           BOOLEAN NOT NULL DEFAULT FALSE,
	status                   VARCHAR(32) NOT NULL,
	order_date               TIMESTAMPTZ NOT NULL,
	reservation_expiry       TIMESTAMPTZ NOT NULL,
	last_updated             TIMESTAMPTZ NOT NULL,
	inventory_reservation_id VARCHAR(36) NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_orders_user ON orders (user_id);
CREATE INDEX IF NOT EXISTS idx_status_expiry ON orders (status, reservation_expiry);`

// price travels as text so NUMERIC keeps its exact scale
const orderColumns = `id, item_id, user_id, price_at_purchase::text, price_degraded, status,
	order_date, reservation_expiry, last_updated, inventory_reservation_id`

// PostgresRepository stores orders through a pgx pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Migrate creates the orders table when it does not exist.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, ordersSchema)
	return errors.Wrap(err, "migrate orders")
}

func (r *PostgresRepository) Save(ctx context.Context, order *domain.Order) error {
	const stmt = `
INSERT INTO orders (id, item_id, user_id, price_at_purchase, price_degraded, status,
	order_date, reservation_expiry, last_updated, inventory_reservation_id)
VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, stmt,
		order.ID, order.ItemID, order.UserID, order.PriceAtPurchase.String(), order.PriceDegraded,
		string(order.Status), order.OrderDate, order.ReservationExpiry, order.LastUpdated,
		order.InventoryReservationID)
	if database.IsUniqueViolation(err) {
		return errors.WithStack(domain.ErrOrderExists)
	}
	return errors.Wrap(err, "insert order")
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if database.IsNoRows(err) {
		return nil, errors.WithStack(domain.ErrOrderNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "select order")
	}
	return order, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY order_date DESC, id`)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY order_date DESC, id`, userID)
}

func (r *PostgresRepository) ListExpired(ctx context.Context, status domain.Status, before time.Time, limit int) ([]*domain.Order, error) {
	if limit <= 0 {
		return r.query(ctx, `SELECT `+orderColumns+` FROM orders
WHERE status = $1 AND reservation_expiry < $2 ORDER BY reservation_expiry`, string(status), before)
	}
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders
WHERE status = $1 AND reservation_expiry < $2 ORDER BY reservation_expiry LIMIT $3`, string(status), before, limit)
}

// UpdateStatus only writes when the row is still in from.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status, now time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $3, last_updated = $4 WHERE id = $1 AND status = $2`,
		id, string(from), string(to), now)
	if err != nil {
		return errors.Wrap(err, "update order status")
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return errors.WithStack(domain.ErrStaleStatus)
}

func (r *PostgresRepository) query(ctx context.Context, sql string, args ...any) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query orders")
	}
	defer rows.Close()

	out := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		out = append(out, order)
	}
	return out, errors.Wrap(rows.Err(), "iterate orders")
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o      domain.Order
		price  string
		status string
	)
	err := row.Scan(&o.ID, &o.ItemID, &o.UserID, &price, &o.PriceDegraded, &status,
		&o.OrderDate, &o.ReservationExpiry, &o.LastUpdated, &o.InventoryReservationID)
	if err != nil {
		return nil, err
	}
	if o.PriceAtPurchase, err = decimal.NewFromString(price); err != nil {
		return nil, errors.Wrap(err, "parse price")
	}
	o.Status = domain.Status(status)
	o.OrderDate = o.OrderDate.UTC()
	o.ReservationExpiry = o.ReservationExpiry.UTC()
	o.LastUpdated = o.LastUpdated.UTC()
	return &o, nil
}
