// internal/service/order/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"time"

	"autohub/internal/pkg/database"
	"autohub/internal/service/order/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) AutoMigrate() error {
	return errors.Wrap(r.db.AutoMigrate(&OrderModel{}), "migrate orders")
}

func (r *GormRepository) Save(ctx context.Context, order *domain.Order) error {
	err := r.db.WithContext(ctx).Create(fromDomainOrder(order)).Error
	if database.IsDuplicateKey(err) {
		return errors.WithStack(domain.ErrOrderExists)
	}
	return errors.Wrap(err, "insert order")
}

func (r *GormRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var m OrderModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.WithStack(domain.ErrOrderNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "select order")
	}
	return toDomainOrder(&m), nil
}

func (r *GormRepository) List(ctx context.Context) ([]*domain.Order, error) {
	var models []OrderModel
	if err := r.db.WithContext(ctx).Order("order_date DESC, id").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return toDomainOrders(models), nil
}

func (r *GormRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	var models []OrderModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("order_date DESC, id").Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "list orders by user")
	}
	return toDomainOrders(models), nil
}

func (r *GormRepository) ListExpired(ctx context.Context, status domain.Status, before time.Time, limit int) ([]*domain.Order, error) {
	q := r.db.WithContext(ctx).
		Where("status = ? AND reservation_expiry < ?", status, before).
		Order("reservation_expiry")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var models []OrderModel
	if err := q.Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "list expired orders")
	}
	return toDomainOrders(models), nil
}

// UpdateStatus guards the write with the expected current status, so two
// writers racing on one order cannot both win.
func (r *GormRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status, now time.Time) error {
	res := r.db.WithContext(ctx).Model(&OrderModel{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "last_updated": now})
	if res.Error != nil {
		return errors.Wrap(res.Error, "update order status")
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return errors.WithStack(domain.ErrStaleStatus)
}
