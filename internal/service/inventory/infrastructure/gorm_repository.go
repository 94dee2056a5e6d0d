// internal/service/inventory/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"time"

	"autohub/internal/pkg/database"
	"autohub/internal/service/inventory/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepository stores the ledger in MySQL. Reserve and Release are single
// conditional UPDATEs; Resize locks the row with SELECT ... FOR UPDATE.
type GormRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db, now: time.Now}
}

// AutoMigrate creates or updates the inventory table.
func (r *GormRepository) AutoMigrate() error {
	return errors.Wrap(r.db.AutoMigrate(&InventoryModel{}), "migrate inventory")
}

func (r *GormRepository) Create(ctx context.Context, item *domain.Item) error {
	err := r.db.WithContext(ctx).Create(fromDomainItem(item)).Error
	if database.IsDuplicateKey(err) {
		return errors.WithStack(domain.ErrItemExists)
	}
	return errors.Wrap(err, "insert inventory")
}

func (r *GormRepository) FindByItemID(ctx context.Context, itemID string) (*domain.Item, error) {
	var m InventoryModel
	err := r.db.WithContext(ctx).Where("item_id = ?", itemID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.WithStack(domain.ErrItemNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "select inventory")
	}
	return toDomainItem(&m), nil
}

func (r *GormRepository) List(ctx context.Context) ([]*domain.Item, error) {
	var models []InventoryModel
	if err := r.db.WithContext(ctx).Order("item_id").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "list inventory")
	}
	out := make([]*domain.Item, 0, len(models))
	for i := range models {
		out = append(out, toDomainItem(&models[i]))
	}
	return out, nil
}

func (r *GormRepository) Reserve(ctx context.Context, itemID string, units int) (*domain.Item, error) {
	if units < 1 {
		return nil, errors.WithStack(domain.ErrInvalidUnits)
	}
	return r.conditionalUpdate(ctx, itemID, "available_units >= ?", units, domain.ErrInsufficientStock, map[string]any{
		"available_units": gorm.Expr("available_units - ?", units),
		"reserved_units":  gorm.Expr("reserved_units + ?", units),
	})
}

func (r *GormRepository) Release(ctx context.Context, itemID string, units int) (*domain.Item, error) {
	if units < 1 {
		return nil, errors.WithStack(domain.ErrInvalidUnits)
	}
	return r.conditionalUpdate(ctx, itemID, "reserved_units >= ?", units, domain.ErrInvalidRelease, map[string]any{
		"reserved_units":  gorm.Expr("reserved_units - ?", units),
		"available_units": gorm.Expr("available_units + ?", units),
	})
}

// conditionalUpdate applies set only where guard holds. The row stays locked
// by the UPDATE until commit, so the re-read returns exactly our write.
// Zero affected rows means either no such item or a failed guard.
func (r *GormRepository) conditionalUpdate(ctx context.Context, itemID, guard string, units int, rejected error, set map[string]any) (*domain.Item, error) {
	set["version"] = gorm.Expr("version + 1")
	set["last_updated"] = r.now().UTC()

	var out *domain.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&InventoryModel{}).Where("item_id = ? AND "+guard, itemID, units).Updates(set)
		if res.Error != nil {
			return errors.Wrap(res.Error, "update inventory")
		}
		var m InventoryModel
		err := tx.Where("item_id = ?", itemID).First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.WithStack(domain.ErrItemNotFound)
		}
		if err != nil {
			return errors.Wrap(err, "select inventory")
		}
		if res.RowsAffected == 0 {
			return errors.WithStack(rejected)
		}
		out = toDomainItem(&m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepository) Resize(ctx context.Context, itemID string, available int, location string) (*domain.Item, error) {
	return r.mutate(ctx, itemID, func(item *domain.Item, now time.Time) error {
		return item.Resize(available, location, now)
	})
}

func (r *GormRepository) mutate(ctx context.Context, itemID string, fn func(*domain.Item, time.Time) error) (*domain.Item, error) {
	var out *domain.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m InventoryModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("item_id = ?", itemID).First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.WithStack(domain.ErrItemNotFound)
		}
		if err != nil {
			return errors.Wrap(err, "lock inventory row")
		}

		item := toDomainItem(&m)
		if err := fn(item, r.now().UTC()); err != nil {
			return errors.WithStack(err)
		}
		err = tx.Model(&InventoryModel{}).Where("id = ?", m.ID).Updates(map[string]any{
			"available_units": item.AvailableUnits,
			"reserved_units":  item.ReservedUnits,
			"location":        item.Location,
			"version":         item.Version,
			"last_updated":    item.LastUpdated,
		}).Error
		if err != nil {
			return errors.Wrap(err, "update inventory")
		}
		out = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
