// internal/service/catalog/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"

	"autohub/internal/service/catalog/domain"

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
	return errors.Wrap(r.db.AutoMigrate(&CarModel{}), "migrate cars")
}

func (r *GormRepository) Create(ctx context.Context, car *domain.Car) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(fromDomainCar(car)).Error, "insert car")
}

func (r *GormRepository) FindByID(ctx context.Context, id string) (*domain.Car, error) {
	var m CarModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.WithStack(domain.ErrCarNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "select car")
	}
	return toDomainCar(&m), nil
}

func (r *GormRepository) List(ctx context.Context) ([]*domain.Car, error) {
	var models []CarModel
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "list cars")
	}
	out := make([]*domain.Car, 0, len(models))
	for i := range models {
		out = append(out, toDomainCar(&models[i]))
	}
	return out, nil
}

func (r *GormRepository) Update(ctx context.Context, car *domain.Car) error {
	res := r.db.WithContext(ctx).Model(&CarModel{}).Where("id = ?", car.ID).Select("*").Omit("id", "created_at").Updates(fromDomainCar(car))
	if res.Error != nil {
		return errors.Wrap(res.Error, "update car")
	}
	if res.RowsAffected == 0 {
		return errors.WithStack(domain.ErrCarNotFound)
	}
	return nil
}
