// internal/service/catalog/domain/repository.go
package domain

import (
	"context"

	"autohub/internal/pkg/apperr"
)

var ErrCarNotFound = &apperr.Error{Kind: apperr.KindNotFound, Msg: "car not found"}

type Repository interface {
	Create(ctx context.Context, car *Car) error
	FindByID(ctx context.Context, id string) (*Car, error)
	List(ctx context.Context) ([]*Car, error)
	Update(ctx context.Context, car *Car) error
}
