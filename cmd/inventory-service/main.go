// cmd/inventory-service/main.go
package main

import (
	"context"

	"autohub/internal/pkg/bootstrap"
	"autohub/internal/pkg/constants"
	"autohub/internal/pkg/database"
	"autohub/internal/pkg/redis"
	"autohub/internal/service/inventory/application"
	"autohub/internal/service/inventory/domain"
	"autohub/internal/service/inventory/infrastructure"
	"autohub/internal/service/inventory/interfaces"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// main is the composition root: it builds the ledger's dependencies and
// hands them to the common service lifecycle.
func main() {
	cfg, err := bootstrap.Init(constants.InventoryService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: constants.InventoryService,
		Config:      cfg,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) error {
			repo, ready, err := newRepository(context.Background(), appCtx)
			if err != nil {
				return err
			}
			svc := application.NewLedgerService(repo, appCtx.Tracer,
				application.WithReservationTTL(appCtx.Config.Inventory.ReservationTTL))
			interfaces.NewInventoryHandler(svc, ready).RegisterRoutes(appCtx.Mux)
			return nil
		},
	})
}

// newRepository picks the ledger store named by storage.driver.
func newRepository(ctx context.Context, appCtx bootstrap.AppCtx) (domain.Repository, func(context.Context) error, error) {
	cfg := appCtx.Config
	switch cfg.Storage.Driver {
	case "mysql":
		db, err := database.OpenMySQL(ctx, cfg.Infra.MySQL)
		if err != nil {
			return nil, nil, err
		}
		appCtx.OnShutdown(func(context.Context) error { return database.Close(db) })
		repo := infrastructure.NewGormRepository(db)
		if cfg.Infra.MySQL.AutoMigrate {
			if err := repo.AutoMigrate(); err != nil {
				return nil, nil, err
			}
		}
		return repo, func(ctx context.Context) error { return database.Ping(ctx, db) }, nil
	case "redis":
		client, err := redis.NewClient(ctx, cfg.Infra.Redis.Addrs, cfg.Infra.Redis.Password, cfg.Infra.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		appCtx.OnShutdown(func(context.Context) error { return client.Close() })
		repo, err := infrastructure.NewRedisRepository(ctx, client)
		if err != nil {
			return nil, nil, err
		}
		return repo, client.Ping, nil
	case "memory":
		log.Warn().Msg("inventory uses the in-memory store, data is lost on restart")
		return infrastructure.NewMemoryRepository(), nil, nil
	default:
		return nil, nil, errors.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
