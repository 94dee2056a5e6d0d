// cmd/catalog-service/main.go
package main

import (
	"context"

	"autohub/internal/pkg/bootstrap"
	"autohub/internal/pkg/constants"
	"autohub/internal/pkg/database"
	"autohub/internal/service/catalog/application"
	"autohub/internal/service/catalog/domain"
	"autohub/internal/service/catalog/infrastructure"
	"autohub/internal/service/catalog/interfaces"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := bootstrap.Init(constants.CatalogService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: constants.CatalogService,
		Config:      cfg,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) error {
			repo, ready, err := newRepository(context.Background(), appCtx)
			if err != nil {
				return err
			}
			compiler, err := infrastructure.NewCELFilterCompiler()
			if err != nil {
				return err
			}
			svc := application.NewCatalogService(repo, compiler, appCtx.Tracer)
			interfaces.NewCatalogHandler(svc, ready).RegisterRoutes(appCtx.Mux)
			return nil
		},
	})
}

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
	case "memory":
		log.Warn().Msg("catalog uses the in-memory store, data is lost on restart")
		return infrastructure.NewMemoryRepository(), nil, nil
	default:
		return nil, nil, errors.Errorf("unsupported storage driver %q for catalog", cfg.Storage.Driver)
	}
}
