// cmd/order-service/main.go
package main

import (
	"context"

	"autohub/internal/pkg/bootstrap"
	"autohub/internal/pkg/constants"
	"autohub/internal/pkg/database"
	"autohub/internal/pkg/zookeeper"
	"autohub/internal/service/order/application"
	"autohub/internal/service/order/domain"
	"autohub/internal/service/order/domain/port"
	"autohub/internal/service/order/infrastructure"
	"autohub/internal/service/order/infrastructure/adapter"
	"autohub/internal/service/order/interfaces"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// reaperLockResource names the zookeeper lock shared by every order-service instance.
const reaperLockResource = "order-expiry-reaper"

// main is the composition root of the order orchestrator.
func main() {
	cfg, err := bootstrap.Init(constants.OrderService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: constants.OrderService,
		Config:      cfg,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) error {
			repo, ready, err := newRepository(context.Background(), appCtx)
			if err != nil {
				return err
			}
			inventory := adapter.NewInventoryHTTPAdapter(appCtx.HTTPClient, appCtx.Policies)
			catalog := adapter.NewCatalogHTTPAdapter(appCtx.HTTPClient, appCtx.Policies)

			orderCfg := appCtx.Config.Order
			svc := application.NewOrderApplicationService(repo, inventory, catalog, appCtx.Tracer,
				application.WithProcessingTimeout(orderCfg.ProcessingTimeout),
				application.WithDefaultExpiryMinutes(orderCfg.DefaultExpiryMinutes))
			interfaces.NewOrderHandler(svc, ready).RegisterRoutes(appCtx.Mux)

			if orderCfg.Reaper.Enabled {
				return startReaper(appCtx, repo, inventory)
			}
			return nil
		},
	})
}

func newRepository(ctx context.Context, appCtx bootstrap.AppCtx) (domain.OrderRepository, func(context.Context) error, error) {
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
	case "postgres":
		pool, err := database.OpenPostgres(ctx, cfg.Infra.Postgres)
		if err != nil {
			return nil, nil, err
		}
		appCtx.OnShutdown(func(context.Context) error {
			pool.Close()
			return nil
		})
		repo := infrastructure.NewPostgresRepository(pool)
		if err := repo.Migrate(ctx); err != nil {
			return nil, nil, err
		}
		return repo, pool.Ping, nil
	case "memory":
		log.Warn().Msg("orders use the in-memory store, data is lost on restart")
		return infrastructure.NewMemoryRepository(), nil, nil
	default:
		return nil, nil, errors.Errorf("unsupported storage driver %q for orders", cfg.Storage.Driver)
	}
}

// startReaper runs the expiry reaper in the background until shutdown.
func startReaper(appCtx bootstrap.AppCtx, repo domain.OrderRepository, inventory port.InventoryService) error {
	cfg := appCtx.Config
	var locker port.Locker = infrastructure.LocalLocker{}
	if cfg.Infra.Zookeeper.Enabled {
		conn, err := zookeeper.Connect(cfg.Infra.Zookeeper.Servers, cfg.Infra.Zookeeper.SessionTimeout)
		if err != nil {
			return err
		}
		appCtx.OnShutdown(func(context.Context) error {
			conn.Close()
			return nil
		})
		locker = infrastructure.NewZookeeperLocker(conn, reaperLockResource)
	}

	reaper := application.NewExpiryReaper(repo, inventory, locker, appCtx.Tracer, cfg.Order.Reaper.Interval, cfg.Order.Reaper.BatchSize)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		reaper.Run(ctx)
	}()
	appCtx.OnShutdown(func(shutdownCtx context.Context) error {
		cancel()
		select {
		case <-done:
			return nil
		case <-shutdownCtx.Done():
			return shutdownCtx.Err()
		}
	})
	log.Info().Dur("interval", cfg.Order.Reaper.Interval).Bool("zookeeper", cfg.Infra.Zookeeper.Enabled).Msg("expiry reaper started")
	return nil
}
