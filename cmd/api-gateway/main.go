// cmd/api-gateway/main.go
package main

import (
	"context"

	"autohub/internal/pkg/bootstrap"
	"autohub/internal/pkg/constants"
	"autohub/internal/pkg/httpclient"
	"autohub/internal/service/gateway/application"
	"autohub/internal/service/gateway/infrastructure"
	"autohub/internal/service/gateway/interfaces"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := bootstrap.Init(constants.APIGatewayService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: constants.APIGatewayService,
		Config:      cfg,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) error {
			catalog := infrastructure.NewCatalogClient(appCtx.HTTPClient, appCtx.Policies)
			inventory := infrastructure.NewInventoryClient(appCtx.HTTPClient, appCtx.Policies)
			svc := application.NewAggregationService(catalog, inventory, appCtx.Tracer,
				application.WithConcurrency(appCtx.Config.Gateway.ListingConcurrency))
			interfaces.NewGatewayHandler(svc, downstreamsReady(appCtx.HTTPClient)).RegisterRoutes(appCtx.Mux)
			return nil
		},
	})
}

// downstreamsReady probes the health endpoint of both downstreams in parallel.
func downstreamsReady(client *httpclient.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		g, ctx := errgroup.WithContext(ctx)
		for _, svc := range []string{constants.CatalogService, constants.InventoryService} {
			g.Go(func() error {
				_, err := client.GetJSON(ctx, svc, "/healthz", nil)
				return err
			})
		}
		return g.Wait()
	}
}
