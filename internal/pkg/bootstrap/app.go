// internal/pkg/bootstrap/app.go
package bootstrap

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"autohub/internal/pkg/httpclient"
	"autohub/internal/pkg/httpx"
	"autohub/internal/pkg/logger"
	"autohub/internal/pkg/metrics"
	"autohub/internal/pkg/nacos"
	"autohub/internal/pkg/resilience"
	"autohub/internal/pkg/tracing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// AppCtx carries what a service needs to wire its handlers.
type AppCtx struct {
	Mux        *http.ServeMux
	Config     *Config
	Nacos      *nacos.Client
	Tracer     trace.Tracer
	HTTPClient *httpclient.Client
	Policies   *resilience.Registry

	closers *[]func(context.Context) error
}

// OnShutdown registers fn to run during graceful shutdown. Closers run in
// reverse registration order once the HTTP server has stopped.
func (a AppCtx) OnShutdown(fn func(context.Context) error) {
	*a.closers = append(*a.closers, fn)
}

// AppInfo holds what is specific to one service binary.
type AppInfo struct {
	ServiceName      string
	Config           *Config
	RegisterHandlers func(appCtx AppCtx) error
}

// StartService runs the common lifecycle of every service: logger, tracer,
// optional nacos registration, HTTP server and graceful shutdown.
func StartService(info AppInfo) {
	cfg := info.Config
	if cfg == nil {
		cfg = GetCurrentConfig()
	}
	logger.Init(info.ServiceName, cfg.Log.Level, cfg.Log.Pretty)

	tp, err := tracing.InitTracerProvider(info.ServiceName, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer provider")
	}
	tracer := otel.Tracer(info.ServiceName)

	var (
		namingClient *nacos.Client
		resolver     httpclient.Resolver = httpclient.StaticResolver(cfg.Services)
		ip           string
	)
	if cfg.Infra.Nacos.Enabled {
		namingClient, err = nacos.NewNacosClient(cfg.Infra.Nacos.ServerAddrs, cfg.Infra.Nacos.Namespace, cfg.Infra.Nacos.Group)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize nacos client")
		}
		if ip, err = getOutboundIP(); err != nil {
			log.Fatal().Err(err).Msg("failed to get outbound IP address")
		}
		if err := namingClient.RegisterServiceInstance(info.ServiceName, ip, cfg.App.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to register service with nacos")
		}
		resolver = nacos.NewResolver(namingClient, cfg.Services)
	}

	var closers []func(context.Context) error
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("GET /metrics", promhttp.Handler())

	appCtx := AppCtx{
		Mux:        mux,
		Config:     cfg,
		Nacos:      namingClient,
		Tracer:     tracer,
		HTTPClient: httpclient.NewClient(tracer, resolver),
		Policies:   resilience.NewRegistry(cfg.Resilience, metrics.ResilienceOptions()...),
		closers:    &closers,
	}
	if info.RegisterHandlers != nil {
		if err := info.RegisterHandlers(appCtx); err != nil {
			log.Fatal().Err(err).Msgf("failed to wire %s", info.ServiceName)
		}
	}

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.App.Port),
		Handler:           httpx.Chain(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Msgf("%s listening on :%d", info.ServiceName, cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msgf("could not listen on %s", server.Addr)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msgf("shutting down service %s...", info.ServiceName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if namingClient != nil {
		if err := namingClient.DeregisterServiceInstance(info.ServiceName, ip, cfg.App.Port); err != nil {
			log.Error().Err(err).Msg("error deregistering from nacos")
		}
		namingClient.Close()
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error shutting down http server")
	}

	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](ctx); err != nil {
			log.Error().Err(err).Msg("error during shutdown")
		}
	}

	if err := tp.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error shutting down tracer provider")
	}

	log.Info().Msgf("service %s gracefully shut down", info.ServiceName)
}

func getOutboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}
