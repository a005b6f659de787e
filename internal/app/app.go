package app

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/francais-backend/internal/http"
	"github.com/yungbote/francais-backend/internal/observability"
	"github.com/yungbote/francais-backend/internal/platform/logger"
)

type App struct {
	Log     *logger.Logger
	Config  *Config
	Metrics *observability.Metrics
	Router  *gin.Engine
	Clients Clients

	server       *nethttp.Server
	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a, err := newApp(context.Background(), cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

func newApp(ctx context.Context, cfg *Config, log *logger.Logger) (*App, error) {
	if strings.EqualFold(cfg.LogMode, "production") || strings.EqualFold(cfg.LogMode, "prod") {
		gin.SetMode(gin.ReleaseMode)
	}

	otelShutdown, err := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.LogMode,
		Endpoint:    cfg.Tracing.Endpoint,
		Headers:     cfg.Tracing.Headers,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.New()
	}

	clients, err := wireClients(log, cfg, metrics)
	if err != nil {
		_ = otelShutdown(ctx)
		return nil, err
	}
	handlers := wireHandlers(log, cfg, clients)
	router := wireRouter(log, cfg, handlers, metrics)

	return &App{
		Log:     log,
		Config:  cfg,
		Metrics: metrics,
		Router:  router,
		Clients: clients,
		server: http.NewServer(http.ServerConfig{
			Addr:              cfg.HTTP.Addr(),
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout.Duration,
			IdleTimeout:       cfg.HTTP.IdleTimeout.Duration,
		}, router),
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP (and /metrics when enabled) until ctx is cancelled, then
// shuts both down gracefully.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.server == nil {
		return errors.New("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Log.Info("HTTP server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.HTTP.ShutdownTimeout.Duration)
		defer cancel()
		a.Log.Info("HTTP server shutting down")
		return a.server.Shutdown(shutdownCtx)
	})
	if a.Metrics != nil {
		g.Go(func() error {
			a.Log.Info("metrics server listening", "addr", a.Config.Metrics.Addr)
			if err := a.Metrics.Serve(gctx, a.Config.Metrics.Addr); err != nil {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Config.HTTP.ShutdownTimeout.Duration)
		_ = a.otelShutdown(ctx)
		cancel()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
