package app

import (
	"context"
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"raindrop-mcp/internal/domain"
	"raindrop-mcp/internal/infra/config"
	"raindrop-mcp/internal/infra/gateway"
	"raindrop-mcp/internal/infra/telemetry"
	"raindrop-mcp/internal/infra/tools"
)

// Application wires the MCP server and its supporting services.
type Application struct {
	ctx    context.Context
	cfg    ServeConfig
	logger *zap.Logger
	level  zap.AtomicLevel

	registry   *prometheus.Registry
	health     *telemetry.HealthTracker
	dispatcher *tools.Dispatcher
	gateway    *gateway.Gateway
	loader     *config.Loader
}

// ApplicationOptions captures dependencies and settings for Application.
type ApplicationOptions struct {
	Context     context.Context
	ServeConfig ServeConfig
	Logger      *zap.Logger
	Level       zap.AtomicLevel
	Registry    *prometheus.Registry
	Health      *telemetry.HealthTracker
	Dispatcher  *tools.Dispatcher
	Gateway     *gateway.Gateway
	Loader      *config.Loader
}

func NewApplication(opts ApplicationOptions) *Application {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Application{
		ctx:        ctx,
		cfg:        opts.ServeConfig,
		logger:     logger.Named("app"),
		level:      opts.Level,
		registry:   opts.Registry,
		health:     opts.Health,
		dispatcher: opts.Dispatcher,
		gateway:    opts.Gateway,
		loader:     opts.Loader,
	}
}

// Dispatcher exposes the tool dispatcher for one-shot invocations.
func (a *Application) Dispatcher() *tools.Dispatcher {
	return a.dispatcher
}

// Gateway returns the MCP server wrapper.
func (a *Application) Gateway() *gateway.Gateway {
	return a.gateway
}

// Run serves the configured transport and blocks until the context ends or
// the transport stops.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(a.ctx)
	defer cancel()

	cfg := a.cfg.Config
	a.logger.Info("configuration loaded",
		zap.String("config", a.cfg.Source.ConfigFile),
		zap.String("transport", string(cfg.Transport)),
		zap.String("baseURL", cfg.Raindrop.BaseURL),
		zap.Int("tools", len(a.dispatcher.Names())),
	)

	var wg sync.WaitGroup
	if addr := cfg.Observability.ListenAddress; addr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := telemetry.StartHTTPServer(ctx, telemetry.HTTPServerOptions{
				Addr:          addr,
				EnableMetrics: true,
				EnableHealthz: true,
				Health:        a.health,
				Registry:      a.registry,
			}, a.logger)
			if err != nil {
				a.logger.Warn("observability server stopped", zap.Error(err))
			}
		}()
	}

	if a.cfg.Source.ConfigFile != "" && a.loader != nil {
		if err := a.loader.Watch(ctx, a.cfg.Source, a.applyReload); err != nil {
			a.logger.Warn("config watch disabled", zap.Error(err))
		}
	}

	var err error
	switch cfg.Transport {
	case domain.TransportStreamableHTTP:
		err = a.gateway.RunStreamableHTTP(ctx, gateway.HTTPOptions{
			Addr:         cfg.HTTP.Addr,
			Path:         cfg.HTTP.Path,
			Token:        cfg.HTTP.Token,
			JSONResponse: cfg.HTTP.JSONResponse,
			Stateless:    cfg.HTTP.Stateless,
		})
	default:
		err = a.gateway.Run(ctx)
	}

	cancel()
	wg.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// applyReload adopts the settings that can change at runtime. Everything
// else needs a restart.
func (a *Application) applyReload(next domain.Config) {
	level, err := zapcore.ParseLevel(next.Log.Level)
	if err != nil {
		a.logger.Warn("ignoring reloaded log level", zap.String("level", next.Log.Level), zap.Error(err))
		return
	}
	if a.level != (zap.AtomicLevel{}) && a.level.Level() != level {
		a.level.SetLevel(level)
		a.logger.Info("log level changed", zap.String("level", level.String()))
	}

	prev := a.cfg.Config
	if prev.Raindrop != next.Raindrop || prev.Transport != next.Transport || prev.HTTP != next.HTTP || prev.Observability != next.Observability {
		a.logger.Warn("config changed; restart required to apply")
	}
}
