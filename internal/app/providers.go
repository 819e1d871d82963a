package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"raindrop-mcp/internal/domain"
	"raindrop-mcp/internal/infra/config"
	"raindrop-mcp/internal/infra/gateway"
	"raindrop-mcp/internal/infra/raindrop"
	"raindrop-mcp/internal/infra/telemetry"
	"raindrop-mcp/internal/infra/tools"
)

func NewMetricsRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewGoCollector())
	return registry
}

func NewMetrics(registry *prometheus.Registry) domain.Metrics {
	return telemetry.NewPrometheusMetrics(registry)
}

func NewHealthTracker() *telemetry.HealthTracker {
	return telemetry.NewHealthTracker()
}

func NewConfigLoader(logger *zap.Logger) *config.Loader {
	return config.NewLoader(logger)
}

func NewRaindropClient(cfg ServeConfig, logger *zap.Logger, metrics domain.Metrics) (*raindrop.Client, error) {
	rc := cfg.Config.Raindrop
	return raindrop.NewClient(raindrop.ClientOptions{
		Token:     rc.Token,
		BaseURL:   rc.BaseURL,
		Timeout:   rc.Timeout,
		UserAgent: rc.UserAgent,
		Logger:    logger,
		Metrics:   metrics,
	})
}

func NewToolBackend(client *raindrop.Client) tools.Backend {
	return tools.NewBackend(client)
}

func NewDispatcher(backend tools.Backend, logger *zap.Logger, metrics domain.Metrics) (*tools.Dispatcher, error) {
	return tools.NewDispatcher(backend, tools.Options{
		Logger:  logger,
		Metrics: metrics,
	})
}

func NewGateway(dispatcher *tools.Dispatcher, logger *zap.Logger, health *telemetry.HealthTracker, bridge *gateway.LogBridge) *gateway.Gateway {
	return gateway.NewGateway(dispatcher, gateway.Options{
		Name:      domain.DefaultServerName,
		Version:   Version,
		Logger:    logger,
		Health:    health,
		LogBridge: bridge,
	})
}
