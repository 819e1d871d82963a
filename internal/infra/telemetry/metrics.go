package telemetry

import "raindrop-mcp/internal/domain"

type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (n *NoopMetrics) ObserveToolCall(_ domain.ToolCallMetric) {}

func (n *NoopMetrics) AddInflightToolCalls(_ string, _ int) {}

func (n *NoopMetrics) ObserveRemoteRequest(_ domain.RemoteRequestMetric) {}

func (n *NoopMetrics) ObservePages(_ string, _ int) {}

var _ domain.Metrics = (*NoopMetrics)(nil)
