package telemetry

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"raindrop-mcp/internal/domain"
)

type PrometheusMetrics struct {
	toolCalls        *prometheus.CounterVec
	toolCallDuration *prometheus.HistogramVec
	inflightCalls    *prometheus.GaugeVec
	remoteDuration   *prometheus.HistogramVec
	remoteRequests   *prometheus.CounterVec
	listingPages     *prometheus.HistogramVec
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		toolCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raindrop_mcp_tool_calls_total",
				Help: "Total number of tool calls by outcome",
			},
			[]string{"tool", "status", "code"},
		),
		toolCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "raindrop_mcp_tool_call_duration_seconds",
				Help:    "Duration of tool calls in seconds",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"tool", "status"},
		),
		inflightCalls: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "raindrop_mcp_inflight_tool_calls",
				Help: "Current number of tool calls being served",
			},
			[]string{"tool"},
		),
		remoteDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "raindrop_mcp_remote_request_duration_seconds",
				Help:    "Duration of requests to the Raindrop API in seconds",
				Buckets: []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		remoteRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raindrop_mcp_remote_requests_total",
				Help: "Total number of requests to the Raindrop API by status code",
			},
			[]string{"method", "route", "code"},
		),
		listingPages: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "raindrop_mcp_listing_pages",
				Help:    "Number of pages fetched per paginated listing",
				Buckets: []float64{1, 2, 3, 5, 10, 20, 50, 100},
			},
			[]string{"route"},
		),
	}
}

func (p *PrometheusMetrics) ObserveToolCall(metric domain.ToolCallMetric) {
	status := string(metric.Status)
	if status == "" {
		status = string(domain.CallStatusSuccess)
	}
	p.toolCalls.WithLabelValues(metric.Tool, status, string(metric.Code)).Inc()
	p.toolCallDuration.WithLabelValues(metric.Tool, status).Observe(metric.Duration.Seconds())
}

func (p *PrometheusMetrics) AddInflightToolCalls(tool string, delta int) {
	p.inflightCalls.WithLabelValues(tool).Add(float64(delta))
}

func (p *PrometheusMetrics) ObserveRemoteRequest(metric domain.RemoteRequestMetric) {
	code := "transport_error"
	if metric.StatusCode > 0 {
		code = strconv.Itoa(metric.StatusCode)
	}
	p.remoteRequests.WithLabelValues(metric.Method, metric.Route, code).Inc()
	p.remoteDuration.WithLabelValues(metric.Method, metric.Route).Observe(metric.Duration.Seconds())
}

func (p *PrometheusMetrics) ObservePages(route string, pages int) {
	p.listingPages.WithLabelValues(route).Observe(float64(pages))
}

var _ domain.Metrics = (*PrometheusMetrics)(nil)
