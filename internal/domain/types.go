package domain

import "time"

// Transport selects how the MCP server is exposed.
type Transport string

const (
	TransportStdio          Transport = "stdio"
	TransportStreamableHTTP Transport = "streamable-http"
)

// Config is the normalized runtime configuration.
type Config struct {
	Raindrop      RaindropConfig
	Transport     Transport
	HTTP          HTTPConfig
	Observability ObservabilityConfig
	Log           LogConfig
}

// RaindropConfig describes how to reach the remote API.
type RaindropConfig struct {
	Token     string
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// HTTPConfig configures the streamable HTTP transport.
type HTTPConfig struct {
	Addr         string
	Path         string
	Token        string
	JSONResponse bool
	Stateless    bool
}

// ObservabilityConfig configures the metrics and health listener.
// An empty ListenAddress disables it.
type ObservabilityConfig struct {
	ListenAddress string
}

type LogConfig struct {
	Level string
}
