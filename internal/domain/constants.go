package domain

const (
	DefaultServerName                 = "raindrop-mcp"
	DefaultBaseURL                    = "https://api.raindrop.io/rest/v1"
	DefaultPageSize                   = 50
	DefaultCollectionID               = 0
	DefaultTransport                  = TransportStdio
	DefaultHTTPAddr                   = "127.0.0.1:8090"
	DefaultHTTPPath                   = "/mcp"
	DefaultLogLevel                   = "info"
	DefaultRequestTimeoutSeconds      = 0
	DefaultObservabilityListenAddress = ""
	DefaultShutdownTimeoutSeconds     = 5
	DefaultEnvPrefix                  = "RAINDROP"
	DefaultEnvFile                    = ".env"
)
