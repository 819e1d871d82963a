package gateway

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"raindrop-mcp/internal/domain"
	"raindrop-mcp/internal/infra/telemetry"
	"raindrop-mcp/internal/infra/tools"
)

const (
	methodCallTool     = "tools/call"
	serverInstructions = "Tools for a Raindrop.io account: bookmarks, collections, tags, highlights, filters and the user profile. Listing tools return every page."
)

type Options struct {
	Name    string
	Version string
	Logger  *zap.Logger
	Health  *telemetry.HealthTracker
	// LogBridge, when set, forwards log entries to connected clients.
	LogBridge *LogBridge
}

// Gateway exposes the dispatcher's tool catalog as an MCP server.
type Gateway struct {
	dispatcher *tools.Dispatcher
	logger     *zap.Logger
	health     *telemetry.HealthTracker
	server     *mcp.Server
	registry   *toolRegistry
	bridge     *LogBridge
}

func NewGateway(dispatcher *tools.Dispatcher, opts Options) *Gateway {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	name := opts.Name
	if name == "" {
		name = domain.DefaultServerName
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	g := &Gateway{
		dispatcher: dispatcher,
		logger:     logger.Named("gateway"),
		health:     opts.Health,
		bridge:     opts.LogBridge,
	}
	g.server = mcp.NewServer(&mcp.Implementation{
		Name:    name,
		Version: version,
	}, &mcp.ServerOptions{
		Instructions: serverInstructions,
		Capabilities: &mcp.ServerCapabilities{
			Logging: &mcp.LoggingCapabilities{},
			Tools:   &mcp.ToolCapabilities{},
		},
	})
	g.server.AddReceivingMiddleware(g.unknownToolMiddleware)
	g.registry = newToolRegistry(g.server, g.toolHandler, g.logger)
	count := g.registry.Register(dispatcher.Tools())
	g.logger.Debug("tools registered", zap.Int("count", count))
	return g
}

// Server returns the underlying MCP server.
func (g *Gateway) Server() *mcp.Server {
	return g.server
}

// Run serves MCP over stdin/stdout until ctx is done or the peer disconnects.
func (g *Gateway) Run(ctx context.Context) error {
	beat := g.health.Register("transport.stdio", 0)
	beat.Beat()
	defer beat.Stop()
	g.startLogBridge(ctx)

	g.logger.Info("gateway starting",
		telemetry.EventField(telemetry.EventServerStart),
		telemetry.TransportField(string(domain.TransportStdio)),
	)
	err := g.server.Run(ctx, &mcp.StdioTransport{})
	g.logger.Info("gateway stopped", telemetry.EventField(telemetry.EventServerStop))
	if err != nil && !errors.Is(err, context.Canceled) {
		beat.Fail(err)
		return err
	}
	return nil
}

func (g *Gateway) toolHandler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		requestID := ""
		if req.Extra != nil {
			requestID = telemetry.RequestIDFromHeader(req.Extra.Header)
		}
		ctx, _ = telemetry.EnsureRequestMeta(ctx, requestID)

		var args []byte
		if req.Params != nil {
			args = req.Params.Arguments
		}
		return g.dispatcher.Call(ctx, name, args), nil
	}
}

// unknownToolMiddleware answers calls for unregistered tools with an error
// result instead of letting the server reply with a protocol error.
func (g *Gateway) unknownToolMiddleware(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		if method != methodCallTool {
			return next(ctx, method, req)
		}
		call, ok := req.(*mcp.CallToolRequest)
		if !ok || call.Params == nil || g.registry.Has(call.Params.Name) {
			return next(ctx, method, req)
		}
		return g.dispatcher.Call(ctx, call.Params.Name, call.Params.Arguments), nil
	}
}

func (g *Gateway) startLogBridge(ctx context.Context) {
	if g.bridge == nil {
		return
	}
	go g.bridge.Run(ctx, g.server)
}
