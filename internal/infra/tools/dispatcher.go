package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"raindrop-mcp/internal/domain"
	"raindrop-mcp/internal/infra/telemetry"
)

// unknownToolLabel keeps arbitrary caller-supplied names out of metric labels.
const unknownToolLabel = "unknown"

type Options struct {
	Logger  *zap.Logger
	Metrics domain.Metrics
}

// Dispatcher routes a tool call to exactly one resource operation and wraps
// the outcome in a CallToolResult. It never returns a protocol error.
type Dispatcher struct {
	tools   []*mcp.Tool
	routes  map[string]*route
	logger  *zap.Logger
	metrics domain.Metrics
}

type route struct {
	tool    *mcp.Tool
	schema  *jsonschema.Resolved
	handler handlerFunc
}

func NewDispatcher(backend Backend, opts Options) (*Dispatcher, error) {
	if !backend.complete() {
		return nil, errors.New("dispatcher backend is incomplete")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}

	handlers := routingTable(backend)
	catalog := Catalog()
	routes := make(map[string]*route, len(catalog))
	for _, tool := range catalog {
		handler, ok := handlers[tool.Name]
		if !ok {
			return nil, fmt.Errorf("tool %q has no handler", tool.Name)
		}
		schema, ok := tool.InputSchema.(*jsonschema.Schema)
		if !ok {
			return nil, fmt.Errorf("tool %q: input schema has unexpected type %T", tool.Name, tool.InputSchema)
		}
		resolved, err := schema.Resolve(nil)
		if err != nil {
			return nil, fmt.Errorf("tool %q: resolve input schema: %w", tool.Name, err)
		}
		routes[tool.Name] = &route{tool: tool, schema: resolved, handler: handler}
	}
	for name := range handlers {
		if _, ok := routes[name]; !ok {
			return nil, fmt.Errorf("handler %q is not in the catalog", name)
		}
	}

	return &Dispatcher{
		tools:   catalog,
		routes:  routes,
		logger:  logger.Named("dispatcher"),
		metrics: metrics,
	}, nil
}

// Tools returns the advertised catalog in order.
func (d *Dispatcher) Tools() []*mcp.Tool {
	return append([]*mcp.Tool(nil), d.tools...)
}

// Names returns the routing table keys, sorted.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.routes))
	for name := range d.routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *Dispatcher) Call(ctx context.Context, name string, args json.RawMessage) *mcp.CallToolResult {
	ctx, _ = telemetry.EnsureRequestMeta(ctx, "")
	logger := telemetry.LoggerWithRequest(ctx, d.logger).With(telemetry.ToolField(name))

	r, ok := d.routes[name]
	if !ok {
		logger.Warn("unknown tool", telemetry.EventField(telemetry.EventUnknownTool))
		d.metrics.ObserveToolCall(domain.ToolCallMetric{
			Tool:   unknownToolLabel,
			Status: domain.CallStatusError,
			Code:   domain.CodeNotFound,
		})
		return UnknownToolResult(name)
	}

	d.metrics.AddInflightToolCalls(name, 1)
	defer d.metrics.AddInflightToolCalls(name, -1)

	logger.Debug("tool call started", telemetry.EventField(telemetry.EventToolCallStart))
	start := time.Now()
	text, err := d.invoke(ctx, r, args, logger)
	duration := time.Since(start)

	code, _ := domain.CodeFrom(err)
	d.metrics.ObserveToolCall(domain.ToolCallMetric{
		Tool:     name,
		Status:   domain.StatusFor(err),
		Code:     code,
		Duration: duration,
	})
	if err != nil {
		logger.Warn("tool call failed",
			telemetry.EventField(telemetry.EventToolCallFailure),
			telemetry.DurationField(duration),
			telemetry.ErrorCodeField(string(code)),
			zap.Error(err),
		)
		return ErrorResult(err.Error())
	}
	logger.Info("tool call completed",
		telemetry.EventField(telemetry.EventToolCallSuccess),
		telemetry.DurationField(duration),
	)
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func (d *Dispatcher) invoke(ctx context.Context, r *route, raw json.RawMessage, logger *zap.Logger) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("tool handler panicked",
				telemetry.EventField(telemetry.EventToolCallPanic),
				zap.Any("panic", rec),
				zap.Stack("stack"),
			)
			err = domain.E(domain.CodeInternal, "", fmt.Sprintf("internal error: %v", rec), nil)
		}
	}()

	args, err := validateArguments(r, raw)
	if err != nil {
		return "", err
	}
	result, err := r.handler(ctx, args)
	if err != nil {
		return "", err
	}
	return prettyJSON(result), nil
}

// validateArguments checks the argument bag against the tool's input schema.
// Absent or null arguments are treated as an empty object.
func validateArguments(r *route, raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}
	var bag map[string]any
	if err := json.Unmarshal(trimmed, &bag); err != nil {
		return nil, domain.E(domain.CodeInvalidArgument, "",
			fmt.Sprintf("invalid arguments for %s: arguments must be a JSON object", r.tool.Name), domain.ErrInvalidArgument)
	}
	if bag == nil {
		bag = map[string]any{}
	}
	if err := r.schema.Validate(bag); err != nil {
		return nil, domain.E(domain.CodeInvalidArgument, "",
			fmt.Sprintf("invalid arguments for %s: %v", r.tool.Name, err), domain.ErrInvalidArgument)
	}
	return trimmed, nil
}

func prettyJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// ErrorResult is the uniform error envelope: one text block prefixed with "Error: ".
func ErrorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + message}},
		IsError: true,
	}
}

func UnknownToolResult(name string) *mcp.CallToolResult {
	return ErrorResult("Unknown tool: " + name)
}
