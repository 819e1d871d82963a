package gateway

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// toolRegistry tracks which tools are installed on the MCP server.
type toolRegistry struct {
	server     *mcp.Server
	handler    func(name string) mcp.ToolHandler
	logger     *zap.Logger
	mu         sync.RWMutex
	registered map[string]struct{}
}

func newToolRegistry(server *mcp.Server, handler func(name string) mcp.ToolHandler, logger *zap.Logger) *toolRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &toolRegistry{
		server:     server,
		handler:    handler,
		logger:     logger.Named("tool_registry"),
		registered: make(map[string]struct{}),
	}
}

// Register installs the given tools and removes any previously installed
// tool that is not in the list.
func (r *toolRegistry) Register(tools []*mcp.Tool) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[string]struct{}, len(tools))
	for _, tool := range tools {
		if tool == nil || tool.Name == "" {
			continue
		}
		if !isObjectSchema(tool.InputSchema) {
			r.logger.Warn("skip tool with invalid input schema", zap.String("tool", tool.Name))
			continue
		}
		r.server.AddTool(tool, r.handler(tool.Name))
		next[tool.Name] = struct{}{}
	}

	var remove []string
	for name := range r.registered {
		if _, ok := next[name]; !ok {
			remove = append(remove, name)
		}
	}
	if len(remove) > 0 {
		r.server.RemoveTools(remove...)
	}

	r.registered = next
	return len(next)
}

func (r *toolRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.registered[name]
	return ok
}

func isObjectSchema(schema any) bool {
	if schema == nil {
		return false
	}

	raw, err := json.Marshal(schema)
	if err != nil {
		return false
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false
	}
	if typ, ok := obj["type"]; ok {
		if val, ok := typ.(string); ok {
			return strings.EqualFold(val, "object")
		}
	}
	return false
}
