package gateway

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestToolRegistry_RegisterReplacesPreviousSet(t *testing.T) {
	ctx := context.Background()
	server := mcp.NewServer(&mcp.Implementation{Name: "gateway", Version: "0.1.0"}, nil)

	registry := newToolRegistry(server, func(name string) mcp.ToolHandler {
		return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: name}},
			}, nil
		}
	}, zap.NewNop())

	count := registry.Register([]*mcp.Tool{
		{Name: "get_user", InputSchema: map[string]any{"type": "object"}},
		{Name: "broken", InputSchema: map[string]any{"type": "string"}},
		nil,
	})
	require.Equal(t, 1, count)
	require.True(t, registry.Has("get_user"))
	require.False(t, registry.Has("broken"))

	_, session := connectClient(t, ctx, server)
	defer session.Close()

	res, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	require.NoError(t, err)
	require.Len(t, res.Tools, 1)
	require.Equal(t, "get_user", res.Tools[0].Name)

	registry.Register(nil)

	res, err = session.ListTools(ctx, &mcp.ListToolsParams{})
	require.NoError(t, err)
	require.Len(t, res.Tools, 0)
	require.False(t, registry.Has("get_user"))
}

func TestIsObjectSchema(t *testing.T) {
	require.True(t, isObjectSchema(map[string]any{"type": "object"}))
	require.True(t, isObjectSchema(map[string]any{"type": "OBJECT"}))
	require.False(t, isObjectSchema(map[string]any{"type": "array"}))
	require.False(t, isObjectSchema(map[string]any{}))
	require.False(t, isObjectSchema(nil))
}

func connectClient(t *testing.T, ctx context.Context, server *mcp.Server) (*mcp.Client, *mcp.ClientSession) {
	t.Helper()
	ct, st := mcp.NewInMemoryTransports()
	_, err := server.Connect(ctx, st, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "0.1.0"}, nil)
	session, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)
	return client, session
}
