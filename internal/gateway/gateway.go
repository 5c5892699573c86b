// Package gateway exposes the bridge's command catalog as MCP tools. It is
// an external automation client like any other: tools are discovered live
// through list-functions and every call is forwarded over the relay.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/inklab/canvasbridge/internal/logging"
)

// Caller forwards one command through the bridge.
type Caller interface {
	Call(ctx context.Context, method string, params any) (any, error)
}

// Function is one catalog entry as returned by list-functions.
type Function struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
}

// Parameter is one entry in a function's parameter schema.
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Gateway is a configured MCP server over the bridge.
type Gateway struct {
	server *mcp.Server
	log    *logging.Logger
}

// New fetches the command catalog through caller and registers one MCP tool
// per command.
func New(ctx context.Context, caller Caller, log *logging.Logger) (*Gateway, error) {
	functions, err := fetchCatalog(ctx, caller)
	if err != nil {
		return nil, err
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "canvas-bridge",
		Version: "0.1.0",
	}, nil)

	for _, fn := range functions {
		fn := fn
		tool := &mcp.Tool{
			Name:        fn.Name,
			Description: fn.Description,
			InputSchema: inputSchema(fn.Parameters),
		}
		mcp.AddTool(server, tool, forwardHandler(caller, fn.Name))
		log.Debug("registered tool", zap.String("name", fn.Name))
	}
	log.Info("gateway ready", zap.Int("tools", len(functions)))

	return &Gateway{server: server, log: log}, nil
}

// Run serves MCP over stdio until ctx is canceled.
func (g *Gateway) Run(ctx context.Context) error {
	return g.server.Run(ctx, &mcp.StdioTransport{})
}

func fetchCatalog(ctx context.Context, caller Caller) ([]Function, error) {
	result, err := caller.Call(ctx, "list-functions", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch command catalog: %w", err)
	}

	// Round-trip through JSON to decode the generic result map.
	encoded, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("re-encode catalog: %w", err)
	}
	var catalog struct {
		Functions []Function `json:"functions"`
	}
	if err := json.Unmarshal(encoded, &catalog); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(catalog.Functions) == 0 {
		return nil, fmt.Errorf("command catalog is empty")
	}
	return catalog.Functions, nil
}

// inputSchema converts a flat parameter list into a JSON Schema object.
func inputSchema(params []Parameter) map[string]any {
	properties := map[string]any{}
	required := []string{}
	for _, p := range params {
		properties[p.Name] = map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// forwardHandler relays a tool call through the bridge and renders the
// result as JSON text. Bridge errors become tool errors, not protocol
// errors, so the MCP client sees the dispatcher's message.
func forwardHandler(caller Caller, method string) mcp.ToolHandlerFor[map[string]any, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
		result, err := caller.Call(ctx, method, args)
		if err != nil {
			return &mcp.CallToolResult{
				IsError: true,
				Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
			}, nil, nil
		}

		text, err := json.Marshal(result)
		if err != nil {
			return nil, nil, fmt.Errorf("encode result: %w", err)
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(text)}},
		}, nil, nil
	}
}
