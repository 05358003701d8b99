package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/chat"
)

// MCPTransport implements Transport over the official MCP Go SDK using the
// streamable HTTP transport.
type MCPTransport struct {
	endpoint string
	client   *sdkmcp.Client
	session  *sdkmcp.ClientSession
}

// NewMCPTransport creates an unconnected transport for the given endpoint.
func NewMCPTransport(endpoint string) *MCPTransport {
	return &MCPTransport{endpoint: endpoint}
}

// Initialize connects and performs the MCP initialization handshake.
func (t *MCPTransport) Initialize(ctx context.Context, clientName, clientVersion string) error {
	t.client = sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    clientName,
		Version: clientVersion,
	}, nil)

	session, err := t.client.Connect(ctx, &sdkmcp.StreamableClientTransport{
		Endpoint: t.endpoint,
	}, nil)
	if err != nil {
		return fmt.Errorf("mcp connect failed: %w", err)
	}
	t.session = session
	return nil
}

// ListActions fetches every page of the provider's tool list and converts
// it to the shared descriptor type.
func (t *MCPTransport) ListActions(ctx context.Context) ([]chat.ToolDef, error) {
	if t.session == nil {
		return nil, fmt.Errorf("transport not initialized")
	}

	var (
		cursor string
		defs   []chat.ToolDef
	)
	for {
		params := &sdkmcp.ListToolsParams{}
		if cursor != "" {
			params.Cursor = cursor
		}
		res, err := t.session.ListTools(ctx, params)
		if err != nil {
			return nil, err
		}
		for _, tool := range res.Tools {
			if tool == nil {
				continue
			}
			defs = append(defs, chat.ToolDef{
				Name:        tool.Name,
				Description: tool.Description,
				Schema:      schemaJSON(tool.InputSchema),
			})
		}
		if res.NextCursor == "" {
			break
		}
		cursor = res.NextCursor
	}
	return defs, nil
}

// CallAction invokes a remote tool and normalizes the content parts into a
// single text result. A server-side tool error is surfaced as an error.
func (t *MCPTransport) CallAction(ctx context.Context, name string, args map[string]any) (string, error) {
	if t.session == nil {
		return "", fmt.Errorf("transport not initialized")
	}

	result, err := t.session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return "", err
	}

	text := normalizeContent(result.Content)
	if result.IsError {
		if text == "" {
			text = "tool returned error without message"
		}
		return "", fmt.Errorf("tool %s: %s", name, text)
	}
	return text, nil
}

// Close terminates the MCP session.
func (t *MCPTransport) Close() error {
	if t.session == nil {
		return nil
	}
	return t.session.Close()
}

func normalizeContent(content []sdkmcp.Content) string {
	if len(content) == 0 {
		return ""
	}
	parts := make([]string, 0, len(content))
	for _, c := range content {
		switch v := c.(type) {
		case *sdkmcp.TextContent:
			parts = append(parts, v.Text)
		default:
			if data, err := json.Marshal(c); err == nil {
				parts = append(parts, string(data))
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func schemaJSON(schema any) string {
	if schema == nil {
		return ""
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return ""
	}
	return string(data)
}
