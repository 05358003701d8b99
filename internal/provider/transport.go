// Package provider manages connections to MCP capability providers and the
// action registry built from them.
package provider

import (
	"context"

	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/chat"
)

// Transport is the wire-level connection to a capability provider. The
// orchestration core only ever sees this boundary; the concrete transport
// is the MCP streamable HTTP client.
type Transport interface {
	// Initialize performs the handshake, identifying this client.
	Initialize(ctx context.Context, clientName, clientVersion string) error

	// ListActions fetches the provider's full action list.
	ListActions(ctx context.Context) ([]chat.ToolDef, error)

	// CallAction invokes a named action and returns its textual result.
	CallAction(ctx context.Context, name string, args map[string]any) (string, error)

	// Close tears down the connection.
	Close() error
}
