// Package toolserver serves the calculator and shell_command tools over
// the MCP streamable HTTP transport.
package toolserver

import (
	"context"
	"fmt"
	"net/http"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/chat"
	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/shell"
)

// Server hosts the MCP tool server.
type Server struct {
	mcp    *sdkmcp.Server
	safety *shell.Policy
	logger *zap.Logger
}

type calculatorArgs struct {
	Expression string `json:"expression" jsonschema:"The calculation to perform (e.g. '2 + 2')"`
}

type shellArgs struct {
	Command string `json:"command" jsonschema:"The shell command to execute"`
}

// New creates the tool server. A nil safety policy falls back to the
// conservative default.
func New(safety *shell.Policy, logger *zap.Logger) *Server {
	if safety == nil {
		safety = shell.DefaultPolicy()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		mcp: sdkmcp.NewServer(&sdkmcp.Implementation{
			Name:    "MCPAgent",
			Version: "0.1.0",
		}, nil),
		safety: safety,
		logger: logger,
	}

	sdkmcp.AddTool(s.mcp, &sdkmcp.Tool{
		Name:        "calculator",
		Description: "Perform basic calculations",
	}, s.calculate)

	sdkmcp.AddTool(s.mcp, &sdkmcp.Tool{
		Name:        shell.ToolName,
		Description: "Execute basic shell commands",
	}, s.runShell)

	return s
}

// Handler returns the streamable HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return s.mcp
	}, nil)
}

func (s *Server) calculate(ctx context.Context, req *sdkmcp.CallToolRequest, args calculatorArgs) (*sdkmcp.CallToolResult, any, error) {
	expr := chat.StripMarkers(args.Expression)
	if expr == "" {
		return nil, nil, fmt.Errorf("missing 'expression' parameter")
	}

	result, err := Evaluate(expr)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("calculator", zap.String("expression", expr), zap.Float64("result", result))
	return textResult(fmt.Sprintf("%g", result)), nil, nil
}

func (s *Server) runShell(ctx context.Context, req *sdkmcp.CallToolRequest, args shellArgs) (*sdkmcp.CallToolResult, any, error) {
	command := chat.StripMarkers(args.Command)
	if command == "" {
		return nil, nil, fmt.Errorf("missing 'command' parameter")
	}
	if err := s.safety.Check(command); err != nil {
		return nil, nil, err
	}

	s.logger.Info("shell_command", zap.String("command", command))
	out, err := shell.Run(ctx, command)
	if err != nil {
		return nil, nil, err
	}
	return textResult(out), nil, nil
}

func textResult(text string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: text}},
	}
}
