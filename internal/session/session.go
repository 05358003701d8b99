// Package session implements the interactive operator loop for the MCP
// client.
package session

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/dispatch"
	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/provider"
	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/ui"
	"go.uber.org/zap"
)

// Asker is the optional ask-pipeline behind the `ask` command. It is nil
// when no inference engine is configured.
type Asker interface {
	Ask(ctx context.Context, query string) (string, error)
}

// Config holds session configuration.
type Config struct {
	Registry         *provider.Registry
	Dispatcher       *dispatch.Dispatcher
	Asker            Asker
	ShowInstructions bool
	In               io.Reader
	Out              io.Writer
	Logger           *zap.Logger
}

// Session is a synchronous read-eval-print loop translating operator lines
// into registry and dispatcher operations. One line, one command; every
// error prints a single descriptive line and the loop continues.
type Session struct {
	registry         *provider.Registry
	dispatcher       *dispatch.Dispatcher
	asker            Asker
	showInstructions bool
	in               *bufio.Scanner
	out              io.Writer
	styles           ui.Styles
	logger           *zap.Logger
}

// New creates a session. In defaults to stdin and Out to stdout.
func New(cfg Config) *Session {
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Session{
		registry:         cfg.Registry,
		dispatcher:       cfg.Dispatcher,
		asker:            cfg.Asker,
		showInstructions: cfg.ShowInstructions,
		in:               bufio.NewScanner(cfg.In),
		out:              cfg.Out,
		styles:           ui.DefaultStyles(),
		logger:           cfg.Logger,
	}
}

// Run drives the loop until the operator exits or input ends. End of input
// behaves exactly like the exit command.
func (s *Session) Run(ctx context.Context) error {
	if s.showInstructions {
		s.printHelp()
	}

	for {
		fmt.Fprintf(s.out, "\n%s ", s.styles.Prompt.Render("mcp>"))
		line, ok := s.readLine()
		if !ok {
			break
		}
		if line == "" {
			continue
		}
		if done := s.handle(ctx, line); done {
			break
		}
	}

	fmt.Fprintln(s.out, s.styles.Muted.Render("Exiting MCP client."))
	return nil
}

// readLine reads one logical line, honoring trailing-backslash
// continuation.
func (s *Session) readLine() (string, bool) {
	var parts []string
	for {
		if !s.in.Scan() {
			if len(parts) == 0 {
				return "", false
			}
			break
		}
		line := s.in.Text()
		if strings.HasSuffix(line, "\\") {
			parts = append(parts, strings.TrimSuffix(line, "\\"))
			continue
		}
		parts = append(parts, line)
		break
	}
	return strings.TrimSpace(strings.Join(parts, "\n")), true
}

// handle executes one command line and reports whether the session should
// terminate.
func (s *Session) handle(ctx context.Context, line string) bool {
	command, rest := splitCommand(line)

	switch command {
	case "exit", "quit":
		return true
	case "tools":
		s.printTools()
	case "servers":
		s.printServers()
	case "tool":
		s.invokeTool(ctx, rest)
	case "ask":
		s.ask(ctx, rest)
	case "help":
		s.printHelp()
	default:
		fmt.Fprintln(s.out, s.styles.Error.Render(
			fmt.Sprintf("Unknown command: %q. Type 'help' for a list of commands.", command)))
	}
	return false
}

func splitCommand(line string) (command, rest string) {
	fields := strings.SplitN(line, " ", 2)
	command = fields[0]
	if len(fields) == 2 {
		rest = strings.TrimSpace(fields[1])
	}
	return command, rest
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.out, s.styles.Header.Render("\n--- MCP Client Interactive Mode ---"))
	fmt.Fprintln(s.out, "Commands:")
	fmt.Fprintln(s.out, "  - tools                    List all available tools.")
	fmt.Fprintln(s.out, "  - tool <name> <json_args>  Execute a tool (e.g. tool calculator {\"expression\":\"2 + 2\"}).")
	fmt.Fprintln(s.out, "  - servers                  List all connected servers.")
	if s.asker != nil {
		fmt.Fprintln(s.out, "  - ask <query>              Ask the model; tool calls are dispatched automatically.")
	}
	fmt.Fprintln(s.out, "  - help                     Show this help message.")
	fmt.Fprintln(s.out, "  - exit                     Quit the client.")
}

// printTools lists every tool grouped by owning provider.
func (s *Session) printTools() {
	fmt.Fprintln(s.out, s.styles.Header.Render("\n--- Available Tools ---"))
	providers := s.registry.Providers()
	total := 0
	for _, p := range providers {
		tools := p.Tools()
		if len(tools) == 0 {
			continue
		}
		total += len(tools)
		fmt.Fprintf(s.out, "\nFrom server %s (%s):\n",
			s.styles.Provider.Render(p.Name), p.Kind)
		for _, tool := range tools {
			fmt.Fprintf(s.out, "  - %s: %s\n",
				s.styles.ToolName.Render(tool.Name),
				s.styles.ToolDesc.Render(tool.Description))
		}
	}
	if total == 0 {
		fmt.Fprintln(s.out, "No tools found on any connected servers.")
	}
}

func (s *Session) printServers() {
	fmt.Fprintln(s.out, s.styles.Header.Render("\n--- Connected Servers ---"))
	for _, p := range s.registry.Providers() {
		fmt.Fprintf(s.out, "- %s (%s), %d tools\n",
			s.styles.Provider.Render(p.Name), p.Kind, len(p.Tools()))
	}
}

// invokeTool parses "name {json}" and dispatches. A blob that does not
// parse as structured data is an input error; the dispatcher is not
// invoked.
func (s *Session) invokeTool(ctx context.Context, rest string) {
	name, blob := splitCommand(rest)
	if name == "" {
		fmt.Fprintln(s.out, s.styles.Error.Render(
			"Tool name is required. Usage: tool <name> <json_args>"))
		return
	}

	args := map[string]any{}
	if blob != "" {
		if err := json.Unmarshal([]byte(blob), &args); err != nil {
			fmt.Fprintln(s.out, s.styles.Error.Render(
				fmt.Sprintf("Invalid JSON arguments: %v", err)))
			return
		}
	}

	fmt.Fprintf(s.out, "Executing tool %s...\n", s.styles.ToolName.Render(name))
	result, err := s.dispatcher.Dispatch(ctx, name, args)
	if err != nil {
		fmt.Fprintln(s.out, s.styles.Error.Render(fmt.Sprintf("Error: %v", err)))
		return
	}
	fmt.Fprintf(s.out, "\nResult:\n%s\n", s.styles.Result.Render(result))
}

func (s *Session) ask(ctx context.Context, query string) {
	if s.asker == nil {
		fmt.Fprintln(s.out, s.styles.Error.Render(
			"No inference engine configured; 'ask' is unavailable."))
		return
	}
	if query == "" {
		fmt.Fprintln(s.out, s.styles.Error.Render("Usage: ask <query>"))
		return
	}
	answer, err := s.asker.Ask(ctx, query)
	if err != nil {
		fmt.Fprintln(s.out, s.styles.Error.Render(fmt.Sprintf("Error: %v", err)))
		return
	}
	fmt.Fprintf(s.out, "\n%s\n", answer)
}
