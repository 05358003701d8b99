// Package agent wires the generation loop, response parser, and dispatcher
// into a single ask pipeline over a running conversation.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/chat"
	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/dispatch"
	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/engine"
	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/provider"
	"go.uber.org/zap"
)

const defaultSystemPrompt = "You are a helpful assistant that can perform calculations " +
	"and execute basic shell commands through the connected tools."

// Config holds agent configuration.
type Config struct {
	Engine       engine.Engine
	Registry     *provider.Registry
	Dispatcher   *dispatch.Dispatcher
	SystemPrompt string
	Predict      int // max new tokens per generation
	MaxTurns     int // retained non-system messages, 0 = unbounded
	OnPiece      func(string)
	Logger       *zap.Logger
}

// Agent owns the conversation and runs one orchestration round per query:
// format prompt, generate, parse, dispatch any tool invocations in order.
type Agent struct {
	template     *chat.Template
	loop         *engine.Loop
	registry     *provider.Registry
	dispatcher   *dispatch.Dispatcher
	conversation *chat.History
	predict      int
	logger       *zap.Logger
}

// New creates an agent with all components initialized.
func New(cfg Config) (*Agent, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("agent: engine is required")
	}
	if cfg.Registry == nil || cfg.Dispatcher == nil {
		return nil, fmt.Errorf("agent: registry and dispatcher are required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Predict <= 0 {
		cfg.Predict = 256
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = defaultSystemPrompt
	}

	loop := engine.NewLoop(cfg.Engine, cfg.Logger)
	loop.OnPiece = cfg.OnPiece

	return &Agent{
		template:     chat.NewTemplate(),
		loop:         loop,
		registry:     cfg.Registry,
		dispatcher:   cfg.Dispatcher,
		conversation: chat.NewHistory(chat.SystemMessage(cfg.SystemPrompt), cfg.MaxTurns),
		predict:      cfg.Predict,
		logger:       cfg.Logger,
	}, nil
}

// Ask appends the query to the conversation, generates a response, and
// executes any tool invocations the model produced, one at a time in parse
// order. A failure in one invocation is reported inline and does not cancel
// the remaining ones.
func (a *Agent) Ask(ctx context.Context, query string) (string, error) {
	a.conversation.Append(chat.UserMessage(query))

	prompt := a.template.Apply(a.conversation.Messages(), a.registry.Tools(), chat.ToolChoiceAuto)
	result, err := a.loop.RunPredict(ctx, prompt.Text, a.predict)
	if err != nil {
		return "", err
	}

	parsed := chat.Parse(result.Text, prompt.Format, true)
	// Parsed call IDs are ordinal within one response; the history needs
	// correlation IDs that stay unique across turns.
	for i, call := range parsed.ToolCalls {
		parsed.ToolCalls[i] = chat.NewToolCall(call.Name, call.Arguments)
	}
	a.conversation.Append(parsed)

	if len(parsed.ToolCalls) == 0 {
		return parsed.Content, nil
	}

	var sb strings.Builder
	for _, call := range parsed.ToolCalls {
		output := a.execute(ctx, call)
		a.conversation.Append(chat.ToolResultMessage(call, output))
		sb.WriteString(fmt.Sprintf("[%s] %s\n", call.Name, output))
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// execute runs one invocation through the dispatcher. Argument decode and
// dispatch failures are returned as the tool output so siblings still run.
func (a *Agent) execute(ctx context.Context, call chat.ToolCall) string {
	args := map[string]any{}
	if payload := strings.TrimSpace(call.Arguments); payload != "" {
		if err := json.Unmarshal([]byte(payload), &args); err != nil {
			a.logger.Warn("invalid tool arguments",
				zap.String("action", call.Name),
				zap.Error(err))
			return fmt.Sprintf("error: invalid arguments: %v", err)
		}
	}

	output, err := a.dispatcher.Dispatch(ctx, call.Name, args)
	if err != nil {
		a.logger.Warn("dispatch failed",
			zap.String("action", call.Name),
			zap.Error(err))
		return fmt.Sprintf("error: %v", err)
	}
	return output
}

// History returns the conversation so far.
func (a *Agent) History() []chat.Message {
	return a.conversation.Messages()
}

// ClearHistory drops everything but the system prompt.
func (a *Agent) ClearHistory() {
	a.conversation.Clear()
}
