package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/chat"
	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/dispatch"
	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/engine"
	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/provider"
)

// scriptedEngine answers every generation with a fixed response, one
// character per token.
type scriptedEngine struct {
	response string
	runs     int
	cursor   int
}

func (s *scriptedEngine) Tokenize(ctx context.Context, text string) ([]engine.Token, error) {
	s.cursor = 0
	s.runs++
	return make([]engine.Token, 8), nil
}

func (s *scriptedEngine) Decode(ctx context.Context, batch []engine.Token) error { return nil }

func (s *scriptedEngine) Sample(ctx context.Context) (engine.Token, error) {
	if s.cursor >= len(s.response) {
		return -1, nil
	}
	t := engine.Token(s.response[s.cursor])
	s.cursor++
	return t, nil
}

func (s *scriptedEngine) IsEOG(t engine.Token) bool { return t < 0 }

func (s *scriptedEngine) TokenToText(ctx context.Context, t engine.Token) (string, error) {
	return string(rune(t)), nil
}

type fakeTransport struct {
	tools   []chat.ToolDef
	result  string
	callErr error
	called  []string
}

func (f *fakeTransport) Initialize(ctx context.Context, name, version string) error { return nil }

func (f *fakeTransport) ListActions(ctx context.Context) ([]chat.ToolDef, error) {
	return f.tools, nil
}

func (f *fakeTransport) CallAction(ctx context.Context, name string, args map[string]any) (string, error) {
	f.called = append(f.called, name)
	return f.result, f.callErr
}

func (f *fakeTransport) Close() error { return nil }

func newTestAgent(t *testing.T, eng engine.Engine, transport *fakeTransport) *Agent {
	t.Helper()
	connector := provider.NewConnectorWithDial(nil, func(provider.ServerConfig) provider.Transport {
		return transport
	})
	p, err := connector.Connect(context.Background(),
		provider.ServerConfig{Name: "agent", Host: "localhost", Port: 1, Type: "llama-agent"})
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	registry := provider.NewRegistry(nil)
	registry.Register(p)

	a, err := New(Config{
		Engine:     eng,
		Registry:   registry,
		Dispatcher: dispatch.NewDispatcher(registry, 0, nil),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a
}

func calculatorTransport() *fakeTransport {
	return &fakeTransport{
		tools:  []chat.ToolDef{{Name: "calculator", Description: "math"}},
		result: "4",
	}
}

func TestAgentAskPlainAnswer(t *testing.T) {
	eng := &scriptedEngine{response: "Just an answer."}
	a := newTestAgent(t, eng, calculatorTransport())

	answer, err := a.Ask(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if answer != "Just an answer." {
		t.Errorf("answer = %q", answer)
	}
	// system + user + assistant
	if got := len(a.History()); got != 3 {
		t.Errorf("history length = %d, want 3", got)
	}
}

func TestAgentAskDispatchesToolCall(t *testing.T) {
	eng := &scriptedEngine{
		response: `<tool_call>{"name": "calculator", "arguments": {"expression": "2 + 2"}}</tool_call>`,
	}
	transport := calculatorTransport()
	a := newTestAgent(t, eng, transport)

	answer, err := a.Ask(context.Background(), "what is 2+2?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if answer != "[calculator] 4" {
		t.Errorf("answer = %q", answer)
	}
	if len(transport.called) != 1 || transport.called[0] != "calculator" {
		t.Errorf("called = %v", transport.called)
	}
	// system + user + assistant + tool result
	history := a.History()
	if len(history) != 4 {
		t.Fatalf("history length = %d, want 4", len(history))
	}
	if history[3].Role != chat.RoleTool || history[3].Content != "4" {
		t.Errorf("tool result message = %+v", history[3])
	}
}

func TestAgentAskInvalidArgumentsIsolated(t *testing.T) {
	eng := &scriptedEngine{
		response: `<tool_call>{"name": "calculator", "arguments": {"expression": }</tool_call>`,
	}
	transport := calculatorTransport()
	a := newTestAgent(t, eng, transport)

	answer, err := a.Ask(context.Background(), "broken")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if !strings.Contains(answer, "invalid arguments") {
		t.Errorf("answer = %q, want inline argument error", answer)
	}
	if len(transport.called) != 0 {
		t.Errorf("transport called %v despite invalid arguments", transport.called)
	}
}

func TestAgentAskDispatchErrorDoesNotAbort(t *testing.T) {
	eng := &scriptedEngine{
		response: `<tool_call>{"name": "missing", "arguments": {}}</tool_call>` +
			`<tool_call>{"name": "calculator", "arguments": {}}</tool_call>`,
	}
	transport := calculatorTransport()
	a := newTestAgent(t, eng, transport)

	answer, err := a.Ask(context.Background(), "two calls")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if !strings.Contains(answer, "[missing] error:") {
		t.Errorf("answer = %q, want inline error for missing action", answer)
	}
	if !strings.Contains(answer, "[calculator] 4") {
		t.Errorf("answer = %q, want the sibling call to still run", answer)
	}
}

func TestAgentCallIDsUniqueAcrossTurns(t *testing.T) {
	eng := &scriptedEngine{
		response: `<tool_call>{"name": "calculator", "arguments": {}}</tool_call>`,
	}
	a := newTestAgent(t, eng, calculatorTransport())

	for i := 0; i < 2; i++ {
		if _, err := a.Ask(context.Background(), "again"); err != nil {
			t.Fatalf("Ask() error = %v", err)
		}
	}

	seen := map[string]bool{}
	for _, msg := range a.History() {
		if msg.Role != chat.RoleTool {
			continue
		}
		if msg.ToolCallID == "" {
			t.Fatal("tool result without a correlation ID")
		}
		if seen[msg.ToolCallID] {
			t.Fatalf("correlation ID %q repeated across turns", msg.ToolCallID)
		}
		seen[msg.ToolCallID] = true
	}
	if len(seen) != 2 {
		t.Fatalf("distinct correlation IDs = %d, want 2", len(seen))
	}
}

func TestAgentGenerationErrorIsFatal(t *testing.T) {
	transport := calculatorTransport()
	a := newTestAgent(t, &failingEngine{}, transport)

	if _, err := a.Ask(context.Background(), "hi"); err == nil {
		t.Fatal("Ask() error = nil, want generation failure")
	}
}

type failingEngine struct{}

func (f *failingEngine) Tokenize(ctx context.Context, text string) ([]engine.Token, error) {
	return make([]engine.Token, 4), nil
}

func (f *failingEngine) Decode(ctx context.Context, batch []engine.Token) error {
	return errors.New("kv cache full")
}

func (f *failingEngine) Sample(ctx context.Context) (engine.Token, error) { return 0, nil }

func (f *failingEngine) IsEOG(t engine.Token) bool { return false }

func (f *failingEngine) TokenToText(ctx context.Context, t engine.Token) (string, error) {
	return "", nil
}

func TestAgentClearHistory(t *testing.T) {
	eng := &scriptedEngine{response: "ok"}
	a := newTestAgent(t, eng, calculatorTransport())

	if _, err := a.Ask(context.Background(), "hello"); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	a.ClearHistory()
	history := a.History()
	if len(history) != 1 || history[0].Role != chat.RoleSystem {
		t.Errorf("history after clear = %+v", history)
	}
}
