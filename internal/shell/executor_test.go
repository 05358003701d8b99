package shell

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/chat"
)

func call(payload string) chat.ToolCall {
	return chat.ToolCall{ID: "call_0", Name: ToolName, Arguments: payload}
}

func TestExecutorRunsCommand(t *testing.T) {
	e := NewExecutor(AlwaysExecute, nil)
	out, err := e.Execute(context.Background(), call(`{"command": "echo hi"}`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "hi") {
		t.Errorf("output = %q, want it to contain %q", out, "hi")
	}
}

func TestExecutorArgumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		call    chat.ToolCall
		wantSub string
	}{
		{
			name:    "malformed JSON payload",
			call:    call(`{"command": "echo`),
			wantSub: "invalid arguments",
		},
		{
			name:    "missing command parameter",
			call:    call(`{"other": "value"}`),
			wantSub: "missing required parameter",
		},
		{
			name:    "marker-only command",
			call:    call(`{"command": "<|im_end|>"}`),
			wantSub: "missing required parameter",
		},
		{
			name:    "unknown tool name",
			call:    chat.ToolCall{Name: "not_a_tool", Arguments: "{}"},
			wantSub: "unknown local tool",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExecutor(AlwaysExecute, nil)
			ran := false
			e.runner = func(ctx context.Context, command string) (string, error) {
				ran = true
				return "", nil
			}

			_, err := e.Execute(context.Background(), tt.call)
			var argErr *ArgumentError
			if !errors.As(err, &argErr) {
				t.Fatalf("error = %v, want *ArgumentError", err)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantSub)
			}
			if ran {
				t.Error("runner invoked despite argument error")
			}
		})
	}
}

func TestExecutorConfirmation(t *testing.T) {
	tests := []struct {
		name        string
		answer      string
		wantRan     bool
		wantDecline bool
	}{
		{"lowercase yes proceeds", "y\n", true, false},
		{"uppercase yes proceeds", "Y\n", true, false},
		{"no declines", "n\n", false, true},
		{"empty answer declines", "\n", false, true},
		{"yes word declines", "yes\n", false, true},
		{"end of input declines", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExecutor(AskOperator, nil)
			var prompt strings.Builder
			e.SetIO(strings.NewReader(tt.answer), &prompt)

			ran := false
			e.runner = func(ctx context.Context, command string) (string, error) {
				ran = true
				return "done", nil
			}

			out, err := e.Execute(context.Background(), call(`{"command": "echo hi"}`))
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if ran != tt.wantRan {
				t.Errorf("ran = %v, want %v", ran, tt.wantRan)
			}
			if tt.wantDecline && out != ResultDeclined {
				t.Errorf("output = %q, want %q", out, ResultDeclined)
			}
			if !strings.Contains(prompt.String(), `"echo hi"`) {
				t.Errorf("confirmation prompt %q does not show the command", prompt.String())
			}
		})
	}
}

func TestRunCapturesCombinedOutput(t *testing.T) {
	out, err := Run(context.Background(), "echo out; echo err 1>&2")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out, "out") || !strings.Contains(out, "err") {
		t.Errorf("output = %q, want both streams", out)
	}
}

func TestRunNonZeroExitIsNotAnError(t *testing.T) {
	out, err := Run(context.Background(), "echo partial; exit 3")
	if err != nil {
		t.Fatalf("Run() error = %v, want nil on non-zero exit", err)
	}
	if !strings.Contains(out, "partial") {
		t.Errorf("output = %q, want output before the failure", out)
	}
}
