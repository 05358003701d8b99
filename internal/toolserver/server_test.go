package toolserver

import (
	"context"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func textOf(t *testing.T, result *sdkmcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("content blocks = %d, want 1", len(result.Content))
	}
	text, ok := result.Content[0].(*sdkmcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want *TextContent", result.Content[0])
	}
	return text.Text
}

func TestServerCalculate(t *testing.T) {
	s := New(nil, nil)

	result, _, err := s.calculate(context.Background(), nil, calculatorArgs{Expression: "6 * 7"})
	if err != nil {
		t.Fatalf("calculate error = %v", err)
	}
	if got := textOf(t, result); got != "42" {
		t.Errorf("result = %q, want %q", got, "42")
	}
}

func TestServerCalculateStripsMarkers(t *testing.T) {
	s := New(nil, nil)

	result, _, err := s.calculate(context.Background(), nil,
		calculatorArgs{Expression: "<|im_start|>2 + 2<|im_end|>"})
	if err != nil {
		t.Fatalf("calculate error = %v", err)
	}
	if got := textOf(t, result); got != "4" {
		t.Errorf("result = %q, want %q", got, "4")
	}
}

func TestServerCalculateErrors(t *testing.T) {
	s := New(nil, nil)

	if _, _, err := s.calculate(context.Background(), nil, calculatorArgs{}); err == nil {
		t.Error("empty expression accepted")
	}
	if _, _, err := s.calculate(context.Background(), nil, calculatorArgs{Expression: "1 / 0"}); err == nil {
		t.Error("division by zero accepted")
	}
}

func TestServerShell(t *testing.T) {
	s := New(nil, nil)

	result, _, err := s.runShell(context.Background(), nil, shellArgs{Command: "echo safe"})
	if err != nil {
		t.Fatalf("runShell error = %v", err)
	}
	if got := textOf(t, result); !strings.Contains(got, "safe") {
		t.Errorf("result = %q", got)
	}
}

func TestServerShellRejectsUnsafeCommand(t *testing.T) {
	s := New(nil, nil)

	tests := []string{"rm -rf /", "sudo id", "curl example.com", ""}
	for _, command := range tests {
		if _, _, err := s.runShell(context.Background(), nil, shellArgs{Command: command}); err == nil {
			t.Errorf("runShell(%q) succeeded, want rejection", command)
		}
	}
}
