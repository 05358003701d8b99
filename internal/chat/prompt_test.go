package chat

import (
	"strings"
	"testing"
)

func TestTemplateApply(t *testing.T) {
	tmpl := NewTemplate()
	msgs := []Message{
		SystemMessage("You are helpful."),
		UserMessage("What time is it?"),
	}
	tools := []ToolDef{{Name: "clock", Description: "Tell the time", Schema: `{"type": "object"}`}}

	prompt := tmpl.Apply(msgs, tools, ToolChoiceAuto)

	if prompt.Format != FormatHermes {
		t.Errorf("Format = %q, want %q", prompt.Format, FormatHermes)
	}
	for _, want := range []string{
		"<|im_start|>system\n",
		"<|im_start|>user\nWhat time is it?<|im_end|>\n",
		"- clock: Tell the time",
		"<tool_call>",
	} {
		if !strings.Contains(prompt.Text, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.HasSuffix(prompt.Text, "<|im_start|>assistant\n") {
		t.Errorf("prompt does not end with assistant turn opener")
	}
}

func TestTemplateApplyNoTools(t *testing.T) {
	prompt := NewTemplate().Apply([]Message{UserMessage("hi")}, nil, ToolChoiceAuto)
	if prompt.Format != FormatContentOnly {
		t.Errorf("Format = %q, want %q", prompt.Format, FormatContentOnly)
	}
	if strings.Contains(prompt.Text, "tools") {
		t.Errorf("tool instructions leaked into prompt without tools")
	}
}

func TestTemplateApplyToolChoiceNone(t *testing.T) {
	tools := []ToolDef{{Name: "clock", Description: "Tell the time"}}
	prompt := NewTemplate().Apply([]Message{UserMessage("hi")}, tools, ToolChoiceNone)
	if prompt.Format != FormatContentOnly {
		t.Errorf("Format = %q, want %q", prompt.Format, FormatContentOnly)
	}
}

func TestTemplateApplyToolResult(t *testing.T) {
	call := ToolCall{ID: "call_0", Name: "clock", Arguments: "{}"}
	msgs := []Message{
		SystemMessage("sys"),
		UserMessage("time?"),
		{Role: RoleAssistant, ToolCalls: []ToolCall{call}},
		ToolResultMessage(call, "12:00"),
	}
	tools := []ToolDef{{Name: "clock", Description: "Tell the time"}}

	prompt := NewTemplate().Apply(msgs, tools, ToolChoiceAuto)
	if !strings.Contains(prompt.Text, "<tool_response>") {
		t.Error("tool result not rendered as tool_response")
	}
	if !strings.Contains(prompt.Text, `"name": "clock"`) {
		t.Error("tool result missing tool name")
	}
	if strings.Contains(prompt.Text, "<|im_start|>tool\n") {
		t.Error("tool role leaked into ChatML; expected user turn")
	}
}
