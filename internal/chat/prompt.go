package chat

import (
	"fmt"
	"strings"
)

// Prompt is the result of applying the chat template: the formatted text to
// feed the engine plus the output format the parser must use on the reply.
type Prompt struct {
	Text   string
	Format Format
}

// Template renders a conversation into a ChatML prompt. The zero value is
// usable; ToolFormat selects the grammar the model is instructed to emit
// tool calls in (FormatHermes by default).
type Template struct {
	ToolFormat Format
}

// NewTemplate returns a template that asks for Hermes-style tool calls.
func NewTemplate() *Template {
	return &Template{ToolFormat: FormatHermes}
}

// Apply formats the conversation with the given tool definitions and tool
// choice policy. The returned Format must be threaded unchanged into Parse.
func (t *Template) Apply(msgs []Message, tools []ToolDef, choice ToolChoice) Prompt {
	format := FormatContentOnly
	if len(tools) > 0 && choice != ToolChoiceNone {
		format = t.ToolFormat
		if format == "" {
			format = FormatHermes
		}
	}

	var sb strings.Builder
	for i, msg := range msgs {
		content := msg.Content
		if i == 0 && msg.Role == RoleSystem && format != FormatContentOnly {
			content = content + "\n\n" + buildToolsBlock(tools, format, choice)
		}
		role := string(msg.Role)
		if msg.Role == RoleTool {
			// ChatML has no dedicated tool role; results go back as a
			// tagged tool response inside a user turn.
			role = string(RoleUser)
			content = fmt.Sprintf("<tool_response>\n{\"name\": %q, \"content\": %q}\n</tool_response>", msg.ToolName, msg.Content)
		}
		sb.WriteString("<|im_start|>")
		sb.WriteString(role)
		sb.WriteString("\n")
		sb.WriteString(content)
		sb.WriteString("<|im_end|>\n")
	}
	sb.WriteString("<|im_start|>assistant\n")

	return Prompt{Text: sb.String(), Format: format}
}

// buildToolsBlock formats the tool definitions and the calling convention
// for the selected format.
func buildToolsBlock(tools []ToolDef, format Format, choice ToolChoice) string {
	var sb strings.Builder
	sb.WriteString("You have access to the following tools:\n")
	for _, tool := range tools {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", tool.Name, tool.Description))
		if tool.Schema != "" {
			sb.WriteString(fmt.Sprintf("  Arguments schema: %s\n", compactWhitespace(tool.Schema)))
		}
	}
	sb.WriteString("\n")

	switch format {
	case FormatJSON:
		sb.WriteString(`To call a tool, respond with ONLY a JSON object: {"name": "tool_name", "arguments": {...}}`)
	default:
		sb.WriteString("To call a tool, respond with:\n<tool_call>\n{\"name\": \"tool_name\", \"arguments\": {...}}\n</tool_call>")
	}
	if choice == ToolChoiceRequired {
		sb.WriteString("\nYou MUST call at least one tool before answering.")
	}
	return sb.String()
}

func compactWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
