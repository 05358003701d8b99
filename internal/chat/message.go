// Package chat defines the conversation model shared by the generation
// loop, the response parser, and the tool executors.
package chat

import "github.com/google/uuid"

// Role identifies the sender of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a parsed request to run a named action. Arguments holds the
// raw JSON payload exactly as the model produced it; it may be invalid JSON.
// Validation belongs to whoever executes the call, not to the parser.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Message is a single entry in a conversation. Messages are treated as
// immutable once appended; the conversation itself is an append-only slice
// owned by the caller.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	Reasoning  string     `json:"reasoning,omitempty"`
	ToolName   string     `json:"tool_name,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolDef describes a callable tool offered to the model. Schema is a JSON
// schema (object) describing the accepted arguments.
type ToolDef struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Schema      string `json:"parameters"`
}

// NewToolCall builds a tool call with a fresh call ID.
func NewToolCall(name, arguments string) ToolCall {
	return ToolCall{
		ID:        uuid.New().String(),
		Name:      name,
		Arguments: arguments,
	}
}

// SystemMessage returns a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage returns a user-role message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// ToolResultMessage wraps a tool execution result so it can be appended to
// the conversation.
func ToolResultMessage(call ToolCall, content string) Message {
	return Message{
		Role:       RoleTool,
		Content:    content,
		ToolName:   call.Name,
		ToolCallID: call.ID,
	}
}
