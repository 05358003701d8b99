package chat

import "strings"

// Format identifies the output grammar the model was prompted to use.
// The formatter that built the prompt decides the format; the parser must
// be handed the same value or tool calls are silently lost.
type Format string

const (
	// FormatContentOnly means the model was not offered tools; the whole
	// response is plain content.
	FormatContentOnly Format = "content_only"

	// FormatHermes wraps each tool call in <tool_call>...</tool_call> tags
	// containing a {"name":..., "arguments":{...}} object.
	FormatHermes Format = "hermes"

	// FormatJSON means the whole response is expected to be a single bare
	// {"name":..., "arguments":{...}} object when the model calls a tool.
	FormatJSON Format = "json"
)

// ToolChoice controls whether the model is pushed toward calling tools.
type ToolChoice string

const (
	ToolChoiceAuto     ToolChoice = "auto"
	ToolChoiceNone     ToolChoice = "none"
	ToolChoiceRequired ToolChoice = "required"
)

// controlMarkers are chat-template tokens that small models tend to leak
// into tool arguments and free text.
var controlMarkers = []string{
	"<|im_start|>", "<|im_end|>",
	"<|assistant|>", "<|user|>",
	"assistant\n", "user\n",
}

// StripMarkers removes leaked chat-template control markers and trims
// surrounding whitespace.
func StripMarkers(s string) string {
	for _, marker := range controlMarkers {
		s = strings.ReplaceAll(s, marker, "")
	}
	return strings.TrimSpace(s)
}
