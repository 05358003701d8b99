package chat

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	reasoningRe = regexp.MustCompile(`(?s)<think>(.*?)</think>`)
	toolCallRe  = regexp.MustCompile(`(?s)<tool_call>\s*(.*?)\s*</tool_call>`)

	// Fallbacks for blocks that carry a recognizable call but are not
	// valid JSON as a whole.
	nameSalvageRe = regexp.MustCompile(`"name"\s*:\s*"([^"]+)"`)
	argsStartRe   = regexp.MustCompile(`"arguments"\s*:`)
)

// callEnvelope is the wire shape of a single tool call in both the Hermes
// and bare-JSON formats.
type callEnvelope struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Parse inspects the raw generated text and extracts tool invocations
// according to the declared output format. It is a pure function: the same
// (text, format) pair always yields the same message, and no side effects
// are performed.
//
// The returned message has either a non-empty ToolCalls list and empty
// Content, or the reverse. Both empty is valid (the model said nothing).
// Free text surrounding an extracted call is discarded; a response is
// either an answer or a batch of invocations, never both. Argument
// payloads are passed through raw even when they are not valid JSON;
// schema validation is the executor's or provider's job.
func Parse(text string, format Format, extractCalls bool) Message {
	msg := Message{Role: RoleAssistant}

	rest := text
	if m := reasoningRe.FindStringSubmatch(rest); m != nil {
		msg.Reasoning = strings.TrimSpace(m[1])
		rest = reasoningRe.ReplaceAllString(rest, "")
	}

	if !extractCalls || format == FormatContentOnly {
		msg.Content = strings.TrimSpace(rest)
		return msg
	}

	switch format {
	case FormatJSON:
		trimmed := strings.TrimSpace(rest)
		if call, ok := parseCallBlock(trimmed, 0); ok {
			msg.ToolCalls = []ToolCall{call}
			return msg
		}
		msg.Content = trimmed
	default: // FormatHermes
		for _, m := range toolCallRe.FindAllStringSubmatch(rest, -1) {
			call, ok := parseCallBlock(m[1], len(msg.ToolCalls))
			if !ok {
				// Not recognizable as a call; left in the content below.
				continue
			}
			msg.ToolCalls = append(msg.ToolCalls, call)
		}
		if len(msg.ToolCalls) == 0 {
			msg.Content = strings.TrimSpace(rest)
		}
	}

	return msg
}

// parseCallBlock turns one candidate block into a ToolCall. Call IDs are
// derived from the ordinal so parsing stays deterministic.
func parseCallBlock(block string, ordinal int) (ToolCall, bool) {
	var env callEnvelope
	if err := json.Unmarshal([]byte(block), &env); err == nil && env.Name != "" {
		args := strings.TrimSpace(string(env.Arguments))
		if args == "" || args == "null" {
			args = "{}"
		}
		return ToolCall{ID: callID(ordinal), Name: env.Name, Arguments: args}, true
	}

	// The envelope is broken JSON but may still name a tool. Salvage the
	// name and hand the raw arguments downstream; the consumer reports the
	// decode failure, not the parser.
	name := ""
	if m := nameSalvageRe.FindStringSubmatch(block); m != nil {
		name = m[1]
	}
	if name == "" {
		return ToolCall{}, false
	}
	args := "{}"
	if loc := argsStartRe.FindStringIndex(block); loc != nil {
		args = trimEnvelopeBraces(strings.TrimSpace(block[loc[1]:]))
		if args == "" {
			args = "{}"
		}
	}
	return ToolCall{ID: callID(ordinal), Name: name, Arguments: args}, true
}

// trimEnvelopeBraces strips trailing braces that close the envelope rather
// than the argument object, so a payload that arrived intact stays intact.
func trimEnvelopeBraces(s string) string {
	opens := strings.Count(s, "{")
	closes := strings.Count(s, "}")
	for closes > opens && strings.HasSuffix(s, "}") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "}"))
		closes--
	}
	return s
}

func callID(ordinal int) string {
	return fmt.Sprintf("call_%d", ordinal)
}
