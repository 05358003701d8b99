package chat

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestParseProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	formats := gen.OneConstOf(FormatContentOnly, FormatHermes, FormatJSON)

	properties.Property("parsing is deterministic", prop.ForAll(
		func(text string, format Format) bool {
			first := Parse(text, format, true)
			second := Parse(text, format, true)
			return reflect.DeepEqual(first, second)
		},
		gen.AnyString(),
		formats,
	))

	properties.Property("a message never has both calls and content", prop.ForAll(
		func(prefix, name, expr, suffix string) bool {
			text := prefix +
				`<tool_call>{"name": "` + name + `", "arguments": {"expression": "` + expr + `"}}</tool_call>` +
				suffix
			msg := Parse(text, FormatHermes, true)
			if len(msg.ToolCalls) == 0 {
				return true
			}
			return msg.Content == ""
		},
		gen.AlphaString(),
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
		gen.NumString(),
		gen.AlphaString(),
	))

	properties.Property("content-only never extracts calls", prop.ForAll(
		func(text string) bool {
			return len(Parse(text, FormatContentOnly, true).ToolCalls) == 0
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
