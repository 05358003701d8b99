// Package shell implements the single locally-known tool: shell_command.
package shell

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/chat"
	"go.uber.org/zap"
)

// ToolName is the name of the local shell tool.
const ToolName = "shell_command"

// ResultDeclined is returned when the operator answers anything but an
// explicit affirmative at the confirmation prompt. Declining is not an
// error; execution is simply skipped.
const ResultDeclined = "declined"

// ConfirmPolicy controls whether execution blocks on operator approval.
type ConfirmPolicy int

const (
	AlwaysExecute ConfirmPolicy = iota
	AskOperator
)

// ArgumentError reports an invocation payload that failed schema decode.
// It aborts that invocation only; sibling invocations are still attempted.
type ArgumentError struct {
	Tool   string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, e.Reason)
}

// args is the accepted argument schema: a single command string.
type args struct {
	Command string `json:"command"`
}

// Definition returns the tool descriptor offered to the model.
func Definition() chat.ToolDef {
	return chat.ToolDef{
		Name:        ToolName,
		Description: "Execute a shell command and return the output",
		Schema: `{
			"type": "object",
			"properties": {
				"command": {
					"type": "string",
					"description": "The shell command to execute"
				}
			},
			"required": ["command"]
		}`,
	}
}

// Executor runs shell_command invocations.
type Executor struct {
	policy ConfirmPolicy
	prompt *bufio.Reader
	out    io.Writer
	logger *zap.Logger
	runner func(ctx context.Context, command string) (string, error)
}

// NewExecutor creates an executor with the given confirmation policy.
// Confirmation answers are read from stdin and the prompt is written to
// stdout unless overridden with SetIO.
func NewExecutor(policy ConfirmPolicy, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		policy: policy,
		prompt: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		logger: logger,
		runner: Run,
	}
}

// SetIO overrides the confirmation prompt streams. Used by tests and by
// callers that own the terminal.
func (e *Executor) SetIO(in io.Reader, out io.Writer) {
	e.prompt = bufio.NewReader(in)
	e.out = out
}

// Execute decodes the invocation arguments, optionally asks the operator
// for confirmation, and runs the command. Combined output is returned
// verbatim; a non-zero exit status is not a failure, only the inability to
// start the process is.
func (e *Executor) Execute(ctx context.Context, call chat.ToolCall) (string, error) {
	if call.Name != ToolName {
		return "", &ArgumentError{Tool: call.Name, Reason: "unknown local tool"}
	}

	command, err := decodeCommand(call.Arguments)
	if err != nil {
		return "", err
	}

	if e.policy == AskOperator {
		ok, err := e.confirm(command)
		if err != nil {
			return "", err
		}
		if !ok {
			e.logger.Info("command declined by operator", zap.String("command", command))
			return ResultDeclined, nil
		}
	}

	e.logger.Info("executing command", zap.String("command", command))
	return e.runner(ctx, command)
}

func decodeCommand(payload string) (string, error) {
	var a args
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return "", &ArgumentError{Tool: ToolName, Reason: err.Error()}
	}
	command := chat.StripMarkers(a.Command)
	if command == "" {
		return "", &ArgumentError{Tool: ToolName, Reason: "missing required parameter: command"}
	}
	return command, nil
}

// confirm blocks on a synchronous yes/no prompt. Only "y" or "Y" proceed.
func (e *Executor) confirm(command string) (bool, error) {
	fmt.Fprintf(e.out, "Execute %q? (y/N): ", command)
	line, err := e.prompt.ReadString('\n')
	if err != nil && line == "" {
		return false, nil // EOF counts as declined
	}
	answer := strings.TrimSpace(line)
	return answer == "y" || answer == "Y", nil
}

// Run executes a command through the system shell and captures combined
// standard output and error, untruncated.
func Run(ctx context.Context, command string) (string, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The command ran and failed; its output is still the result.
			return string(out), nil
		}
		return "", fmt.Errorf("failed to execute command: %w", err)
	}
	return string(out), nil
}
