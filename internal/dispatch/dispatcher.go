// Package dispatch routes action invocations to the owning provider.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/provider"
	"go.uber.org/zap"
)

// NotFoundError means the action name is not offered by any connected
// provider. No provider is contacted in this case.
type NotFoundError struct {
	Action string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("action %q not found on any connected provider", e.Action)
}

// ExecutionError wraps a transport-level failure during a resolved call.
// It is reported and the session continues; it never unwinds the loop.
type ExecutionError struct {
	Action   string
	Provider string
	Err      error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("action %q failed on provider %q: %v", e.Action, e.Provider, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Dispatcher resolves action names through the registry and forwards calls.
type Dispatcher struct {
	registry *provider.Registry
	timeout  time.Duration
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher. A zero timeout means calls block
// until the provider answers, matching the interactive tool's original
// behavior; set a timeout when talking to untrusted or flaky providers.
func NewDispatcher(registry *provider.Registry, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{registry: registry, timeout: timeout, logger: logger}
}

// Dispatch resolves the action and forwards the call, returning the
// provider's result unmodified.
func (d *Dispatcher) Dispatch(ctx context.Context, action string, args map[string]any) (string, error) {
	p, ok := d.registry.Resolve(action)
	if !ok {
		return "", &NotFoundError{Action: action}
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	d.logger.Info("dispatching action",
		zap.String("action", action),
		zap.String("provider", p.Name))

	result, err := p.Call(ctx, action, args)
	if err != nil {
		return "", &ExecutionError{Action: action, Provider: p.Name, Err: err}
	}
	return result, nil
}
