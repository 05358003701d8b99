package provider

import (
	"sync"

	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/chat"
	"go.uber.org/zap"
)

// Registry maps action names to the providers that own them. It is built
// once at startup and read-only during the interactive session. When two
// providers expose the same action name, the later registration wins and a
// warning is logged; shadowing is a documented decision, not an accident.
type Registry struct {
	mu        sync.RWMutex
	providers []*Provider
	byAction  map[string]*Provider
	logger    *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		byAction: make(map[string]*Provider),
		logger:   logger,
	}
}

// Register inserts the provider's action mappings, overwriting earlier
// providers on name collisions (last-write-wins).
func (r *Registry) Register(p *Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, tool := range p.Tools() {
		if prev, exists := r.byAction[tool.Name]; exists {
			r.logger.Warn("action shadowed",
				zap.String("action", tool.Name),
				zap.String("previous_provider", prev.Name),
				zap.String("new_provider", p.Name))
		}
		r.byAction[tool.Name] = p
	}
	r.providers = append(r.providers, p)
}

// Resolve returns the provider that owns the named action.
func (r *Registry) Resolve(name string) (*Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byAction[name]
	return p, ok
}

// Providers returns the registered providers in registration order.
func (r *Registry) Providers() []*Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Provider, len(r.providers))
	copy(out, r.providers)
	return out
}

// Tools returns the effective aggregated action list: every resolvable
// action exactly once, owned by the provider Resolve would pick.
func (r *Registry) Tools() []chat.ToolDef {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool, len(r.byAction))
	var defs []chat.ToolDef
	for _, p := range r.providers {
		for _, tool := range p.Tools() {
			if r.byAction[tool.Name] != p || seen[tool.Name] {
				continue
			}
			seen[tool.Name] = true
			defs = append(defs, tool)
		}
	}
	return defs
}

// Close tears down every registered provider connection.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.providers {
		if err := p.Close(); err != nil {
			r.logger.Warn("provider close failed",
				zap.String("name", p.Name),
				zap.Error(err))
		}
	}
}
