package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/chat"
	"go.uber.org/zap"
)

const (
	clientName    = "llama-mcp-client"
	clientVersion = "0.1.0"

	// handshakeTimeout bounds the whole connect+initialize+list sequence
	// for a single provider.
	handshakeTimeout = 5 * time.Second
)

// ErrNoProviders is returned when every configured provider failed its
// handshake. With nothing to orchestrate, startup is fatal.
var ErrNoProviders = errors.New("no providers could be connected")

// ServerConfig describes one configured capability provider.
type ServerConfig struct {
	Name string `mapstructure:"name" yaml:"name"`
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
	Type string `mapstructure:"type" yaml:"type"`
}

// Endpoint returns the streamable HTTP endpoint for the server.
func (s ServerConfig) Endpoint() string {
	return fmt.Sprintf("http://%s:%d/mcp", s.Host, s.Port)
}

// Provider is a connected capability source. Its tool list is fetched once
// during Connect and never refreshed; the connection lives until Close.
type Provider struct {
	Name string
	Kind string

	transport Transport
	tools     []chat.ToolDef
}

// Tools returns the provider's action descriptors. The slice is read-only.
func (p *Provider) Tools() []chat.ToolDef { return p.tools }

// Call forwards an action invocation over the provider's transport.
func (p *Provider) Call(ctx context.Context, name string, args map[string]any) (string, error) {
	return p.transport.CallAction(ctx, name, args)
}

// Close tears down the provider's transport.
func (p *Provider) Close() error { return p.transport.Close() }

// Connector establishes provider connections. The dial function is
// replaceable so tests can substitute fake transports.
type Connector struct {
	logger *zap.Logger
	dial   func(cfg ServerConfig) Transport
}

// NewConnector returns a connector that dials MCP streamable HTTP
// transports.
func NewConnector(logger *zap.Logger) *Connector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Connector{
		logger: logger,
		dial: func(cfg ServerConfig) Transport {
			return NewMCPTransport(cfg.Endpoint())
		},
	}
}

// NewConnectorWithDial returns a connector using a custom transport dialer.
func NewConnectorWithDial(logger *zap.Logger, dial func(cfg ServerConfig) Transport) *Connector {
	c := NewConnector(logger)
	c.dial = dial
	return c
}

// Connect opens the transport, performs the handshake, and fetches the
// action list, all under the handshake timeout. On any failure the
// transport is closed and the provider is discarded.
func (c *Connector) Connect(ctx context.Context, cfg ServerConfig) (*Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, handshakeTimeout)
	defer cancel()

	transport := c.dial(cfg)
	if err := transport.Initialize(ctx, clientName, clientVersion); err != nil {
		transport.Close()
		return nil, fmt.Errorf("initialize %s at %s:%d: %w", cfg.Name, cfg.Host, cfg.Port, err)
	}

	tools, err := transport.ListActions(ctx)
	if err != nil {
		transport.Close()
		return nil, fmt.Errorf("list actions on %s: %w", cfg.Name, err)
	}

	c.logger.Info("connected to provider",
		zap.String("name", cfg.Name),
		zap.String("type", cfg.Type),
		zap.Int("tools", len(tools)))

	return &Provider{
		Name:      cfg.Name,
		Kind:      cfg.Type,
		transport: transport,
		tools:     tools,
	}, nil
}

// ConnectAll attempts every configured provider. Failures are logged and
// skipped; they never abort the other connections. If none succeed the
// result is ErrNoProviders.
func (c *Connector) ConnectAll(ctx context.Context, cfgs []ServerConfig) ([]*Provider, error) {
	providers := make([]*Provider, 0, len(cfgs))
	for _, cfg := range cfgs {
		p, err := c.Connect(ctx, cfg)
		if err != nil {
			c.logger.Warn("provider connection failed",
				zap.String("name", cfg.Name),
				zap.Error(err))
			continue
		}
		providers = append(providers, p)
	}
	if len(providers) == 0 {
		return nil, ErrNoProviders
	}
	return providers, nil
}
