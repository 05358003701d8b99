// Package llm provides a llama-server backed implementation of the
// inference engine boundary.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/engine"
	"go.uber.org/zap"
)

// Client talks to a llama.cpp llama-server over HTTP and satisfies
// engine.Engine at token granularity. Decode sends the accumulated token
// context with cache_prompt enabled so the server-side KV cache stays warm
// and each round trip only evaluates the new batch.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger

	// decode state for the current generation
	context []engine.Token
	sampled engine.Token
	piece   string
	eog     bool
	decoded bool
}

// Config holds client configuration.
type Config struct {
	BaseURL string        // e.g. "http://localhost:8080"
	Timeout time.Duration // per-request timeout
}

// DefaultConfig returns sensible defaults for a local llama-server.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8080",
		Timeout: 120 * time.Second,
	}
}

// NewClient creates a new llama-server client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		logger:     logger,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type tokenizeRequest struct {
	Content    string `json:"content"`
	AddSpecial bool   `json:"add_special"`
}

type tokenizeResponse struct {
	Tokens []engine.Token `json:"tokens"`
}

type detokenizeRequest struct {
	Tokens []engine.Token `json:"tokens"`
}

type detokenizeResponse struct {
	Content string `json:"content"`
}

type completionRequest struct {
	Prompt       []engine.Token `json:"prompt"`
	NPredict     int            `json:"n_predict"`
	CachePrompt  bool           `json:"cache_prompt"`
	ReturnTokens bool           `json:"return_tokens"`
	Temperature  float64        `json:"temperature"`
}

type completionResponse struct {
	Content  string         `json:"content"`
	Tokens   []engine.Token `json:"tokens"`
	Stop     bool           `json:"stop"`
	StopType string         `json:"stop_type"`
}

// Tokenize converts text to tokens via /tokenize. It also resets the decode
// state: a new prompt starts a new generation.
func (c *Client) Tokenize(ctx context.Context, text string) ([]engine.Token, error) {
	var resp tokenizeResponse
	if err := c.post(ctx, "/tokenize", tokenizeRequest{Content: text, AddSpecial: true}, &resp); err != nil {
		return nil, err
	}
	c.context = nil
	c.decoded = false
	return resp.Tokens, nil
}

// Decode appends the batch to the accumulated context and asks the server
// for exactly one next token.
func (c *Client) Decode(ctx context.Context, batch []engine.Token) error {
	c.context = append(c.context, batch...)

	req := completionRequest{
		Prompt:       c.context,
		NPredict:     1,
		CachePrompt:  true,
		ReturnTokens: true,
	}
	var resp completionResponse
	if err := c.post(ctx, "/completion", req, &resp); err != nil {
		return err
	}

	c.piece = resp.Content
	c.eog = resp.Stop && resp.StopType == "eos"
	if len(resp.Tokens) > 0 {
		c.sampled = resp.Tokens[len(resp.Tokens)-1]
	} else {
		c.sampled = -1
	}
	c.decoded = true
	return nil
}

// Sample returns the token produced by the most recent Decode.
func (c *Client) Sample(ctx context.Context) (engine.Token, error) {
	if !c.decoded {
		return 0, fmt.Errorf("sample called before decode")
	}
	return c.sampled, nil
}

// IsEOG reports whether t is the end-of-generation marker from the most
// recent Decode.
func (c *Client) IsEOG(t engine.Token) bool {
	return c.decoded && t == c.sampled && (c.eog || t < 0)
}

// TokenToText converts a token to its text piece. The most recently sampled
// token is answered from the cached completion response; anything else goes
// through /detokenize.
func (c *Client) TokenToText(ctx context.Context, t engine.Token) (string, error) {
	if c.decoded && t == c.sampled {
		return c.piece, nil
	}
	var resp detokenizeResponse
	if err := c.post(ctx, "/detokenize", detokenizeRequest{Tokens: []engine.Token{t}}, &resp); err != nil {
		return "", err
	}
	return resp.Content, nil
}

// Ping checks whether the server is reachable and loaded.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("llama-server not reachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("llama-server health returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("llama-server %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	return nil
}
