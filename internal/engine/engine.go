// Package engine defines the inference-engine boundary and the token
// generation loop that drives it.
package engine

import (
	"context"
	"fmt"
)

// Token is the discrete unit the inference engine consumes and produces.
type Token int32

// Engine is the collaborator contract for a token-level inference engine.
// Implementations own tokenization, batched decoding, and sampling; the
// loop in this package owns nothing but the iteration order.
type Engine interface {
	// Tokenize converts text into engine tokens.
	Tokenize(ctx context.Context, text string) ([]Token, error)

	// Decode advances the model state by one batch of tokens, producing a
	// distribution over next tokens internally.
	Decode(ctx context.Context, batch []Token) error

	// Sample draws the next token from the distribution produced by the
	// most recent Decode.
	Sample(ctx context.Context) (Token, error)

	// IsEOG reports whether the token is an end-of-generation marker.
	IsEOG(t Token) bool

	// TokenToText converts a single token back into text.
	TokenToText(ctx context.Context, t Token) (string, error)
}

// GenerationError wraps a fatal engine failure inside the generation loop.
// Decode errors are assumed non-transient (context overflow, device
// failure) and are never retried.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed during %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
