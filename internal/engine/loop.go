package engine

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Result is the outcome of one generation loop run.
type Result struct {
	// Text is the full generated response (prompt excluded).
	Text string
	// Generated is the number of tokens sampled, EOG excluded.
	Generated int
	// Units is the cumulative token count consumed, prompt included.
	Units int
}

// Loop runs the incremental generate-and-accumulate algorithm against an
// Engine. OnPiece, when set, receives each generated text piece as it is
// produced so callers can display output live.
type Loop struct {
	engine  Engine
	logger  *zap.Logger
	OnPiece func(piece string)
}

// NewLoop creates a generation loop around the given engine.
func NewLoop(eng Engine, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{engine: eng, logger: logger}
}

// state is the transient cursor for one loop invocation.
type state struct {
	pos    int     // tokens consumed so far
	batch  []Token // next batch to decode
	budget int     // maximum cumulative tokens, prompt included
}

// Run generates until the engine samples an end-of-generation marker or the
// cumulative token count (prompt + generated) reaches budget. A budget at
// or below the prompt length yields zero generated tokens and is not an
// error; an immediate end-of-generation marker yields an empty response.
func (l *Loop) Run(ctx context.Context, prompt string, budget int) (Result, error) {
	return l.run(ctx, prompt, func(int) int { return budget })
}

// RunPredict generates at most predict new tokens on top of the prompt.
func (l *Loop) RunPredict(ctx context.Context, prompt string, predict int) (Result, error) {
	return l.run(ctx, prompt, func(promptLen int) int { return promptLen + predict })
}

func (l *Loop) run(ctx context.Context, prompt string, budgetFor func(promptLen int) int) (Result, error) {
	promptTokens, err := l.engine.Tokenize(ctx, prompt)
	if err != nil {
		return Result{}, &GenerationError{Stage: "tokenize", Err: err}
	}

	st := state{batch: promptTokens, budget: budgetFor(len(promptTokens))}
	l.logger.Debug("generation started",
		zap.Int("prompt_tokens", len(promptTokens)),
		zap.Int("budget", st.budget))

	var response strings.Builder
	generated := 0

	for st.pos+len(st.batch) < st.budget {
		if err := l.engine.Decode(ctx, st.batch); err != nil {
			return Result{}, &GenerationError{Stage: "decode", Err: err}
		}
		st.pos += len(st.batch)

		next, err := l.engine.Sample(ctx)
		if err != nil {
			return Result{}, &GenerationError{Stage: "sample", Err: err}
		}
		if l.engine.IsEOG(next) {
			st.batch = nil
			break
		}

		piece, err := l.engine.TokenToText(ctx, next)
		if err != nil {
			return Result{}, &GenerationError{Stage: "detokenize", Err: err}
		}
		response.WriteString(piece)
		if l.OnPiece != nil {
			l.OnPiece(piece)
		}

		st.batch = []Token{next}
		generated++
	}

	l.logger.Debug("generation finished",
		zap.Int("generated", generated),
		zap.Int("units", st.pos+len(st.batch)))

	return Result{
		Text:      response.String(),
		Generated: generated,
		Units:     st.pos + len(st.batch),
	}, nil
}
