// Package enrich wraps language model completions used to enrich research
// data. Callers get raw text from Complete, or a best-effort parsed Result
// from CompleteStructured that never fails.
package enrich

import (
	"context"
	"fmt"
)

// Prompt is a single completion request.
type Prompt struct {
	// System is stable context sent ahead of the user turn. Backends that
	// support prompt caching cache it.
	System      string
	User        string
	Temperature *float64
	MaxTokens   int
}

// DefaultMaxTokens is used when a Prompt leaves MaxTokens unset.
const DefaultMaxTokens = 1500

// Temp returns a pointer to t for Prompt.Temperature.
func Temp(t float64) *float64 { return &t }

// Oracle completes prompts against a language model.
type Oracle interface {
	// Complete returns the model's text. It fails only when the underlying
	// model call fails; the error is an *Error.
	Complete(ctx context.Context, p Prompt) (string, error)
}

// Error reports a transport-level failure of a model call.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("enrich: %s completion failed: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
