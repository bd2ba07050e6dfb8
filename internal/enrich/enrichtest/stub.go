// Package enrichtest provides a scripted Oracle for tests.
package enrichtest

import (
	"context"
	"strings"
	"sync"

	"github.com/sells-group/diligence-cli/internal/enrich"
)

// StubOracle answers prompts from a fixed script. A rule matches when the
// user prompt contains its Match substring; the first matching rule wins.
// Unmatched prompts get Default. It is safe for concurrent use.
type StubOracle struct {
	Rules   []StubRule
	Default StubRule

	mu    sync.Mutex
	calls []enrich.Prompt
}

// StubRule is a scripted answer.
type StubRule struct {
	Match string
	Text  string
	Err   error
}

// Complete implements enrich.Oracle.
func (s *StubOracle) Complete(_ context.Context, p enrich.Prompt) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, p)
	s.mu.Unlock()

	for _, r := range s.Rules {
		if strings.Contains(p.User, r.Match) {
			return answer(r)
		}
	}
	return answer(s.Default)
}

// Calls returns the prompts seen so far.
func (s *StubOracle) Calls() []enrich.Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]enrich.Prompt(nil), s.calls...)
}

func answer(r StubRule) (string, error) {
	if r.Err != nil {
		return "", &enrich.Error{Provider: "stub", Err: r.Err}
	}
	return r.Text, nil
}
