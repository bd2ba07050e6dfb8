package enrich

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"
)

// Kind classifies how a structured completion turned out.
type Kind int

const (
	// Structured means the model returned a JSON object.
	Structured Kind = iota
	// Unstructured means the model answered with text that is not JSON.
	Unstructured
	// Failed means the model call itself failed.
	Failed
)

func (k Kind) String() string {
	switch k {
	case Structured:
		return "structured"
	case Unstructured:
		return "unstructured"
	default:
		return "failed"
	}
}

// Result is the outcome of CompleteStructured.
type Result struct {
	Kind  Kind
	Value map[string]any // set when Kind == Structured
	Raw   string         // model text, empty when Kind == Failed
	Err   error          // set when Kind == Failed
}

// OK reports whether the model call succeeded, parsed or not.
func (r Result) OK() bool { return r.Kind != Failed }

// Map returns the result as a JSON-like object: the parsed value, the raw
// text under "summary", or the failure under "error".
func (r Result) Map() map[string]any {
	switch r.Kind {
	case Structured:
		return r.Value
	case Unstructured:
		return map[string]any{"summary": r.Raw}
	default:
		return map[string]any{"error": r.Err.Error()}
	}
}

// Decode re-marshals a structured value into out. It reports false for
// unstructured or failed results and for values that do not fit out.
func (r Result) Decode(out any) bool {
	if r.Kind != Structured {
		return false
	}
	b, err := json.Marshal(r.Value)
	if err != nil {
		return false
	}
	return json.Unmarshal(b, out) == nil
}

// CompleteStructured runs p and parses the answer as a JSON object. Non-JSON
// answers and failed calls are folded into the Result; it never returns an
// error.
func CompleteStructured(ctx context.Context, o Oracle, p Prompt) Result {
	text, err := o.Complete(ctx, p)
	if err != nil {
		zap.L().Warn("enrich: structured completion failed", zap.Error(err))
		return Result{Kind: Failed, Err: err}
	}
	return ParseStructured(text)
}

// ParseStructured parses model text into a Result without calling a model.
func ParseStructured(text string) Result {
	var v map[string]any
	if err := json.Unmarshal([]byte(CleanJSON(text)), &v); err != nil || v == nil {
		return Result{Kind: Unstructured, Raw: text}
	}
	return Result{Kind: Structured, Value: v, Raw: text}
}

// CleanJSON extracts a JSON object from text that may carry markdown code
// fences or prose around it.
func CleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}
