package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateCost(t *testing.T) {
	u := TokenUsage{
		InputTokens:              1_000_000,
		OutputTokens:             1_000_000,
		CacheCreationInputTokens: 1_000_000,
		CacheReadInputTokens:     1_000_000,
	}

	// 3 + 15 + 3*1.25 + 3*0.1
	assert.InDelta(t, 22.05, u.EstimateCost("claude-sonnet-4-5-20250929"), 0.0001)
	assert.Zero(t, u.EstimateCost("unknown-model"))
}

func TestUsageFields(t *testing.T) {
	fields := TokenUsage{InputTokens: 10, OutputTokens: 5}.Fields("claude-haiku-4-5-20251001")

	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{
		"model", "input_tokens", "output_tokens",
		"cache_write_tokens", "cache_read_tokens", "estimated_cost_usd",
	}, keys)
}
