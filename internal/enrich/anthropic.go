package enrich

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/diligence-cli/pkg/anthropic"
)

// AnthropicOracle completes prompts with Claude. System text is sent as a
// cached block so a shared framework document is billed once per hour.
type AnthropicOracle struct {
	client anthropic.Client
	model  string
}

// NewAnthropic creates an Oracle backed by the Anthropic Messages API.
func NewAnthropic(client anthropic.Client, model string) *AnthropicOracle {
	return &AnthropicOracle{client: client, model: model}
}

// Complete implements Oracle.
func (o *AnthropicOracle) Complete(ctx context.Context, p Prompt) (string, error) {
	maxTokens := p.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	resp, err := o.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       o.model,
		MaxTokens:   int64(maxTokens),
		System:      anthropic.CachedSystemBlocks(p.System),
		Messages:    []anthropic.Message{{Role: "user", Content: p.User}},
		Temperature: p.Temperature,
	})
	if err != nil {
		return "", &Error{Provider: "anthropic", Err: err}
	}
	if resp == nil {
		return "", &Error{Provider: "anthropic", Err: eris.New("empty response")}
	}

	zap.L().Debug("enrich: anthropic usage", resp.Usage.Fields(o.model)...)
	return resp.Text(), nil
}
