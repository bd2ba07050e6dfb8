package enrich

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIOracle completes prompts with any langchaingo model; in production
// an OpenAI chat model.
type OpenAIOracle struct {
	llm llms.Model
}

// NewOpenAI creates an Oracle backed by a langchaingo model.
func NewOpenAI(llm llms.Model) *OpenAIOracle {
	return &OpenAIOracle{llm: llm}
}

// NewOpenAIFromKey builds the langchaingo OpenAI chat model and wraps it.
func NewOpenAIFromKey(apiKey, model, baseURL string) (*OpenAIOracle, error) {
	opts := []openai.Option{openai.WithToken(apiKey)}
	if model != "" {
		opts = append(opts, openai.WithModel(model))
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, eris.Wrap(err, "enrich: init openai")
	}
	return NewOpenAI(llm), nil
}

// Complete implements Oracle.
func (o *OpenAIOracle) Complete(ctx context.Context, p Prompt) (string, error) {
	var messages []llms.MessageContent
	if p.System != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, p.System))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, p.User))

	maxTokens := p.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	opts := []llms.CallOption{llms.WithMaxTokens(maxTokens)}
	if p.Temperature != nil {
		opts = append(opts, llms.WithTemperature(*p.Temperature))
	}

	resp, err := o.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", &Error{Provider: "openai", Err: err}
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", &Error{Provider: "openai", Err: eris.New("no choices returned")}
	}
	return resp.Choices[0].Content, nil
}
