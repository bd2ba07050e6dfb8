package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type mockLLM struct {
	messages []llms.MessageContent
	opts     llms.CallOptions
	resp     *llms.ContentResponse
	err      error
}

func (m *mockLLM) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.messages = messages
	for _, o := range options {
		o(&m.opts)
	}
	return m.resp, m.err
}

func (m *mockLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestOpenAIOracle_Complete(t *testing.T) {
	llm := &mockLLM{resp: &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: `{"team":"strong"}`}},
	}}

	o := NewOpenAI(llm)
	text, err := o.Complete(context.Background(), Prompt{
		System:      "framework",
		User:        "score",
		Temperature: Temp(0.1),
		MaxTokens:   1000,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"team":"strong"}`, text)

	require.Len(t, llm.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, llm.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, llm.messages[1].Role)
	assert.Equal(t, 1000, llm.opts.MaxTokens)
	assert.InDelta(t, 0.1, llm.opts.Temperature, 0.0001)
}

func TestOpenAIOracle_NoSystem(t *testing.T) {
	llm := &mockLLM{resp: &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "ok"}},
	}}

	_, err := NewOpenAI(llm).Complete(context.Background(), Prompt{User: "hi"})
	require.NoError(t, err)
	require.Len(t, llm.messages, 1)
	assert.Equal(t, DefaultMaxTokens, llm.opts.MaxTokens)
}

func TestOpenAIOracle_Errors(t *testing.T) {
	_, err := NewOpenAI(&mockLLM{err: errors.New("429")}).Complete(context.Background(), Prompt{User: "hi"})
	var encErr *Error
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, "openai", encErr.Provider)

	_, err = NewOpenAI(&mockLLM{resp: &llms.ContentResponse{}}).Complete(context.Background(), Prompt{User: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices returned")
}
