package models

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/journeyworks/reagent"
)

// fakeModel records the last GenerateContent call.
type fakeModel struct {
	messages []llms.MessageContent
	options  []llms.CallOption
	response *llms.ContentResponse
	err      error
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	f.options = options
	return f.response, f.err
}

func (f *fakeModel) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
	return "", nil
}

func textResponse(text string) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: text}},
	}
}

func TestLCGClientPrompt(t *testing.T) {
	fake := &fakeModel{response: textResponse("generated text")}
	client := NewLCGClient(fake).WithModelName("test-model")

	got, err := client.Prompt(context.Background(), reagent.PromptRequest{
		Prompt:       "the question",
		SystemPrompt: "the rules",
	})
	require.NoError(t, err)
	assert.Equal(t, "generated text", got)
	assert.Equal(t, "test-model", client.ModelName())

	require.Len(t, fake.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, fake.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, fake.messages[1].Role)
}

func TestLCGClientPromptNoSystem(t *testing.T) {
	fake := &fakeModel{response: textResponse("ok")}
	client := NewLCGClient(fake)

	_, err := client.Prompt(context.Background(), reagent.PromptRequest{Prompt: "q"})
	require.NoError(t, err)
	require.Len(t, fake.messages, 1)
	assert.Equal(t, llms.ChatMessageTypeHuman, fake.messages[0].Role)
}

func TestLCGClientRateLimitKeyMetadata(t *testing.T) {
	fake := &fakeModel{response: textResponse("ok")}
	client := NewLCGClient(fake)

	_, err := client.Prompt(context.Background(), reagent.PromptRequest{
		Prompt:       "q",
		RateLimitKey: "tenant-7",
	})
	require.NoError(t, err)

	var opts llms.CallOptions
	for _, opt := range fake.options {
		opt(&opts)
	}
	assert.Equal(t, "tenant-7", opts.Metadata["rateLimitKey"])
}

func TestLCGClientNoRateLimitKeyNoOptions(t *testing.T) {
	fake := &fakeModel{response: textResponse("ok")}
	client := NewLCGClient(fake)

	_, err := client.Prompt(context.Background(), reagent.PromptRequest{Prompt: "q"})
	require.NoError(t, err)
	assert.Empty(t, fake.options)
}

func TestLCGClientEmptyResponse(t *testing.T) {
	fake := &fakeModel{response: &llms.ContentResponse{}}
	client := NewLCGClient(fake)

	got, err := client.Prompt(context.Background(), reagent.PromptRequest{Prompt: "q"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLCGClientError(t *testing.T) {
	fake := &fakeModel{err: assert.AnError}
	client := NewLCGClient(fake)

	_, err := client.Prompt(context.Background(), reagent.PromptRequest{Prompt: "q"})
	assert.ErrorIs(t, err, assert.AnError)
}
