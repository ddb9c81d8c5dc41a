// Package models adapts LangChainGo model implementations to the engine's
// LLMClient interface.
package models

import (
	"context"

	"github.com/tmc/langchaingo/llms"

	"github.com/journeyworks/reagent"
)

// LCGClient wraps an llms.Model as a reagent.LLMClient. Any LangChainGo
// provider works:
//
//	llm, _ := openai.New(openai.WithToken(apiKey))
//	client := models.NewLCGClient(llm).WithModelName("gpt-4o-mini")
type LCGClient struct {
	model     llms.Model
	modelName string
}

var _ reagent.LLMClient = (*LCGClient)(nil)

// NewLCGClient wraps the given llms.Model.
func NewLCGClient(model llms.Model) *LCGClient {
	return &LCGClient{model: model}
}

// WithModelName sets the name reported in response stats. Returns the
// client for chaining.
func (c *LCGClient) WithModelName(name string) *LCGClient {
	c.modelName = name
	return c
}

// Unwrap returns the underlying llms.Model.
func (c *LCGClient) Unwrap() llms.Model {
	return c.model
}

// ModelName implements reagent.LLMClient.
func (c *LCGClient) ModelName() string {
	return c.modelName
}

// Prompt implements reagent.LLMClient. The system prompt (when present)
// and the user prompt become separate messages; a non-empty rate limit key
// is forwarded as call metadata for provider-side middleware to consume.
func (c *LCGClient) Prompt(ctx context.Context, req reagent.PromptRequest) (string, error) {
	messages := make([]llms.MessageContent, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.SystemPrompt))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt))

	var opts []llms.CallOption
	if req.RateLimitKey != "" {
		opts = append(opts, llms.WithMetadata(map[string]any{
			"rateLimitKey": req.RateLimitKey,
		}))
	}

	resp, err := c.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Content, nil
}
