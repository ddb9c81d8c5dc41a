package reagent

import "context"

// PromptRequest is one generation request to the LLM endpoint.
type PromptRequest struct {
	// Prompt is the user-role prompt text.
	Prompt string

	// SystemPrompt is optional system-role instructions.
	SystemPrompt string

	// RateLimitKey is an opaque key passed through to the client. The engine
	// performs no rate limiting itself; enforcement (if any) is the client's
	// concern.
	RateLimitKey string
}

// LLMClient is the engine's contract with the LLM endpoint.
//
// Prompt returns the generated text or an error. Errors are treated as hard
// failures for that call and are not retried by the engine. The engine
// bounds each call with its own timer (Config.LLMTimeout); implementations
// should still honor ctx cancellation where they can.
//
// See the models package for a LangChainGo-backed implementation.
type LLMClient interface {
	// Prompt generates text for the given request.
	Prompt(ctx context.Context, req PromptRequest) (string, error)

	// ModelName identifies the underlying model for reporting (it appears in
	// ResearchResponse.Stats.Model). May return "".
	ModelName() string
}
