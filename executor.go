package reagent

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/journeyworks/reagent/parse"
)

// FinalAnswerAction is the sentinel recorded as a step's Action when the
// model answered instead of calling a tool.
const FinalAnswerAction = parse.FinalAnswerAction

// DefaultAnswer is returned when a run produces no usable answer at all.
const DefaultAnswer = "I was unable to find a satisfactory answer to your question. " +
	"Please try rephrasing or narrowing the scope."

// Config tunes the execution loop. Zero fields take the documented
// defaults; see DefaultConfig.
type Config struct {
	// MaxIterations is the default loop budget per run. Default 10.
	MaxIterations int

	// MaxIterationsCap bounds per-request MaxIterations overrides.
	// Default 25.
	MaxIterationsCap int

	// LLMTimeout bounds each individual LLM call. On expiry the call is
	// abandoned, not cancelled; its eventual result is discarded.
	// Default 60s.
	LLMTimeout time.Duration

	// MinToolForceIterations is the iteration below which a final answer
	// with zero prior tool calls is rejected and bounced back to the
	// model. Default 5.
	MinToolForceIterations int

	// ObservationLimit caps observation length in characters, truncation
	// marker included. Default 4000.
	ObservationLimit int

	// MaxFollowUps caps suggested follow-up questions. Default 3.
	MaxFollowUps int

	// RateLimitKey is passed through on every LLM call.
	RateLimitKey string
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		MaxIterations:          10,
		MaxIterationsCap:       25,
		LLMTimeout:             60 * time.Second,
		MinToolForceIterations: 5,
		ObservationLimit:       4000,
		MaxFollowUps:           3,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxIterations <= 0 {
		c.MaxIterations = def.MaxIterations
	}
	if c.MaxIterationsCap <= 0 {
		c.MaxIterationsCap = def.MaxIterationsCap
	}
	if c.LLMTimeout <= 0 {
		c.LLMTimeout = def.LLMTimeout
	}
	if c.MinToolForceIterations <= 0 {
		c.MinToolForceIterations = def.MinToolForceIterations
	}
	if c.ObservationLimit <= 0 {
		c.ObservationLimit = def.ObservationLimit
	}
	if c.MaxFollowUps <= 0 {
		c.MaxFollowUps = def.MaxFollowUps
	}
	return c
}

// Executor runs the research loop: prompt the model, parse its response,
// execute the chosen tool, feed the observation back, repeat until a final
// answer or the iteration budget runs out.
//
// An Executor is immutable after construction and safe for concurrent use;
// each run keeps its state in a per-request AgentState.
type Executor struct {
	model    LLMClient
	registry *Registry
	prompts  *PromptBuilder
	sessions *SessionRegistry
	config   Config
	logger   *slog.Logger
}

func NewExecutor(model LLMClient, registry *Registry, config Config) *Executor {
	return &Executor{
		model:    model,
		registry: registry,
		prompts:  NewPromptBuilder(),
		config:   config.withDefaults(),
		logger:   slog.Default(),
	}
}

// WithLogger sets the structured logger. Returns the executor for chaining.
func (e *Executor) WithLogger(logger *slog.Logger) *Executor {
	if logger != nil {
		e.logger = logger
	}
	return e
}

// WithSessions attaches a session registry so streaming runs can be
// cancelled out of band. Returns the executor for chaining.
func (e *Executor) WithSessions(sessions *SessionRegistry) *Executor {
	e.sessions = sessions
	return e
}

// WithPromptBuilder replaces the prompt builder. Returns the executor for
// chaining.
func (e *Executor) WithPromptBuilder(prompts *PromptBuilder) *Executor {
	if prompts != nil {
		e.prompts = prompts
	}
	return e
}

// Execute runs the loop to completion and returns the response. Loop-level
// failures (LLM errors, timeouts) degrade into a low-confidence apologetic
// response rather than an error; only an invalid request returns one.
func (e *Executor) Execute(ctx context.Context, req *ResearchRequest) (*ResearchResponse, error) {
	return e.run(ctx, req, "", NopSink)
}

// ExecuteStreaming is Execute with progress events delivered to sink as the
// run advances. When a session registry is attached and sessionID is
// non-empty, cancelling the session stops further events; the run itself
// continues to its natural end and the response is still returned.
func (e *Executor) ExecuteStreaming(ctx context.Context, req *ResearchRequest, sessionID string, sink EventSink) (*ResearchResponse, error) {
	if sink == nil {
		sink = NopSink
	}
	if sessionID != "" && e.sessions != nil {
		sink = &sessionSink{sessionID: sessionID, sessions: e.sessions, inner: sink}
	}
	return e.run(ctx, req, sessionID, sink)
}

func (e *Executor) run(ctx context.Context, req *ResearchRequest, sessionID string, sink EventSink) (*ResearchResponse, error) {
	if err := req.Validate(); err != nil {
		sink.Send(ErrorEvent{
			BaseEvent: NewBaseEvent(EventError, sessionID),
			Message:   err.Error(),
			Code:      CodeOf(err),
		})
		return nil, err
	}

	start := time.Now()
	maxIterations := e.resolveMaxIterations(req.MaxIterations)
	state := newAgentState(maxIterations)
	systemPrompt := e.prompts.BuildSystemPrompt(e.registry, req)
	logger := e.logger.With("sessionId", sessionID)

	logger.Info("research started",
		"query", req.Query,
		"maxIterations", maxIterations)

	var runErr error
	for state.Iteration < maxIterations && !state.Done {
		state.Iteration++
		iter := state.Iteration

		sink.Send(ThinkingEvent{
			BaseEvent: NewBaseEvent(EventThinking, sessionID),
			Iteration: iter,
		})

		raw, err := e.callLLM(ctx, PromptRequest{
			Prompt:       e.prompts.BuildIterationPrompt(req.Query, state),
			SystemPrompt: systemPrompt,
			RateLimitKey: e.config.RateLimitKey,
		})
		if err != nil {
			logger.Error("llm call failed", "iteration", iter, "error", err)
			state.pushStep(ReasoningStep{
				Step:        iter,
				Thought:     "",
				Observation: "LLM call failed: " + err.Error(),
			})
			state.Err = err.Error()
			runErr = err
			break
		}

		parsed := parse.Parse(raw)
		step := ReasoningStep{Step: iter, Thought: parsed.Thought}

		switch {
		case parsed.Kind == parse.KindFinalAnswer:
			if len(state.Actions) == 0 && iter < e.config.MinToolForceIterations {
				logger.Debug("final answer rejected, no tool calls yet", "iteration", iter)
				step.Observation = prematureFinalAnswerObservation(req.Query)
				state.pushStep(step)
				e.sendStep(sink, sessionID, step)
				continue
			}
			step.Action = FinalAnswerAction
			state.FinalAnswer = parsed.FinalAnswer
			state.Done = true
			state.pushStep(step)
			e.sendStep(sink, sessionID, step)

		case parsed.IsAction():
			step.Action = parsed.Action
			step.ActionInput = parsed.ActionInput
			e.sendStep(sink, sessionID, step)
			step.Observation = e.executeTool(ctx, state, sink, sessionID, parsed.Action, parsed.ActionInput)
			state.pushStep(step)

		default: // no action, no answer
			logger.Debug("response carried no action", "iteration", iter)
			step.Observation = noActionObservation(req.Query)
			state.pushStep(step)
			e.sendStep(sink, sessionID, step)
		}
	}

	// Even after a mid-run LLM failure, gathered observations are worth a
	// synthesis attempt; its own failure degrades to the default answer.
	if !state.Done && state.FinalAnswer == "" {
		e.forceSynthesis(ctx, req, state, systemPrompt, logger)
	}

	answer := state.FinalAnswer
	if strings.TrimSpace(answer) == "" {
		answer = DefaultAnswer
	}

	var followUps []string
	if runErr == nil && answer != DefaultAnswer {
		followUps = e.generateFollowUps(ctx, req.Query, answer, systemPrompt, logger)
	}

	response := &ResearchResponse{
		Answer:            answer,
		Confidence:        ComputeConfidence(state),
		Sources:           DedupeSources(state.Sources),
		Charts:            ExtractCharts(state.Actions),
		Reasoning:         state.Steps,
		Actions:           state.Actions,
		FollowUpQuestions: followUps,
		Stats: ResponseStats{
			TotalTimeMs: time.Since(start).Milliseconds(),
			Iterations:  state.Iteration,
			ToolCalls:   len(state.Actions),
			Model:       e.model.ModelName(),
		},
	}

	logger.Info("research finished",
		"iterations", state.Iteration,
		"toolCalls", len(state.Actions),
		"confidence", response.Confidence,
		"durationMs", response.Stats.TotalTimeMs)

	if runErr != nil {
		sink.Send(ErrorEvent{
			BaseEvent: NewBaseEvent(EventError, sessionID),
			Message:   runErr.Error(),
			Code:      CodeOf(runErr),
		})
	} else {
		sink.Send(CompleteEvent{
			BaseEvent: NewBaseEvent(EventComplete, sessionID),
			Response:  response,
		})
	}
	return response, nil
}

func (e *Executor) resolveMaxIterations(requested int) int {
	if requested <= 0 {
		return e.config.MaxIterations
	}
	if requested > e.config.MaxIterationsCap {
		return e.config.MaxIterationsCap
	}
	return requested
}

func (e *Executor) sendStep(sink EventSink, sessionID string, step ReasoningStep) {
	sink.Send(ReasoningStepEvent{
		BaseEvent: NewBaseEvent(EventReasoningStep, sessionID),
		Step:      step,
	})
}

// executeTool runs one tool call, records the AgentAction, and returns the
// observation for the scratchpad. Tool failures do not end the run; the
// error text becomes the observation so the model can adjust course.
func (e *Executor) executeTool(ctx context.Context, state *AgentState, sink EventSink, sessionID, tool string, input map[string]any) string {
	sink.Send(ToolCallEvent{
		BaseEvent: NewBaseEvent(EventToolCall, sessionID),
		Tool:      tool,
		Input:     input,
		Iteration: state.Iteration,
	})

	callStart := time.Now()
	result, err := e.registry.Execute(ctx, tool, input)
	duration := time.Since(callStart).Milliseconds()

	action := AgentAction{
		Tool:       tool,
		Input:      input,
		DurationMs: duration,
	}
	var observation string
	if err != nil {
		action.Error = err.Error()
		observation = "Error: " + err.Error()
		e.logger.Warn("tool call failed",
			"tool", tool, "durationMs", duration, "error", err)
	} else {
		action.Success = true
		action.Output = result.Output
		state.addSources(result.Sources)
		observation = TruncateText(FormatObservation(result.Output), e.config.ObservationLimit)
		e.logger.Debug("tool call succeeded",
			"tool", tool, "durationMs", duration, "sources", len(result.Sources))
	}
	state.addAction(action)

	sink.Send(ToolResultEvent{
		BaseEvent:  NewBaseEvent(EventToolResult, sessionID),
		Tool:       tool,
		Summary:    TruncateText(observation, 200),
		Success:    action.Success,
		DurationMs: duration,
	})
	return observation
}

// forceSynthesis asks the model for a best-effort answer from the gathered
// observations when the loop stopped without one, whether the iteration
// budget ran out or an LLM call failed. Done stays false so the confidence
// score still reflects the aborted run. With nothing observed there is
// nothing to synthesize from and the default answer applies.
func (e *Executor) forceSynthesis(ctx context.Context, req *ResearchRequest, state *AgentState, systemPrompt string, logger *slog.Logger) {
	if len(state.toolObservations()) == 0 {
		return
	}
	answer, err := e.callLLM(ctx, PromptRequest{
		Prompt:       e.prompts.BuildSynthesisPrompt(req.Query, state),
		SystemPrompt: systemPrompt,
		RateLimitKey: e.config.RateLimitKey,
	})
	if err != nil {
		logger.Warn("forced synthesis failed", "error", err)
		return
	}
	// The model sometimes still prefixes the label it was asked to complete.
	answer = strings.TrimSpace(answer)
	if parsed := parse.Parse(answer); parsed.Kind == parse.KindFinalAnswer {
		answer = parsed.FinalAnswer
	}
	state.FinalAnswer = answer
}

func (e *Executor) generateFollowUps(ctx context.Context, query, answer, systemPrompt string, logger *slog.Logger) []string {
	raw, err := e.callLLM(ctx, PromptRequest{
		Prompt:       e.prompts.BuildFollowUpPrompt(query, answer, e.config.MaxFollowUps),
		SystemPrompt: systemPrompt,
		RateLimitKey: e.config.RateLimitKey,
	})
	if err != nil {
		logger.Debug("follow-up generation failed", "error", err)
		return nil
	}
	var followUps []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*0123456789. )")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		followUps = append(followUps, line)
		if len(followUps) >= e.config.MaxFollowUps {
			break
		}
	}
	return followUps
}

// callLLM bounds one LLM call with the configured timeout. On expiry the
// in-flight call is abandoned rather than cancelled; its goroutine delivers
// into a buffered channel and exits without a receiver.
func (e *Executor) callLLM(ctx context.Context, req PromptRequest) (string, error) {
	type llmResult struct {
		text string
		err  error
	}
	results := make(chan llmResult, 1)
	go func() {
		text, err := e.model.Prompt(ctx, req)
		results <- llmResult{text: text, err: err}
	}()

	timer := time.NewTimer(e.config.LLMTimeout)
	defer timer.Stop()

	select {
	case res := <-results:
		if res.err != nil {
			return "", wrapExecutionError(res.err, "llm call failed")
		}
		return res.text, nil
	case <-timer.C:
		return "", newExecutionError("llm call timed out after %s", e.config.LLMTimeout)
	case <-ctx.Done():
		return "", wrapExecutionError(ctx.Err(), "llm call aborted")
	}
}

// sessionSink suppresses events for cancelled sessions. The cancellation
// check happens on every emission, so a cancel takes effect at the next
// event boundary.
type sessionSink struct {
	sessionID string
	sessions  *SessionRegistry
	inner     EventSink
}

var _ EventSink = (*sessionSink)(nil)

func (s *sessionSink) Send(ev Event) {
	if s.sessions.Cancelled(s.sessionID) {
		return
	}
	s.inner.Send(ev)
}
