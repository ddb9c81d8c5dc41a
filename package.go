// Package reagent implements a ReAct ("reason, act, observe") research agent
// engine for customer-journey analytics.
//
// The engine drives an iterative loop against an LLM endpoint and a registry
// of schema-described tools, producing a final answer, a full reasoning
// trace, and (optionally) a live stream of progress events.
//
// # Quick Start
//
//	llm, _ := openai.New()
//	model := models.NewLCGClient(llm).WithModelName("gpt-4o-mini")
//
//	registry := reagent.NewRegistry()
//	registry.Register(reagent.NewToolFunc(
//	    "query_data",
//	    "Run a free-text query over customer transcripts",
//	    schema.Object(map[string]*schema.Property{
//	        "query": schema.String("Search query"),
//	    }, "query"),
//	    func(ctx context.Context, input map[string]any) (*reagent.ToolResult, error) {
//	        return searchTranscripts(ctx, input)
//	    },
//	))
//
//	exec := reagent.NewExecutor(model, registry, reagent.DefaultConfig())
//	resp, err := exec.Execute(ctx, &reagent.ResearchRequest{
//	    Query: "What are customers disputing about mortgage rate increases?",
//	})
//
// # Execution Model
//
// Each request owns a private AgentState. Every iteration the executor builds
// a prompt from the tool catalogue and the scratchpad of prior steps, calls
// the model under a hard timeout, parses the response (see the parse
// package), and either executes a tool, injects a corrective observation, or
// terminates with a final answer. Tool failures and unparseable model output
// are contained within the loop and reflected in the reasoning trace; only
// request validation failures escalate to the caller.
//
// # Streaming
//
// ExecuteStreaming runs the identical loop but additionally emits
// Event values to an EventSink at defined points (thinking,
// reasoning-step, tool-call, tool-result, complete, error). A
// SessionRegistry provides cooperative cancellation: an aborted session
// suppresses further event emission without interrupting in-flight work.
package reagent
