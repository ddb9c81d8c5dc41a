package reagent

// SourceType classifies where a ResearchSource came from.
type SourceType string

const (
	// SourceCommunication is an individual customer communication
	// (transcript, chat log, email thread).
	SourceCommunication SourceType = "communication"

	// SourceAnalysis is a derived analytical result (sentiment, SLA,
	// statistical summaries).
	SourceAnalysis SourceType = "analysis"

	// SourceAggregation is an aggregate query result (counts, breakdowns,
	// distributions).
	SourceAggregation SourceType = "aggregation"

	// SourceExternal is anything outside the customer-journey corpus.
	SourceExternal SourceType = "external"
)

// ResearchSource is one piece of evidence gathered by a tool call.
// Identity is the ID field; responses deduplicate by ID with the first
// occurrence winning.
type ResearchSource struct {
	Type      SourceType     `json:"type"`
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Relevance float64        `json:"relevance"`
	Excerpt   string         `json:"excerpt,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ReasoningStep is one Thought/Action/Observation block in the agent's
// trace. Step is the iteration number that produced it. A step is immutable
// once appended to AgentState.Steps; the executor only fills in Action and
// Observation before the append.
type ReasoningStep struct {
	Step        int            `json:"step"`
	Thought     string         `json:"thought"`
	Action      string         `json:"action,omitempty"`
	ActionInput map[string]any `json:"actionInput,omitempty"`
	Observation string         `json:"observation,omitempty"`
}

// AgentAction records one executed (or attempted) tool call.
type AgentAction struct {
	Tool       string         `json:"tool"`
	Input      map[string]any `json:"input"`
	Output     any            `json:"output,omitempty"`
	DurationMs int64          `json:"durationMs"`
	Success    bool           `json:"success"`
	Error      string         `json:"error,omitempty"`
}

// ResponseStats summarizes a finished run.
type ResponseStats struct {
	TotalTimeMs int64  `json:"totalTimeMs"`
	Iterations  int    `json:"iterations"`
	ToolCalls   int    `json:"toolCalls"`
	Model       string `json:"model"`
}

// ResearchResponse is the engine's terminal output. The engine always
// produces a valid ResearchResponse for a valid request, even when the loop
// failed; failures surface as a low-confidence apologetic answer rather than
// an error.
type ResearchResponse struct {
	Answer            string            `json:"answer"`
	Confidence        float64           `json:"confidence"`
	Sources           []ResearchSource  `json:"sources"`
	Charts            []ChartDescriptor `json:"charts,omitempty"`
	Reasoning         []ReasoningStep   `json:"reasoning"`
	Actions           []AgentAction     `json:"actions"`
	FollowUpQuestions []string          `json:"followUpQuestions,omitempty"`
	Stats             ResponseStats     `json:"stats"`
}

// DedupeSources removes entries with duplicate IDs, keeping the first
// occurrence and preserving order.
func DedupeSources(sources []ResearchSource) []ResearchSource {
	if len(sources) == 0 {
		return []ResearchSource{}
	}

	seen := make(map[string]struct{}, len(sources))
	result := make([]ResearchSource, 0, len(sources))
	for _, src := range sources {
		if _, ok := seen[src.ID]; ok {
			continue
		}
		seen[src.ID] = struct{}{}
		result = append(result, src)
	}
	return result
}
