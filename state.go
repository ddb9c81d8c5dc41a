package reagent

// AgentState is the per-request loop state. It is created at the start of
// Execute/ExecuteStreaming, owned exclusively by the executor for the
// request's lifetime, and discarded after the response is built. It is never
// shared between requests, so it needs no locking.
//
// Invariants maintained by the executor:
//   - Iteration <= MaxIterations
//   - Done is monotonic: once set it is never reset
//   - exactly one step is appended per attempted iteration, so
//     len(Steps) == Iteration after every iteration, including rejected
//     and parse-failure iterations
type AgentState struct {
	Iteration     int
	MaxIterations int
	Steps         []ReasoningStep
	Actions       []AgentAction
	Sources       []ResearchSource
	Done          bool
	FinalAnswer   string
	Err           string
}

func newAgentState(maxIterations int) *AgentState {
	return &AgentState{
		MaxIterations: maxIterations,
		Steps:         make([]ReasoningStep, 0, maxIterations),
		Actions:       make([]AgentAction, 0, maxIterations),
		Sources:       make([]ResearchSource, 0),
	}
}

// pushStep appends a completed step. Steps are immutable after this point.
func (s *AgentState) pushStep(step ReasoningStep) {
	s.Steps = append(s.Steps, step)
}

func (s *AgentState) addAction(action AgentAction) {
	s.Actions = append(s.Actions, action)
}

func (s *AgentState) addSources(sources []ResearchSource) {
	s.Sources = append(s.Sources, sources...)
}

// toolObservations returns the observation of every tool-producing step, in
// order. System-injected corrective observations (steps without an action)
// are excluded; this is the evidence pool for forced synthesis.
func (s *AgentState) toolObservations() []string {
	var observations []string
	for _, step := range s.Steps {
		if step.Action == "" || step.Action == FinalAnswerAction {
			continue
		}
		if step.Observation != "" {
			observations = append(observations, step.Observation)
		}
	}
	return observations
}

// uniqueSourceCount counts distinct source IDs gathered so far.
func (s *AgentState) uniqueSourceCount() int {
	seen := make(map[string]struct{}, len(s.Sources))
	for _, src := range s.Sources {
		seen[src.ID] = struct{}{}
	}
	return len(seen)
}
