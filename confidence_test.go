package reagent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeConfidence(t *testing.T) {
	sources := func(n int) []ResearchSource {
		out := make([]ResearchSource, n)
		for i := range out {
			out[i] = ResearchSource{ID: string(rune('a' + i))}
		}
		return out
	}
	actions := func(ok, failed int) []AgentAction {
		var out []AgentAction
		for i := 0; i < ok; i++ {
			out = append(out, AgentAction{Success: true})
		}
		for i := 0; i < failed; i++ {
			out = append(out, AgentAction{Success: false})
		}
		return out
	}

	tests := []struct {
		name     string
		state    *AgentState
		expected float64
	}{
		{
			name: "baseline, nothing happened",
			state: &AgentState{
				Iteration:     10,
				MaxIterations: 10,
			},
			expected: 0.3, // 0.5 - 0.2 budget exhaustion
		},
		{
			name: "quick clean answer with sources",
			state: &AgentState{
				Iteration:     3,
				MaxIterations: 10,
				Done:          true,
				FinalAnswer:   "answer",
				Sources:       sources(2),
				Actions:       actions(2, 0),
			},
			expected: 0.8, // 0.5 + 0.1 sources + 0.1 answer + 0.1 fast
		},
		{
			name: "source bonus caps at four unique sources",
			state: &AgentState{
				Iteration:     3,
				MaxIterations: 10,
				Done:          true,
				FinalAnswer:   "answer",
				Sources:       sources(10),
				Actions:       actions(3, 0),
			},
			expected: 0.9, // source bonus capped at 0.2
		},
		{
			name: "duplicate source ids count once",
			state: &AgentState{
				Iteration:     3,
				MaxIterations: 10,
				Done:          true,
				FinalAnswer:   "answer",
				Sources:       []ResearchSource{{ID: "x"}, {ID: "x"}, {ID: "x"}},
				Actions:       actions(1, 0),
			},
			expected: 0.75, // one unique source
		},
		{
			name: "tool failures penalize",
			state: &AgentState{
				Iteration:     6,
				MaxIterations: 10,
				Done:          true,
				FinalAnswer:   "answer",
				Actions:       actions(1, 1),
			},
			expected: 0.5, // 0.5 + 0.1 answer - 0.1 half failed
		},
		{
			name: "forced synthesis keeps budget penalty",
			state: &AgentState{
				Iteration:     10,
				MaxIterations: 10,
				Done:          false,
				FinalAnswer:   "synthesized",
				Sources:       sources(1),
				Actions:       actions(4, 0),
			},
			expected: 0.45, // 0.5 + 0.05 + 0.1 answer - 0.2 exhausted
		},
		{
			name: "no tool calls is a perfect success rate",
			state: &AgentState{
				Iteration:     5,
				MaxIterations: 25,
				Done:          true,
				FinalAnswer:   "answer",
			},
			expected: 0.7, // 0.5 + 0.1 answer + 0.1 fast, no penalty
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ComputeConfidence(tt.state), 1e-9)
		})
	}
}

func TestComputeConfidenceBounds(t *testing.T) {
	// All penalties at once still clamps to zero or above.
	state := &AgentState{
		Iteration:     10,
		MaxIterations: 10,
		Actions: []AgentAction{
			{Success: false}, {Success: false}, {Success: false},
		},
	}
	score := ComputeConfidence(state)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}
