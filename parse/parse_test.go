package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFinalAnswer(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Response
	}{
		{
			name:  "labeled final answer with thought",
			input: "Thought: I have enough data now.\nFinal Answer: Fraud journeys rose 12% this month.",
			expected: Response{
				Kind:        KindFinalAnswer,
				Thought:     "I have enough data now.",
				Action:      FinalAnswerAction,
				FinalAnswer: "Fraud journeys rose 12% this month.",
			},
		},
		{
			name:  "case insensitive label",
			input: "final answer: done",
			expected: Response{
				Kind:        KindFinalAnswer,
				Thought:     "final answer: done",
				Action:      FinalAnswerAction,
				FinalAnswer: "done",
			},
		},
		{
			name:  "multiline answer",
			input: "Final Answer: First line.\nSecond line.",
			expected: Response{
				Kind:        KindFinalAnswer,
				Thought:     "Final Answer: First line.",
				Action:      FinalAnswerAction,
				FinalAnswer: "First line.\nSecond line.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.expected.Kind, got.Kind)
			assert.Equal(t, tt.expected.Thought, got.Thought)
			assert.Equal(t, tt.expected.Action, got.Action)
			assert.Equal(t, tt.expected.FinalAnswer, got.FinalAnswer)
		})
	}
}

func TestParseInlineAction(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectedTool  string
		expectedInput map[string]any
	}{
		{
			name:          "bare json object",
			input:         `{"tool": "search_transcripts", "input": {"query": "fraud"}}`,
			expectedTool:  "search_transcripts",
			expectedInput: map[string]any{"query": "fraud"},
		},
		{
			name:          "json embedded in prose",
			input:         "I should search first.\n{\"tool\": \"query_data\", \"input\": {\"query\": \"card declines\"}}\nThat should work.",
			expectedTool:  "query_data",
			expectedInput: map[string]any{"query": "card declines"},
		},
		{
			name:          "missing input defaults to empty",
			input:         `{"tool": "analyze_sentiment"}`,
			expectedTool:  "analyze_sentiment",
			expectedInput: map[string]any{},
		},
		{
			name:          "braces inside string values with trailing text",
			input:         "Thought: searching now.\n{\"tool\":\"query_data\",\"input\":{\"query\":\"find {nested} braces\"}}\ntrailing text",
			expectedTool:  "query_data",
			expectedInput: map[string]any{"query": "find {nested} braces"},
		},
		{
			name:          "first valid object without a tool name is skipped",
			input:         `{"note": "not a call"} {"tool": "analyze_sla_compliance", "input": {}}`,
			expectedTool:  "analyze_sla_compliance",
			expectedInput: map[string]any{},
		},
		{
			name:          "action alias",
			input:         `{"action": "search_transcripts", "action_input": {"query": "fraud"}}`,
			expectedTool:  "search_transcripts",
			expectedInput: map[string]any{"query": "fraud"},
		},
		{
			name:          "alias with missing action_input defaults to empty",
			input:         `{"action": "analyze_sentiment"}`,
			expectedTool:  "analyze_sentiment",
			expectedInput: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			require.Equal(t, KindInlineAction, got.Kind)
			assert.True(t, got.IsAction())
			assert.Equal(t, tt.expectedTool, got.Action)
			assert.Equal(t, tt.expectedInput, got.ActionInput)
		})
	}
}

func TestParseLegacyAction(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectedTool  string
		expectedInput map[string]any
	}{
		{
			name:          "well formed",
			input:         "Thought: search it\nAction: search_transcripts\nAction Input: {\"query\": \"fees\", \"limit\": 3}",
			expectedTool:  "search_transcripts",
			expectedInput: map[string]any{"query": "fees", "limit": float64(3)},
		},
		{
			name:          "single quotes repaired",
			input:         "Action: query_data\nAction Input: {'query': 'fraud'}",
			expectedTool:  "query_data",
			expectedInput: map[string]any{"query": "fraud"},
		},
		{
			name:          "trailing comma repaired",
			input:         "Action: query_data\nAction Input: {\"query\": \"fraud\",}",
			expectedTool:  "query_data",
			expectedInput: map[string]any{"query": "fraud"},
		},
		{
			name:          "free text becomes query",
			input:         "Action: search_transcripts\nAction Input: angry customers on twitter",
			expectedTool:  "search_transcripts",
			expectedInput: map[string]any{"query": "angry customers on twitter"},
		},
		{
			name:          "missing input yields empty args",
			input:         "Action: analyze_sentiment",
			expectedTool:  "analyze_sentiment",
			expectedInput: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			require.Equal(t, KindLegacyAction, got.Kind)
			assert.True(t, got.IsAction())
			assert.Equal(t, tt.expectedTool, got.Action)
			assert.Equal(t, tt.expectedInput, got.ActionInput)
		})
	}
}

func TestParseNoAction(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		expectedThought string
	}{
		{
			name:            "plain prose",
			input:           "I am not sure what to do next.",
			expectedThought: "I am not sure what to do next.",
		},
		{
			name:            "empty input",
			input:           "",
			expectedThought: "",
		},
		{
			name:            "thought label only",
			input:           "Thought: let me consider the options.",
			expectedThought: "let me consider the options.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			assert.Equal(t, KindNoAction, got.Kind)
			assert.False(t, got.IsAction())
			assert.Empty(t, got.Action)
			assert.Equal(t, tt.expectedThought, got.Thought)
		})
	}
}

func TestParseThoughtExtraction(t *testing.T) {
	got := Parse("Thought: check the SLA numbers first\nAction: analyze_sla_compliance\nAction Input: {}")
	assert.Equal(t, "check the SLA numbers first", got.Thought)

	// No label: first non-empty line stands in.
	got = Parse("\n\nLooking at the data.\nAction: query_data\nAction Input: {\"query\": \"x\"}")
	assert.Equal(t, "Looking at the data.", got.Thought)
}

func TestParsePriorityFinalAnswerOverAction(t *testing.T) {
	// When both appear, the final answer wins.
	got := Parse("Action: query_data\nAction Input: {\"query\": \"x\"}\nFinal Answer: all done")
	assert.Equal(t, KindFinalAnswer, got.Kind)
	assert.Equal(t, "all done", got.FinalAnswer)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "no-action", KindNoAction.String())
	assert.Equal(t, "final-answer", KindFinalAnswer.String())
	assert.Equal(t, "inline-action", KindInlineAction.String())
	assert.Equal(t, "legacy-action", KindLegacyAction.String())
}
