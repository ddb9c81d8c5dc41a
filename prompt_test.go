package reagent

import (
	"context"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journeyworks/reagent/schema"
)

// assertTextEqual fails with a unified diff, which reads far better than
// testify's default dump for multi-line prompts.
func assertTextEqual(t *testing.T, expected, actual string) {
	t.Helper()
	if expected == actual {
		return
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	t.Errorf("text mismatch:\n%s", diff)
}

func promptTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	require.NoError(t, reg.Register(NewToolFunc(
		"search_transcripts",
		"Search journey transcripts.",
		schema.Object(map[string]*schema.Property{
			"query": schema.String("Search keywords"),
		}, "query"),
		func(_ context.Context, _ map[string]any) (*ToolResult, error) {
			return &ToolResult{Output: ""}, nil
		},
	)))
	return reg
}

func TestBuildSystemPrompt(t *testing.T) {
	b := NewPromptBuilder()
	reg := promptTestRegistry(t)

	got := b.BuildSystemPrompt(reg, &ResearchRequest{Query: "q"})

	assert.Contains(t, got, "research assistant")
	assert.Contains(t, got, "- search_transcripts: Search journey transcripts.")
	assert.Contains(t, got, "one of [search_transcripts]")
	assert.Contains(t, got, "Final Answer:")
	assert.NotContains(t, got, "Additional context")
	assert.NotContains(t, got, "Conversation so far")
}

func TestBuildSystemPromptWithContextAndHistory(t *testing.T) {
	b := NewPromptBuilder()
	reg := promptTestRegistry(t)

	got := b.BuildSystemPrompt(reg, &ResearchRequest{
		Query:      "q",
		Context:    "Focus on the premium segment.",
		CustomerID: "CUST-0042",
		ConversationHistory: []ConversationMessage{
			{Role: RoleUser, Content: "How many fraud cases?"},
			{Role: RoleAssistant, Content: "There were 40."},
		},
	})

	assert.Contains(t, got, "Focus on the premium segment.")
	assert.Contains(t, got, "Limit your research to customer CUST-0042.")
	assert.Contains(t, got, "User: How many fraud cases?")
	assert.Contains(t, got, "Assistant: There were 40.")
}

func TestBuildIterationPrompt(t *testing.T) {
	b := NewPromptBuilder()
	state := newAgentState(10)

	got := b.BuildIterationPrompt("Is fraud up?", state)
	assertTextEqual(t, "Question: Is fraud up?\n\nThought:", got)

	state.pushStep(ReasoningStep{
		Step:        1,
		Thought:     "Check the numbers.",
		Action:      "search_transcripts",
		ActionInput: map[string]any{"query": "fraud"},
		Observation: `{"matched":7}`,
	})
	got = b.BuildIterationPrompt("Is fraud up?", state)
	assertTextEqual(t,
		"Question: Is fraud up?\n\n"+
			"Thought: Check the numbers.\n"+
			`Action: {"tool":"search_transcripts","input":{"query":"fraud"}}`+"\n"+
			`Observation: {"matched":7}`+"\n\nThought:",
		got)
}

func TestRenderScratchpad(t *testing.T) {
	steps := []ReasoningStep{
		{Step: 1, Thought: "Search first.", Action: "search_transcripts",
			ActionInput: map[string]any{"query": "fees"}, Observation: "nothing found"},
		{Step: 2, Thought: "Bad response.", Observation: "SYSTEM: no action given"},
		{Step: 3, Thought: "Done.", Action: FinalAnswerAction},
	}

	got := RenderScratchpad(steps)
	blocks := strings.Split(got, "\n\n")
	require.Len(t, blocks, 3)

	assertTextEqual(t,
		"Thought: Search first.\n"+
			`Action: {"tool":"search_transcripts","input":{"query":"fees"}}`+"\n"+
			"Observation: nothing found",
		blocks[0])

	// Corrective steps keep their observation but have no action lines.
	assertTextEqual(t, "Thought: Bad response.\nObservation: SYSTEM: no action given", blocks[1])

	// Final answer steps render the thought only.
	assertTextEqual(t, "Thought: Done.", blocks[2])
}

func TestBuildSynthesisPrompt(t *testing.T) {
	b := NewPromptBuilder()
	state := newAgentState(10)
	state.pushStep(ReasoningStep{
		Step: 1, Thought: "t", Action: "search_transcripts",
		ActionInput: map[string]any{}, Observation: "obs",
	})

	got := b.BuildSynthesisPrompt("Is fraud up?", state)
	assert.Contains(t, got, "Question: Is fraud up?")
	assert.Contains(t, got, "Observation: obs")
	assert.Contains(t, got, "Do not request any more tools.")
	assert.True(t, strings.HasSuffix(got, "Final Answer:"))
}

func TestBuildFollowUpPrompt(t *testing.T) {
	b := NewPromptBuilder()
	got := b.BuildFollowUpPrompt("Is fraud up?", "Yes, by 12%.", 3)
	assert.Contains(t, got, "up to 3 short follow-up questions")
	assert.Contains(t, got, "Question: Is fraud up?")
	assert.Contains(t, got, "Answer: Yes, by 12%.")
}

func TestBuildFollowUpPromptTruncatesLongAnswer(t *testing.T) {
	b := NewPromptBuilder()
	long := strings.Repeat("fraud volumes rose ", 100)
	got := b.BuildFollowUpPrompt("Is fraud up?", long, 3)
	assert.NotContains(t, got, long)
	assert.Contains(t, got, truncationMarker)
}
