package reagent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResearchRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		request *ResearchRequest
		ok      bool
	}{
		{
			name:    "valid minimal",
			request: &ResearchRequest{Query: "How many fraud cases?"},
			ok:      true,
		},
		{
			name: "valid with history",
			request: &ResearchRequest{
				Query: "and by channel?",
				ConversationHistory: []ConversationMessage{
					{Role: RoleUser, Content: "fraud cases?"},
					{Role: RoleAssistant, Content: "40"},
				},
			},
			ok: true,
		},
		{name: "nil request", request: nil, ok: false},
		{name: "empty query", request: &ResearchRequest{Query: ""}, ok: false},
		{name: "whitespace query", request: &ResearchRequest{Query: "  \n "}, ok: false},
		{
			name:    "negative iterations",
			request: &ResearchRequest{Query: "q", MaxIterations: -1},
			ok:      false,
		},
		{
			name: "bad history role",
			request: &ResearchRequest{
				Query: "q",
				ConversationHistory: []ConversationMessage{
					{Role: "system", Content: "x"},
				},
			},
			ok: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, CodeValidation, CodeOf(err))
		})
	}
}

func TestDedupeSources(t *testing.T) {
	sources := []ResearchSource{
		{ID: "a", Title: "first a"},
		{ID: "b", Title: "b"},
		{ID: "a", Title: "second a"},
	}
	deduped := DedupeSources(sources)
	require.Len(t, deduped, 2)
	// First occurrence wins.
	assert.Equal(t, "first a", deduped[0].Title)
	assert.Equal(t, "b", deduped[1].Title)

	assert.NotNil(t, DedupeSources(nil))
	assert.Empty(t, DedupeSources(nil))
}
