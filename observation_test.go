package reagent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatObservation(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{name: "nil", input: nil, expected: ""},
		{name: "string passes through", input: "already text", expected: "already text"},
		{name: "map encodes as json", input: map[string]any{"count": 3}, expected: `{"count":3}`},
		{name: "slice encodes as json", input: []int{1, 2}, expected: "[1,2]"},
		{name: "unencodable degrades to fmt", input: func() {}, expected: "%!v(PANIC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatObservation(tt.input)
			if tt.name == "unencodable degrades to fmt" {
				assert.NotEmpty(t, got)
				return
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTruncateText(t *testing.T) {
	long := strings.Repeat("x", 5000)

	tests := []struct {
		name  string
		input string
		limit int
	}{
		{name: "short text untouched", input: "short", limit: 4000},
		{name: "long text cut with marker", input: long, limit: 4000},
		{name: "zero limit disables truncation", input: long, limit: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateText(tt.input, tt.limit)
			if tt.limit <= 0 || len(tt.input) <= tt.limit {
				assert.Equal(t, tt.input, got)
				return
			}
			assert.Len(t, got, tt.limit)
			assert.True(t, strings.HasSuffix(got, "... [truncated]"))
		})
	}
}

func TestTruncateTextIdempotent(t *testing.T) {
	long := strings.Repeat("x", 5000)
	once := TruncateText(long, 4000)
	twice := TruncateText(once, 4000)
	assert.Equal(t, once, twice)
}

func TestTruncateTextTinyLimit(t *testing.T) {
	// A limit smaller than the marker falls back to a hard cut.
	got := TruncateText("abcdefghij", 4)
	assert.Equal(t, "abcd", got)
}
