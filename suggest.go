package reagent

import (
	"fmt"
	"strings"
)

// toolSuggestion maps a query keyword to the analysis tool that usually
// answers it, with an example invocation the model can copy verbatim.
type toolSuggestion struct {
	keywords []string
	tool     string
	example  string
}

// Order matters: the first matching entry wins, so the more specific
// analyses come before the generic ones.
var toolSuggestions = []toolSuggestion{
	{
		keywords: []string{"category", "categories", "breakdown", "journey type"},
		tool:     "analyze_category_breakdown",
		example:  `{"tool": "analyze_category_breakdown", "input": {}}`,
	},
	{
		keywords: []string{"status", "outcome", "resolved", "escalated", "abandoned"},
		tool:     "analyze_status_distribution",
		example:  `{"tool": "analyze_status_distribution", "input": {}}`,
	},
	{
		keywords: []string{"sla", "breach", "deadline", "overdue"},
		tool:     "analyze_sla_compliance",
		example:  `{"tool": "analyze_sla_compliance", "input": {}}`,
	},
	{
		keywords: []string{"sentiment", "angry", "frustrated", "satisfaction", "unhappy"},
		tool:     "analyze_sentiment",
		example:  `{"tool": "analyze_sentiment", "input": {}}`,
	},
	{
		keywords: []string{"trend", "daily", "over time", "volume", "per day"},
		tool:     "analyze_daily_trends",
		example:  `{"tool": "analyze_daily_trends", "input": {"days": 30}}`,
	},
}

// SuggestTool picks the tool most likely to answer the query, keyed on
// query keywords. Falls back to a query_data call carrying the original
// query when nothing matches. The returned example is a complete action
// the model can emit as-is.
func SuggestTool(query string) (tool string, example string) {
	q := strings.ToLower(query)
	for _, s := range toolSuggestions {
		for _, kw := range s.keywords {
			if strings.Contains(q, kw) {
				return s.tool, s.example
			}
		}
	}
	return "query_data", fmt.Sprintf(`{"tool": "query_data", "input": {"query": %q}}`, query)
}
