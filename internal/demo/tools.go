package demo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/journeyworks/reagent"
	"github.com/journeyworks/reagent/schema"
)

// ToolSet exposes the corpus through the agent tool surface.
type ToolSet struct {
	corpus *Corpus
	now    func() time.Time
}

func NewToolSet(corpus *Corpus) *ToolSet {
	return &ToolSet{corpus: corpus, now: time.Now}
}

// WithClock overrides the time source. Returns the set for chaining.
func (t *ToolSet) WithClock(now func() time.Time) *ToolSet {
	t.now = now
	return t
}

// Register adds every demo tool to the registry. The registration order is
// the order the tools appear in the prompt.
func (t *ToolSet) Register(reg *reagent.Registry) error {
	tools := []reagent.Tool{
		t.queryData(),
		t.searchTranscripts(),
		t.categoryBreakdown(),
		t.statusDistribution(),
		t.slaCompliance(),
		t.sentiment(),
		t.dailyTrends(),
	}
	for _, tool := range tools {
		if err := reg.Register(tool); err != nil {
			return err
		}
	}
	return nil
}

func (t *ToolSet) queryData() reagent.Tool {
	return reagent.NewToolFunc(
		"query_data",
		"Answer a free-form question about journey volumes. Returns how many journeys match the query and their category spread. Use the analyze_* tools for full distributions.",
		schema.Object(map[string]*schema.Property{
			"query": schema.String("Free-text query, e.g. 'fraud on chat'"),
		}, "query"),
		func(_ context.Context, args map[string]any) (*reagent.ToolResult, error) {
			query, _ := args["query"].(string)
			matches := t.corpus.Search(query, 0)
			byCategory := make(map[string]int)
			for _, j := range matches {
				byCategory[j.Category]++
			}
			return &reagent.ToolResult{
				Output: map[string]any{
					"query":      query,
					"matched":    len(matches),
					"total":      t.corpus.Len(),
					"byCategory": anyMap(byCategory),
				},
				Sources: []reagent.ResearchSource{{
					Type:      reagent.SourceAggregation,
					ID:        "agg:query_data:" + query,
					Title:     fmt.Sprintf("Journey counts for %q", query),
					Relevance: 0.7,
				}},
			}, nil
		},
	)
}

func (t *ToolSet) searchTranscripts() reagent.Tool {
	return reagent.NewToolFunc(
		"search_transcripts",
		"Search journey transcripts by keyword, category, channel or customer ID. Returns the most recent matches with excerpts.",
		schema.Object(map[string]*schema.Property{
			"query": schema.String("Search keywords"),
			"limit": schema.Integer("Max matches to return").Min(1).Max(20).Default(5),
		}, "query"),
		func(_ context.Context, args map[string]any) (*reagent.ToolResult, error) {
			query, _ := args["query"].(string)
			limit := intArg(args, "limit", 5)
			matches := t.corpus.Search(query, limit)
			if len(matches) == 0 {
				return &reagent.ToolResult{
					Output: fmt.Sprintf("No transcripts match %q.", query),
				}, nil
			}

			rows := make([]map[string]any, 0, len(matches))
			sources := make([]reagent.ResearchSource, 0, len(matches))
			for i, j := range matches {
				rows = append(rows, map[string]any{
					"id":         j.ID,
					"customerId": j.CustomerID,
					"category":   j.Category,
					"channel":    j.Channel,
					"status":     j.Status,
					"sentiment":  j.Sentiment,
					"date":       j.OpenedAt.Format("2006-01-02"),
					"excerpt":    j.Transcript,
				})
				sources = append(sources, reagent.ResearchSource{
					Type:      reagent.SourceCommunication,
					ID:        j.ID,
					Title:     fmt.Sprintf("%s journey via %s (%s)", j.Category, j.Channel, j.OpenedAt.Format("2006-01-02")),
					Relevance: 1 - float64(i)*0.1,
					Excerpt:   j.Transcript,
					Metadata: map[string]any{
						"customerId": j.CustomerID,
						"status":     j.Status,
					},
				})
			}
			return &reagent.ToolResult{
				Output:  map[string]any{"matches": rows},
				Sources: sources,
			}, nil
		},
	)
}

func (t *ToolSet) categoryBreakdown() reagent.Tool {
	return reagent.NewToolFunc(
		"analyze_category_breakdown",
		"Count journeys per category, largest first.",
		nil,
		func(_ context.Context, _ map[string]any) (*reagent.ToolResult, error) {
			counts := t.corpus.CountBy(func(j Journey) string { return j.Category })
			rows := make([]map[string]any, 0, len(counts))
			for category, count := range counts {
				rows = append(rows, map[string]any{"category": category, "count": count})
			}
			sort.Slice(rows, func(a, b int) bool {
				ca, cb := rows[a]["count"].(int), rows[b]["count"].(int)
				if ca != cb {
					return ca > cb
				}
				return rows[a]["category"].(string) < rows[b]["category"].(string)
			})
			return &reagent.ToolResult{
				Output: map[string]any{"categories": rows},
				Sources: []reagent.ResearchSource{{
					Type:      reagent.SourceAggregation,
					ID:        "agg:category_breakdown",
					Title:     "Journey category breakdown",
					Relevance: 0.9,
				}},
			}, nil
		},
	)
}

func (t *ToolSet) statusDistribution() reagent.Tool {
	return reagent.NewToolFunc(
		"analyze_status_distribution",
		"Count journeys per outcome status (resolved, escalated, abandoned).",
		nil,
		func(_ context.Context, _ map[string]any) (*reagent.ToolResult, error) {
			counts := t.corpus.CountBy(func(j Journey) string { return j.Status })
			return &reagent.ToolResult{
				Output: map[string]any{"statuses": anyMap(counts)},
				Sources: []reagent.ResearchSource{{
					Type:      reagent.SourceAggregation,
					ID:        "agg:status_distribution",
					Title:     "Journey outcome distribution",
					Relevance: 0.9,
				}},
			}, nil
		},
	)
}

func (t *ToolSet) slaCompliance() reagent.Tool {
	return reagent.NewToolFunc(
		"analyze_sla_compliance",
		"Count journeys that breached the response SLA versus those handled in time.",
		nil,
		func(_ context.Context, _ map[string]any) (*reagent.ToolResult, error) {
			breached := 0
			for _, j := range t.corpus.All() {
				if j.SLABreach {
					breached++
				}
			}
			total := t.corpus.Len()
			compliant := total - breached
			rate := 0.0
			if total > 0 {
				rate = float64(compliant) / float64(total)
			}
			return &reagent.ToolResult{
				Output: map[string]any{
					"breachedCount":  breached,
					"compliantCount": compliant,
					"complianceRate": rate,
				},
				Sources: []reagent.ResearchSource{{
					Type:      reagent.SourceAnalysis,
					ID:        "analysis:sla_compliance",
					Title:     "SLA compliance analysis",
					Relevance: 0.9,
				}},
			}, nil
		},
	)
}

func (t *ToolSet) sentiment() reagent.Tool {
	return reagent.NewToolFunc(
		"analyze_sentiment",
		"Count journeys per customer sentiment (negative, neutral, positive).",
		nil,
		func(_ context.Context, _ map[string]any) (*reagent.ToolResult, error) {
			counts := t.corpus.CountBy(func(j Journey) string { return j.Sentiment })
			return &reagent.ToolResult{
				Output: map[string]any{"sentiments": anyMap(counts)},
				Sources: []reagent.ResearchSource{{
					Type:      reagent.SourceAnalysis,
					ID:        "analysis:sentiment",
					Title:     "Customer sentiment analysis",
					Relevance: 0.9,
				}},
			}, nil
		},
	)
}

func (t *ToolSet) dailyTrends() reagent.Tool {
	return reagent.NewToolFunc(
		"analyze_daily_trends",
		"Count journeys opened per day over a lookback window, oldest day first.",
		schema.Object(map[string]*schema.Property{
			"days": schema.Integer("Lookback window in days").Min(1).Max(90).Default(30),
		}),
		func(_ context.Context, args map[string]any) (*reagent.ToolResult, error) {
			days := intArg(args, "days", 30)
			cutoff := t.now().AddDate(0, 0, -days)
			counts := make(map[string]int)
			for _, j := range t.corpus.Since(cutoff) {
				counts[j.OpenedAt.Format("2006-01-02")]++
			}
			dates := make([]string, 0, len(counts))
			for date := range counts {
				dates = append(dates, date)
			}
			sort.Strings(dates)
			rows := make([]map[string]any, 0, len(dates))
			for _, date := range dates {
				rows = append(rows, map[string]any{"date": date, "count": counts[date]})
			}
			return &reagent.ToolResult{
				Output: map[string]any{"daily": rows},
				Sources: []reagent.ResearchSource{{
					Type:      reagent.SourceAggregation,
					ID:        fmt.Sprintf("agg:daily_trends:%dd", days),
					Title:     fmt.Sprintf("Daily journey volume, last %d days", days),
					Relevance: 0.9,
				}},
			}, nil
		},
	)
}

// anyMap widens count maps to the shape chart extraction expects.
func anyMap(counts map[string]int) map[string]any {
	out := make(map[string]any, len(counts))
	for k, v := range counts {
		out[k] = v
	}
	return out
}

func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return def
	}
}
