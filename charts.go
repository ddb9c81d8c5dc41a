package reagent

import (
	"encoding/json"
	"sort"
)

// ChartType identifies how a chart should be rendered.
type ChartType string

const (
	ChartBar        ChartType = "bar"
	ChartPie        ChartType = "pie"
	ChartTimeSeries ChartType = "time-series"
)

// ChartEntry is one labeled value in a chart.
type ChartEntry struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
}

// ChartDescriptor is a render-ready chart derived from tool output. The
// engine produces descriptors only; drawing is the caller's concern.
type ChartDescriptor struct {
	Type    ChartType    `json:"type"`
	Title   string       `json:"title"`
	Entries []ChartEntry `json:"entries"`
}

// maxCharts caps how many charts a single response may carry.
const maxCharts = 3

// maxBarEntries caps the series length of bar charts.
const maxBarEntries = 6

// chartPalette is cycled through entries in order.
var chartPalette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2",
	"#59a14f", "#edc948", "#b07aa1", "#ff9da7",
}

func paletteColor(i int) string {
	return chartPalette[i%len(chartPalette)]
}

// ExtractCharts derives charts from the run's successful analysis tool
// calls, in execution order, up to the chart cap. Each recognized tool
// contributes at most one chart; unrecognized tools and calls whose output
// does not match the expected shape are skipped silently.
func ExtractCharts(actions []AgentAction) []ChartDescriptor {
	charts := make([]ChartDescriptor, 0, maxCharts)
	for _, action := range actions {
		if len(charts) >= maxCharts {
			break
		}
		if !action.Success {
			continue
		}
		var chart *ChartDescriptor
		switch action.Tool {
		case "analyze_category_breakdown":
			chart = categoryChart(action.Output)
		case "analyze_status_distribution":
			chart = keyedPieChart(action.Output, "statuses", "Status Distribution")
		case "analyze_sla_compliance":
			chart = slaChart(action.Output)
		case "analyze_sentiment":
			chart = keyedPieChart(action.Output, "sentiments", "Sentiment Breakdown")
		case "analyze_daily_trends":
			chart = dailyTrendChart(action.Output)
		}
		if chart != nil && len(chart.Entries) > 0 {
			charts = append(charts, *chart)
		}
	}
	return charts
}

// categoryChart expects {"categories": [{"category": ..., "count": ...}]}
// and keeps the given order, capped to the bar series limit.
func categoryChart(output any) *ChartDescriptor {
	m := asMap(output)
	if m == nil {
		return nil
	}
	rows, ok := m["categories"].([]any)
	if !ok {
		rows2, ok2 := m["categories"].([]map[string]any)
		if !ok2 {
			return nil
		}
		rows = make([]any, len(rows2))
		for i, r := range rows2 {
			rows[i] = r
		}
	}
	chart := &ChartDescriptor{Type: ChartBar, Title: "Category Breakdown"}
	for _, row := range rows {
		if len(chart.Entries) >= maxBarEntries {
			break
		}
		rm := asMap(row)
		if rm == nil {
			continue
		}
		label, _ := rm["category"].(string)
		count, ok := asFloat(rm["count"])
		if label == "" || !ok {
			continue
		}
		chart.Entries = append(chart.Entries, ChartEntry{
			Label: label,
			Value: count,
			Color: paletteColor(len(chart.Entries)),
		})
	}
	return chart
}

// keyedPieChart expects {key: {label: count, ...}}. Map iteration order is
// not stable, so labels are sorted for deterministic output. Zero-value
// segments are dropped.
func keyedPieChart(output any, key, title string) *ChartDescriptor {
	m := asMap(output)
	if m == nil {
		return nil
	}
	dist := asMap(m[key])
	if dist == nil {
		return nil
	}
	labels := make([]string, 0, len(dist))
	for label := range dist {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	chart := &ChartDescriptor{Type: ChartPie, Title: title}
	for _, label := range labels {
		value, ok := asFloat(dist[label])
		if !ok || value == 0 {
			continue
		}
		chart.Entries = append(chart.Entries, ChartEntry{
			Label: label,
			Value: value,
			Color: paletteColor(len(chart.Entries)),
		})
	}
	return chart
}

// slaChart expects {"breachedCount": n, "compliantCount": n}. Zero-valued
// slices are dropped so an all-compliant period renders as a single slice.
func slaChart(output any) *ChartDescriptor {
	m := asMap(output)
	if m == nil {
		return nil
	}
	breached, okB := asFloat(m["breachedCount"])
	compliant, okC := asFloat(m["compliantCount"])
	if !okB && !okC {
		return nil
	}
	chart := &ChartDescriptor{Type: ChartPie, Title: "SLA Compliance"}
	if breached > 0 {
		chart.Entries = append(chart.Entries, ChartEntry{
			Label: "Breached", Value: breached, Color: paletteColor(len(chart.Entries)),
		})
	}
	if compliant > 0 {
		chart.Entries = append(chart.Entries, ChartEntry{
			Label: "Compliant", Value: compliant, Color: paletteColor(len(chart.Entries)),
		})
	}
	return chart
}

// dailyTrendChart expects {"daily": [{"date": ..., "count": ...}]} and
// keeps the given order.
func dailyTrendChart(output any) *ChartDescriptor {
	m := asMap(output)
	if m == nil {
		return nil
	}
	rows, ok := m["daily"].([]any)
	if !ok {
		rows2, ok2 := m["daily"].([]map[string]any)
		if !ok2 {
			return nil
		}
		rows = make([]any, len(rows2))
		for i, r := range rows2 {
			rows[i] = r
		}
	}
	chart := &ChartDescriptor{Type: ChartTimeSeries, Title: "Daily Volume"}
	for _, row := range rows {
		rm := asMap(row)
		if rm == nil {
			continue
		}
		date, _ := rm["date"].(string)
		count, ok := asFloat(rm["count"])
		if date == "" || !ok {
			continue
		}
		chart.Entries = append(chart.Entries, ChartEntry{Label: date, Value: count})
	}
	return chart
}

func asMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	default:
		return nil
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
