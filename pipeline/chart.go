package pipeline

import "strings"

// chartKeywords is the visualization-intent vocabulary. Matching is a
// plain case-insensitive substring check with no negation handling;
// over-triggering is acceptable because chart failures never fail the
// pipeline.
var chartKeywords = []string{
	"chart", "graph", "plot", "visualize", "visualization", "show me",
	"display", "trend", "comparison", "compare", "distribution",
	"bar chart", "line chart", "pie chart", "histogram", "scatter",
}

// NeedsChart reports whether the question asks for a visualization.
func NeedsChart(question string) bool {
	lower := strings.ToLower(question)
	for _, kw := range chartKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
