package stats

import "sort"

// Dimension selects which environment breakdown is being aggregated.
type Dimension string

const (
	// DimensionPython is the Python minor-version distribution.
	DimensionPython Dimension = "python_version"
	// DimensionSystem is the operating-system distribution.
	DimensionSystem Dimension = "operating_system"
)

// CategoryCount is one labeled slice of an environment breakdown.
type CategoryCount struct {
	Label string
	Count int64
}

// EnvSummary is the merged environment breakdown across a set of packages.
// Categories are ordered by count descending, ties broken by label ascending,
// so chart and table output is reproducible.
type EnvSummary struct {
	Dimension  Dimension
	Categories []CategoryCount
	Total      int64
}

// AggregateEnv merges per-package breakdowns (category -> download count)
// into a single summary. A package missing a category simply contributes
// zero for it. Zero packages, or all-empty breakdowns, produce a summary
// with Total 0 and no categories; renderers substitute a placeholder.
func AggregateEnv(dim Dimension, breakdowns []map[string]int64) EnvSummary {
	acc := make(map[string]int64)
	for _, b := range breakdowns {
		for label, count := range b {
			acc[label] += count
		}
	}

	summary := EnvSummary{Dimension: dim}
	for label, count := range acc {
		summary.Categories = append(summary.Categories, CategoryCount{Label: label, Count: count})
		summary.Total += count
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		a, b := summary.Categories[i], summary.Categories[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Label < b.Label
	})
	return summary
}
