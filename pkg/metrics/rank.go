package metrics

import (
	"sort"

	"germseval/pkg/core"
)

// Rank orders run reports best-first: F1 descending, ties broken by
// accuracy descending, then by run label ascending so the order is total
// and deterministic across invocations. The input is not mutated.
func Rank(runs []core.RunReport) []core.RunReport {
	ranked := make([]core.RunReport, len(runs))
	copy(ranked, runs)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Metrics.F1 != b.Metrics.F1 {
			return a.Metrics.F1 > b.Metrics.F1
		}
		if a.Metrics.Accuracy != b.Metrics.Accuracy {
			return a.Metrics.Accuracy > b.Metrics.Accuracy
		}
		return a.Label < b.Label
	})

	return ranked
}
