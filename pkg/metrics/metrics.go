// Package metrics folds aligned pairs into confusion counts and derives
// the metric report. Pure reductions: no I/O, no hidden state, repeatable.
package metrics

import (
	"germseval/pkg/align"
	"germseval/pkg/core"
)

// Fold accumulates confusion counts over aligned pairs. Unknown verdicts
// land in Unresolved and stay out of the four confusion buckets.
func Fold(pairs []align.Pair) core.ConfusionCounts {
	var counts core.ConfusionCounts
	for _, pair := range pairs {
		counts.Add(pair.Example.GoldLabel, pair.Prediction.Verdict)
	}
	return counts
}

// Derive computes the metric report from final counts. Every zero
// denominator degrades to 0 so automated comparison tooling always gets a
// complete numeric report: no positive predictions means precision 0, not
// undefined.
func Derive(counts core.ConfusionCounts) core.MetricReport {
	report := core.MetricReport{}

	if denom := counts.TruePositive + counts.FalsePositive; denom > 0 {
		report.Precision = float64(counts.TruePositive) / float64(denom)
	}
	if denom := counts.TruePositive + counts.FalseNegative; denom > 0 {
		report.Recall = float64(counts.TruePositive) / float64(denom)
	}
	if denom := report.Precision + report.Recall; denom > 0 {
		report.F1 = 2 * report.Precision * report.Recall / denom
	}
	if resolved := counts.Resolved(); resolved > 0 {
		report.Accuracy = float64(counts.TruePositive+counts.TrueNegative) / float64(resolved)
	}
	if total := counts.Total(); total > 0 {
		report.UnresolvedRate = float64(counts.Unresolved) / float64(total)
	}

	return report
}
