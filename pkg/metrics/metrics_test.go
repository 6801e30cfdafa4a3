package metrics

import (
	"math/rand"
	"testing"

	"germseval/pkg/align"
	"germseval/pkg/core"
	"germseval/pkg/normalize"

	"github.com/stretchr/testify/require"
)

func pair(id string, gold bool, verdict core.Verdict) align.Pair {
	return align.Pair{
		Example:    core.Example{ID: id, GoldLabel: gold},
		Prediction: core.NormalizedPrediction{ID: id, Verdict: verdict},
	}
}

func TestFoldClassificationRule(t *testing.T) {
	counts := Fold([]align.Pair{
		pair("1", true, core.VerdictSexist),
		pair("2", false, core.VerdictNotSexist),
		pair("3", true, core.VerdictNotSexist),
		pair("4", false, core.VerdictSexist),
		pair("5", true, core.VerdictUnknown),
	})

	require.Equal(t, 1, counts.TruePositive)
	require.Equal(t, 1, counts.TrueNegative)
	require.Equal(t, 1, counts.FalseNegative)
	require.Equal(t, 1, counts.FalsePositive)
	require.Equal(t, 1, counts.Unresolved)
	require.Equal(t, 4, counts.Resolved())
	require.Equal(t, 5, counts.Total())
}

func TestDerivePerfectRun(t *testing.T) {
	// Examples 1 (gold sexist) and 2 (gold not sexist) with verdicts
	// extracted from "Yes, this is sexist." and "No, not sexist."
	n := normalize.New()
	p1, err := n.Normalize(core.RawPrediction{ID: "1", Source: core.SourceLLMText, Text: "Yes, this is sexist."})
	require.NoError(t, err)
	p2, err := n.Normalize(core.RawPrediction{ID: "2", Source: core.SourceLLMText, Text: "No, not sexist."})
	require.NoError(t, err)

	counts := Fold([]align.Pair{
		{Example: core.Example{ID: "1", Text: "t1", GoldLabel: true}, Prediction: p1},
		{Example: core.Example{ID: "2", Text: "t2", GoldLabel: false}, Prediction: p2},
	})
	require.Equal(t, core.ConfusionCounts{TruePositive: 1, TrueNegative: 1}, counts)

	report := Derive(counts)
	require.Equal(t, 1.0, report.Precision)
	require.Equal(t, 1.0, report.Recall)
	require.Equal(t, 1.0, report.F1)
	require.Equal(t, 1.0, report.Accuracy)
	require.Equal(t, 0.0, report.UnresolvedRate)
}

func TestDeriveUnresolvedExcludedFromAccuracy(t *testing.T) {
	counts := Fold([]align.Pair{
		pair("1", true, core.VerdictSexist),
		pair("2", false, core.VerdictUnknown),
	})

	report := Derive(counts)
	require.Equal(t, 0.5, report.UnresolvedRate)
	require.Equal(t, 1.0, report.Accuracy, "accuracy runs over the single resolved example")
}

func TestDeriveZeroDenominators(t *testing.T) {
	// No positive predictions at all: precision is defined as 0, not NaN.
	counts := core.ConfusionCounts{TrueNegative: 3, FalseNegative: 2}
	report := Derive(counts)
	require.Equal(t, 0.0, report.Precision)
	require.Equal(t, 0.0, report.F1)

	// Empty run: everything numeric, everything 0.
	report = Derive(core.ConfusionCounts{})
	require.Equal(t, core.MetricReport{}, report)
}

func TestFoldIsOrderIndependent(t *testing.T) {
	pairs := []align.Pair{
		pair("1", true, core.VerdictSexist),
		pair("2", false, core.VerdictNotSexist),
		pair("3", true, core.VerdictUnknown),
		pair("4", false, core.VerdictSexist),
	}
	want := Fold(pairs)

	shuffled := make([]align.Pair, len(pairs))
	copy(shuffled, pairs)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		require.Equal(t, want, Fold(shuffled))
	}
}

func TestRankOrdering(t *testing.T) {
	runs := []core.RunReport{
		{Label: "finetuned", Metrics: core.MetricReport{F1: 0.7, Accuracy: 0.8}},
		{Label: "zeroshot", Metrics: core.MetricReport{F1: 0.9, Accuracy: 0.85}},
		{Label: "rag", Metrics: core.MetricReport{F1: 0.9, Accuracy: 0.9}},
	}

	ranked := Rank(runs)
	require.Equal(t, []string{"rag", "zeroshot", "finetuned"}, labels(ranked))

	// Input order preserved.
	require.Equal(t, "finetuned", runs[0].Label)
}

func TestRankLabelTieBreak(t *testing.T) {
	runs := []core.RunReport{
		{Label: "b", Metrics: core.MetricReport{F1: 0.5, Accuracy: 0.5}},
		{Label: "a", Metrics: core.MetricReport{F1: 0.5, Accuracy: 0.5}},
	}
	require.Equal(t, []string{"a", "b"}, labels(Rank(runs)))
}

func labels(runs []core.RunReport) []string {
	out := make([]string, len(runs))
	for i, r := range runs {
		out[i] = r.Label
	}
	return out
}
