package align

import (
	"testing"

	"germseval/pkg/core"

	"github.com/stretchr/testify/require"
)

func examplesFixture() []core.Example {
	return []core.Example{
		{ID: "1", Text: "t1", GoldLabel: true},
		{ID: "2", Text: "t2", GoldLabel: false},
		{ID: "3", Text: "t3", GoldLabel: true},
	}
}

func TestExamplesKeepsDatasetOrder(t *testing.T) {
	preds := map[string]core.NormalizedPrediction{
		"3": {ID: "3", Verdict: core.VerdictSexist},
		"1": {ID: "1", Verdict: core.VerdictSexist},
		"2": {ID: "2", Verdict: core.VerdictNotSexist},
	}

	pairs, err := Examples(examplesFixture(), preds)
	require.NoError(t, err)
	require.Len(t, pairs, 3)
	for i, want := range []string{"1", "2", "3"} {
		require.Equal(t, want, pairs[i].Example.ID)
		require.Equal(t, want, pairs[i].Prediction.ID)
	}
}

func TestExamplesMismatch(t *testing.T) {
	preds := map[string]core.NormalizedPrediction{
		"1": {ID: "1", Verdict: core.VerdictSexist},
		"3": {ID: "3", Verdict: core.VerdictSexist},
		"9": {ID: "9", Verdict: core.VerdictNotSexist},
	}

	pairs, err := Examples(examplesFixture(), preds)
	require.Nil(t, pairs)

	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, []string{"2"}, mismatch.Missing)
	require.Equal(t, []string{"9"}, mismatch.Extra)
}

func TestExamplesDuplicateIDs(t *testing.T) {
	examples := []core.Example{
		{ID: "1", Text: "a"},
		{ID: "1", Text: "b"},
	}
	preds := map[string]core.NormalizedPrediction{
		"1": {ID: "1", Verdict: core.VerdictSexist},
	}

	_, err := Examples(examples, preds)
	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, []string{"1"}, mismatch.Duplicate)
}

func TestRawRejectsDuplicates(t *testing.T) {
	_, err := Raw([]core.RawPrediction{
		{ID: "1", Source: core.SourceLLMText, Text: "yes"},
		{ID: "1", Source: core.SourceLLMText, Text: "no"},
	})
	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, []string{"1"}, mismatch.Duplicate)
}

func TestRawIndexesByID(t *testing.T) {
	indexed, err := Raw([]core.RawPrediction{
		{ID: "2", Source: core.SourceClassifierScore, Score: 0.9},
		{ID: "1", Source: core.SourceLLMText, Text: "no"},
	})
	require.NoError(t, err)
	require.Len(t, indexed, 2)
	require.Equal(t, 0.9, indexed["2"].Score)
}
