package tests

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"germseval/pkg/align"
	"germseval/pkg/core"
	"germseval/pkg/dataset"
	"germseval/pkg/harness"
	"germseval/pkg/metrics"
	"germseval/pkg/model"
	"germseval/pkg/normalize"
	"germseval/pkg/runlog"
	"germseval/pkg/runner"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestEndToEndZeroShot(t *testing.T) {
	path := writeFile(t, "tweets.jsonl", `{"id":"1","text":"erste","gold_label":true}
{"id":"2","text":"zweite","gold_label":false}`)

	ds := dataset.NewFileDataset(path)

	h := harness.Harness{
		Dataset:    ds,
		Runner:     runner.ZeroShot{Model: model.MockModel{ResponseText: "Yes, sexist. It demeans women."}},
		Normalizer: normalize.New(),
		Workers:    2,
	}

	report, err := h.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, report.Counts.Total())
	require.Equal(t, 1, report.Counts.TruePositive)
	require.Equal(t, 1, report.Counts.FalsePositive)
	require.InDelta(t, 0.5, report.Metrics.Precision, 1e-9)
	require.InDelta(t, 1.0, report.Metrics.Recall, 1e-9)
	require.InDelta(t, 0.5, report.Metrics.Accuracy, 1e-9)
}

func TestEndToEndStaticPredictions(t *testing.T) {
	datasetPath := writeFile(t, "tweets.jsonl", `{"id":"1","text":"a","gold_label":true}
{"id":"2","text":"b","gold_label":false}
{"id":"3","text":"c","gold_label":true}`)
	predictionsPath := writeFile(t, "scores.jsonl", `{"id":"1","score":0.91}
{"id":"2","score":0.12}
{"id":"3","score":0.50}`)

	ds := dataset.NewFileDataset(datasetPath)
	raws, err := dataset.LoadPredictions(predictionsPath, core.SourceClassifierScore)
	require.NoError(t, err)
	indexed, err := align.Raw(raws)
	require.NoError(t, err)

	h := harness.Harness{
		Dataset:    ds,
		Runner:     runner.NewStatic("finetuned", indexed),
		Normalizer: normalize.New(),
	}

	report, err := h.Run(context.Background())
	require.NoError(t, err)
	// 0.50 sits exactly on the boundary and counts as sexist.
	require.Equal(t, 2, report.Counts.TruePositive)
	require.Equal(t, 1, report.Counts.TrueNegative)
	require.Equal(t, 1.0, report.Metrics.F1)
	require.Equal(t, 1.0, report.Metrics.Accuracy)
}

func TestEndToEndAnnotatedCorpus(t *testing.T) {
	path := writeFile(t, "annotated.jsonl", `{"id":"1","text":"erste\nzeile","annotations":[{"user":"a","label":"2-Mittel"},{"user":"b","label":"0-Kein"},{"user":"c","label":"1-Gering"}]}
{"id":"2","text":"zweite","annotations":[{"user":"a","label":"0-Kein"},{"user":"b","label":"0-Kein"},{"user":"c","label":"3-Stark"}]}`)

	ds, err := dataset.LoadAnnotated(path, dataset.GoldOne)
	require.NoError(t, err)

	examples, err := dataset.Collect(context.Background(), ds)
	require.NoError(t, err)
	require.Len(t, examples, 2)
	require.Equal(t, "erste zeile", examples[0].Text)
	require.True(t, examples[0].GoldLabel)
	require.True(t, examples[1].GoldLabel)

	h := harness.Harness{
		Dataset:    ds,
		Runner:     runner.ZeroShot{Model: model.MockModel{ResponseText: "Ja, das ist sexistisch."}},
		Normalizer: normalize.New(),
	}

	report, err := h.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, report.Counts.TruePositive)
	require.Equal(t, 1.0, report.Metrics.Accuracy)
}

func TestEndToEndUnresolvedVerdicts(t *testing.T) {
	path := writeFile(t, "tweets.jsonl", `{"id":"1","text":"a","gold_label":true}
{"id":"2","text":"b","gold_label":false}`)

	h := harness.Harness{
		Dataset:    dataset.NewFileDataset(path),
		Runner:     runner.ZeroShot{Model: model.MockModel{ResponseText: "I cannot make that determination."}},
		Normalizer: normalize.New(),
	}

	report, err := h.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, report.Counts.Unresolved)
	require.Equal(t, 0, report.Counts.Resolved())
	require.Equal(t, 0.0, report.Metrics.F1)
	require.Equal(t, 0.0, report.Metrics.Accuracy)
	require.Equal(t, 1.0, report.Metrics.UnresolvedRate)
}

func TestEndToEndMisalignedPredictionsAbort(t *testing.T) {
	datasetPath := writeFile(t, "tweets.jsonl", `{"id":"1","text":"a","gold_label":true}
{"id":"2","text":"b","gold_label":false}`)

	h := harness.Harness{
		Dataset: dataset.NewFileDataset(datasetPath),
		Runner: runner.NewStatic("partial", map[string]core.RawPrediction{
			"1": {ID: "1", Source: core.SourceClassifierScore, Score: 0.9},
		}),
		Normalizer: normalize.New(),
	}

	_, err := h.Run(context.Background())
	require.Error(t, err)
}

func TestEndToEndCompareRuns(t *testing.T) {
	datasetPath := writeFile(t, "tweets.jsonl", `{"id":"1","text":"a","gold_label":true}
{"id":"2","text":"b","gold_label":false}`)
	logDir := t.TempDir()

	runOnce := func(label, response string) string {
		h := harness.Harness{
			Dataset:    dataset.NewFileDataset(datasetPath),
			Runner:     runner.ZeroShot{Model: model.MockModel{ResponseText: response}},
			Normalizer: normalize.New(),
			Label:      label,
		}
		report, err := h.Run(context.Background())
		require.NoError(t, err)
		path, err := runlog.WriteJSON(filepath.Join(logDir, label), runlog.FromRun(report))
		require.NoError(t, err)
		return path
	}

	allSexist := runOnce("all-sexist", "Yes, sexist.")
	allClean := runOnce("all-clean", "No, not sexist.")

	var reports []core.RunReport
	for _, path := range []string{allClean, allSexist} {
		log, err := runlog.Read(path)
		require.NoError(t, err)
		reports = append(reports, runlog.ToReport(log))
	}

	ranked := metrics.Rank(reports)
	require.Equal(t, "all-sexist", ranked[0].Label)
	require.Equal(t, "all-clean", ranked[1].Label)
}
