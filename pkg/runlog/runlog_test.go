package runlog

import (
	"testing"
	"time"

	"germseval/pkg/core"

	"github.com/stretchr/testify/require"
)

func sampleReport() core.RunReport {
	return core.RunReport{
		Label:      "zero-shot-run",
		Dataset:    "germeval",
		RunnerName: "zero-shot/mock",
		Counts:     core.ConfusionCounts{TruePositive: 1, TrueNegative: 1},
		Metrics:    core.MetricReport{Precision: 1, Recall: 1, F1: 1, Accuracy: 1},
		Results: []core.ExampleResult{
			{
				Example: core.Example{ID: "1", Text: "a", GoldLabel: true},
				Raw:     core.RawPrediction{ID: "1", Source: core.SourceLLMText, Text: "Yes, sexist"},
				Verdict: core.VerdictSexist,
				Response: core.Response{
					Content:    "Yes, sexist",
					TokenUsage: core.TokenUsage{TotalTokens: 12},
				},
				Duration: 250 * time.Millisecond,
			},
			{
				Example: core.Example{ID: "2", Text: "b", GoldLabel: false},
				Raw:     core.RawPrediction{ID: "2", Source: core.SourceLLMText, Text: "No, not sexist"},
				Verdict: core.VerdictNotSexist,
			},
		},
		TokenUsage: core.TokenUsage{TotalTokens: 12},
		StartedAt:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2025, 6, 1, 10, 5, 0, 0, time.UTC),
	}
}

func TestFromRun(t *testing.T) {
	log := FromRun(sampleReport())

	require.Equal(t, 1, log.Version)
	require.NotEmpty(t, log.RunID)
	require.Equal(t, "zero-shot-run", log.Label)
	require.Equal(t, "germeval", log.Dataset)
	require.Len(t, log.Records, 2)
	require.Equal(t, "1", log.Records[0].ID)
	require.True(t, log.Records[0].GoldLabel)
	require.Equal(t, core.VerdictSexist, log.Records[0].Verdict)
	require.Equal(t, 12, log.Records[0].TotalTokens)
	require.InDelta(t, 0.25, log.Records[0].Seconds, 1e-9)
	require.Equal(t, "2025-06-01T10:00:00+00:00", log.StartedAt)
}

func TestWriteAndReadJSON(t *testing.T) {
	dir := t.TempDir()
	log := FromRun(sampleReport())

	path, err := WriteJSON(dir, log)
	require.NoError(t, err)
	require.FileExists(t, path)

	loaded, err := ReadJSON(path)
	require.NoError(t, err)
	require.Equal(t, log, loaded)
}

func TestWriteAndReadArchive(t *testing.T) {
	dir := t.TempDir()
	log := FromRun(sampleReport())

	path, err := WriteArchive(dir, log)
	require.NoError(t, err)

	loaded, err := ReadArchive(path)
	require.NoError(t, err)
	require.Equal(t, log, loaded)

	// Read dispatches on extension.
	viaRead, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, log, viaRead)
}

func TestToReportRoundTrip(t *testing.T) {
	report := sampleReport()
	rebuilt := ToReport(FromRun(report))

	require.Equal(t, report.Label, rebuilt.Label)
	require.Equal(t, report.Counts, rebuilt.Counts)
	require.Equal(t, report.Metrics, rebuilt.Metrics)
	require.Len(t, rebuilt.Results, 2)
	require.Equal(t, report.Results[0].Example, rebuilt.Results[0].Example)
	require.Equal(t, report.Results[0].Verdict, rebuilt.Results[0].Verdict)
	require.Equal(t, report.StartedAt, rebuilt.StartedAt.UTC())
}

func TestWriteJSONRequiresDir(t *testing.T) {
	_, err := WriteJSON("", RunLog{})
	require.Error(t, err)
}
