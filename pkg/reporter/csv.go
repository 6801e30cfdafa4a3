package reporter

import (
	"encoding/csv"
	"io"
	"strconv"

	"germseval/pkg/core"
)

type CSVReporter struct {
	Writer io.Writer
}

func (r CSVReporter) Report(report core.RunReport) error {
	writer := csv.NewWriter(r.Writer)
	header := []string{"id", "text", "gold_label", "verdict", "source", "score", "raw_text", "error", "duration_seconds"}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, result := range report.Results {
		record := []string{
			result.Example.ID,
			result.Example.Text,
			strconv.FormatBool(result.Example.GoldLabel),
			result.Verdict.String(),
			string(result.Raw.Source),
			strconv.FormatFloat(result.Raw.Score, 'f', 4, 64),
			result.Raw.Text,
			result.Error,
			strconv.FormatFloat(result.Duration.Seconds(), 'f', 6, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
