package reporter

import (
	"fmt"
	"io"

	"germseval/pkg/core"
)

type MarkdownReporter struct {
	Writer io.Writer
}

func (r MarkdownReporter) Report(report core.RunReport) error {
	if _, err := fmt.Fprintf(r.Writer, "# Evaluation Report\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(r.Writer, "- Run: %s\n- Runner: %s\n- Dataset: %s\n\n", report.Label, report.RunnerName, report.Dataset); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(r.Writer, "## Summary\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(r.Writer, "| Metric | Value |\n|---|---|\n"); err != nil {
		return err
	}
	lines := []struct {
		Name  string
		Value string
	}{
		{"Examples", fmt.Sprintf("%d", report.Counts.Total())},
		{"Precision", fmt.Sprintf("%.4f", report.Metrics.Precision)},
		{"Recall", fmt.Sprintf("%.4f", report.Metrics.Recall)},
		{"F1", fmt.Sprintf("%.4f", report.Metrics.F1)},
		{"Accuracy", fmt.Sprintf("%.4f", report.Metrics.Accuracy)},
		{"Unresolved rate", fmt.Sprintf("%.4f", report.Metrics.UnresolvedRate)},
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(r.Writer, "| %s | %s |\n", line.Name, line.Value); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(r.Writer, "\n## Examples\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(r.Writer, "| ID | Tweet | Gold | Verdict | Error |\n|---|---|---|---|---|\n"); err != nil {
		return err
	}
	for _, result := range report.Results {
		if _, err := fmt.Fprintf(
			r.Writer,
			"| %s | %s | %s | %s | %s |\n",
			result.Example.ID,
			escapePipe(result.Example.Text),
			goldWord(result.Example.GoldLabel),
			result.Verdict.String(),
			escapePipe(result.Error),
		); err != nil {
			return err
		}
	}
	return nil
}

func (r MarkdownReporter) Compare(reports []core.RunReport) error {
	if _, err := fmt.Fprintf(r.Writer, "# Run Comparison\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(r.Writer, "| Rank | Run | F1 | Accuracy | Precision | Recall |\n|---|---|---|---|---|---|\n"); err != nil {
		return err
	}
	for idx, report := range reports {
		if _, err := fmt.Fprintf(
			r.Writer,
			"| %d | %s | %.4f | %.4f | %.4f | %.4f |\n",
			idx+1,
			escapePipe(report.Label),
			report.Metrics.F1,
			report.Metrics.Accuracy,
			report.Metrics.Precision,
			report.Metrics.Recall,
		); err != nil {
			return err
		}
	}
	return nil
}

func goldWord(sexist bool) string {
	if sexist {
		return "sexist"
	}
	return "not_sexist"
}

func escapePipe(input string) string {
	if input == "" {
		return ""
	}
	out := make([]rune, 0, len(input))
	for _, r := range input {
		if r == '|' {
			out = append(out, '\\', r)
		} else if r == '\n' || r == '\r' {
			out = append(out, ' ')
		} else {
			out = append(out, r)
		}
	}
	return string(out)
}
