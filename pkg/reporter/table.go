package reporter

import (
	"fmt"
	"io"

	"germseval/pkg/core"

	"github.com/olekukonko/tablewriter"
)

type TableReporter struct {
	Writer io.Writer
}

func (r TableReporter) Report(report core.RunReport) error {
	fmt.Fprintf(r.Writer, "Run: %s (runner %s, dataset %s)\n", report.Label, report.RunnerName, report.Dataset)

	table := tablewriter.NewWriter(r.Writer)
	table.Header([]string{"Metric", "Value"})
	table.Append([]string{"Examples", fmt.Sprintf("%d", report.Counts.Total())})
	table.Append([]string{"True positives", fmt.Sprintf("%d", report.Counts.TruePositive)})
	table.Append([]string{"False positives", fmt.Sprintf("%d", report.Counts.FalsePositive)})
	table.Append([]string{"True negatives", fmt.Sprintf("%d", report.Counts.TrueNegative)})
	table.Append([]string{"False negatives", fmt.Sprintf("%d", report.Counts.FalseNegative)})
	table.Append([]string{"Unresolved", fmt.Sprintf("%d", report.Counts.Unresolved)})
	table.Append([]string{"Precision", fmt.Sprintf("%.4f", report.Metrics.Precision)})
	table.Append([]string{"Recall", fmt.Sprintf("%.4f", report.Metrics.Recall)})
	table.Append([]string{"F1", fmt.Sprintf("%.4f", report.Metrics.F1)})
	table.Append([]string{"Accuracy", fmt.Sprintf("%.4f", report.Metrics.Accuracy)})
	table.Append([]string{"Unresolved rate", fmt.Sprintf("%.4f", report.Metrics.UnresolvedRate)})
	table.Render()
	return nil
}

func (r TableReporter) Compare(reports []core.RunReport) error {
	table := tablewriter.NewWriter(r.Writer)
	table.Header([]string{"Rank", "Run", "F1", "Accuracy", "Precision", "Recall", "Unresolved"})
	for idx, report := range reports {
		table.Append([]string{
			fmt.Sprintf("%d", idx+1),
			report.Label,
			fmt.Sprintf("%.4f", report.Metrics.F1),
			fmt.Sprintf("%.4f", report.Metrics.Accuracy),
			fmt.Sprintf("%.4f", report.Metrics.Precision),
			fmt.Sprintf("%.4f", report.Metrics.Recall),
			fmt.Sprintf("%d", report.Counts.Unresolved),
		})
	}
	table.Render()
	return nil
}
