package reporter

import (
	"html/template"
	"io"

	"germseval/pkg/core"
)

type HTMLReporter struct {
	Writer io.Writer
	Title  string
}

func (r HTMLReporter) Report(report core.RunReport) error {
	title := r.Title
	if title == "" {
		title = "Evaluation Report"
	}

	data := struct {
		Title  string
		Report core.RunReport
	}{
		Title:  title,
		Report: report,
	}

	tpl := template.Must(template.New("report").Parse(htmlTemplate))
	return tpl.Execute(r.Writer, data)
}

const htmlTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{ .Title }}</title>
  <style>
    body { font-family: Arial, sans-serif; margin: 24px; }
    table { border-collapse: collapse; width: 100%; margin-top: 16px; }
    th, td { border: 1px solid #ddd; padding: 8px; }
    th { background: #f5f5f5; text-align: left; }
    .meta { margin-bottom: 12px; }
  </style>
</head>
<body>
  <h1>{{ .Title }}</h1>
  <div class="meta">
    <div><strong>Run:</strong> {{ .Report.Label }}</div>
    <div><strong>Runner:</strong> {{ .Report.RunnerName }}</div>
    <div><strong>Dataset:</strong> {{ .Report.Dataset }}</div>
  </div>
  <h2>Summary</h2>
  <table>
    <tr><th>Metric</th><th>Value</th></tr>
    <tr><td>Examples</td><td>{{ .Report.Counts.Total }}</td></tr>
    <tr><td>Precision</td><td>{{ printf "%.4f" .Report.Metrics.Precision }}</td></tr>
    <tr><td>Recall</td><td>{{ printf "%.4f" .Report.Metrics.Recall }}</td></tr>
    <tr><td>F1</td><td>{{ printf "%.4f" .Report.Metrics.F1 }}</td></tr>
    <tr><td>Accuracy</td><td>{{ printf "%.4f" .Report.Metrics.Accuracy }}</td></tr>
    <tr><td>Unresolved rate</td><td>{{ printf "%.4f" .Report.Metrics.UnresolvedRate }}</td></tr>
  </table>
  <h2>Examples</h2>
  <table>
    <tr><th>ID</th><th>Tweet</th><th>Gold</th><th>Verdict</th><th>Error</th></tr>
    {{ range .Report.Results }}
    <tr>
      <td>{{ .Example.ID }}</td>
      <td>{{ .Example.Text }}</td>
      <td>{{ if .Example.GoldLabel }}sexist{{ else }}not_sexist{{ end }}</td>
      <td>{{ .Verdict.String }}</td>
      <td>{{ .Error }}</td>
    </tr>
    {{ end }}
  </table>
</body>
</html>
`
