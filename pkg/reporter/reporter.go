// Package reporter renders run reports and run comparisons in several
// output formats.
package reporter

import (
	"fmt"
	"io"

	"germseval/pkg/core"
)

// Reporter writes a single evaluation run.
type Reporter interface {
	Report(report core.RunReport) error
}

// CompareReporter writes a ranked set of runs side by side.
type CompareReporter interface {
	Compare(reports []core.RunReport) error
}

const (
	FormatJSON     = "json"
	FormatTable    = "table"
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
)

// New returns the reporter for a format name.
func New(format string, w io.Writer) (Reporter, error) {
	switch format {
	case FormatTable, "":
		return TableReporter{Writer: w}, nil
	case FormatJSON:
		return JSONReporter{Writer: w, Pretty: true}, nil
	case FormatMarkdown:
		return MarkdownReporter{Writer: w}, nil
	case FormatCSV:
		return CSVReporter{Writer: w}, nil
	case FormatHTML:
		return HTMLReporter{Writer: w}, nil
	default:
		return nil, fmt.Errorf("reporter: unknown format %q", format)
	}
}

// NewCompare returns the comparison reporter for a format name. CSV and
// HTML have no comparison rendering.
func NewCompare(format string, w io.Writer) (CompareReporter, error) {
	switch format {
	case FormatTable, "":
		return TableReporter{Writer: w}, nil
	case FormatJSON:
		return JSONReporter{Writer: w, Pretty: true}, nil
	case FormatMarkdown:
		return MarkdownReporter{Writer: w}, nil
	default:
		return nil, fmt.Errorf("reporter: format %q does not support comparison", format)
	}
}
