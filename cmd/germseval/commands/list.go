package commands

import (
	"os"

	"germseval/pkg/normalize"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available components",
		RunE: func(cmd *cobra.Command, args []string) error {
			writeList("Providers", []string{"mock", "openai", "anthropic", "gemini", "ollama"})
			writeList("Runners", []string{"zero-shot", "few-shot", "static (via --predictions)"})
			writeList("Gold strategies", []string{"majority", "one", "all"})
			writeList("Formats", []string{"table", "json", "html", "markdown", "csv"})
			writeList("Affirmative markers", normalize.DefaultAffirmativeMarkers)
			writeList("Negative markers", normalize.DefaultNegativeMarkers)
			return nil
		},
	}
	return cmd
}

func writeList(title string, items []string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{title})
	for _, item := range items {
		table.Append([]string{item})
	}
	table.Render()
}
