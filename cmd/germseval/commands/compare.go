package commands

import (
	"os"

	"germseval/pkg/core"
	"germseval/pkg/metrics"
	"germseval/pkg/reporter"
	"germseval/pkg/runlog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCompareCommand() *cobra.Command {
	var (
		format     string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "compare <run-log>...",
		Short: "Rank saved runs by F1, then accuracy",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reports := make([]core.RunReport, 0, len(args))
			for _, path := range args {
				log, err := runlog.Read(path)
				if err != nil {
					return err
				}
				reports = append(reports, runlog.ToReport(log))
			}

			ranked := metrics.Rank(reports)
			logger.Info("runs ranked",
				zap.Int("runs", len(ranked)),
				zap.String("best", ranked[0].Label),
			)

			writer := os.Stdout
			if outputPath != "" {
				file, err := os.Create(outputPath)
				if err != nil {
					return err
				}
				defer file.Close()
				writer = file
			}

			formatResolved := resolveString(format, appConfig.Format)
			rep, err := reporter.NewCompare(formatResolved, writer)
			if err != nil {
				return err
			}
			return rep.Compare(ranked)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "output format (table, json, markdown)")
	cmd.Flags().StringVar(&outputPath, "output", "", "output file path")

	return cmd
}
