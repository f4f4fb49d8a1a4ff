package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/veridian-group/esia-cli/internal/report"
)

var reportOut string

var reportCmd = &cobra.Command{
	Use:   "report <run-id>",
	Short: "Export a run to an XLSX workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "report")
		}
		facts, err := st.ListFacts(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "report")
		}

		out := reportOut
		if out == "" {
			out = run.ID + ".xlsx"
		}

		if err := report.WriteRunXLSX(run, facts, out); err != nil {
			return err
		}

		zap.L().Info("report written",
			zap.String("run_id", run.ID),
			zap.String("path", out),
			zap.Int("facts", len(facts)),
		)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportOut, "out", "", "output path (default: <run-id>.xlsx)")
	rootCmd.AddCommand(reportCmd)
}
