package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fulfill/internal/pipeline"
	"fulfill/internal/services/pdftext"
	"fulfill/internal/services/xlsx"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dirFlag string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Ingest, organize, and export the orders in the main directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			main, err := ctx.resolveDir(cmd.Context(), dirFlag, "Choose the main fulfillment folder")
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(cfg, store, pdftext.New(), xlsx.NewSink(cfg.Export.Sheet), logger)
			summary, err := runner.Run(cmd.Context(), main)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderSummary([][2]string{
				{"Run", summary.RunID},
				{"Batch", summary.Batch},
				{"Orders processed", strconv.Itoa(summary.Orders)},
				{"Sub-orders split", strconv.Itoa(summary.SubOrders)},
				{"Records", strconv.Itoa(summary.Records)},
				{"Unreadable documents", strconv.Itoa(summary.Unreadable)},
				{"Ledger rows added", strconv.Itoa(summary.LedgerAdded)},
				{"Export", summary.ExportPath},
				{"Ledger", summary.LedgerPath},
			}))
			if summary.Unreadable > 0 {
				fmt.Fprintln(out, "Some documents could not be read; run `fulfill orders --status review` to see which orders need a look.")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dirFlag, "dir", "d", "", "Main directory (defaults to the folder picker or paths.main_dir)")
	return cmd
}
