package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"fulfill/internal/ledger"
)

var ledgerHeaders = []string{
	"Vendor", "Order", "Status", "Received", "Ship", "Method", "Cost", "Comments", "Packages", "Tracking",
}

func newLedgerCommand(ctx *commandContext) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect the daily status ledger",
	}
	ledgerCmd.AddCommand(newLedgerShowCommand(ctx))
	return ledgerCmd
}

func newLedgerShowCommand(ctx *commandContext) *cobra.Command {
	var dirFlag string
	var batchFlag string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the ledger of the main directory or of a batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir := strings.TrimSpace(dirFlag)
			if dir == "" {
				dir = cfg.Paths.MainDir
			}
			if batch := strings.TrimSpace(batchFlag); batch != "" {
				dir = filepath.Join(dir, batch)
			}
			book := ledger.Open(filepath.Join(dir, cfg.Ledger.FileName))
			rows, err := book.Rows()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintf(out, "Ledger %s is empty\n", book.Path())
				return nil
			}
			fmt.Fprintln(out, renderTable(ledgerHeaders, rows))
			fmt.Fprintf(out, "%d rows in %s\n", len(rows), book.Path())
			return nil
		},
	}

	cmd.Flags().StringVarP(&dirFlag, "dir", "d", "", "Main directory (defaults to paths.main_dir)")
	cmd.Flags().StringVarP(&batchFlag, "batch", "b", "", "Batch directory name, e.g. 3.5")
	return cmd
}
