package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fulfill/internal/fulfillment"
	"fulfill/internal/services/pdftext"
	"fulfill/internal/services/xlsx"
)

func newAddressesCommand(ctx *commandContext) *cobra.Command {
	var dirFlag string
	var outFlag string

	cmd := &cobra.Command{
		Use:   "addresses",
		Short: "Scan the first document of each subfolder for a mailing address",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			dir, err := ctx.resolveDir(cmd.Context(), dirFlag, "Choose the folder to scan")
			if err != nil {
				return err
			}
			out, err := outputPath(outFlag, dir, cfg.Export.AddressesFileName)
			if err != nil {
				return err
			}

			builder := fulfillment.NewBuilder(cfg, pdftext.New(pdftext.WithMaxPages(1)), logger)
			rows, err := builder.ScanAddresses(cmd.Context(), dir)
			if err != nil {
				return err
			}
			if err := xlsx.NewSink(cfg.Export.Sheet).Write(out, fulfillment.AddressHeaders, fulfillment.AddressRows(rows)); err != nil {
				return err
			}

			found := 0
			for _, row := range rows {
				if row.Found {
					found++
				}
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Folders scanned: %d\n", len(rows))
			fmt.Fprintf(w, "Addresses found: %d\n", found)
			fmt.Fprintf(w, "Spreadsheet: %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dirFlag, "dir", "d", "", "Folder whose subfolders hold scanned documents")
	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Spreadsheet path (defaults to a file in the folder)")
	return cmd
}
