package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fulfill/internal/config"
	"fulfill/internal/fulfillment"
	"fulfill/internal/services/pdftext"
	"fulfill/internal/services/xlsx"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var dirFlag string
	var outFlag string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a spreadsheet of extracted records for a folder of orders",
		Long: "Builds one record per scanned document in the folder's order directories " +
			"(or in the folder itself when it holds a single order) and writes them to a spreadsheet.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			dir, err := ctx.resolveDir(cmd.Context(), dirFlag, "Choose the folder to export")
			if err != nil {
				return err
			}
			out, err := outputPath(outFlag, dir, cfg.Export.FileName)
			if err != nil {
				return err
			}

			builder := fulfillment.NewBuilder(cfg, pdftext.New(), logger)
			batch, err := builder.BuildRecords(cmd.Context(), dir, time.Now())
			if err != nil {
				return err
			}
			if err := xlsx.NewSink(cfg.Export.Sheet).Write(out, fulfillment.ExportHeaders, fulfillment.Rows(batch.Records)); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Orders: %d\n", batch.Orders)
			fmt.Fprintf(w, "Records: %d\n", len(batch.Records))
			if failed := batch.Failed(); len(failed) > 0 {
				fmt.Fprintf(w, "Unreadable documents: %d\n", len(failed))
				for _, doc := range failed {
					fmt.Fprintf(w, "  %s\n", doc.Path)
				}
			}
			fmt.Fprintf(w, "Spreadsheet: %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dirFlag, "dir", "d", "", "Folder of order directories")
	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Spreadsheet path (defaults to a file in the folder)")
	return cmd
}

func outputPath(flag, dir, defaultName string) (string, error) {
	if strings.TrimSpace(flag) == "" {
		return filepath.Join(dir, defaultName), nil
	}
	expanded, err := config.ExpandPath(flag)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}
	return expanded, nil
}
