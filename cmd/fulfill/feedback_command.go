package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"fulfill/internal/fulfillment"
	"fulfill/internal/ledger"
	"fulfill/internal/organizer"
	"fulfill/internal/services/pdftext"
)

func newFeedbackCommand(ctx *commandContext) *cobra.Command {
	var dirFlag string

	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Write status documents for completed-order archives",
		Long: "Reads the manifests inside every *done*.zip archive of the folder, writes a status " +
			"document per manifest, appends the rows to the ledger, and moves both into today's batch.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			dir, err := ctx.resolveDir(cmd.Context(), dirFlag, "Choose the folder with completed archives")
			if err != nil {
				return err
			}

			now := time.Now()
			builder := fulfillment.NewBuilder(cfg, pdftext.New(), logger)
			docs, err := builder.EmitFeedback(cmd.Context(), dir, now)
			if err != nil {
				return err
			}
			if _, err := ledger.Open(filepath.Join(dir, cfg.Ledger.FileName)).Append(ledger.RowsFromDocuments(docs)); err != nil {
				return err
			}
			batch := organizer.BatchName(now)
			artifacts, err := organizer.NewArchiver(cfg, logger).MoveArtifacts(cmd.Context(), dir, batch)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Status documents: %d\n", len(docs))
			fmt.Fprintf(w, "Ledger rows added: %d\n", artifacts.LedgerAdded)
			fmt.Fprintf(w, "Ledger: %s\n", artifacts.LedgerPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dirFlag, "dir", "d", "", "Folder holding *done*.zip archives")
	return cmd
}
