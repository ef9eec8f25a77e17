package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fulfill/internal/queue"
)

func newOrdersCommand(ctx *commandContext) *cobra.Command {
	var runFlag string
	var batchFlag string
	var statusFlags []string

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List journaled orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			filter := queue.OrderFilter{RunID: strings.TrimSpace(runFlag), Batch: strings.TrimSpace(batchFlag)}
			for _, raw := range statusFlags {
				status, ok := queue.ParseStatus(raw)
				if !ok {
					return fmt.Errorf("unknown status %q", raw)
				}
				filter.Statuses = append(filter.Statuses, status)
			}

			orders, err := store.Orders(cmd.Context(), filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(orders) == 0 {
				fmt.Fprintln(out, "No orders found")
				return nil
			}
			rows := make([][]string, 0, len(orders))
			for _, order := range orders {
				rows = append(rows, []string{
					order.OrderID,
					order.Batch,
					string(order.Status),
					strconv.Itoa(order.Documents),
					order.UpdatedAt.Local().Format(time.DateTime),
					order.ErrorMessage,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Order", "Batch", "Status", "Docs", "Updated", "Error"},
				rows,
				3, // Docs
			))

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			var totals []string
			for _, status := range queue.AllStatuses() {
				if n := stats[status]; n > 0 {
					totals = append(totals, fmt.Sprintf("%s=%d", status, n))
				}
			}
			fmt.Fprintf(out, "Journal totals: %s\n", strings.Join(totals, " "))
			return nil
		},
	}

	cmd.Flags().StringVar(&runFlag, "run", "", "Only orders touched by this run id")
	cmd.Flags().StringVarP(&batchFlag, "batch", "b", "", "Only orders in this batch")
	cmd.Flags().StringSliceVarP(&statusFlags, "status", "s", nil, "Only orders in these statuses")
	return cmd
}

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent pipeline runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			runs, err := store.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				finished := ""
				if run.FinishedAt != nil {
					finished = run.FinishedAt.Local().Format(time.DateTime)
				}
				rows = append(rows, []string{
					run.ID,
					run.Batch,
					string(run.Status),
					run.StartedAt.Local().Format(time.DateTime),
					finished,
					strconv.Itoa(run.Orders),
					strconv.Itoa(run.Records),
					run.ErrorMessage,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Batch", "Status", "Started", "Finished", "Orders", "Records", "Error"},
				rows,
				5, 6, // Orders, Records
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to show")
	return cmd
}
