package commands

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/fio/internal/client"
	"github.com/cleared-dev/fio/internal/model"
)

func newTransactionsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "Download transactions",
	}
	cmd.AddCommand(newTransactionsLastCommand(opts))
	cmd.AddCommand(newTransactionsPeriodCommand(opts))
	return cmd
}

func newTransactionsLastCommand(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "last",
		Short: "Transactions since the server-side cursor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			rep, err := a.call(cmd.Context(), client.EndpointLast, a.client.Last)
			if err != nil {
				return err
			}
			return writeReport(a.out, rep, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", FormatTable, "output format: table, csv, fio or dump")

	return cmd
}

func newTransactionsPeriodCommand(opts *rootOptions) *cobra.Command {
	var format, from, to string

	cmd := &cobra.Command{
		Use:   "period --from YYYY-MM-DD [--to YYYY-MM-DD]",
		Short: "Transactions within a date range (to defaults to today)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			begin, err := civil.ParseDate(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			var end civil.Date
			if to != "" {
				if end, err = civil.ParseDate(to); err != nil {
					return fmt.Errorf("--to: %w", err)
				}
			}

			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			rep, err := a.call(cmd.Context(), client.EndpointPeriods, func(ctx context.Context) (*model.Report, error) {
				if end.IsZero() {
					return a.client.Since(ctx, begin)
				}
				return a.client.Period(ctx, begin, end)
			})
			if err != nil {
				return err
			}
			return writeReport(a.out, rep, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", FormatTable, "output format: table, csv, fio or dump")
	cmd.Flags().StringVar(&from, "from", "", "first day (required)")
	cmd.Flags().StringVar(&to, "to", "", "last day")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}
