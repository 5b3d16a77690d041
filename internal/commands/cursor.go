package commands

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/fio/internal/client"
	"github.com/cleared-dev/fio/internal/model"
)

func newCursorCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cursor",
		Short: "Move the server-side download cursor",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set-id <transaction-id>",
		Short: "Continue downloads after the given transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return runCursor(cmd, opts, client.EndpointSetLastID, "transaction "+id, func(a *app, ctx context.Context) error {
				return a.client.SetLastID(ctx, id)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set-date <YYYY-MM-DD>",
		Short: "Continue downloads from the given date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := civil.ParseDate(args[0])
			if err != nil {
				return err
			}
			return runCursor(cmd, opts, client.EndpointSetLastDate, date.String(), func(a *app, ctx context.Context) error {
				return a.client.SetLastDate(ctx, date)
			})
		},
	})
	return cmd
}

func runCursor(cmd *cobra.Command, opts *rootOptions, endpoint, target string, set func(*app, context.Context) error) error {
	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	_, err = a.call(cmd.Context(), endpoint, func(ctx context.Context) (*model.Report, error) {
		return nil, set(a, ctx)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Cursor set to %s\n", target)
	return nil
}
