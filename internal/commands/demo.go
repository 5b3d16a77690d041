package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fio/internal/client"
	"github.com/cleared-dev/fio/internal/fetch"
	"github.com/cleared-dev/fio/internal/model"
)

// errRateLimited is returned when a demo step hits the API rate limit.
var errRateLimited = errors.New("too many requests: API supports only one request per 30 seconds")

func newDemoCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Walk through the API: last week, cursor, rewind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return runDemo(cmd.Context(), a)
		},
	}
}

func runDemo(ctx context.Context, a *app) error {
	weekAgo := a.today().AddDays(-7)

	steps := []struct {
		title    string
		endpoint string
		fn       func(context.Context) (*model.Report, error)
	}{
		{
			"Getting transactions from last 7 days",
			client.EndpointPeriods,
			func(ctx context.Context) (*model.Report, error) { return a.client.Since(ctx, weekAgo) },
		},
		{
			"Getting transactions since cursor (should be empty)",
			client.EndpointLast,
			a.client.Last,
		},
		{
			"Setting cursor 7 days back",
			client.EndpointSetLastDate,
			func(ctx context.Context) (*model.Report, error) { return nil, a.client.SetLastDate(ctx, weekAgo) },
		},
		{
			"Getting transactions since cursor again",
			client.EndpointLast,
			a.client.Last,
		},
	}

	for _, step := range steps {
		fmt.Fprintf(a.out, "%s...\n", step.title)
		rep, err := a.call(ctx, step.endpoint, step.fn)
		if fetch.IsRateLimited(err) {
			fmt.Fprintln(a.out, "Failed!")
			return errRateLimited
		}
		if err != nil {
			return err
		}
		if rep == nil {
			fmt.Fprintln(a.out, "OK")
			continue
		}
		fmt.Fprintf(a.out, "OK, account IBAN %s\n", rep.IBAN)
		if err := writeTable(a.out, rep); err != nil {
			return err
		}
		fmt.Fprintln(a.out)
	}
	return nil
}
