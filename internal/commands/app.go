package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/fio/internal/client"
	"github.com/cleared-dev/fio/internal/config"
	"github.com/cleared-dev/fio/internal/fetch"
	"github.com/cleared-dev/fio/internal/fetchlog"
	"github.com/cleared-dev/fio/internal/model"
	"github.com/cleared-dev/fio/internal/report"
)

// sleep blocks for d or until ctx is done. Tests replace it.
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// app is the per-invocation wiring shared by the API commands.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	client *client.Client
	out    io.Writer
	noWait bool
	now    func() time.Time

	lastCall time.Time
}

func newApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cfg, err := config.Build(opts.configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Log.Level, opts.verbose)

	mode, _ := report.ParseMode(cfg.Parser.Mode)
	strategy, _ := report.ParseStrategy(cfg.Parser.Strategy)
	parser, err := report.NewParserForMode(mode, report.WithStrategy(strategy), report.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	fetcher := fetch.New(
		fetch.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		fetch.WithLogger(logger),
	)
	c, err := client.New(cfg.API.Token,
		client.WithBaseURL(cfg.API.BaseURL),
		client.WithFetcher(fetcher),
		client.WithParser(parser),
		client.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	logger.Debug("configured", "base_url", cfg.API.BaseURL, "mode", mode, "strategy", strategy)

	return &app{
		cfg:    cfg,
		logger: logger,
		client: c,
		out:    cmd.OutOrStdout(),
		noWait: opts.noWait,
		now:    time.Now,
	}, nil
}

func newLogger(w io.Writer, level string, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "fio",
		ReportTimestamp: true,
	})
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// call runs one API request. It first waits out the rate window left by the
// previous call, either in this process or in the fetch log, then records
// the outcome in the fetch log.
func (a *app) call(ctx context.Context, endpoint string, fn func(context.Context) (*model.Report, error)) (*model.Report, error) {
	if err := a.wait(ctx); err != nil {
		return nil, err
	}

	entry := fetchlog.NewEntry(a.now(), endpoint)
	a.lastCall = entry.Timestamp
	rep, err := fn(ctx)

	entry.Status = http.StatusOK
	if err != nil {
		entry.Status = fetch.StatusCode(err)
		entry.Error = err.Error()
	}
	if rep != nil {
		entry.Transactions = len(rep.Transactions)
		entry.IDTo = rep.IDTo
	}
	a.record(entry)

	return rep, err
}

func (a *app) wait(ctx context.Context) error {
	if a.noWait {
		return nil
	}

	next := time.Time{}
	if !a.lastCall.IsZero() {
		next = a.lastCall.Add(a.cfg.API.RateWindow)
	}
	if path := a.cfg.Log.FetchLog; path != "" {
		entries, err := fetchlog.Read(path)
		if err != nil {
			a.logger.Warn("reading fetch log", "path", path, "err", err)
		} else if logged := fetchlog.NextAllowed(entries, a.cfg.API.RateWindow); logged.After(next) {
			next = logged
		}
	}

	d := next.Sub(a.now())
	if d <= 0 {
		return nil
	}
	a.logger.Info("waiting for API rate window", "wait", d.Round(time.Second))
	if err := sleep(ctx, d); err != nil {
		return fmt.Errorf("waiting for rate window: %w", err)
	}
	return nil
}

func (a *app) record(e fetchlog.Entry) {
	path := a.cfg.Log.FetchLog
	if path == "" {
		return
	}
	if err := fetchlog.Append(path, []fetchlog.Entry{e}); err != nil {
		a.logger.Warn("writing fetch log", "path", path, "err", err)
	}
}

// today is the local calendar date.
func (a *app) today() civil.Date {
	return civil.DateOf(a.now())
}
