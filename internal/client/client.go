// Package client talks to the bank's transaction-export REST API.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/log"

	"github.com/cleared-dev/fio/internal/fetch"
	"github.com/cleared-dev/fio/internal/model"
	"github.com/cleared-dev/fio/internal/report"
)

// DefaultBaseURL is the production REST root.
const DefaultBaseURL = "https://www.fio.cz/ib_api/rest"

// Endpoint names, as recorded in logs.
const (
	EndpointLast        = "last"
	EndpointPeriods     = "periods"
	EndpointSetLastID   = "set-last-id"
	EndpointSetLastDate = "set-last-date"
)

// StreamFetcher returns the body of a GET request.
type StreamFetcher interface {
	Get(ctx context.Context, url string) (io.ReadCloser, error)
}

// Client fetches transaction exports for a single API token. It holds no
// mutable state and may be used concurrently, but the API allows only one
// request per 30 seconds per token; excess calls fail with a 409.
type Client struct {
	token   string
	baseURL string
	fetcher StreamFetcher
	parser  *report.Parser
	logger  *log.Logger
	now     func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithFetcher replaces the default HTTP fetcher.
func WithFetcher(f StreamFetcher) Option {
	return func(c *Client) { c.fetcher = f }
}

// WithParser replaces the default parser (named columns, streaming).
func WithParser(p *report.Parser) Option {
	return func(c *Client) { c.parser = p }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithClock sets the time source used to resolve "today".
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a Client for token.
func New(token string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("api token is required")
	}
	c := &Client{
		token:   token,
		baseURL: DefaultBaseURL,
		logger:  log.New(io.Discard),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.fetcher == nil {
		c.fetcher = fetch.New(fetch.WithLogger(c.logger))
	}
	if c.parser == nil {
		c.parser = report.NewParser(&report.NamedDecoder{}, report.WithLogger(c.logger))
	}
	return c, nil
}

// Last returns the transactions booked since the server-side cursor.
func (c *Client) Last(ctx context.Context) (*model.Report, error) {
	return c.transactions(ctx, EndpointLast, c.url(EndpointLast, c.token, "transactions.csv"))
}

// Since returns the transactions from begin until today.
func (c *Client) Since(ctx context.Context, begin civil.Date) (*model.Report, error) {
	return c.Period(ctx, begin, civil.DateOf(c.now()))
}

// Period returns the transactions between begin and end, inclusive.
func (c *Client) Period(ctx context.Context, begin, end civil.Date) (*model.Report, error) {
	if end.Before(begin) {
		return nil, fmt.Errorf("%s: end %s is before begin %s", EndpointPeriods, end, begin)
	}
	u := c.url(EndpointPeriods, c.token, formatPathDate(begin), formatPathDate(end), "transactions.csv")
	return c.transactions(ctx, EndpointPeriods, u)
}

// SetLastID moves the server-side cursor to the transaction with id, so the
// next Last returns only later transactions.
func (c *Client) SetLastID(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s: transaction id is required", EndpointSetLastID)
	}
	return c.call(ctx, EndpointSetLastID, c.url(EndpointSetLastID, c.token, id)+"/")
}

// SetLastDate rewinds the server-side cursor to the last unsuccessful
// download date.
func (c *Client) SetLastDate(ctx context.Context, date civil.Date) error {
	return c.call(ctx, EndpointSetLastDate, c.url(EndpointSetLastDate, c.token, formatPathDate(date))+"/")
}

func (c *Client) transactions(ctx context.Context, endpoint, u string) (*model.Report, error) {
	c.logger.Debug("fetching transactions", "endpoint", endpoint)
	body, err := c.fetcher.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint, c.redact(err))
	}
	defer body.Close()

	rep, err := c.parser.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%s: parsing export: %w", endpoint, err)
	}
	c.logger.Info("transactions fetched", "endpoint", endpoint,
		"account", rep.Number(), "count", len(rep.Transactions), "id_to", rep.IDTo)
	return rep, nil
}

func (c *Client) call(ctx context.Context, endpoint, u string) error {
	c.logger.Debug("moving cursor", "endpoint", endpoint)
	body, err := c.fetcher.Get(ctx, u)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, c.redact(err))
	}
	defer body.Close()

	if _, err := io.Copy(io.Discard, body); err != nil {
		return fmt.Errorf("%s: reading response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) url(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.baseURL + "/" + strings.Join(escaped, "/")
}

// redact strips the token from URLs embedded in err.
func (c *Client) redact(err error) error {
	token := url.PathEscape(c.token)
	var herr *fetch.HTTPError
	if errors.As(err, &herr) {
		herr.URL = strings.ReplaceAll(herr.URL, token, "***")
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL = strings.ReplaceAll(uerr.URL, token, "***")
	}
	return err
}

// formatPathDate writes d as yyyy-mm-dd.
func formatPathDate(d civil.Date) string {
	return d.String()
}
