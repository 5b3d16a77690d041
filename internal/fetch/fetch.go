// Package fetch retrieves raw transaction exports over HTTP.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/cleared-dev/fio/internal/buildinfo"
)

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *HTTPError) Error() string {
	if e.StatusCode == http.StatusConflict {
		return fmt.Sprintf("GET %s: %s (rate limited: one request per 30 seconds)", e.URL, e.Status)
	}
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// IsRateLimited reports whether err carries a 409 Conflict, which the API
// uses to reject calls made within 30 seconds of the previous one.
func IsRateLimited(err error) bool {
	return StatusCode(err) == http.StatusConflict
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not an
// HTTPError.
func StatusCode(err error) int {
	var herr *HTTPError
	if errors.As(err, &herr) {
		return herr.StatusCode
	}
	return 0
}

// Fetcher issues GET requests and hands back the response body.
type Fetcher struct {
	client    *http.Client
	userAgent string
	logger    *log.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// New creates a Fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{},
		userAgent: buildinfo.UserAgent(),
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Get requests url and returns the response body on any 2xx status. The
// caller must close it. Other statuses yield an *HTTPError.
func (f *Fetcher) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, URL: url}
	}

	f.logger.Debug("response", "status", resp.StatusCode, "content_type", resp.Header.Get("Content-Type"))
	return resp.Body, nil
}
