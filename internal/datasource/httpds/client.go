// Package httpds downloads team lists over HTTP. Requests that fail in
// transport or answer 429/5xx are retried with capped exponential backoff;
// a Retry-After header on such a response replaces the computed delay when it
// is shorter than the cap.
package httpds

import (
	"context"
	"crypto/tls"
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/errors"
)

// Config configures the HTTP client. Zero values select defaults:
// Timeout 30s, InitialBackoff 200ms, MaxBackoff 5s, no retries.
type Config struct {
	// Timeout bounds one attempt, body download included.
	Timeout time.Duration
	// MaxRetries is the number of attempts after the first one.
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// InsecureSkipVerify disables TLS certificate checks of the default
	// transport. It has no effect when Transport is set.
	InsecureSkipVerify bool

	// BaseHeaders go on every request, e.g. Authorization for a protected
	// roster endpoint. Per-request headers replace them key by key.
	BaseHeaders http.Header

	Transport http.RoundTripper
}

// Client is an http.Client with a retry policy. It is safe for concurrent
// use.
type Client struct {
	hc      *http.Client
	retries int
	backoff backoff
	header  http.Header

	// wait blocks for a backoff delay; replaced in tests.
	wait func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 200 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Second
	}

	rt := cfg.Transport
	if rt == nil {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify} //nolint:gosec // opt-in via source.http.insecure
		rt = tr
	}

	return &Client{
		hc:      &http.Client{Timeout: cfg.Timeout, Transport: rt},
		retries: max(cfg.MaxRetries, 0),
		backoff: backoff{initial: cfg.InitialBackoff, max: cfg.MaxBackoff},
		header:  cfg.BaseHeaders.Clone(),
		wait:    waitCtx,
	}
}

// Get fetches url and returns the first response that is not retryable,
// whatever its status. The caller closes the body. When every attempt fails
// the error of the last one is returned.
func (c *Client) Get(ctx context.Context, url string, header http.Header) (*http.Response, error) {
	if url == "" {
		return nil, errors.New("httpds: empty url")
	}

	var lastErr error
	for try := 0; ; try++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := c.attempt(ctx, url, header)
		delay := c.backoff.delay(try)
		switch {
		case err != nil:
			lastErr = err
		case retryable(resp.StatusCode):
			if d, ok := retryAfter(resp.Header); ok && d < c.backoff.max {
				delay = d
			}
			_ = resp.Body.Close()
			lastErr = errors.Errorf("httpds: retryable status %d from %s", resp.StatusCode, url)
		default:
			return resp, nil
		}

		if try >= c.retries {
			return nil, lastErr
		}
		if err := c.wait(ctx, delay); err != nil {
			return nil, err
		}
	}
}

func (c *Client) attempt(ctx context.Context, url string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "httpds: build request")
	}
	for k, vs := range c.header {
		req.Header[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
	}
	for k, vs := range header {
		req.Header[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
	}
	return c.hc.Do(req)
}

// retryable reports whether a response status is worth another attempt.
func retryable(code int) bool {
	return code == http.StatusTooManyRequests || (code >= 500 && code <= 599)
}

// retryAfter reads a delta-seconds Retry-After header. HTTP dates are ignored.
func retryAfter(h http.Header) (time.Duration, bool) {
	v := h.Get("Retry-After")
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

type backoff struct {
	initial time.Duration
	max     time.Duration
}

// delay returns the wait after the given zero-based attempt: initial doubled
// per attempt, capped at max.
func (b backoff) delay(try int) time.Duration {
	d := b.initial
	for i := 0; i < try && d < b.max; i++ {
		d *= 2
	}
	return min(d, b.max)
}

func waitCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
