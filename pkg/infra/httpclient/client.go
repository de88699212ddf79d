package httpclient

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/ctdl/pkg/domain/model"
)

const (
	DefaultUserAgent   = "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:53.0) Gecko/20100101 Firefox/53.0"
	DefaultMaxAttempts = 5
	DefaultBackoff     = 100 * time.Millisecond
	DefaultTimeout     = 30 * time.Second
)

// config holds the immutable client configuration
type config struct {
	userAgent   string
	maxAttempts int
	backoff     time.Duration
	timeout     time.Duration
	httpClient  *http.Client
}

// Option is a functional option for Client configuration
type Option func(*config)

// WithUserAgent sets the User-Agent header sent with every request
func WithUserAgent(ua string) Option {
	return func(c *config) {
		c.userAgent = ua
	}
}

// WithMaxAttempts sets the total number of attempts per request, including the first one
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		c.maxAttempts = n
	}
}

// WithBackoff sets the base delay. The n-th retry waits base * 2^(n-1).
func WithBackoff(base time.Duration) Option {
	return func(c *config) {
		c.backoff = base
	}
}

// WithTimeout bounds connecting and waiting for response headers on each attempt.
// Reading the body is bounded only by the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.httpClient = client
	}
}

// Client is a retrying HTTP client shared by the search and download components
type Client struct {
	cfg config
}

// New creates a new Client. The configuration cannot be changed afterwards.
func New(opts ...Option) *Client {
	cfg := config{
		userAgent:   DefaultUserAgent,
		maxAttempts: DefaultMaxAttempts,
		backoff:     DefaultBackoff,
		timeout:     DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.maxAttempts < 1 {
		cfg.maxAttempts = 1
	}
	if cfg.httpClient == nil {
		cfg.httpClient = newHTTPClient(cfg.timeout)
	}

	return &Client{cfg: cfg}
}

// Get issues a GET request, retrying transient failures with exponential backoff.
// The caller must close the body of the returned response.
func (c *Client) Get(ctx context.Context, rawURL string, query url.Values) (*http.Response, error) {
	logger := ctxlog.From(ctx)

	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse request URL",
			goerr.T(model.ErrTagNetwork),
			goerr.V("url", rawURL),
		)
	}
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var (
		lastErr    error
		lastStatus int
	)

	for attempt := 1; attempt <= c.cfg.maxAttempts; attempt++ {
		if attempt > 1 {
			delay := c.delay(attempt - 1)
			logger.Debug("Retrying request",
				"url", target.String(),
				"attempt", attempt,
				"delay", delay,
				"status", lastStatus,
			)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, goerr.Wrap(ctx.Err(), "request cancelled",
					goerr.T(model.ErrTagNetwork),
					goerr.V("url", target.String()),
				)
			}
		}

		resp, err := c.do(ctx, target.String())
		if err != nil {
			if ctx.Err() != nil {
				return nil, goerr.Wrap(ctx.Err(), "request cancelled",
					goerr.T(model.ErrTagNetwork),
					goerr.V("url", target.String()),
				)
			}
			lastErr, lastStatus = err, 0
			continue
		}

		if isRetryable(resp.StatusCode) {
			drain(resp)
			lastErr, lastStatus = nil, resp.StatusCode
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			drain(resp)
			return nil, goerr.New("unexpected status code",
				goerr.T(model.ErrTagNetwork),
				goerr.V("url", target.String()),
				goerr.V("status", resp.StatusCode),
			)
		}

		return resp, nil
	}

	opts := []goerr.Option{
		goerr.T(model.ErrTagNetwork),
		goerr.V("url", target.String()),
		goerr.V("attempts", c.cfg.maxAttempts),
		goerr.V("status", lastStatus),
	}
	if lastErr != nil {
		return nil, goerr.Wrap(lastErr, "request failed after retries", opts...)
	}
	return nil, goerr.New("request failed after retries", opts...)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   timeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = timeout
	transport.ResponseHeaderTimeout = timeout

	return &http.Client{Transport: transport}
}

func (c *Client) do(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", c.cfg.userAgent)

	resp, err := c.cfg.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to send request")
	}
	return resp, nil
}

// delay returns the wait before the given retry, counting retries from 1
func (c *Client) delay(retry int) time.Duration {
	return c.cfg.backoff * time.Duration(1<<(retry-1))
}

func isRetryable(status int) bool {
	switch status {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
