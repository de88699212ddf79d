package config

import (
	"time"

	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/ctdl/pkg/infra/httpclient"
)

// HTTP holds the shared HTTP client configuration
type HTTP struct {
	UserAgent   string
	MaxAttempts int
	Backoff     time.Duration
	Timeout     time.Duration
}

// Flags returns CLI flags for HTTP client configuration
func (c *HTTP) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "user-agent",
			Usage:       "User-Agent header sent with every request",
			Value:       httpclient.DefaultUserAgent,
			Destination: &c.UserAgent,
			Sources:     cli.EnvVars("CTDL_USER_AGENT"),
		},
		&cli.IntFlag{
			Name:        "max-attempts",
			Usage:       "Attempts per request on 500/502/503/504 responses",
			Value:       httpclient.DefaultMaxAttempts,
			Destination: &c.MaxAttempts,
			Sources:     cli.EnvVars("CTDL_MAX_ATTEMPTS"),
		},
		&cli.DurationFlag{
			Name:        "backoff",
			Usage:       "Base retry delay, doubled on every retry",
			Value:       httpclient.DefaultBackoff,
			Destination: &c.Backoff,
			Sources:     cli.EnvVars("CTDL_BACKOFF"),
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Timeout for connecting and receiving response headers on each attempt",
			Value:       httpclient.DefaultTimeout,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("CTDL_TIMEOUT"),
		},
	}
}

// Configure builds the HTTP client shared by search and download
func (c *HTTP) Configure() *httpclient.Client {
	return httpclient.New(
		httpclient.WithUserAgent(c.UserAgent),
		httpclient.WithMaxAttempts(c.MaxAttempts),
		httpclient.WithBackoff(c.Backoff),
		httpclient.WithTimeout(c.Timeout),
	)
}
