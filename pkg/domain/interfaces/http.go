package interfaces

import (
	"context"
	"net/http"
	"net/url"
)

// HTTPClient defines the shared, retrying HTTP transport
type HTTPClient interface {
	// Get issues a GET request with the given query parameters. Transient failures are retried.
	Get(ctx context.Context, rawURL string, query url.Values) (*http.Response, error)
}
