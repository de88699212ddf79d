package config

import (
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/ctdl/pkg/domain/interfaces"
	"github.com/m-mizutani/ctdl/pkg/infra/search"
)

// Search holds search engine configuration
type Search struct {
	BaseURL string
}

// Flags returns CLI flags for search configuration
func (c *Search) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "search-url",
			Usage:       "Search endpoint",
			Value:       search.DefaultBaseURL,
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("CTDL_SEARCH_URL"),
		},
	}
}

// Configure builds the search client
func (c *Search) Configure(httpClient interfaces.HTTPClient) *search.Client {
	return search.NewClient(httpClient, search.WithBaseURL(c.BaseURL))
}
