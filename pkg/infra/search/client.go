package search

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/ctdl/pkg/domain/interfaces"
	"github.com/m-mizutani/ctdl/pkg/domain/model"
)

const (
	DefaultBaseURL = "https://www.google.com/search"

	// redirectPrefix wraps every outbound result link, e.g. "/url?q=https://..."
	redirectPrefix = "/url?q="

	resultSelector = "h3.r"
)

// Option is a functional option for Client configuration
type Option func(*Client)

// WithBaseURL overrides the search endpoint
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// Client scrapes search engine result pages for file links
type Client struct {
	httpClient interfaces.HTTPClient
	baseURL    string
}

// NewClient creates a new search client on top of the shared HTTP client
func NewClient(httpClient interfaces.HTTPClient, opts ...Option) *Client {
	c := &Client{
		httpClient: httpClient,
		baseURL:    DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FindLinks requests every result page needed to cover the query limit and returns
// the extracted links, truncated to the limit. Failed pages are skipped. If only
// some pages failed, the links are returned with a *model.PartialSearchError.
func (c *Client) FindLinks(ctx context.Context, query model.SearchQuery) ([]model.RawLink, error) {
	logger := ctxlog.From(ctx)

	var (
		links    []model.RawLink
		failed   []int
		firstErr error
	)

	pages := query.Pages()
	for _, start := range pages {
		if ctx.Err() != nil {
			return links, goerr.Wrap(ctx.Err(), "search cancelled", goerr.T(model.ErrTagNetwork))
		}

		pageLinks, err := c.fetchPage(ctx, query, start)
		if err != nil {
			logger.Warn("Failed to fetch result page",
				"query", query.Query(),
				"start", start,
				"error", err,
			)
			failed = append(failed, start)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		logger.Debug("Scraped result page",
			"query", query.Query(),
			"start", start,
			"links", len(pageLinks),
		)
		links = append(links, pageLinks...)
	}

	if len(links) > query.Limit() {
		links = links[:query.Limit()]
	}

	switch {
	case len(failed) == 0:
		return links, nil
	case len(failed) == len(pages):
		return nil, goerr.Wrap(firstErr, "all result pages failed",
			goerr.T(model.ErrTagNetwork),
			goerr.V("query", query.Query()),
		)
	default:
		return links, &model.PartialSearchError{Offsets: failed, Cause: firstErr}
	}
}

func (c *Client) fetchPage(ctx context.Context, query model.SearchQuery, start int) ([]model.RawLink, error) {
	params := url.Values{
		"q":     {query.Query()},
		"start": {strconv.Itoa(start)},
	}

	resp, err := c.httpClient.Get(ctx, c.baseURL, params)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch result page", goerr.V("start", start))
	}
	defer resp.Body.Close()

	return Scrape(resp.Body)
}

// Scrape extracts result links from a rendered result page
func Scrape(r io.Reader) ([]model.RawLink, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse result page")
	}

	var links []model.RawLink
	doc.Find(resultSelector).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Find("a").First().Attr("href")
		if !ok {
			return
		}
		links = append(links, model.RawLink(stripRedirect(href)))
	})

	return links, nil
}

// stripRedirect removes the redirector prefix and any tracking parameters after the first '&'
func stripRedirect(href string) string {
	href = strings.TrimPrefix(href, redirectPrefix)
	if i := strings.IndexByte(href, '&'); i >= 0 {
		href = href[:i]
	}
	return href
}
