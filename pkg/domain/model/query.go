package model

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

const (
	// PageSize is the number of results on one search result page
	PageSize = 10

	DefaultFileType = "pdf"
	DefaultLimit    = 10
)

// SearchQuery is an immutable search request for files on a topic
type SearchQuery struct {
	topic    string
	fileType string
	limit    int
}

// NewSearchQuery validates the inputs and builds a SearchQuery
func NewSearchQuery(topic, fileType string, limit int) (SearchQuery, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return SearchQuery{}, goerr.New("missing required query argument", goerr.T(ErrTagConfig))
	}
	if limit < 1 {
		return SearchQuery{}, goerr.New("limit must be positive",
			goerr.T(ErrTagConfig),
			goerr.V("limit", limit),
		)
	}

	fileType = strings.TrimPrefix(strings.TrimSpace(fileType), ".")
	if fileType == "" {
		fileType = DefaultFileType
	}

	return SearchQuery{
		topic:    topic,
		fileType: fileType,
		limit:    limit,
	}, nil
}

func (q SearchQuery) Topic() string    { return q.topic }
func (q SearchQuery) FileType() string { return q.fileType }
func (q SearchQuery) Limit() int       { return q.limit }

// Query returns the engine query string, e.g. "filetype:pdf machine learning"
func (q SearchQuery) Query() string {
	return fmt.Sprintf("filetype:%s %s", q.fileType, q.topic)
}

// Pages returns the start offsets of every result page needed to cover the limit
func (q SearchQuery) Pages() []int {
	pages := make([]int, 0, (q.limit+PageSize-1)/PageSize)
	for start := 0; start < q.limit; start += PageSize {
		pages = append(pages, start)
	}
	return pages
}
