package interfaces

import (
	"context"

	"github.com/m-mizutani/ctdl/pkg/domain/model"
)

// Searcher defines operations for discovering file links on a topic
type Searcher interface {
	// FindLinks scrapes result pages for the query and returns raw links
	FindLinks(ctx context.Context, query model.SearchQuery) ([]model.RawLink, error)
}

// Downloader defines operations for saving a batch of links to disk
type Downloader interface {
	// Run downloads every link into dir and reports the outcome of each one
	Run(ctx context.Context, links []model.ValidatedLink, dir string, mode model.DownloadMode) (*model.DownloadReport, error)
}

// ContentUseCase defines the search-filter-download pipeline
type ContentUseCase interface {
	// Download finds, validates and saves files for the request
	Download(ctx context.Context, req model.ContentRequest) (*model.DownloadReport, error)
}
