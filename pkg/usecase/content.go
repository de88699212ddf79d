package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/ctdl/pkg/domain/interfaces"
	"github.com/m-mizutani/ctdl/pkg/domain/model"
)

type contentUseCase struct {
	searcher   interfaces.Searcher
	downloader interfaces.Downloader
}

// NewContent creates a new instance of ContentUseCase
func NewContent(searcher interfaces.Searcher, downloader interfaces.Downloader) interfaces.ContentUseCase {
	return &contentUseCase{
		searcher:   searcher,
		downloader: downloader,
	}
}

// Download searches for files on the requested topic, filters the links and saves them
func (uc *contentUseCase) Download(ctx context.Context, req model.ContentRequest) (*model.DownloadReport, error) {
	logger := ctxlog.From(ctx)

	limit := req.Limit
	if limit == 0 {
		limit = model.DefaultLimit
	}
	query, err := model.NewSearchQuery(req.Topic, req.FileType, limit)
	if err != nil {
		return nil, err
	}

	dir := req.Directory
	if dir == "" {
		dir = model.DefaultDirectory(query.Topic())
	}

	logger.Info("Searching for files",
		"query", query.Query(),
		"limit", query.Limit(),
		"dir", dir,
	)

	raw, err := uc.searcher.FindLinks(ctx, query)
	if err != nil {
		var partial *model.PartialSearchError
		if !errors.As(err, &partial) {
			return nil, goerr.Wrap(err, "failed to search for links", goerr.V("query", query.Query()))
		}
		logger.Warn("Search returned partial results",
			"failed_offsets", partial.Offsets,
			"links", len(raw),
		)
	}

	links := FilterLinks(raw, query.Limit())
	logger.Info("Found links",
		"raw", len(raw),
		"valid", len(links),
	)

	report, err := uc.downloader.Run(ctx, links, dir, req.Mode())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download files", goerr.V("dir", dir))
	}

	return report, nil
}
