package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/net/publicsuffix"

	"github.com/m-mizutani/ctdl/pkg/domain/interfaces"
	"github.com/m-mizutani/ctdl/pkg/domain/model"
	"github.com/m-mizutani/ctdl/pkg/utils/async"
)

// DefaultWorkers caps concurrent downloads in parallel mode
const DefaultWorkers = 8

// DownloaderOption is a functional option for Downloader configuration
type DownloaderOption func(*Downloader)

// WithWorkers sets the maximum number of concurrent downloads in parallel mode
func WithWorkers(n int) DownloaderOption {
	return func(d *Downloader) {
		if n > 0 {
			d.workers = n
		}
	}
}

// Downloader fetches validated links and writes them into a directory
type Downloader struct {
	httpClient interfaces.HTTPClient
	workers    int
}

// NewDownloader creates a new Downloader sharing the given HTTP client
func NewDownloader(httpClient interfaces.HTTPClient, opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		httpClient: httpClient,
		workers:    DefaultWorkers,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run downloads every link into dir. A failing link is recorded in the report
// and never aborts the batch. An error is returned only when dir cannot be created.
func (d *Downloader) Run(ctx context.Context, links []model.ValidatedLink, dir string, mode model.DownloadMode) (*model.DownloadReport, error) {
	logger := ctxlog.From(ctx)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create destination directory",
			goerr.T(model.ErrTagConfig),
			goerr.V("dir", dir),
		)
	}

	logger.Info("Starting downloads",
		"count", len(links),
		"dir", dir,
		"mode", mode.String(),
	)

	for _, link := range links {
		logger.Debug("Link state", "url", link.String(), "state", model.LinkPending)
	}

	b := &batch{
		names: newNameRegistry(),
		done:  make([]bool, len(links)),
	}

	switch mode {
	case model.ModeParallel:
		jobs := make([]indexedJob, len(links))
		for i, link := range links {
			jobs[i] = indexedJob{index: i, job: model.DownloadJob{Link: link, Directory: dir}}
		}
		workers := min(len(links), d.workers)
		_ = async.ForEach(ctx, jobs, workers, func(ctx context.Context, j indexedJob) error {
			b.add(j.index, d.download(ctx, j.job, b.names))
			return nil
		})

	default:
		for i, link := range links {
			if ctx.Err() != nil {
				break
			}
			b.add(i, d.download(ctx, model.DownloadJob{Link: link, Directory: dir}, b.names))
		}
	}

	// Links never started because the context was cancelled
	for i, link := range links {
		if !b.done[i] {
			b.results = append(b.results, failed(link, goerr.Wrap(context.Cause(ctx), "download not started")))
		}
	}

	report := &model.DownloadReport{Directory: dir, Results: b.results}
	logger.Info("Downloads finished",
		"succeeded", report.Succeeded(),
		"failed", report.Failed(),
		"dir", dir,
	)
	return report, nil
}

type indexedJob struct {
	index int
	job   model.DownloadJob
}

// batch collects results from concurrent workers
type batch struct {
	names   *nameRegistry
	mu      sync.Mutex
	results []model.DownloadResult
	done    []bool
}

func (b *batch) add(index int, result model.DownloadResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.results = append(b.results, result)
	b.done[index] = true
}

// download processes one job: Pending -> Fetching -> Writing -> Done, or Failed
func (d *Downloader) download(ctx context.Context, job model.DownloadJob, names *nameRegistry) model.DownloadResult {
	logger := ctxlog.From(ctx).With(
		slog.String("url", job.Link.String()),
		slog.String("site", siteOf(job.Link)),
	)
	logger.Debug("Link state", "state", model.LinkFetching)

	resp, err := d.httpClient.Get(ctx, job.Link.String(), nil)
	if err != nil {
		logger.Warn("Failed to fetch file", "error", err)
		return failed(job.Link, err)
	}
	defer resp.Body.Close()

	name := names.reserve(FileName(job.Link))
	dest := filepath.Join(job.Directory, name)
	logger.Debug("Link state", "state", model.LinkWriting, "path", dest)

	n, err := writeFile(dest, resp.Body)
	if err != nil {
		logger.Warn("Failed to save file", "error", err, "path", dest)
		return failed(job.Link, err)
	}

	logger.Info("Saved file", "path", dest, "bytes", n)
	return model.DownloadResult{
		Link:  job.Link,
		State: model.LinkDone,
		Path:  dest,
		Bytes: n,
	}
}

func failed(link model.ValidatedLink, err error) model.DownloadResult {
	return model.DownloadResult{
		Link:  link,
		State: model.LinkFailed,
		Err:   err,
	}
}

// writeFile streams r into a temporary file next to dest and renames it on completion.
// A failure to read r is tagged as a network error, anything else as a filesystem error.
func writeFile(dest string, r io.Reader) (int64, error) {
	dir, name := filepath.Split(dest)
	tmp, err := os.CreateTemp(dir, "."+name+"-*.part")
	if err != nil {
		return 0, goerr.Wrap(err, "failed to create temporary file",
			goerr.T(model.ErrTagFilesystem),
			goerr.V("path", dest),
		)
	}
	tmpPath := tmp.Name()

	body := &bodyReader{r: r}
	n, err := io.Copy(tmp, body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		if body.err != nil {
			return 0, goerr.Wrap(body.err, "failed to read response body",
				goerr.T(model.ErrTagNetwork),
				goerr.V("path", dest),
			)
		}
		return 0, goerr.Wrap(err, "failed to write file content",
			goerr.T(model.ErrTagFilesystem),
			goerr.V("path", dest),
		)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return 0, goerr.Wrap(err, "failed to move file into place",
			goerr.T(model.ErrTagFilesystem),
			goerr.V("path", dest),
		)
	}

	return n, nil
}

// bodyReader records the first read error so that it can be told apart from write errors
type bodyReader struct {
	r   io.Reader
	err error
}

func (b *bodyReader) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	if err != nil && err != io.EOF && b.err == nil {
		b.err = err
	}
	return n, err
}

// FileName derives a local file name from the last path segment of a link.
// Links without a usable segment get a generated name.
func FileName(link model.ValidatedLink) string {
	u, err := url.Parse(link.String())
	if err != nil {
		return fallbackName()
	}

	if u.Path == "" || strings.HasSuffix(u.Path, "/") {
		return fallbackName()
	}

	// u.Path is already unescaped, so encoded separators are split here too
	base := filepath.Base(filepath.FromSlash(path.Base(u.Path)))

	switch base {
	case "", ".", "..", "/":
		return fallbackName()
	}
	if base == string(filepath.Separator) {
		return fallbackName()
	}
	return base
}

func fallbackName() string {
	return "download-" + uuid.NewString()
}

// siteOf returns the registrable domain of a link for log grouping
func siteOf(link model.ValidatedLink) string {
	u, err := url.Parse(link.String())
	if err != nil {
		return ""
	}
	site, err := publicsuffix.EffectiveTLDPlusOne(u.Hostname())
	if err != nil {
		return u.Hostname()
	}
	return site
}

// nameRegistry hands out unique file names within one batch
type nameRegistry struct {
	mu   sync.Mutex
	used map[string]bool
}

func newNameRegistry() *nameRegistry {
	return &nameRegistry{used: make(map[string]bool)}
}

// reserve returns name, or "name (N).ext" if name was already handed out
func (r *nameRegistry) reserve(name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	candidate := name
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; r.used[candidate]; i++ {
		candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
	}
	r.used[candidate] = true
	return candidate
}
