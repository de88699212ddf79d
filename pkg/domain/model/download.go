package model

import (
	"fmt"
	"strings"
)

// DownloadMode selects how a batch of links is scheduled
type DownloadMode int

const (
	ModeSeries DownloadMode = iota
	ModeParallel
)

func (m DownloadMode) String() string {
	if m == ModeParallel {
		return "parallel"
	}
	return "series"
}

// LinkState is the lifecycle of a single link in a download batch
type LinkState string

const (
	LinkPending  LinkState = "pending"
	LinkFetching LinkState = "fetching"
	LinkWriting  LinkState = "writing"
	LinkDone     LinkState = "done"
	LinkFailed   LinkState = "failed"
)

// DownloadJob is one unit of work handed to a download worker
type DownloadJob struct {
	Link      ValidatedLink
	Directory string
}

// DownloadResult represents the outcome of downloading one link
type DownloadResult struct {
	Link  ValidatedLink
	State LinkState // LinkDone or LinkFailed
	Path  string    // Written file path, set on success
	Bytes int64     // Bytes written, set on success
	Err   error     // Failure reason, set on failure
}

// Succeeded reports whether the link was saved
func (r DownloadResult) Succeeded() bool {
	return r.State == LinkDone
}

// DownloadReport is the batch of results returned to the caller
type DownloadReport struct {
	Directory string
	Results   []DownloadResult
}

// Succeeded returns the number of saved files
func (r *DownloadReport) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Succeeded() {
			n++
		}
	}
	return n
}

// Failed returns the number of links that could not be saved
func (r *DownloadReport) Failed() int {
	return len(r.Results) - r.Succeeded()
}

// Summary returns a one-line human readable summary of the batch
func (r *DownloadReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Saved %d of %d files to %s", r.Succeeded(), len(r.Results), r.Directory)
	if failed := r.Failed(); failed > 0 {
		fmt.Fprintf(&b, " (%d failed)", failed)
	}
	return b.String()
}

// ContentRequest is the input supplied by the command line layer
type ContentRequest struct {
	Topic     string
	FileType  string
	Limit     int
	Directory string // Defaults to the topic with spaces replaced by hyphens
	Parallel  bool
}

// DefaultDirectory derives the destination directory from a topic
func DefaultDirectory(topic string) string {
	return strings.ReplaceAll(strings.TrimSpace(topic), " ", "-")
}

// Mode returns the download mode requested
func (r ContentRequest) Mode() DownloadMode {
	if r.Parallel {
		return ModeParallel
	}
	return ModeSeries
}
