package model

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
)

var (
	// ErrTagConfig marks invalid caller input or an unusable destination directory
	ErrTagConfig = goerr.NewTag("config")

	// ErrTagNetwork marks a request that failed after retries were exhausted
	ErrTagNetwork = goerr.NewTag("network")

	// ErrTagFilesystem marks a failure to write a downloaded file
	ErrTagFilesystem = goerr.NewTag("filesystem")
)

// PartialSearchError reports result pages that could not be fetched while others succeeded
type PartialSearchError struct {
	Offsets []int // Start offsets of the failed pages
	Cause   error // First page error
}

func (e *PartialSearchError) Error() string {
	return fmt.Sprintf("failed to fetch %d result page(s) at offsets %v: %v", len(e.Offsets), e.Offsets, e.Cause)
}

func (e *PartialSearchError) Unwrap() error {
	return e.Cause
}
