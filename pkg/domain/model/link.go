package model

// RawLink is a URL-like string extracted from a search result page, not yet validated
type RawLink string

// ValidatedLink is a link known to start with http:// or https://
type ValidatedLink string

func (l ValidatedLink) String() string { return string(l) }
