package model

import (
	"slices"
	"strings"
)

// ExtensionEntry is a named group of file extensions
type ExtensionEntry struct {
	Label      string   // Human readable file type name
	Extensions []string // Aliases, one element for the simple case
	Threat     bool     // Common malware carrier
}

// Has reports whether ext is one of the entry's aliases
func (e ExtensionEntry) Has(ext string) bool {
	return slices.Contains(e.Extensions, ext)
}

// Display returns the aliases joined for table output
func (e ExtensionEntry) Display() string {
	return strings.Join(e.Extensions, ", ")
}
