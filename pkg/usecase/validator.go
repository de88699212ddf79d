package usecase

import (
	"strings"

	"github.com/m-mizutani/ctdl/pkg/domain/model"
)

// FilterLinks keeps the raw links that start with exactly "http://" or "https://",
// drops duplicates and returns at most limit links in first-seen order.
func FilterLinks(raw []model.RawLink, limit int) []model.ValidatedLink {
	if limit <= 0 {
		return []model.ValidatedLink{}
	}

	seen := make(map[model.RawLink]struct{}, len(raw))
	valid := make([]model.ValidatedLink, 0, min(len(raw), limit))

	for _, link := range raw {
		if len(valid) >= limit {
			break
		}
		if !isHTTPLink(string(link)) {
			continue
		}
		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}
		valid = append(valid, model.ValidatedLink(link))
	}

	return valid
}

func isHTTPLink(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
