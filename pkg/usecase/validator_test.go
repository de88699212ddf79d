package usecase_test

import (
	"fmt"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/ctdl/pkg/domain/model"
	"github.com/m-mizutani/ctdl/pkg/usecase"
)

func TestFilterLinks_Prefix(t *testing.T) {
	tests := []struct {
		name string
		link model.RawLink
		keep bool
	}{
		{name: "http", link: "http://example.com/a.pdf", keep: true},
		{name: "https", link: "https://example.com/a.pdf", keep: true},
		{name: "bare scheme http", link: "http://", keep: true},
		{name: "empty", link: "", keep: false},
		{name: "relative path", link: "/search?q=related", keep: false},
		{name: "relative file", link: "files/a.pdf", keep: false},
		{name: "uppercase scheme", link: "HTTP://example.com/a.pdf", keep: false},
		{name: "ftp", link: "ftp://example.com/a.pdf", keep: false},
		{name: "missing slash", link: "http:/example.com", keep: false},
		{name: "prefix of http only", link: "http", keep: false},
		{name: "https without slashes", link: "https:example.com", keep: false},
		{name: "leading space", link: " https://example.com", keep: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := usecase.FilterLinks([]model.RawLink{tt.link}, 10)
			if tt.keep {
				gt.Equal(t, got, []model.ValidatedLink{model.ValidatedLink(tt.link)})
			} else {
				gt.Equal(t, len(got), 0)
			}
		})
	}
}

func TestFilterLinks_OrderAndDedup(t *testing.T) {
	raw := []model.RawLink{
		"https://example.com/b.pdf",
		"/relative",
		"https://example.com/a.pdf",
		"https://example.com/b.pdf",
		"http://example.com/c.pdf",
	}

	got := usecase.FilterLinks(raw, 10)
	gt.Equal(t, got, []model.ValidatedLink{
		"https://example.com/b.pdf",
		"https://example.com/a.pdf",
		"http://example.com/c.pdf",
	})
}

func TestFilterLinks_Limit(t *testing.T) {
	var raw []model.RawLink
	for i := 0; i < 25; i++ {
		raw = append(raw, model.RawLink(fmt.Sprintf("https://example.com/%d.pdf", i)))
	}

	for _, limit := range []int{1, 5, 10, 25, 100} {
		got := usecase.FilterLinks(raw, limit)
		gt.True(t, len(got) <= limit)
		gt.Equal(t, len(got), min(limit, len(raw)))
		gt.Equal(t, got[0], model.ValidatedLink("https://example.com/0.pdf"))
	}

	t.Run("duplicates do not consume the limit", func(t *testing.T) {
		raw := []model.RawLink{
			"https://example.com/a.pdf",
			"https://example.com/a.pdf",
			"https://example.com/b.pdf",
		}
		gt.Equal(t, usecase.FilterLinks(raw, 2), []model.ValidatedLink{
			"https://example.com/a.pdf",
			"https://example.com/b.pdf",
		})
	})

	t.Run("non-positive limit", func(t *testing.T) {
		gt.Equal(t, len(usecase.FilterLinks(raw, 0)), 0)
		gt.Equal(t, len(usecase.FilterLinks(raw, -1)), 0)
	})
}
