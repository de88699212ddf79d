package config_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/ctdl/pkg/cli/config"
)

func TestLogger_Configure_Levels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "WARN", "Info"} {
		t.Run(level, func(t *testing.T) {
			cfg := &config.Logger{Level: level, Writer: &bytes.Buffer{}}
			logger, err := cfg.Configure()
			gt.NoError(t, err)
			gt.V(t, logger).NotNil()
		})
	}

	for _, level := range []string{"", "verbose", "warning"} {
		t.Run("reject "+level, func(t *testing.T) {
			cfg := &config.Logger{Level: level}
			logger, err := cfg.Configure()
			gt.Error(t, err)
			gt.V(t, logger).Nil()
		})
	}
}

func TestLogger_Configure_JSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Logger{Level: "warn", JSON: true, Writer: &buf}

	logger, err := cfg.Configure()
	gt.NoError(t, err)

	logger.Info("Saved file", "path", "go/intro.pdf")
	logger.Warn("Failed to fetch file", "url", "https://example.com/a.pdf")

	out := buf.String()
	gt.False(t, strings.Contains(out, "Saved file"))
	gt.True(t, strings.Contains(out, `"msg":"Failed to fetch file"`))
	gt.True(t, strings.Contains(out, `"url":"https://example.com/a.pdf"`))
}

func TestLogger_Configure_Console(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Logger{Level: "info", Writer: &buf}

	logger, err := cfg.Configure()
	gt.NoError(t, err)

	logger.Debug("Link state", "state", "pending")
	logger.Info("Starting downloads", "count", 3)

	out := buf.String()
	gt.False(t, strings.Contains(out, "Link state"))
	gt.True(t, strings.Contains(out, "Starting downloads"))
}

func TestLogger_Flags(t *testing.T) {
	cfg := &config.Logger{}

	names := map[string]bool{}
	for _, flag := range cfg.Flags() {
		if f, ok := flag.(interface{ Names() []string }); ok {
			names[f.Names()[0]] = true
		}
	}

	gt.Equal(t, len(names), 2)
	gt.True(t, names["log-level"])
	gt.True(t, names["log-json"])
}
