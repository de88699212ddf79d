package config_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/ctdl/pkg/cli/config"
)

func TestHTTP_Configure(t *testing.T) {
	cfg := &config.HTTP{
		UserAgent:   "ctdl-test/1.0",
		MaxAttempts: 3,
		Backoff:     time.Millisecond,
		Timeout:     time.Second,
	}

	var (
		calls atomic.Int32
		agent atomic.Value
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		agent.Store(r.UserAgent())
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := cfg.Configure()
	_, err := client.Get(context.Background(), server.URL, nil)
	gt.Error(t, err)
	gt.Equal(t, calls.Load(), int32(3))
	gt.Equal(t, agent.Load().(string), "ctdl-test/1.0")
}

func TestConfig_Flags(t *testing.T) {
	var (
		httpCfg     config.HTTP
		searchCfg   config.Search
		downloadCfg config.Download
	)

	var flags []cli.Flag
	flags = append(flags, httpCfg.Flags()...)
	flags = append(flags, searchCfg.Flags()...)
	flags = append(flags, downloadCfg.Flags()...)

	flagNames := make(map[string]bool)
	for _, flag := range flags {
		switch f := flag.(type) {
		case interface{ Names() []string }:
			names := f.Names()
			if len(names) > 0 {
				flagNames[names[0]] = true
			}
		}
	}

	for _, name := range []string{"user-agent", "max-attempts", "backoff", "timeout", "search-url", "workers"} {
		if !flagNames[name] {
			t.Errorf("Missing %s flag", name)
		}
	}
}
