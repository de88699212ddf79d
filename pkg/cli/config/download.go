package config

import (
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/ctdl/pkg/domain/interfaces"
	"github.com/m-mizutani/ctdl/pkg/usecase"
)

// Download holds downloader configuration
type Download struct {
	Workers int
}

// Flags returns CLI flags for downloader configuration
func (c *Download) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "workers",
			Usage:       "Maximum concurrent downloads in parallel mode",
			Value:       usecase.DefaultWorkers,
			Destination: &c.Workers,
			Sources:     cli.EnvVars("CTDL_WORKERS"),
		},
	}
}

// Configure builds the downloader
func (c *Download) Configure(httpClient interfaces.HTTPClient) *usecase.Downloader {
	return usecase.NewDownloader(httpClient, usecase.WithWorkers(c.Workers))
}
