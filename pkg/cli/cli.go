package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/ctdl/pkg/cli/config"
	"github.com/m-mizutani/ctdl/pkg/domain/types"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var logger *slog.Logger

	app := newApp(&logger)

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		return err
	}

	return nil
}

func newApp(logger **slog.Logger) *cli.Command {
	var (
		loggerCfg   config.Logger
		httpCfg     config.HTTP
		searchCfg   config.Search
		downloadCfg config.Download
		contentCfg  contentFlags
	)

	var flags []cli.Flag
	flags = append(flags, contentCfg.Flags()...)
	flags = append(flags, downloadCfg.Flags()...)
	flags = append(flags, searchCfg.Flags()...)
	flags = append(flags, httpCfg.Flags()...)
	flags = append(flags, loggerCfg.Flags()...)

	return &cli.Command{
		Name:        "ctdl",
		Usage:       "Content Downloader",
		UsageText:   "ctdl [options] [query]",
		ArgsUsage:   "[query]",
		Description: "Now download files on any topic in bulk!",
		Version:     types.Version,
		Flags:       flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			l, err := loggerCfg.Configure()
			if err != nil {
				return nil, err
			}
			*logger = l

			slog.SetDefault(l)
			ctx = ctxlog.With(ctx, l)
			return ctx, nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			switch {
			case contentCfg.Available:
				printFileTypes(c.Root().Writer)
				return nil
			case contentCfg.Threats:
				printThreats(c.Root().Writer)
				return nil
			}

			contentCfg.Query = c.Args().First()
			return runDownload(ctx, c, &contentCfg, &httpCfg, &searchCfg, &downloadCfg)
		},
	}
}
