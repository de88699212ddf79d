package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/ctdl/pkg/cli/config"
	"github.com/m-mizutani/ctdl/pkg/domain/catalog"
	"github.com/m-mizutani/ctdl/pkg/domain/model"
	"github.com/m-mizutani/ctdl/pkg/usecase"
	"github.com/m-mizutani/ctdl/pkg/utils/async"
)

const threatWarning = "WARNING: Downloading this file type may expose you to a heightened security risk.\nPress 'y' to proceed or 'n' to exit"

var errInvalidOption = goerr.New("Error: Invalid option provided.", goerr.T(model.ErrTagConfig))

// errDeclined is returned when the user refuses a high-risk download
var errDeclined = goerr.New("download declined", goerr.T(model.ErrTagConfig))

func runDownload(ctx context.Context, c *cli.Command, flags *contentFlags, httpCfg *config.HTTP, searchCfg *config.Search, downloadCfg *config.Download) error {
	logger := ctxlog.From(ctx)
	w := c.Root().Writer

	req := flags.request()
	query, err := model.NewSearchQuery(req.Topic, req.FileType, req.Limit)
	if err != nil {
		return err
	}
	if req.Directory == "" {
		req.Directory = model.DefaultDirectory(query.Topic())
	}

	if catalog.IsThreat(query.FileType()) && !flags.Yes {
		if err := confirmThreat(c.Root().Reader, w); err != nil {
			if errors.Is(err, errDeclined) {
				logger.Info("download declined", "file_type", query.FileType())
				return nil
			}
			return err
		}
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	stopSignals := watchSignals(ctx, cancel)
	defer stopSignals()

	fmt.Fprintf(w, "Downloading %d %s files on topic %s and saving to directory: %s\n",
		query.Limit(), query.FileType(), query.Topic(), req.Directory)

	httpClient := httpCfg.Configure()
	content := usecase.NewContent(
		searchCfg.Configure(httpClient),
		downloadCfg.Configure(httpClient),
	)

	report, err := content.Download(ctx, req)
	if err != nil {
		return goerr.Wrap(err, "failed to download content", goerr.V("query", query.Query()))
	}

	printSummary(w, report)
	return nil
}

// watchSignals cancels ctx on SIGINT or SIGTERM until the returned stop function is called
func watchSignals(ctx context.Context, cancel context.CancelCauseFunc) func() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	async.Dispatch(ctx, func(ctx context.Context) error {
		select {
		case sig := <-sigChan:
			ctxlog.From(ctx).Warn("interrupted, stopping downloads", "signal", sig.String())
			cancel(goerr.New("interrupted", goerr.V("signal", sig.String())))
		case <-done:
		}
		return nil
	})

	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}

// confirmThreat asks the user to accept a high-risk file type until a valid answer is given.
// It returns nil for "y" and errDeclined for "n". Input that ends without a valid answer
// returns errInvalidOption.
func confirmThreat(r io.Reader, w io.Writer) error {
	if r == nil {
		r = os.Stdin
	}
	warn := color.New(color.FgYellow)
	scanner := bufio.NewScanner(r)

	for {
		warn.Fprint(w, threatWarning+": ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return goerr.Wrap(err, "failed to read answer")
			}
			fmt.Fprintln(w)
			return errInvalidOption
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y":
			return nil
		case "n":
			return errDeclined
		}
		fmt.Fprintln(w, errInvalidOption.Error())
	}
}

func printFileTypes(w io.Writer) {
	printTable(w, catalog.All())
}

func printThreats(w io.Writer) {
	printTable(w, catalog.Threats())
}

func printTable(w io.Writer, entries []model.ExtensionEntry) {
	key := color.New(color.FgCyan, color.Bold)
	for _, entry := range entries {
		key.Fprintf(w, "%-4s", entry.Display())
		fmt.Fprintf(w, ": %s\n", entry.Label)
	}
}

func printSummary(w io.Writer, report *model.DownloadReport) {
	c := color.New(color.FgGreen)
	if report.Failed() > 0 {
		c = color.New(color.FgYellow)
	}
	c.Fprintln(w, report.Summary())
}
