package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/bootstrap"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/data"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/domain/model"
)

type listRunsOptions struct {
	Limit int
}

func parseListRunsFlags(args []string) (listRunsOptions, error) {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := listRunsOptions{Limit: data.DefaultListLimit}
	fs.IntVar(&opts.Limit, "limit", data.DefaultListLimit, "Maximum number of runs to show")

	if err := fs.Parse(args); err != nil {
		return listRunsOptions{}, err
	}
	if opts.Limit <= 0 {
		return listRunsOptions{}, errors.New("--limit must be greater than zero")
	}
	return opts, nil
}

func runListRuns(cmdCtx *commandContext, args []string) error {
	opts, err := parseListRunsFlags(args)
	if err != nil {
		return err
	}
	if !cmdCtx.Config.Postgres.Enabled {
		return errors.New("run history is disabled; set DB_ENABLED=true")
	}

	app, err := bootstrap.Open(cmdCtx.Ctx, &cmdCtx.Config, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("close app failed", "error", closeErr)
		}
	}()

	runs, err := app.History.List(cmdCtx.Ctx, opts.Limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	return printRuns(cmdCtx.Stdout, runs)
}

func printRuns(out io.Writer, runs []*model.Run) error {
	if len(runs) == 0 {
		return writeln(out, "No runs recorded.")
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if err := writeln(w, "ID\tStatus\tProcessed\tStarted\tSource\tError"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range runs {
		lastErr := ""
		if r.LastError != nil {
			lastErr = *r.LastError
		}
		if err := writef(w, "%s\t%s\t%d/%d\t%s\t%s\t%s\n",
			r.ID, r.Status, r.Processed, r.Total,
			r.StartedAt.UTC().Format(time.RFC3339), r.SourcePath, lastErr,
		); err != nil {
			return fmt.Errorf("write run %s: %w", r.ID, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush runs: %w", err)
	}
	return nil
}
