package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/bootstrap"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/domain/model"
	"golang.org/x/sync/errgroup"
)

var errRunFailed = errors.New("run failed")

var notifySignals = func(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

type runOptions struct {
	Request model.SubmitRequest
	Output  string
}

// parseRunFlags keeps the numeric fields as text; the controller validates
// them so the CLI reports the same field errors as any other submitter.
func parseRunFlags(args []string, defaultOutput string) (runOptions, error) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts runOptions
	fs.StringVar(&opts.Request.FilePath, "file", "", "Payload file, one payload per line (.json for a JSON list)")
	fs.StringVar(&opts.Request.BadgeSize, "size", "", "Badge side length in document units")
	fs.StringVar(&opts.Request.Margin, "margin", "", "Gap between adjacent badges")
	fs.StringVar(&opts.Request.MaxPerRow, "per-row", "", "Badges per row before wrapping")
	fs.StringVar(&opts.Output, "out", defaultOutput, "SVG file to write")

	if err := fs.Parse(args); err != nil {
		return runOptions{}, err
	}
	if fs.NArg() > 0 {
		return runOptions{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

func runBatch(cmdCtx *commandContext, args []string) error {
	opts, err := parseRunFlags(args, cmdCtx.Config.Render.Output)
	if err != nil {
		return err
	}
	cfg := cmdCtx.Config
	cfg.Render.Output = opts.Output

	app, err := bootstrap.Open(cmdCtx.Ctx, &cfg, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("close app failed", "error", closeErr)
		}
	}()

	// The handler must be live before Submit starts the first item.
	sigCtx, stop := notifySignals(cmdCtx.Ctx)
	defer stop()

	run, err := app.Controller.Submit(cmdCtx.Ctx, opts.Request)
	if err != nil {
		return fmt.Errorf("submit job: %w", err)
	}

	var terminal model.Event
	g := new(errgroup.Group)
	g.Go(func() error {
		var consumeErr error
		terminal, consumeErr = consumeEvents(cmdCtx.Stdout, run.Events())
		return consumeErr
	})
	g.Go(func() error {
		watchCancel(sigCtx, run.Done(), app.Controller.Cancel)
		return nil
	})
	if err = g.Wait(); err != nil {
		return err
	}

	if err = writeDocument(opts.Output, app.Document); err != nil {
		return err
	}
	cmdCtx.Logger.Info("page written", "path", opts.Output, "badges", terminal.Processed)

	if terminal.Kind == model.EventFailed {
		return errRunFailed
	}
	return nil
}

// watchCancel invokes cancel once when ctx ends before done is closed.
func watchCancel(ctx context.Context, done <-chan struct{}, cancel func() bool) {
	select {
	case <-ctx.Done():
		cancel()
	case <-done:
	}
}

// consumeEvents prints one line per event and returns the terminal event.
func consumeEvents(w io.Writer, events <-chan model.Event) (model.Event, error) {
	for ev := range events {
		if !ev.Kind.Terminal() {
			if err := writef(w, "progress %3d%% (%d/%d)\n", ev.Percent, ev.Processed, ev.Total); err != nil {
				return model.Event{}, err
			}
			continue
		}
		if err := writeln(w, outcomeLine(ev)); err != nil {
			return model.Event{}, err
		}
		return ev, nil
	}
	return model.Event{}, errors.New("event stream closed without a terminal event")
}

func outcomeLine(ev model.Event) string {
	switch ev.Kind {
	case model.EventCompleted:
		return "completed"
	case model.EventCancelled:
		return "cancelled"
	default:
		reason := "unknown error"
		if ev.Err != nil {
			reason = ev.Err.Error()
		}
		return "failed: " + reason
	}
}

// writeDocument replaces path atomically with the rendered page.
func writeDocument(path string, doc io.WriterTo) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".qrbadge-*.svg")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = doc.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}
