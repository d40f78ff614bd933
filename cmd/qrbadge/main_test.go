package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/config"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/domain/model"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/testutil"
)

func feed(events ...model.Event) <-chan model.Event {
	ch := make(chan model.Event, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	return ch
}

func TestConsumeEvents(t *testing.T) {
	tests := []struct {
		name   string
		events []model.Event
		want   []string
	}{
		{
			name: "completed",
			events: []model.Event{
				{Kind: model.EventProgress, Percent: 50, Processed: 1, Total: 2},
				{Kind: model.EventProgress, Percent: 100, Processed: 2, Total: 2},
				{Kind: model.EventCompleted, Percent: 100, Processed: 2, Total: 2},
			},
			want: []string{"progress  50% (1/2)", "progress 100% (2/2)", "completed"},
		},
		{
			name:   "cancelled",
			events: []model.Event{{Kind: model.EventCancelled, Total: 4}},
			want:   []string{"cancelled"},
		},
		{
			name: "failed",
			events: []model.Event{
				{Kind: model.EventProgress, Percent: 25, Processed: 1, Total: 4},
				{Kind: model.EventFailed, Processed: 1, Total: 4, Err: errors.New("item 2 of 4: boom")},
			},
			want: []string{"progress  25% (1/4)", "failed: item 2 of 4: boom"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ev, err := consumeEvents(&buf, feed(tt.events...))
			require.NoError(t, err)
			assert.Equal(t, tt.events[len(tt.events)-1].Kind, ev.Kind)
			assert.Equal(t, tt.want, strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n"))
		})
	}
}

func TestConsumeEvents_NoTerminal(t *testing.T) {
	_, err := consumeEvents(&bytes.Buffer{}, feed(model.Event{Kind: model.EventProgress, Percent: 10}))
	require.Error(t, err)
}

func TestOutcomeLine_FailedWithoutCause(t *testing.T) {
	assert.Equal(t, "failed: unknown error", outcomeLine(model.Event{Kind: model.EventFailed}))
}

func TestParseRunFlags(t *testing.T) {
	opts, err := parseRunFlags([]string{"-file", "codes.txt", "-size", "100", "-margin", "5", "-per-row", "4"}, "default.svg")
	require.NoError(t, err)
	assert.Equal(t, model.SubmitRequest{FilePath: "codes.txt", BadgeSize: "100", Margin: "5", MaxPerRow: "4"}, opts.Request)
	assert.Equal(t, "default.svg", opts.Output)

	_, err = parseRunFlags([]string{"-file", "a", "extra"}, "x.svg")
	require.Error(t, err)
}

func TestParseListRunsFlags(t *testing.T) {
	opts, err := parseListRunsFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, 20, opts.Limit)

	_, err = parseListRunsFlags([]string{"-limit", "0"})
	require.Error(t, err)
}

func TestWatchCancel(t *testing.T) {
	t.Run("signal cancels", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		called := 0
		watchCancel(ctx, make(chan struct{}), func() bool { called++; return true })
		assert.Equal(t, 1, called)
	})
	t.Run("finished run does not cancel", func(t *testing.T) {
		done := make(chan struct{})
		close(done)
		called := 0
		watchCancel(context.Background(), done, func() bool { called++; return true })
		assert.Zero(t, called)
	})
}

func TestPrintRuns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRuns(&buf, nil))
	assert.Equal(t, "No runs recorded.\n", buf.String())

	buf.Reset()
	run := testutil.NewRun().WithSource("codes.txt").WithTotal(10).Build()
	run.ID = "run-1"
	run.Status = model.RunStateFailed
	run.Processed = 4
	run.LastError = testutil.StringPtr("item 5 of 10: boom")
	require.NoError(t, printRuns(&buf, []*model.Run{run}))

	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "4/10")
	assert.Contains(t, out, "item 5 of 10: boom")
}

func TestPrintUsage_ListsCommands(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printUsage(&buf))
	for name := range commands() {
		assert.Contains(t, buf.String(), name)
	}
}

func newCommandContext(t *testing.T, stdout *bytes.Buffer) *commandContext {
	t.Helper()
	cfg := config.AppConfig{Render: config.RenderConfig{TempDir: t.TempDir()}}
	cfg.Sanitize()
	return &commandContext{
		Ctx:    context.Background(),
		Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
		Config: cfg,
		Stdout: stdout,
	}
}

func TestRunBatch_WritesPage(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "codes.txt")
	require.NoError(t, os.WriteFile(input, []byte("A\nB\nC\nD\n"), 0o600))
	output := filepath.Join(dir, "page.svg")

	var stdout bytes.Buffer
	err := runBatch(newCommandContext(t, &stdout), []string{
		"-file", input, "-size", "80", "-margin", "5", "-per-row", "2", "-out", output,
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"progress  25% (1/4)",
		"progress  50% (2/4)",
		"progress  75% (3/4)",
		"progress 100% (4/4)",
		"completed",
	}, lines)

	page, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(page), "<?xml"))
	assert.Equal(t, 4, strings.Count(string(page), "</text>"))
}

func TestRunBatch_UnreadableFileFails(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "page.svg")

	var stdout bytes.Buffer
	err := runBatch(newCommandContext(t, &stdout), []string{
		"-file", filepath.Join(dir, "missing.txt"), "-size", "80", "-margin", "5", "-per-row", "2", "-out", output,
	})
	require.ErrorIs(t, err, errRunFailed)
	assert.True(t, strings.HasPrefix(stdout.String(), "failed: "), stdout.String())
	assert.FileExists(t, output)
}

func TestRunBatch_InvalidParameters(t *testing.T) {
	var stdout bytes.Buffer
	err := runBatch(newCommandContext(t, &stdout), []string{
		"-file", "codes.txt", "-size", "big", "-margin", "5", "-per-row", "2",
		"-out", filepath.Join(t.TempDir(), "page.svg"),
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, errRunFailed)
	assert.Empty(t, stdout.String())
}

func TestRunBatch_SignalHandlerPrecedesSubmit(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "codes.txt")
	require.NoError(t, os.WriteFile(input, []byte(strings.Repeat("PAYLOAD\n", 50)), 0o600))

	tests := []struct {
		name    string
		size    string
		wantErr bool
	}{
		{name: "rejected submission", size: "big", wantErr: true},
		{name: "interrupted run", size: "50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			installed := 0
			orig := notifySignals
			t.Cleanup(func() { notifySignals = orig })
			// Behaves as if the interrupt arrived as soon as the handler was installed.
			notifySignals = func(ctx context.Context) (context.Context, context.CancelFunc) {
				installed++
				sigCtx, cancel := context.WithCancel(ctx)
				cancel()
				return sigCtx, cancel
			}

			var stdout bytes.Buffer
			err := runBatch(newCommandContext(t, &stdout), []string{
				"-file", input, "-size", tt.size, "-margin", "2", "-per-row", "5",
				"-out", filepath.Join(dir, "page.svg"),
			})
			assert.Equal(t, 1, installed)
			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, stdout.String())
				return
			}
			require.NoError(t, err)
			lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
			assert.Contains(t, []string{"cancelled", "completed"}, lines[len(lines)-1])
		})
	}
}

func TestRunListRuns_RequiresDatabase(t *testing.T) {
	err := runListRuns(newCommandContext(t, &bytes.Buffer{}), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_ENABLED")
}

func TestRunBatch_CompletesWithinTimeout(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "codes.txt")
	require.NoError(t, os.WriteFile(input, []byte(strings.Repeat("PAYLOAD\n", 30)), 0o600))

	done := make(chan error, 1)
	go func() {
		done <- runBatch(newCommandContext(t, &bytes.Buffer{}), []string{
			"-file", input, "-size", "50", "-margin", "2", "-per-row", "6",
			"-out", filepath.Join(dir, "page.svg"),
		})
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(30 * time.Second):
		t.Fatal("run did not finish")
	}
}
