package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/adapters/svgdoc"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/domain/badge"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/domain/model"
	apperrors "github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/errors"
)

// stubEncoder returns a fixed graphic and fails for payloads in reject.
type stubEncoder struct {
	reject map[string]bool
}

func (s stubEncoder) Encode(content string) ([]byte, error) {
	if s.reject[content] {
		return nil, errors.New("data too long")
	}
	return []byte(stubSVG), nil
}

func newTestOrchestrator(t *testing.T, enc badge.Encoder) *BatchOrchestrator {
	t.Helper()
	if enc == nil {
		enc = stubEncoder{}
	}
	composer, err := badge.NewComposer(badge.ComposerOptions{Encoder: enc})
	require.NoError(t, err)
	orch, err := NewBatchOrchestrator(BatchOrchestratorOptions{
		Composer: composer,
		Placer:   NewPlacer(PlacerOptions{TempDir: t.TempDir()}),
	})
	require.NoError(t, err)
	return orch
}

func payloads(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("ITEM-%02d", i+1)
	}
	return out
}

func testJob(n int) model.Job {
	return model.Job{Payloads: payloads(n), BadgeSize: 100, Margin: 10, MaxPerRow: 3}
}

// collect drains a run's events with a deadline.
func collect(t *testing.T, run *BatchRun) (progress []model.Event, terminal model.Event) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-run.Events():
			if !ok {
				return progress, terminal
			}
			if ev.Kind.Terminal() {
				require.Empty(t, terminal.Kind, "more than one terminal event")
				terminal = ev
				continue
			}
			require.Empty(t, terminal.Kind, "progress after terminal event")
			progress = append(progress, ev)
		case <-timeout:
			t.Fatal("timed out waiting for run events")
		}
	}
}

func percents(events []model.Event) []int {
	out := make([]int, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Percent)
	}
	return out
}

func TestBatchRun_CompletesWithOrderedProgress(t *testing.T) {
	orch := newTestOrchestrator(t, nil)
	doc := svgdoc.New()

	run, err := orch.NewRun(testJob(10), RunOptions{Document: doc})
	require.NoError(t, err)
	assert.Equal(t, model.RunStateIdle, run.State())
	require.NoError(t, run.Start(context.Background()))

	progress, terminal := collect(t, run)
	assert.Equal(t, []int{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, percents(progress))
	for i, ev := range progress {
		assert.Equal(t, i+1, ev.Processed)
		assert.Equal(t, 10, ev.Total)
	}
	assert.Equal(t, model.EventCompleted, terminal.Kind)
	assert.NoError(t, terminal.Err)

	out, done := run.Outcome()
	require.True(t, done)
	assert.Equal(t, model.RunStateCompleted, out.State)
	assert.Equal(t, 10, out.Processed)
	assert.Len(t, doc.Groups(), 10)
	assert.Equal(t, 10*8, doc.Len())
}

func TestBatchRun_GridPlacement(t *testing.T) {
	orch := newTestOrchestrator(t, nil)
	doc := svgdoc.New()

	run, err := orch.NewRun(testJob(5), RunOptions{Document: doc})
	require.NoError(t, err)
	require.NoError(t, run.Start(context.Background()))
	_, terminal := collect(t, run)
	require.Equal(t, model.EventCompleted, terminal.Kind)

	want := []model.GridPosition{{X: 0, Y: 0}, {X: 110, Y: 0}, {X: 220, Y: 0}, {X: 0, Y: -110}, {X: 110, Y: -110}}
	groups := doc.Groups()
	require.Len(t, groups, len(want))
	for i, gid := range groups {
		g, ok := doc.Shape(gid)
		require.True(t, ok)
		require.Len(t, g.Children, 7)
		border, ok := doc.Shape(g.Children[0])
		require.True(t, ok)
		assert.Equal(t, svgdoc.KindRectangle, border.Kind)
		assert.InDelta(t, want[i].X, border.X, 1e-9, "item %d", i)
		assert.InDelta(t, want[i].Y, border.Y, 1e-9, "item %d", i)
	}
}

func TestBatchRun_EmptyJobCompletes(t *testing.T) {
	orch := newTestOrchestrator(t, nil)
	run, err := orch.NewRun(testJob(0), RunOptions{Document: svgdoc.New()})
	require.NoError(t, err)
	require.NoError(t, run.Start(context.Background()))

	progress, terminal := collect(t, run)
	assert.Empty(t, progress)
	assert.Equal(t, model.EventCompleted, terminal.Kind)
}

func TestBatchRun_CancelAfterThirdItem(t *testing.T) {
	orch := newTestOrchestrator(t, nil)
	flag := &model.CancellationFlag{}
	doc := svgdoc.New(svgdoc.WithHook(func(op string, call int) error {
		if op == svgdoc.OpGroupShapes && call == 3 {
			flag.Cancel()
		}
		return nil
	}))

	run, err := orch.NewRun(testJob(10), RunOptions{Document: doc, Cancel: flag})
	require.NoError(t, err)
	require.NoError(t, run.Start(context.Background()))

	progress, terminal := collect(t, run)
	assert.Equal(t, []int{10, 20, 30}, percents(progress))
	assert.Equal(t, model.EventCancelled, terminal.Kind)
	assert.NoError(t, terminal.Err)

	// items 4..10 never touched the document
	assert.Len(t, doc.Groups(), 3)
	assert.Equal(t, 3, doc.Calls(svgdoc.OpCreateRectangle))
	assert.Equal(t, model.RunStateCancelled, run.State())
}

func TestBatchRun_CancelBeforeStart(t *testing.T) {
	orch := newTestOrchestrator(t, nil)
	doc := svgdoc.New()
	run, err := orch.NewRun(testJob(4), RunOptions{Document: doc})
	require.NoError(t, err)
	run.Cancel()
	require.NoError(t, run.Start(context.Background()))

	progress, terminal := collect(t, run)
	assert.Empty(t, progress)
	assert.Equal(t, model.EventCancelled, terminal.Kind)
	assert.Zero(t, doc.Len())
}

func TestBatchRun_ContextCancelIsObservedBetweenItems(t *testing.T) {
	orch := newTestOrchestrator(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	doc := svgdoc.New(svgdoc.WithHook(func(op string, call int) error {
		if op == svgdoc.OpGroupShapes && call == 2 {
			cancel()
		}
		return nil
	}))

	run, err := orch.NewRun(testJob(6), RunOptions{Document: doc})
	require.NoError(t, err)
	require.NoError(t, run.Start(ctx))

	progress, terminal := collect(t, run)
	assert.Len(t, progress, 2)
	assert.Equal(t, model.EventCancelled, terminal.Kind)
	assert.Len(t, doc.Groups(), 2)
}

func TestBatchRun_PlacementErrorOnFifthItem(t *testing.T) {
	orch := newTestOrchestrator(t, nil)
	doc := svgdoc.New(svgdoc.WithHook(func(op string, call int) error {
		if op == svgdoc.OpGroupShapes && call == 5 {
			return svgdoc.ErrLayerLocked
		}
		return nil
	}))

	run, err := orch.NewRun(testJob(10), RunOptions{Document: doc})
	require.NoError(t, err)
	require.NoError(t, run.Start(context.Background()))

	progress, terminal := collect(t, run)
	assert.Equal(t, []int{10, 20, 30, 40}, percents(progress))
	require.Equal(t, model.EventFailed, terminal.Kind)

	var itemErr *ItemError
	require.ErrorAs(t, terminal.Err, &itemErr)
	assert.Equal(t, 5, itemErr.Item)
	assert.Equal(t, 4, itemErr.Index)
	assert.Equal(t, 10, itemErr.Total)
	assert.True(t, apperrors.IsPlacement(terminal.Err))
	assert.ErrorIs(t, terminal.Err, svgdoc.ErrLayerLocked)
	assert.Contains(t, terminal.Err.Error(), "item 5 of 10")

	assert.Equal(t, 5, doc.Calls(svgdoc.OpCreateRectangle), "no item after the failing one is started")
	out, _ := run.Outcome()
	assert.Equal(t, model.RunStateFailed, out.State)
	assert.Equal(t, 4, out.Processed)
}

func TestBatchRun_EncodingErrorAborts(t *testing.T) {
	job := testJob(4)
	orch := newTestOrchestrator(t, stubEncoder{reject: map[string]bool{job.Payloads[1]: true}})
	doc := svgdoc.New()

	run, err := orch.NewRun(job, RunOptions{Document: doc})
	require.NoError(t, err)
	require.NoError(t, run.Start(context.Background()))

	progress, terminal := collect(t, run)
	assert.Len(t, progress, 1)
	require.Equal(t, model.EventFailed, terminal.Kind)
	assert.True(t, apperrors.IsEncoding(terminal.Err))
	assert.Len(t, doc.Groups(), 1)
}

func TestBatchRun_LockedLayerFailsFirstItem(t *testing.T) {
	orch := newTestOrchestrator(t, nil)
	run, err := orch.NewRun(testJob(3), RunOptions{Document: svgdoc.New(svgdoc.WithLockedLayer())})
	require.NoError(t, err)
	require.NoError(t, run.Start(context.Background()))

	progress, terminal := collect(t, run)
	assert.Empty(t, progress)
	require.Equal(t, model.EventFailed, terminal.Kind)
	var itemErr *ItemError
	require.ErrorAs(t, terminal.Err, &itemErr)
	assert.Equal(t, 1, itemErr.Item)
}

func TestBatchRun_StartOnce(t *testing.T) {
	orch := newTestOrchestrator(t, nil)
	run, err := orch.NewRun(testJob(1), RunOptions{Document: svgdoc.New()})
	require.NoError(t, err)
	require.NoError(t, run.Start(context.Background()))
	assert.ErrorIs(t, run.Start(context.Background()), ErrRunAlreadyStarted)

	out, err := run.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.RunStateCompleted, out.State)
	assert.ErrorIs(t, run.Start(context.Background()), ErrRunAlreadyStarted)
}

func TestBatchRun_WorkerNeverBlocksOnConsumer(t *testing.T) {
	orch := newTestOrchestrator(t, nil)
	run, err := orch.NewRun(testJob(25), RunOptions{Document: svgdoc.New()})
	require.NoError(t, err)
	require.NoError(t, run.Start(context.Background()))

	// nobody reads Events until the worker is done
	select {
	case <-run.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("worker blocked on an unread event channel")
	}
	progress, terminal := collect(t, run)
	assert.Len(t, progress, 25)
	assert.Equal(t, model.EventCompleted, terminal.Kind)
}

func TestBatchRun_OnFinishRunsBeforeTerminalEvent(t *testing.T) {
	orch := newTestOrchestrator(t, nil)
	finished := make(chan model.Outcome, 1)
	run, err := orch.NewRun(testJob(2), RunOptions{
		ID:       "run-1",
		Document: svgdoc.New(),
		OnFinish: func(_ context.Context, out model.Outcome) { finished <- out },
	})
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID())
	require.NoError(t, run.Start(context.Background()))

	_, terminal := collect(t, run)
	require.Equal(t, model.EventCompleted, terminal.Kind)
	select {
	case out := <-finished:
		assert.Equal(t, "run-1", out.RunID)
		assert.Equal(t, model.RunStateCompleted, out.State)
	default:
		t.Fatal("finish hook did not run before the terminal event")
	}
}

func TestBatchRun_JobIsCopied(t *testing.T) {
	orch := newTestOrchestrator(t, nil)
	job := testJob(2)
	run, err := orch.NewRun(job, RunOptions{Document: svgdoc.New()})
	require.NoError(t, err)
	job.Payloads[0] = "CHANGED"
	assert.Equal(t, "ITEM-01", run.job.Payloads[0])
}

func TestBatchOrchestrator_NewRunValidation(t *testing.T) {
	orch := newTestOrchestrator(t, nil)

	_, err := orch.NewRun(model.Job{BadgeSize: 0, MaxPerRow: 1}, RunOptions{Document: svgdoc.New()})
	assert.True(t, apperrors.IsValidation(err))

	_, err = orch.NewRun(testJob(1), RunOptions{})
	assert.True(t, apperrors.IsPlacement(err))
}

func TestNewBatchOrchestrator_RequiresDependencies(t *testing.T) {
	_, err := NewBatchOrchestrator(BatchOrchestratorOptions{})
	require.Error(t, err)
}
