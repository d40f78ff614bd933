package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/core"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/domain/badge"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/domain/layout"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/domain/model"
	apperrors "github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/errors"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/observability/metrics"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/observability/statsd"
)

// ErrRunAlreadyStarted is returned when Start is called on a run more than once.
var ErrRunAlreadyStarted = errors.New("batch run already started")

// ItemError identifies the item that aborted a run.
type ItemError struct {
	Index int // zero-based position in the payload list
	Item  int // one-based item number
	Total int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d of %d: %v", e.Item, e.Total, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// BatchOrchestratorOptions groups dependencies for BatchOrchestrator.
type BatchOrchestratorOptions struct {
	Composer *badge.Composer // Required: builds badges from payloads
	Placer   *Placer         // Required: inserts badges into the document
	Metrics  statsd.Sink     // Optional: per-item and per-run metrics
	Logger   *slog.Logger    // Optional: structured logger
}

// BatchOrchestrator creates batch runs. It holds no per-run state and may be
// shared by any number of runs.
type BatchOrchestrator struct {
	composer *badge.Composer
	placer   *Placer
	metrics  statsd.Sink
	logger   *slog.Logger
}

// NewBatchOrchestrator constructs a BatchOrchestrator.
func NewBatchOrchestrator(opts BatchOrchestratorOptions) (*BatchOrchestrator, error) {
	if opts.Composer == nil {
		return nil, errors.New("composer is required")
	}
	if opts.Placer == nil {
		return nil, errors.New("placer is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchOrchestrator{
		composer: opts.Composer,
		placer:   opts.Placer,
		metrics:  opts.Metrics,
		logger:   logger.With("component", "batch_orchestrator"),
	}, nil
}

// RunOptions configures a single BatchRun.
type RunOptions struct {
	ID       string                  // Optional: generated when empty
	Document core.HostDocument       // Required: target document
	Cancel   *model.CancellationFlag // Optional: created when nil
	// OnFinish runs on the worker after the outcome is known and before the
	// terminal event is sent.
	OnFinish func(ctx context.Context, out model.Outcome)
}

// NewRun prepares a run of job against a document. The job is copied, so
// later changes by the caller are not observed.
func (o *BatchOrchestrator) NewRun(job model.Job, opts RunOptions) (*BatchRun, error) {
	if err := job.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid job")
	}
	if opts.Document == nil {
		return nil, apperrors.Placement(errors.New("no active document"), "open document")
	}
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	flag := opts.Cancel
	if flag == nil {
		flag = &model.CancellationFlag{}
	}
	job = job.Clone()
	return &BatchRun{
		id:       id,
		job:      job,
		doc:      opts.Document,
		flag:     flag,
		onFinish: opts.OnFinish,
		orch:     o,
		state:    model.RunStateIdle,
		events:   make(chan model.Event, job.Total()+1),
		done:     make(chan struct{}),
	}, nil
}

// BatchRun is one execution of a job. The worker goroutine is the only
// writer of the document; the control side reads Events and may Cancel.
type BatchRun struct {
	id       string
	job      model.Job
	doc      core.HostDocument
	flag     *model.CancellationFlag
	onFinish func(ctx context.Context, out model.Outcome)
	orch     *BatchOrchestrator

	// setupErr fails the run before the first item.
	setupErr error

	events chan model.Event
	done   chan struct{}

	mu      sync.Mutex
	state   model.RunState
	outcome model.Outcome
}

// ID returns the run identifier.
func (r *BatchRun) ID() string { return r.id }

// Total returns the number of items in the run.
func (r *BatchRun) Total() int { return r.job.Total() }

// Events returns the progress stream. It yields zero or more progress events,
// then exactly one terminal event, then is closed.
func (r *BatchRun) Events() <-chan model.Event { return r.events }

// Done is closed after the terminal event has been sent.
func (r *BatchRun) Done() <-chan struct{} { return r.done }

// Cancel requests cooperative cancellation. The item in progress finishes.
func (r *BatchRun) Cancel() { r.flag.Cancel() }

// State returns the current lifecycle state.
func (r *BatchRun) State() model.RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Outcome returns the final outcome once the run is terminal.
func (r *BatchRun) Outcome() (model.Outcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcome, r.state.Terminal()
}

// Wait blocks until the run finishes or ctx is done.
func (r *BatchRun) Wait(ctx context.Context) (model.Outcome, error) {
	select {
	case <-r.done:
		out, _ := r.Outcome()
		return out, nil
	case <-ctx.Done():
		return model.Outcome{}, ctx.Err()
	}
}

// Start launches the worker goroutine. Cancelling ctx is observed between
// items like the cancellation flag.
func (r *BatchRun) Start(ctx context.Context) error {
	if err := r.transition(model.RunStateRunning); err != nil {
		return ErrRunAlreadyStarted
	}
	go r.loop(ctx)
	return nil
}

func (r *BatchRun) transition(next model.RunState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.state.CanTransition(next) {
		return fmt.Errorf("run %s: disallowed transition %s -> %s", r.id, r.state, next)
	}
	r.state = next
	return nil
}

func (r *BatchRun) cancelled(ctx context.Context) bool {
	return r.flag.IsSet() || ctx.Err() != nil
}

func (r *BatchRun) loop(ctx context.Context) {
	defer close(r.done)

	o := r.orch
	started := time.Now()
	total := r.job.Total()
	logger := o.logger.With("run_id", r.id, "document", r.doc.Name(), "total", total)
	logger.InfoContext(ctx, "batch run started")

	if r.setupErr != nil {
		r.finish(ctx, logger, model.RunStateFailed, 0, r.setupErr, started)
		return
	}

	grid := layout.GridFor(&r.job)
	// Items are never interrupted once begun.
	itemCtx := context.WithoutCancel(ctx)

	for i, payload := range r.job.Payloads {
		if r.cancelled(ctx) {
			r.finish(ctx, logger, model.RunStateCancelled, i, nil, started)
			return
		}

		if err := o.placeItem(itemCtx, r.doc, r.job.BadgeSize, i, payload, grid.Position(i)); err != nil {
			itemErr := &ItemError{Index: i, Item: i + 1, Total: total, Err: err}
			r.finish(ctx, logger, model.RunStateFailed, i, itemErr, started)
			return
		}
		logger.DebugContext(ctx, "badge placed", "item", i+1)

		r.events <- model.Event{
			Kind:      model.EventProgress,
			Percent:   model.ProgressPercent(i+1, total),
			Processed: i + 1,
			Total:     total,
		}
	}

	r.finish(ctx, logger, model.RunStateCompleted, total, nil, started)
}

func (o *BatchOrchestrator) placeItem(ctx context.Context, doc core.HostDocument, size float64, index int, payload string, pos model.GridPosition) error {
	start := time.Now()
	err := func() error {
		b, err := o.composer.Compose(payload, size)
		if err != nil {
			if apperrors.GetCode(err) == "" {
				err = apperrors.Encoding(err)
			}
			return err
		}
		_, err = o.placer.Place(ctx, b, pos, doc)
		return err
	}()
	metrics.EmitBadgePlaced(o.metrics, metrics.BadgeMetric{Index: index, Duration: time.Since(start), Err: err})
	return err
}

func (r *BatchRun) finish(ctx context.Context, logger *slog.Logger, state model.RunState, processed int, cause error, started time.Time) {
	out := model.Outcome{
		RunID:     r.id,
		State:     state,
		Processed: processed,
		Total:     r.job.Total(),
		Err:       cause,
	}

	r.mu.Lock()
	if !r.state.CanTransition(state) {
		logger.ErrorContext(ctx, "finish batch run", "error",
			fmt.Errorf("disallowed transition %s -> %s", r.state, state))
	}
	r.state = state
	r.outcome = out
	r.mu.Unlock()

	if r.onFinish != nil {
		r.onFinish(context.WithoutCancel(ctx), out)
	}
	metrics.EmitRunOutcome(r.orch.metrics, out, time.Since(started))

	attrs := []any{"state", state, "processed", processed, "duration", time.Since(started)}
	if cause != nil {
		logger.ErrorContext(ctx, "batch run failed", append(attrs, "error", cause)...)
	} else {
		logger.InfoContext(ctx, "batch run finished", attrs...)
	}

	r.events <- model.Event{
		Kind:      terminalKind(state),
		Percent:   model.ProgressPercent(processed, out.Total),
		Processed: processed,
		Total:     out.Total,
		Err:       cause,
	}
	close(r.events)
}

func terminalKind(state model.RunState) model.EventKind {
	switch state {
	case model.RunStateCancelled:
		return model.EventCancelled
	case model.RunStateFailed:
		return model.EventFailed
	default:
		return model.EventCompleted
	}
}
