package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/core"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/domain/model"
	apperrors "github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/errors"
)

// DefaultLockTTL bounds how long a crashed process can hold a document lock.
const DefaultLockTTL = 30 * time.Minute

// ControllerOptions groups dependencies for Controller.
type ControllerOptions struct {
	Orchestrator *BatchOrchestrator // Required
	Reader       core.PayloadReader // Required: loads payloads from the submitted path
	Document     core.HostDocument  // Required: the document every run writes to
	History      core.RunRepository // Optional: run history
	Lock         core.RunLock       // Optional: cross-process document lock
	LockTTL      time.Duration      // Optional: defaults to DefaultLockTTL
	Logger       *slog.Logger       // Optional: structured logger
}

// Controller is the job submission surface. It admits one running job at a
// time per document.
type Controller struct {
	orch    *BatchOrchestrator
	reader  core.PayloadReader
	doc     core.HostDocument
	history core.RunRepository
	lock    core.RunLock
	lockTTL time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	busy   bool
	active *BatchRun
}

// NewController constructs a Controller.
func NewController(opts ControllerOptions) (*Controller, error) {
	if opts.Orchestrator == nil {
		return nil, errors.New("orchestrator is required")
	}
	if opts.Reader == nil {
		return nil, errors.New("payload reader is required")
	}
	if opts.Document == nil {
		return nil, errors.New("document is required")
	}
	ttl := opts.LockTTL
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		orch:    opts.Orchestrator,
		reader:  opts.Reader,
		doc:     opts.Document,
		history: opts.History,
		lock:    opts.Lock,
		lockTTL: ttl,
		logger:  logger.With("component", "controller"),
	}, nil
}

// ParseSubmission validates the four required job parameters.
func ParseSubmission(req model.SubmitRequest) (model.Job, error) {
	req.Normalize()

	if req.FilePath == "" {
		return model.Job{}, apperrors.ValidationField("file_path", "file path is required")
	}
	size, err := parseInt("badge_size", req.BadgeSize)
	if err != nil {
		return model.Job{}, err
	}
	if size <= 0 {
		return model.Job{}, apperrors.ValidationField("badge_size", "badge size must be > 0")
	}
	margin, err := parseInt("margin", req.Margin)
	if err != nil {
		return model.Job{}, err
	}
	if margin < 0 {
		return model.Job{}, apperrors.ValidationField("margin", "margin must be >= 0")
	}
	perRow, err := parseInt("max_per_row", req.MaxPerRow)
	if err != nil {
		return model.Job{}, err
	}
	if perRow < 1 {
		return model.Job{}, apperrors.ValidationField("max_per_row", "max per row must be >= 1")
	}

	return model.Job{
		BadgeSize:  float64(size),
		Margin:     float64(margin),
		MaxPerRow:  perRow,
		SourcePath: req.FilePath,
	}, nil
}

func parseInt(field, raw string) (int, error) {
	if raw == "" {
		return 0, apperrors.ValidationField(field, field+" is required")
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.ValidationField(field, fmt.Sprintf("%s must be an integer, got %q", field, raw))
	}
	return v, nil
}

// Submit validates req, reserves the document and starts a run. Validation
// and conflict errors are returned synchronously; an unreadable payload
// source produces a run whose only event is a failed terminal event.
func (c *Controller) Submit(ctx context.Context, req model.SubmitRequest) (*BatchRun, error) {
	job, err := ParseSubmission(req)
	if err != nil {
		return nil, err
	}

	if !c.reserve() {
		return nil, apperrors.Conflictf("a job is already running on %q", c.doc.Name())
	}
	runID := uuid.NewString()

	locked, err := c.acquireLock(ctx, runID)
	if err != nil {
		c.clear()
		return nil, err
	}

	payloads, readErr := c.reader.ReadPayloads(ctx, job.SourcePath)
	if readErr != nil && apperrors.GetCode(readErr) == "" {
		readErr = apperrors.IORead(readErr, job.SourcePath)
	}
	job.Payloads = payloads

	release := func() {
		if locked {
			c.releaseLock(ctx, runID)
		}
		c.clear()
	}

	if c.history != nil {
		rec := &model.Run{
			ID:         runID,
			SourcePath: job.SourcePath,
			BadgeSize:  job.BadgeSize,
			Margin:     job.Margin,
			MaxPerRow:  job.MaxPerRow,
			Total:      job.Total(),
			Status:     model.RunStateRunning,
			StartedAt:  time.Now().UTC(),
		}
		if err = c.history.Create(ctx, rec); err != nil {
			release()
			return nil, fmt.Errorf("record run: %w", err)
		}
	}

	run, err := c.orch.NewRun(job, RunOptions{
		ID:       runID,
		Document: c.doc,
		OnFinish: func(fctx context.Context, out model.Outcome) {
			c.finishRun(fctx, out, locked)
		},
	})
	if err != nil {
		release()
		return nil, err
	}
	run.setupErr = readErr

	c.mu.Lock()
	c.active = run
	c.mu.Unlock()

	if err = run.Start(ctx); err != nil {
		release()
		return nil, err
	}
	return run, nil
}

// Cancel requests cancellation of the running job. It reports whether a job
// was running.
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return false
	}
	c.active.Cancel()
	return true
}

// Running reports whether a job currently owns the document.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

func (c *Controller) reserve() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return false
	}
	c.busy = true
	return true
}

func (c *Controller) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	c.active = nil
}

func (c *Controller) lockKey() string {
	return "document:" + c.doc.Name()
}

func (c *Controller) acquireLock(ctx context.Context, owner string) (bool, error) {
	if c.lock == nil {
		return false, nil
	}
	ok, err := c.lock.Acquire(ctx, c.lockKey(), owner, c.lockTTL)
	if err != nil {
		return false, fmt.Errorf("acquire document lock: %w", err)
	}
	if !ok {
		return false, apperrors.Conflictf("document %q is locked by another process", c.doc.Name())
	}
	return true, nil
}

func (c *Controller) releaseLock(ctx context.Context, owner string) {
	if err := c.lock.Release(ctx, c.lockKey(), owner); err != nil {
		c.logger.WarnContext(ctx, "release document lock", "run_id", owner, "error", err)
	}
}

func (c *Controller) finishRun(ctx context.Context, out model.Outcome, locked bool) {
	if c.history != nil {
		params := core.FinishRunParams{ID: out.RunID, Status: out.State, Processed: out.Processed}
		if out.Err != nil {
			params.LastError = out.Err.Error()
		}
		if err := c.history.Finish(ctx, params); err != nil {
			c.logger.WarnContext(ctx, "record run outcome", "run_id", out.RunID, "error", err)
		}
	}
	if locked {
		c.releaseLock(ctx, out.RunID)
	}
	c.clear()
}
