// Package data implements the Postgres run history.
package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/core"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/data/pgxutil"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/domain/model"
	apperrors "github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/errors"
)

// DefaultListLimit and MaxListLimit bound List.
const (
	DefaultListLimit = 20
	MaxListLimit     = 500
)

// ErrRunNotFound is returned when a run id is unknown.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `
  id,
  source_path,
  badge_size,
  margin,
  max_per_row,
  total,
  processed,
  status,
  last_error,
  started_at,
  finished_at`

// RunRepo stores badge runs in the badge_runs table.
type RunRepo struct {
	DB  *sql.DB
	now func() time.Time
}

var _ core.RunRepository = (*RunRepo)(nil)

// NewRunRepo creates a RunRepo. A nil clock uses time.Now.
func NewRunRepo(db *sql.DB, now func() time.Time) *RunRepo {
	if now == nil {
		now = time.Now
	}
	return &RunRepo{DB: db, now: now}
}

// Create inserts a run. StartedAt defaults to the repository clock.
func (r *RunRepo) Create(ctx context.Context, run *model.Run) error {
	if run == nil || run.ID == "" {
		return apperrors.ValidationField("id", "run id is required")
	}
	if !run.Status.Valid() {
		return apperrors.ValidationField("status", fmt.Sprintf("invalid run status %q", run.Status))
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = r.now().UTC()
	}

	const query = `
		INSERT INTO badge_runs (id, source_path, badge_size, margin, max_per_row, total, processed, status, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(ctx, query,
		run.ID, run.SourcePath, run.BadgeSize, run.Margin, run.MaxPerRow,
		run.Total, run.Processed, string(run.Status), run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", apperrors.MapDBError(err))
	}
	return nil
}

// Finish records the terminal state of a running run.
func (r *RunRepo) Finish(ctx context.Context, params core.FinishRunParams) error {
	if !params.Status.Terminal() {
		return apperrors.ValidationField("status", fmt.Sprintf("%q is not a terminal status", params.Status))
	}
	var lastError *string
	if params.LastError != "" {
		lastError = &params.LastError
	}

	return pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		var status string
		err := tx.QueryRow(ctx, `SELECT status FROM badge_runs WHERE id = $1 FOR UPDATE`, params.ID).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrRunNotFound
		}
		if err != nil {
			return fmt.Errorf("lock run: %w", apperrors.MapDBError(err))
		}
		if !model.RunState(status).CanTransition(params.Status) {
			return apperrors.Conflictf("run %s is already %s", params.ID, status)
		}

		_, err = tx.Exec(ctx, `
			UPDATE badge_runs
			SET status = $2, processed = $3, last_error = $4, finished_at = $5
			WHERE id = $1`,
			params.ID, string(params.Status), params.Processed, lastError, r.now().UTC(),
		)
		if err != nil {
			return fmt.Errorf("finish run: %w", apperrors.MapDBError(err))
		}
		return nil
	}})
}

// GetByID returns one run.
func (r *RunRepo) GetByID(ctx context.Context, id string) (*model.Run, error) {
	query := `SELECT ` + runColumns + ` FROM badge_runs WHERE id = $1`

	var run *model.Run
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, id)
		if err != nil {
			return fmt.Errorf("query run: %w", err)
		}
		run, err = pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Run])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return run, nil
}

// List returns the most recent runs first.
func (r *RunRepo) List(ctx context.Context, limit int) ([]*model.Run, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	query := `SELECT ` + runColumns + ` FROM badge_runs ORDER BY started_at DESC, id LIMIT $1`

	var result []*model.Run
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, limit)
		if err != nil {
			return fmt.Errorf("query runs: %w", err)
		}
		defer rows.Close()

		result, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.Run])
		if err != nil {
			return fmt.Errorf("collect runs: %w", err)
		}
		return nil
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return result, nil
}
