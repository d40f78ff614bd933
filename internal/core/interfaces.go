// Package core defines the ports between the badge pipeline and its collaborators.
//
// Services depend on these interfaces; adapters (the SVG page document, Redis,
// Postgres, the payload file reader) provide implementations.
package core

import (
	"context"
	"time"

	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/domain/badge"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/domain/model"
)

// ShapeID is an opaque handle to a shape owned by the host document.
type ShapeID string

// RectangleSpec describes a rectangle by its lower-left corner in host coordinates.
type RectangleSpec struct {
	Rect         badge.Rect
	CornerRadius float64
}

// EllipseSpec describes an ellipse by its centre and radii.
type EllipseSpec struct {
	CenterX, CenterY float64
	RadiusX, RadiusY float64
}

// TextSpec describes centred artistic text whose box rests on Bottom.
// Descenders stay above Bottom.
type TextSpec struct {
	Text     string
	CenterX  float64
	Bottom   float64
	FontSize float64
	Font     string
}

// HostDocument is the capability set the pipeline needs from a vector
// graphics document. Coordinates are y-up. Implementations serialise their
// own operations; the pipeline only calls them from one goroutine per run.
type HostDocument interface {
	// Name identifies the document for locking and logging.
	Name() string
	// ActiveLayer returns the current working layer, or an error when no
	// document is open or the layer rejects edits.
	ActiveLayer(ctx context.Context) (string, error)
	// ImportGraphic imports the graphic file at path and returns its handle.
	ImportGraphic(ctx context.Context, layer, path string) (ShapeID, error)
	CreateRectangle(ctx context.Context, layer string, spec RectangleSpec) (ShapeID, error)
	CreateEllipse(ctx context.Context, layer string, spec EllipseSpec) (ShapeID, error)
	CreateText(ctx context.Context, layer string, spec TextSpec) (ShapeID, error)
	SetSize(ctx context.Context, id ShapeID, width, height float64) error
	// SetPosition moves the shape so its upper-left corner is at (left, top).
	SetPosition(ctx context.Context, id ShapeID, left, top float64) error
	ApplyStyle(ctx context.Context, id ShapeID, style badge.Style) error
	GroupShapes(ctx context.Context, ids []ShapeID) (ShapeID, error)
}

// PayloadReader loads the ordered payload list of a job.
type PayloadReader interface {
	ReadPayloads(ctx context.Context, path string) ([]string, error)
}

// RunLock guards a host document against concurrent jobs across processes.
type RunLock interface {
	// Acquire returns false without error when another owner holds key.
	Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	// Release frees key only if owner still holds it.
	Release(ctx context.Context, key, owner string) error
}

// FinishRunParams groups the terminal fields of a run history record.
type FinishRunParams struct {
	ID        string
	Status    model.RunState
	Processed int
	LastError string
}

// RunRepository persists run history.
type RunRepository interface {
	Create(ctx context.Context, run *model.Run) error
	Finish(ctx context.Context, params FinishRunParams) error
	GetByID(ctx context.Context, id string) (*model.Run, error)
	List(ctx context.Context, limit int) ([]*model.Run, error)
}
