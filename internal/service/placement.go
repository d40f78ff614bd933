package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/core"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/domain/badge"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/domain/model"
	apperrors "github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/errors"
)

// PlacementResult is the handle of a placed badge group.
type PlacementResult struct {
	Group   core.ShapeID
	Members []core.ShapeID
}

// PlacerOptions groups dependencies for Placer.
type PlacerOptions struct {
	TempDir string       // Optional: staging directory for code graphics, defaults to os.TempDir()
	Logger  *slog.Logger // Optional: structured logger
}

// Placer inserts composed badges into a host document.
type Placer struct {
	tempDir string
	logger  *slog.Logger
}

// NewPlacer constructs a Placer.
func NewPlacer(opts PlacerOptions) *Placer {
	dir := opts.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Placer{tempDir: dir, logger: logger.With("component", "placer")}
}

// Place creates the seven shapes of b on the document's active layer,
// translated so the badge's anchor lands at pos, and groups them.
// Any host failure is returned as a placement error; the staged code graphic
// is removed on every path.
func (p *Placer) Place(ctx context.Context, b *badge.Badge, pos model.GridPosition, doc core.HostDocument) (*PlacementResult, error) {
	if b == nil {
		return nil, errors.New("place badge: nil badge")
	}
	if doc == nil {
		return nil, apperrors.Placement(errors.New("no active document"), "open document")
	}

	layer, err := doc.ActiveLayer(ctx)
	if err != nil {
		return nil, apperrors.Placement(err, "active layer")
	}

	path, err := p.stage(b.Code.SVG)
	if err != nil {
		return nil, apperrors.Placement(err, "stage code graphic")
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			p.logger.WarnContext(ctx, "remove staged code graphic", "path", path, "error", rmErr)
		}
	}()

	members := make([]core.ShapeID, 0, b.ShapeCount())

	border, err := doc.CreateRectangle(ctx, layer, core.RectangleSpec{
		Rect: badge.Rect{
			X:      pos.X + b.Border.Rect.X,
			Y:      pos.Y + b.Border.Rect.Y,
			Width:  b.Border.Rect.Width,
			Height: b.Border.Rect.Height,
		},
		CornerRadius: b.Border.Radius,
	})
	if err != nil {
		return nil, apperrors.Placement(err, "create border")
	}
	if err = doc.ApplyStyle(ctx, border, b.Border.Style); err != nil {
		return nil, apperrors.Placement(err, "style border")
	}
	members = append(members, border)

	for i, m := range b.Marks {
		id, markErr := doc.CreateEllipse(ctx, layer, core.EllipseSpec{
			CenterX: pos.X + m.CenterX,
			CenterY: pos.Y + m.CenterY,
			RadiusX: m.Radius,
			RadiusY: m.Radius,
		})
		if markErr != nil {
			return nil, apperrors.Placement(markErr, fmt.Sprintf("create corner mark %d", i+1))
		}
		if markErr = doc.ApplyStyle(ctx, id, m.Style); markErr != nil {
			return nil, apperrors.Placement(markErr, fmt.Sprintf("style corner mark %d", i+1))
		}
		members = append(members, id)
	}

	code, err := doc.ImportGraphic(ctx, layer, path)
	if err != nil {
		return nil, apperrors.Placement(err, "import code graphic")
	}
	if err = doc.SetSize(ctx, code, b.Code.Size, b.Code.Size); err != nil {
		return nil, apperrors.Placement(err, "size code graphic")
	}
	if err = doc.SetPosition(ctx, code, pos.X+b.Code.Left, pos.Y+b.Code.Top); err != nil {
		return nil, apperrors.Placement(err, "position code graphic")
	}
	members = append(members, code)

	label, err := doc.CreateText(ctx, layer, core.TextSpec{
		Text:     b.Label.Text,
		CenterX:  pos.X + b.Label.CenterX,
		Bottom:   pos.Y + b.Label.Bottom,
		FontSize: b.Label.FontSize,
		Font:     b.Label.Font,
	})
	if err != nil {
		return nil, apperrors.Placement(err, "create label")
	}
	members = append(members, label)

	group, err := doc.GroupShapes(ctx, members)
	if err != nil {
		return nil, apperrors.Placement(err, "group shapes")
	}

	return &PlacementResult{Group: group, Members: members}, nil
}

func (p *Placer) stage(svg []byte) (string, error) {
	path := filepath.Join(p.tempDir, "qr_"+uuid.NewString()+".svg")
	if err := os.WriteFile(path, svg, 0o600); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
