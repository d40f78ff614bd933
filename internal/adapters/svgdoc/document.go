// Package svgdoc is an in-memory vector document that renders to a single
// SVG page. It implements core.HostDocument for the CLI and for tests.
package svgdoc

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/core"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/domain/badge"
)

// DefaultLayer is the name of the document's only layer.
const DefaultLayer = "Layer 1"

// Host operation names passed to a Hook.
const (
	OpActiveLayer     = "active_layer"
	OpImportGraphic   = "import_graphic"
	OpCreateRectangle = "create_rectangle"
	OpCreateEllipse   = "create_ellipse"
	OpCreateText      = "create_text"
	OpSetSize         = "set_size"
	OpSetPosition     = "set_position"
	OpApplyStyle      = "apply_style"
	OpGroupShapes     = "group_shapes"
)

var (
	// ErrLayerLocked is returned when the active layer does not accept edits.
	ErrLayerLocked = errors.New("layer is locked")
	// ErrUnknownShape is returned for a handle the document does not own.
	ErrUnknownShape = errors.New("unknown shape")
	// ErrShapeGrouped is returned when grouping a shape that already has a parent.
	ErrShapeGrouped = errors.New("shape already grouped")
)

// Hook is called before every host operation with the operation name and its
// one-based call count for that name. A non-nil error fails the operation.
type Hook func(op string, call int) error

// Option configures a Document.
type Option func(*Document)

// WithName sets the document name.
func WithName(name string) Option {
	return func(d *Document) { d.name = name }
}

// WithLockedLayer makes every edit fail with ErrLayerLocked.
func WithLockedLayer() Option {
	return func(d *Document) { d.locked = true }
}

// WithHook installs a Hook.
func WithHook(h Hook) Option {
	return func(d *Document) { d.hook = h }
}

// Kind is the type of a shape.
type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindEllipse   Kind = "ellipse"
	KindText      Kind = "text"
	KindGraphic   Kind = "graphic"
	KindGroup     Kind = "group"
)

// Shape is a snapshot of one shape. X and Y are the lower-left corner of
// its bounding box in y-up coordinates.
type Shape struct {
	ID       core.ShapeID
	Kind     Kind
	Layer    string
	X, Y     float64
	W, H     float64
	Radius   float64
	Text     string
	FontSize float64
	Font     string
	Style    badge.Style
	Children []core.ShapeID

	viewW, viewH float64
	inner        []byte
	parent       core.ShapeID
}

// Document is safe for concurrent use.
type Document struct {
	name   string
	locked bool
	hook   Hook

	mu     sync.Mutex
	seq    int
	calls  map[string]int
	shapes map[core.ShapeID]*Shape
	top    []core.ShapeID
}

var _ core.HostDocument = (*Document)(nil)

// New returns an empty document.
func New(opts ...Option) *Document {
	d := &Document{
		name:   "untitled",
		calls:  make(map[string]int),
		shapes: make(map[core.ShapeID]*Shape),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the document name.
func (d *Document) Name() string { return d.name }

// begin must be called with d.mu held.
func (d *Document) begin(ctx context.Context, op string, edit bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.calls[op]++
	if d.hook != nil {
		if err := d.hook(op, d.calls[op]); err != nil {
			return err
		}
	}
	if edit && d.locked {
		return fmt.Errorf("%s on %q: %w", op, DefaultLayer, ErrLayerLocked)
	}
	return nil
}

func (d *Document) add(s *Shape) core.ShapeID {
	d.seq++
	s.ID = core.ShapeID(fmt.Sprintf("s%d", d.seq))
	d.shapes[s.ID] = s
	d.top = append(d.top, s.ID)
	return s.ID
}

func (d *Document) lookup(id core.ShapeID) (*Shape, error) {
	s, ok := d.shapes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShape, id)
	}
	return s, nil
}

func checkLayer(layer string) error {
	if layer != DefaultLayer {
		return fmt.Errorf("unknown layer %q", layer)
	}
	return nil
}

// ActiveLayer returns the working layer.
func (d *Document) ActiveLayer(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.begin(ctx, OpActiveLayer, true); err != nil {
		return "", err
	}
	return DefaultLayer, nil
}

// ImportGraphic reads an SVG file and adds it at its natural size with its
// upper-left corner at the origin.
func (d *Document) ImportGraphic(ctx context.Context, layer, path string) (core.ShapeID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.begin(ctx, OpImportGraphic, true); err != nil {
		return "", err
	}
	if err := checkLayer(layer); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("import %s: %w", path, err)
	}
	vw, vh, inner, err := parseSVG(data)
	if err != nil {
		return "", fmt.Errorf("import %s: %w", path, err)
	}
	return d.add(&Shape{
		Kind:  KindGraphic,
		Layer: layer,
		X:     0,
		Y:     -vh,
		W:     vw,
		H:     vh,
		viewW: vw,
		viewH: vh,
		inner: inner,
	}), nil
}

// CreateRectangle adds a rectangle.
func (d *Document) CreateRectangle(ctx context.Context, layer string, spec core.RectangleSpec) (core.ShapeID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.begin(ctx, OpCreateRectangle, true); err != nil {
		return "", err
	}
	if err := checkLayer(layer); err != nil {
		return "", err
	}
	r := spec.Rect
	return d.add(&Shape{
		Kind:   KindRectangle,
		Layer:  layer,
		X:      r.X,
		Y:      r.Y,
		W:      r.Width,
		H:      r.Height,
		Radius: spec.CornerRadius,
	}), nil
}

// CreateEllipse adds an ellipse.
func (d *Document) CreateEllipse(ctx context.Context, layer string, spec core.EllipseSpec) (core.ShapeID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.begin(ctx, OpCreateEllipse, true); err != nil {
		return "", err
	}
	if err := checkLayer(layer); err != nil {
		return "", err
	}
	return d.add(&Shape{
		Kind:  KindEllipse,
		Layer: layer,
		X:     spec.CenterX - spec.RadiusX,
		Y:     spec.CenterY - spec.RadiusY,
		W:     spec.RadiusX * 2,
		H:     spec.RadiusY * 2,
	}), nil
}

// CreateText adds centred artistic text. The bounding box is estimated from
// the rune count.
func (d *Document) CreateText(ctx context.Context, layer string, spec core.TextSpec) (core.ShapeID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.begin(ctx, OpCreateText, true); err != nil {
		return "", err
	}
	if err := checkLayer(layer); err != nil {
		return "", err
	}
	w := spec.FontSize * 0.6 * float64(len([]rune(spec.Text)))
	return d.add(&Shape{
		Kind:     KindText,
		Layer:    layer,
		X:        spec.CenterX - w/2,
		Y:        spec.Bottom,
		W:        w,
		H:        spec.FontSize,
		Text:     spec.Text,
		FontSize: spec.FontSize,
		Font:     spec.Font,
	}), nil
}

// SetSize resizes a shape keeping its upper-left corner fixed.
func (d *Document) SetSize(ctx context.Context, id core.ShapeID, width, height float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.begin(ctx, OpSetSize, true); err != nil {
		return err
	}
	s, err := d.lookup(id)
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("set size of %s: non-positive size %gx%g", id, width, height)
	}
	top := s.Y + s.H
	s.W, s.H = width, height
	s.Y = top - height
	return nil
}

// SetPosition moves a shape so its upper-left corner is at (left, top).
func (d *Document) SetPosition(ctx context.Context, id core.ShapeID, left, top float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.begin(ctx, OpSetPosition, true); err != nil {
		return err
	}
	s, err := d.lookup(id)
	if err != nil {
		return err
	}
	s.X = left
	s.Y = top - s.H
	return nil
}

// ApplyStyle sets fill and outline.
func (d *Document) ApplyStyle(ctx context.Context, id core.ShapeID, style badge.Style) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.begin(ctx, OpApplyStyle, true); err != nil {
		return err
	}
	s, err := d.lookup(id)
	if err != nil {
		return err
	}
	s.Style = style
	return nil
}

// GroupShapes groups top-level shapes into a new group.
func (d *Document) GroupShapes(ctx context.Context, ids []core.ShapeID) (core.ShapeID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.begin(ctx, OpGroupShapes, true); err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", errors.New("group shapes: empty selection")
	}

	seen := make(map[core.ShapeID]bool, len(ids))
	for _, id := range ids {
		s, err := d.lookup(id)
		if err != nil {
			return "", err
		}
		if s.parent != "" || seen[id] {
			return "", fmt.Errorf("%w: %s", ErrShapeGrouped, id)
		}
		seen[id] = true
	}

	first := d.shapes[ids[0]]
	minX, minY := first.X, first.Y
	maxX, maxY := first.X+first.W, first.Y+first.H
	for _, id := range ids[1:] {
		s := d.shapes[id]
		minX, minY = min(minX, s.X), min(minY, s.Y)
		maxX, maxY = max(maxX, s.X+s.W), max(maxY, s.Y+s.H)
	}

	group := &Shape{
		Kind:     KindGroup,
		Layer:    first.Layer,
		X:        minX,
		Y:        minY,
		W:        maxX - minX,
		H:        maxY - minY,
		Children: append([]core.ShapeID(nil), ids...),
	}
	gid := d.add(group)
	for _, id := range ids {
		d.shapes[id].parent = gid
	}
	kept := d.top[:0]
	for _, id := range d.top {
		if !seen[id] {
			kept = append(kept, id)
		}
	}
	d.top = kept
	return gid, nil
}

// Shape returns a snapshot of one shape.
func (d *Document) Shape(id core.ShapeID) (Shape, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.shapes[id]
	if !ok {
		return Shape{}, false
	}
	return s.snapshot(), true
}

// TopLevel returns snapshots of the top-level shapes in creation order.
func (d *Document) TopLevel() []Shape {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Shape, 0, len(d.top))
	for _, id := range d.top {
		out = append(out, d.shapes[id].snapshot())
	}
	return out
}

// Len returns the number of shapes, grouped or not.
func (d *Document) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.shapes)
}

// Calls returns how often op was invoked.
func (d *Document) Calls(op string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[op]
}

func (s *Shape) snapshot() Shape {
	out := *s
	out.Children = append([]core.ShapeID(nil), s.Children...)
	out.inner = nil
	return out
}

type svgRoot struct {
	XMLName xml.Name `xml:"svg"`
	ViewBox string   `xml:"viewBox,attr"`
	Inner   []byte   `xml:",innerxml"`
}

// parseSVG extracts the viewBox size and inner markup of an SVG document.
func parseSVG(data []byte) (float64, float64, []byte, error) {
	var root svgRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		return 0, 0, nil, fmt.Errorf("parse svg: %w", err)
	}
	var x, y, w, h float64
	if _, err := fmt.Sscanf(strings.ReplaceAll(root.ViewBox, ",", " "), "%g %g %g %g", &x, &y, &w, &h); err != nil {
		return 0, 0, nil, fmt.Errorf("parse svg viewBox %q: %w", root.ViewBox, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, nil, fmt.Errorf("parse svg viewBox %q: empty", root.ViewBox)
	}
	return w, h, root.Inner, nil
}
