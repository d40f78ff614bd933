// Package badge composes the shapes of a single badge in local coordinates.
//
// The local frame has its origin at the badge's lower-left corner with y
// pointing up, matching the host canvas. Every dimension is a fixed fraction
// of the badge side so output stays visually identical at any size.
package badge

import (
	"errors"
	"fmt"
)

// Proportions of the badge relative to its side length.
const (
	BorderRadiusRatio   = 0.0384
	MarkPaddingRatio    = 0.0334
	MarkDiameterRatio   = 0.064
	CodeScaleRatio      = 0.653
	CodeTopOffsetRatio  = 1 - 0.129
	LabelBottomRatio    = 0.04
	LabelFontSizeRatio  = 0.3
	DefaultLabelFont    = "Source Han Sans CN"
	shapesPerBadge      = 7
	cornerMarksPerBadge = 4
)

// ErrInvalidSize is returned when a badge is composed with a non-positive size.
var ErrInvalidSize = errors.New("badge size must be > 0")

// Color is an RGB color.
type Color struct {
	R, G, B uint8
}

// Black is the outline color of borders and marks.
var Black = Color{}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Style is the fill and outline applied to a shape.
type Style struct {
	NoFill  bool
	Fill    Color
	Outline Color
}

// OutlineOnly is an unfilled shape with a black outline.
var OutlineOnly = Style{NoFill: true, Outline: Black}

// Rect is an axis-aligned rectangle given by its lower-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Border is the rounded frame around the badge.
type Border struct {
	Rect   Rect
	Radius float64
	Style  Style
}

// CornerMark is a registration circle near one corner.
type CornerMark struct {
	CenterX, CenterY float64
	Radius           float64
	Style            Style
}

// Diameter returns the mark's diameter.
func (m CornerMark) Diameter() float64 {
	return m.Radius * 2
}

// CodeImage is the scannable-code graphic scaled into the badge.
// Left and Top locate the image's upper-left corner.
type CodeImage struct {
	SVG  []byte
	Left float64
	Top  float64
	Size float64
}

// Label is the payload text centred under the code.
type Label struct {
	Text    string
	CenterX float64
	// Bottom is the bottom edge of the text box, not the glyph baseline.
	Bottom   float64
	FontSize float64
	Font     string
}

// Badge is the transient composition of one payload's shapes.
type Badge struct {
	Size   float64
	Border Border
	Marks  [cornerMarksPerBadge]CornerMark
	Code   CodeImage
	Label  Label
}

// ShapeCount returns the number of host shapes a badge produces.
func (b *Badge) ShapeCount() int {
	return shapesPerBadge
}

// CenterX returns the badge's vertical centre axis.
func (b *Badge) CenterX() float64 {
	return b.Size / 2
}
