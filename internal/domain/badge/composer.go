package badge

import "fmt"

// Encoder turns a payload into a unit-square SVG code graphic.
type Encoder interface {
	Encode(content string) ([]byte, error)
}

// ComposerOptions configures a Composer.
type ComposerOptions struct {
	Encoder Encoder // Required
	Font    string  // Optional: label font family
}

// Composer builds badges for payloads.
type Composer struct {
	encoder Encoder
	font    string
}

// NewComposer constructs a Composer.
func NewComposer(opts ComposerOptions) (*Composer, error) {
	if opts.Encoder == nil {
		return nil, fmt.Errorf("badge composer: encoder is required")
	}
	font := opts.Font
	if font == "" {
		font = DefaultLabelFont
	}
	return &Composer{encoder: opts.Encoder, font: font}, nil
}

// Compose returns the badge for content at the given side length.
// Encoder failures are returned unchanged so callers can classify them.
func (c *Composer) Compose(content string, size float64) (*Badge, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	svg, err := c.encoder.Encode(content)
	if err != nil {
		return nil, err
	}
	return Layout(content, size, svg, c.font), nil
}

// Layout places the fixed badge geometry around an already encoded graphic.
func Layout(content string, size float64, svg []byte, font string) *Badge {
	b := &Badge{Size: size}

	b.Border = Border{
		Rect:   Rect{X: 0, Y: 0, Width: size, Height: size},
		Radius: size * BorderRadiusRatio,
		Style:  OutlineOnly,
	}

	r := size * MarkDiameterRatio / 2
	inset := size*MarkPaddingRatio + r
	centers := [cornerMarksPerBadge][2]float64{
		{inset, inset},               // lower left
		{inset, size - inset},        // upper left
		{size - inset, inset},        // lower right
		{size - inset, size - inset}, // upper right
	}
	for i, c := range centers {
		b.Marks[i] = CornerMark{CenterX: c[0], CenterY: c[1], Radius: r, Style: OutlineOnly}
	}

	codeSize := size * CodeScaleRatio
	b.Code = CodeImage{
		SVG:  svg,
		Left: b.CenterX() - codeSize/2,
		Top:  size * CodeTopOffsetRatio,
		Size: codeSize,
	}

	b.Label = Label{
		Text:     content,
		CenterX:  b.CenterX(),
		Bottom:   size * LabelBottomRatio,
		FontSize: size * LabelFontSizeRatio,
		Font:     font,
	}
	return b
}
