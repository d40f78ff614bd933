// Package qrcode renders payloads as unit-square SVG QR code graphics.
package qrcode

import (
	"bytes"
	"errors"
	"strconv"

	goqrcode "github.com/skip2/go-qrcode"
	apperrors "github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/errors"
)

const (
	defaultDark  = "#000000"
	defaultLight = "#ffffff"
)

// ErrEmptyMatrix is returned when the encoder yields no modules.
var ErrEmptyMatrix = errors.New("qr encoder returned an empty matrix")

// Options configures a Generator.
type Options struct {
	// Level defaults to goqrcode.High (~25% recoverable) when left at its
	// zero value, so goqrcode.Low cannot be selected.
	Level goqrcode.RecoveryLevel
	// Dark and Light are module colours; default black on white.
	Dark  string
	Light string
}

// Generator encodes payloads without a quiet zone. Output is sized by a
// viewBox of one unit per module; absolute sizing is left to the caller.
// It holds no mutable state and is safe for concurrent use.
type Generator struct {
	level goqrcode.RecoveryLevel
	dark  string
	light string
}

// NewGenerator constructs a Generator.
func NewGenerator(opts Options) *Generator {
	g := &Generator{level: opts.Level, dark: opts.Dark, light: opts.Light}
	if g.level == goqrcode.Low {
		g.level = goqrcode.High
	}
	if g.dark == "" {
		g.dark = defaultDark
	}
	if g.light == "" {
		g.light = defaultLight
	}
	return g
}

// Matrix returns the module matrix for content, true for dark modules.
// Empty content yields a version 1 symbol that decodes to the empty string.
func (g *Generator) Matrix(content string) ([][]bool, error) {
	if content == "" {
		m, err := version1Symbol(nil, g.level, emptyMask)
		if err != nil {
			return nil, apperrors.Encoding(err)
		}
		return m, nil
	}
	q, err := goqrcode.New(content, g.level)
	if err != nil {
		return nil, apperrors.Encoding(err)
	}
	q.DisableBorder = true
	m := q.Bitmap()
	if len(m) == 0 {
		return nil, apperrors.Encoding(ErrEmptyMatrix)
	}
	return m, nil
}

// Encode returns the SVG document for content.
func (g *Generator) Encode(content string) ([]byte, error) {
	m, err := g.Matrix(content)
	if err != nil {
		return nil, err
	}
	return g.render(m), nil
}

// render draws each horizontal run of dark modules as one path segment.
func (g *Generator) render(m [][]bool) []byte {
	n := strconv.Itoa(len(m))

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" version="1.1" viewBox="0 0 `)
	buf.WriteString(n + " " + n)
	buf.WriteString(`" shape-rendering="crispEdges">`)
	buf.WriteString(`<rect x="0" y="0" width="` + n + `" height="` + n + `" fill="` + g.light + `"/>`)
	buf.WriteString(`<path fill="` + g.dark + `" d="`)
	for y, row := range m {
		for x := 0; x < len(row); {
			if !row[x] {
				x++
				continue
			}
			start := x
			for x < len(row) && row[x] {
				x++
			}
			w := strconv.Itoa(x - start)
			buf.WriteString("M" + strconv.Itoa(start) + " " + strconv.Itoa(y) + "h" + w + "v1h-" + w + "z")
		}
	}
	buf.WriteString(`"/></svg>`)
	return buf.Bytes()
}
