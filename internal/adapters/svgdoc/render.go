package svgdoc

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"

	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/core"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/domain/badge"
)

// PageMargin is the blank border around content on the rendered page.
const PageMargin = 10.0

const strokeWidth = 0.5

// WriteTo renders the document as one SVG page. The y axis is flipped so the
// page reads top to bottom and the viewBox fits the content.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	minX, minY, maxX, maxY := d.bounds()
	width := maxX - minX + 2*PageMargin
	height := maxY - minY + 2*PageMargin

	r := renderer{doc: d, offX: PageMargin - minX, top: maxY + PageMargin}
	r.buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	r.buf.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" version="1.1"`)
	r.attr("width", width)
	r.attr("height", height)
	r.buf.WriteString(` viewBox="0 0 ` + num(width) + " " + num(height) + `">` + "\n")
	r.buf.WriteString(`<g id="` + DefaultLayer + `">` + "\n")
	for _, id := range d.top {
		r.shape(d.shapes[id])
	}
	r.buf.WriteString("</g>\n</svg>\n")

	n, err := w.Write(r.buf.Bytes())
	return int64(n), err
}

func (d *Document) bounds() (minX, minY, maxX, maxY float64) {
	if len(d.top) == 0 {
		return 0, 0, 0, 0
	}
	first := d.shapes[d.top[0]]
	minX, minY = first.X, first.Y
	maxX, maxY = first.X+first.W, first.Y+first.H
	for _, id := range d.top[1:] {
		s := d.shapes[id]
		minX, minY = min(minX, s.X), min(minY, s.Y)
		maxX, maxY = max(maxX, s.X+s.W), max(maxY, s.Y+s.H)
	}
	return minX, minY, maxX, maxY
}

type renderer struct {
	doc  *Document
	buf  bytes.Buffer
	offX float64
	top  float64
}

func (r *renderer) x(v float64) float64 { return v + r.offX }

// y converts a y-up coordinate to page space.
func (r *renderer) y(v float64) float64 { return r.top - v }

func (r *renderer) attr(name string, v float64) {
	r.buf.WriteString(" " + name + `="` + num(v) + `"`)
}

func (r *renderer) style(s badge.Style) {
	if s.NoFill {
		r.buf.WriteString(` fill="none"`)
	} else {
		r.buf.WriteString(` fill="` + s.Fill.Hex() + `"`)
	}
	r.buf.WriteString(` stroke="` + s.Outline.Hex() + `"`)
	r.attr("stroke-width", strokeWidth)
}

func (r *renderer) shape(s *Shape) {
	switch s.Kind {
	case KindGroup:
		r.buf.WriteString(`<g id="` + string(s.ID) + `">` + "\n")
		for _, id := range s.Children {
			r.shape(r.doc.shapes[id])
		}
		r.buf.WriteString("</g>\n")
	case KindRectangle:
		r.buf.WriteString("<rect")
		r.attr("x", r.x(s.X))
		r.attr("y", r.y(s.Y+s.H))
		r.attr("width", s.W)
		r.attr("height", s.H)
		if s.Radius > 0 {
			r.attr("rx", s.Radius)
		}
		r.style(s.Style)
		r.buf.WriteString("/>\n")
	case KindEllipse:
		r.buf.WriteString("<ellipse")
		r.attr("cx", r.x(s.X+s.W/2))
		r.attr("cy", r.y(s.Y+s.H/2))
		r.attr("rx", s.W/2)
		r.attr("ry", s.H/2)
		r.style(s.Style)
		r.buf.WriteString("/>\n")
	case KindText:
		r.buf.WriteString("<text")
		r.attr("x", r.x(s.X+s.W/2))
		// Y is the bottom of the text box.
		r.attr("y", r.y(s.Y))
		r.buf.WriteString(` text-anchor="middle" dominant-baseline="text-after-edge" font-family="`)
		_ = xml.EscapeText(&r.buf, []byte(s.Font))
		r.buf.WriteString(`"`)
		r.attr("font-size", s.FontSize)
		r.buf.WriteString(">")
		_ = xml.EscapeText(&r.buf, []byte(s.Text))
		r.buf.WriteString("</text>\n")
	case KindGraphic:
		r.buf.WriteString("<svg")
		r.attr("x", r.x(s.X))
		r.attr("y", r.y(s.Y+s.H))
		r.attr("width", s.W)
		r.attr("height", s.H)
		r.buf.WriteString(` viewBox="0 0 ` + num(s.viewW) + " " + num(s.viewH) + `" preserveAspectRatio="none">`)
		r.buf.Write(s.inner)
		r.buf.WriteString("</svg>\n")
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Groups returns the IDs of top-level groups in creation order.
func (d *Document) Groups() []core.ShapeID {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []core.ShapeID
	for _, id := range d.top {
		if d.shapes[id].Kind == KindGroup {
			out = append(out, id)
		}
	}
	return out
}
