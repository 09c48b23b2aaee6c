// Package pdfsheet implements sheet.Surface as a single page PDF.
//
// The internal unit is the PDF point. Guides are drawn as hairlines in a
// "Guides" optional content group; every layer becomes its own optional
// content group.
package pdfsheet

import (
	"fmt"
	"image/color"
	"io"
	"time"

	"github.com/georgepadayatti/labelguides/grid"
	"github.com/georgepadayatti/labelguides/layout"
	"github.com/georgepadayatti/labelguides/pdf/content"
	"github.com/georgepadayatti/labelguides/pdf/generic"
	"github.com/georgepadayatti/labelguides/pdf/writer"
	"github.com/georgepadayatti/labelguides/sheet"
)

// GuidesLayer is the name of the optional content group holding guides.
const GuidesLayer = "Guides"

type guide struct {
	pos   float64
	axis  grid.Axis
	color string
}

type shape struct {
	prim  grid.Primitive
	style sheet.Style
}

// Layer is an optional content group of the page.
type Layer struct {
	id     string
	label  string
	shapes []shape
}

// ID returns the layer id.
func (l *Layer) ID() string {
	return l.id
}

// Document is a PDF page being drawn.
type Document struct {
	// Title is stored in the document information dictionary.
	Title string
	// Created is the creation date; zero uses the time of writing.
	Created time.Time
	// HideGuides switches the guides layer off by default in viewers.
	HideGuides bool

	width    float64
	height   float64
	guides   []guide
	layers   []*Layer
	fallback *Layer
}

var _ sheet.Surface = (*Document)(nil)

// New returns a blank page of the given size.
func New(page layout.PageSize) (*Document, error) {
	d := &Document{}
	if err := d.SetPageSize(page.Width, page.Height, page.Unit); err != nil {
		return nil, err
	}
	return d, nil
}

// Converter returns the point converter.
func (d *Document) Converter() layout.Converter {
	return layout.NewScaledConverter(1)
}

// PageHeight returns the page height in points.
func (d *Document) PageHeight() float64 {
	return d.height
}

// PageWidth returns the page width in points.
func (d *Document) PageWidth() float64 {
	return d.width
}

// SetPageSize resizes the page.
func (d *Document) SetPageSize(width, height float64, unit layout.Unit) error {
	w, err := layout.ToPoints(width, unit)
	if err != nil {
		return err
	}
	h, err := layout.ToPoints(height, unit)
	if err != nil {
		return err
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid page size %gx%g%s", width, height, unit)
	}
	d.width, d.height = w, h
	return nil
}

// DeleteAllGuides removes all guides.
func (d *Document) DeleteAllGuides() {
	d.guides = nil
}

// CreateGuide adds a guide. PDF user space shares the bottom-left origin of
// guide space, so coordinates are kept as given.
func (d *Document) CreateGuide(x, y float64, axis grid.Axis, color string) {
	pos := x
	if axis == grid.Horizontal {
		pos = y
	}
	d.guides = append(d.guides, guide{pos: pos, axis: axis, color: color})
}

// GuideCount returns the number of guides on the page.
func (d *Document) GuideCount() int {
	return len(d.guides)
}

// CreateLayer adds an optional content group.
func (d *Document) CreateLayer(id, label string) sheet.Layer {
	l := &Layer{id: id, label: label}
	d.layers = append(d.layers, l)
	return l
}

// CreateShape adds a shape to a layer created by this document. Shapes for
// other layers all go to one shared layer.
func (d *Document) CreateShape(l sheet.Layer, p grid.Primitive, style sheet.Style) {
	layer, ok := l.(*Layer)
	if !ok || layer == nil {
		if d.fallback == nil {
			d.fallback = d.CreateLayer("layer", "Layer").(*Layer)
		}
		layer = d.fallback
	}
	layer.shapes = append(layer.shapes, shape{prim: p, style: style})
}

// Content renders the page content stream. Shapes are flipped from drawing
// space into PDF user space.
func (d *Document) Content() ([]byte, error) {
	cb := content.NewContentBuilder()

	for i, l := range d.layers {
		cb.BeginOptionalContent(fmt.Sprintf("OC%d", i+1))
		for _, s := range l.shapes {
			if err := d.drawShape(cb, s); err != nil {
				return nil, fmt.Errorf("layer %s: %w", l.id, err)
			}
		}
		cb.EndMarkedContent()
	}

	if len(d.guides) > 0 {
		cb.BeginOptionalContent(fmt.Sprintf("OC%d", len(d.layers)+1))
		cb.SaveState().SetLineWidth(0)
		current := ""
		for i, g := range d.guides {
			if i == 0 || g.color != current {
				c, err := strokeColor(g.color)
				if err != nil {
					return nil, fmt.Errorf("guide: %w", err)
				}
				cb.SetStrokeColor(c[0], c[1], c[2])
				current = g.color
			}
			if g.axis == grid.Vertical {
				cb.MoveTo(g.pos, 0).LineTo(g.pos, d.height)
			} else {
				cb.MoveTo(0, g.pos).LineTo(d.width, g.pos)
			}
			cb.Stroke()
		}
		cb.RestoreState()
		cb.EndMarkedContent()
	}
	return cb.Render(), nil
}

func (d *Document) drawShape(cb *content.ContentBuilder, s shape) error {
	fill, hasFill, err := sheet.ParseColor(s.style.Fill)
	if err != nil {
		return err
	}
	stroke, hasStroke, err := sheet.ParseColor(s.style.Stroke)
	if err != nil {
		return err
	}
	if !hasFill && !hasStroke {
		return nil
	}

	cb.SaveState()
	if hasStroke {
		r, g, b := rgb(stroke)
		cb.SetStrokeColor(r, g, b).SetLineWidth(s.style.StrokeWidth)
	}
	if hasFill {
		r, g, b := rgb(fill)
		cb.SetFillColor(r, g, b)
	}

	switch p := s.prim.(type) {
	case grid.Rect:
		y := grid.ToDrawingY(d.height, p.Y+p.H)
		cb.RoundedRectangle(p.X, y, p.W, p.H, p.CornerRadius)
	case grid.Ellipse:
		cb.Ellipse(p.CX, grid.ToDrawingY(d.height, p.CY), p.RX, p.RY)
	}

	switch {
	case hasFill && hasStroke:
		cb.FillAndStroke()
	case hasFill:
		cb.Fill()
	default:
		cb.Stroke()
	}
	cb.RestoreState()
	return nil
}

func rgb(c color.NRGBA) (r, g, b float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255
}

// strokeColor resolves a guide colour. Guides without a colour are blue.
func strokeColor(s string) ([3]float64, error) {
	c, ok, err := sheet.ParseColor(s)
	if err != nil {
		return [3]float64{}, err
	}
	if !ok {
		return [3]float64{0, 0, 1}, nil
	}
	r, g, b := rgb(c)
	return [3]float64{r, g, b}, nil
}

// WriteTo writes the page as a complete PDF file.
func (d *Document) WriteTo(out io.Writer) (int64, error) {
	page, err := d.Content()
	if err != nil {
		return 0, err
	}

	w := writer.NewPdfFileWriter("1.7")
	if d.Title != "" {
		w.SetInfo("Title", d.Title)
	}
	if !d.Created.IsZero() {
		w.SetCreationDate(d.Created)
	}

	props := generic.NewDictionary()
	for i, l := range d.layers {
		props.Set(fmt.Sprintf("OC%d", i+1), w.AddOptionalContentGroup(l.label, false))
	}
	if len(d.guides) > 0 {
		props.Set(fmt.Sprintf("OC%d", len(d.layers)+1), w.AddOptionalContentGroup(GuidesLayer, d.HideGuides))
	}
	resources := generic.NewDictionary()
	if len(props.Keys()) > 0 {
		resources.Set("Properties", props)
	}

	if _, err := w.AddPage(generic.PageBox(d.width, d.height), page, resources); err != nil {
		return 0, err
	}

	cw := &countingWriter{w: out}
	err = w.Write(cw)
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
