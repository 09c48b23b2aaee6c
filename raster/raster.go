// Package raster renders label sheets to PNG previews.
//
// Canvas implements sheet.Surface in points and keeps everything it is
// given until Render, so the page may be resized at any time.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/matrix"

	"github.com/georgepadayatti/labelguides/grid"
	"github.com/georgepadayatti/labelguides/layout"
	"github.com/georgepadayatti/labelguides/sheet"
)

// DefaultDPI is the preview resolution used when none is set.
const DefaultDPI = 96

// segments is the number of polygon points per full turn of an arc.
const segments = 64

type point struct{ x, y float64 }

type guide struct {
	pos   float64
	axis  grid.Axis
	color string
}

type shape struct {
	prim  grid.Primitive
	style sheet.Style
}

// Layer groups shapes on the canvas.
type Layer struct {
	id     string
	shapes []shape
}

// ID returns the layer id.
func (l *Layer) ID() string {
	return l.id
}

// Canvas collects guides and shapes for a raster preview.
type Canvas struct {
	// DPI is the output resolution. Zero selects DefaultDPI.
	DPI float64
	// Background fills the page before drawing.
	Background color.Color

	width    float64
	height   float64
	guides   []guide
	layers   []*Layer
	fallback *Layer
}

var _ sheet.Surface = (*Canvas)(nil)

// New returns a white canvas of the given page size.
func New(page layout.PageSize) (*Canvas, error) {
	c := &Canvas{DPI: DefaultDPI, Background: color.White}
	if err := c.SetPageSize(page.Width, page.Height, page.Unit); err != nil {
		return nil, err
	}
	return c, nil
}

// Converter returns the point converter.
func (c *Canvas) Converter() layout.Converter {
	return layout.NewScaledConverter(1)
}

// PageHeight returns the page height in points.
func (c *Canvas) PageHeight() float64 {
	return c.height
}

// SetPageSize resizes the page.
func (c *Canvas) SetPageSize(width, height float64, unit layout.Unit) error {
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
	c.width, c.height = w, h
	return nil
}

// DeleteAllGuides removes all guides.
func (c *Canvas) DeleteAllGuides() {
	c.guides = nil
}

// CreateGuide adds a guide given in guide space.
func (c *Canvas) CreateGuide(x, y float64, axis grid.Axis, color string) {
	pos := x
	if axis == grid.Horizontal {
		pos = y
	}
	c.guides = append(c.guides, guide{pos: pos, axis: axis, color: color})
}

// CreateLayer adds a layer. Layers are drawn in creation order.
func (c *Canvas) CreateLayer(id, label string) sheet.Layer {
	l := &Layer{id: id}
	c.layers = append(c.layers, l)
	return l
}

// CreateShape adds a shape given in drawing space.
func (c *Canvas) CreateShape(l sheet.Layer, p grid.Primitive, style sheet.Style) {
	layer, ok := l.(*Layer)
	if !ok || layer == nil {
		if c.fallback == nil {
			c.fallback = c.CreateLayer("layer", "").(*Layer)
		}
		layer = c.fallback
	}
	layer.shapes = append(layer.shapes, shape{prim: p, style: style})
}

func (c *Canvas) dpi() float64 {
	if c.DPI > 0 {
		return c.DPI
	}
	return DefaultDPI
}

// PixelTransform maps drawing space points to pixels.
func (c *Canvas) PixelTransform() matrix.Matrix {
	s := c.dpi() / 72
	return matrix.Matrix{s, 0, 0, s, 0, 0}
}

// GuideTransform maps guide space points to pixels.
func (c *Canvas) GuideTransform() matrix.Matrix {
	flip := matrix.Matrix{1, 0, 0, -1, 0, c.height}
	return flip.Mul(c.PixelTransform())
}

// Size returns the image size in pixels.
func (c *Canvas) Size() (int, int) {
	s := c.dpi() / 72
	return int(math.Ceil(c.width * s)), int(math.Ceil(c.height * s))
}

// Render draws shapes and then guides.
func (c *Canvas) Render() (*image.RGBA, error) {
	w, h := c.Size()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if c.Background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(c.Background), image.Point{}, draw.Src)
	}

	px := c.PixelTransform()
	scale := px[0]
	for _, l := range c.layers {
		for _, s := range l.shapes {
			if err := drawShape(img, s, px, scale); err != nil {
				return nil, fmt.Errorf("layer %s: %w", l.id, err)
			}
		}
	}

	gm := c.GuideTransform()
	for _, g := range c.guides {
		col, ok, err := sheet.ParseColor(g.color)
		if err != nil {
			return nil, fmt.Errorf("guide: %w", err)
		}
		if !ok {
			col = color.NRGBA{0, 0, 255, 255}
		}
		var a, b point
		if g.axis == grid.Vertical {
			a, b = apply(gm, point{g.pos, 0}), apply(gm, point{g.pos, c.height})
		} else {
			a, b = apply(gm, point{0, g.pos}), apply(gm, point{c.width, g.pos})
		}
		fillPolygons(img, col, hairline(a, b))
	}
	return img, nil
}

// WriteTo encodes the rendered canvas as PNG.
func (c *Canvas) WriteTo(out io.Writer) (int64, error) {
	img, err := c.Render()
	if err != nil {
		return 0, err
	}
	cw := &countingWriter{w: out}
	err = png.Encode(cw, img)
	return cw.n, err
}

func drawShape(img *image.RGBA, s shape, m matrix.Matrix, scale float64) error {
	fill, hasFill, err := sheet.ParseColor(s.style.Fill)
	if err != nil {
		return err
	}
	stroke, hasStroke, err := sheet.ParseColor(s.style.Stroke)
	if err != nil {
		return err
	}

	if hasFill {
		fillPolygons(img, fill, [][]point{transform(m, outline(s.prim, 0))})
	}
	if hasStroke {
		// at least one pixel wide
		half := max(s.style.StrokeWidth, 1/scale) / 2
		outer := transform(m, outline(s.prim, half))
		inner := transform(m, outline(s.prim, -half))
		fillPolygons(img, stroke, [][]point{outer, reverse(inner)})
	}
	return nil
}

// outline approximates the boundary of p grown by d, clockwise in drawing
// space.
func outline(p grid.Primitive, d float64) []point {
	switch p := p.(type) {
	case grid.Ellipse:
		rx, ry := max(p.RX+d, 0), max(p.RY+d, 0)
		pts := make([]point, 0, segments)
		for i := range segments {
			a := 2 * math.Pi * float64(i) / segments
			pts = append(pts, point{p.CX + rx*math.Cos(a), p.CY + ry*math.Sin(a)})
		}
		return pts
	case grid.Rect:
		x0, y0 := p.X-d, p.Y-d
		x1, y1 := p.X+p.W+d, p.Y+p.H+d
		if x1 < x0 {
			x0, x1 = (x0+x1)/2, (x0+x1)/2
		}
		if y1 < y0 {
			y0, y1 = (y0+y1)/2, (y0+y1)/2
		}
		r := 0.0
		if p.CornerRadius > 0 {
			r = min(max(p.CornerRadius+d, 0), (x1-x0)/2, (y1-y0)/2)
		}
		if r == 0 {
			return []point{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
		}
		// corner centres, starting top-right, with their start angles
		corners := []struct {
			cx, cy, start float64
		}{
			{x1 - r, y0 + r, -math.Pi / 2},
			{x1 - r, y1 - r, 0},
			{x0 + r, y1 - r, math.Pi / 2},
			{x0 + r, y0 + r, math.Pi},
		}
		steps := segments / 4
		pts := make([]point, 0, 4*(steps+1))
		for _, c := range corners {
			for i := 0; i <= steps; i++ {
				a := c.start + math.Pi/2*float64(i)/float64(steps)
				pts = append(pts, point{c.cx + r*math.Cos(a), c.cy + r*math.Sin(a)})
			}
		}
		return pts
	}
	return nil
}

// hairline is a one pixel wide quad along the segment from a to b.
func hairline(a, b point) [][]point {
	dx, dy := b.x-a.x, b.y-a.y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return nil
	}
	nx, ny := -dy/l*0.5, dx/l*0.5
	return [][]point{{
		{a.x + nx, a.y + ny},
		{b.x + nx, b.y + ny},
		{b.x - nx, b.y - ny},
		{a.x - nx, a.y - ny},
	}}
}

func apply(m matrix.Matrix, p point) point {
	return point{
		x: m[0]*p.x + m[2]*p.y + m[4],
		y: m[1]*p.x + m[3]*p.y + m[5],
	}
}

func transform(m matrix.Matrix, pts []point) []point {
	out := make([]point, len(pts))
	for i, p := range pts {
		out[i] = apply(m, p)
	}
	return out
}

func reverse(pts []point) []point {
	out := make([]point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

func fillPolygons(img *image.RGBA, col color.Color, polys [][]point) {
	b := img.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	r.DrawOp = draw.Over
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		r.MoveTo(float32(poly[0].x), float32(poly[0].y))
		for _, p := range poly[1:] {
			r.LineTo(float32(p.x), float32(p.y))
		}
		r.ClosePath()
	}
	r.Draw(img, b, image.NewUniform(col), image.Point{})
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
