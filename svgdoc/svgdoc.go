// Package svgdoc implements sheet.Surface on Inkscape SVG documents.
//
// Guides are sodipodi:guide elements of the sodipodi:namedview, layers are
// groups with inkscape:groupmode="layer". Lengths on the surface are SVG
// user units.
package svgdoc

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/georgepadayatti/labelguides/grid"
	"github.com/georgepadayatti/labelguides/layout"
	"github.com/georgepadayatti/labelguides/sheet"
)

// XML namespaces used by Inkscape documents.
const (
	NamespaceSVG      = "http://www.w3.org/2000/svg"
	NamespaceInkscape = "http://www.inkscape.org/namespaces/inkscape"
	NamespaceSodipodi = "http://sodipodi.sourceforge.net/DTD/sodipodi-0.dtd"
)

// Errors
var (
	ErrNotSVG        = errors.New("document root is not an svg element")
	ErrInvalidLength = errors.New("invalid SVG length")
)

// Document is an SVG document being edited.
type Document struct {
	doc      *etree.Document
	root     *etree.Element
	conv     layout.Converter
	height   float64
	shapeSeq int
}

var _ sheet.Surface = (*Document)(nil)

// New returns a blank document of the given page size. One user unit is
// one unit of the page size.
func New(page layout.PageSize) (*Document, error) {
	if !page.Unit.Valid() {
		return nil, &layout.UnknownUnitError{Unit: string(page.Unit)}
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="no"`)
	root := doc.CreateElement("svg")
	root.CreateAttr("xmlns", NamespaceSVG)
	root.CreateAttr("xmlns:inkscape", NamespaceInkscape)
	root.CreateAttr("xmlns:sodipodi", NamespaceSodipodi)
	root.CreateAttr("version", "1.1")

	d := &Document{doc: doc, root: root}
	nv := d.namedView()
	nv.CreateAttr("inkscape:document-units", string(page.Unit))
	d.setDimensions(page.Width, page.Height, page.Unit, page.Width, page.Height)
	if err := d.measure(); err != nil {
		return nil, err
	}
	return d, nil
}

// Read parses an SVG document.
func Read(r io.Reader) (*Document, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	return fromTree(doc)
}

// Open reads an SVG file.
func Open(path string) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("failed to read SVG: %w", err)
	}
	return fromTree(doc)
}

func fromTree(doc *etree.Document) (*Document, error) {
	root := doc.Root()
	if root == nil || root.Tag != "svg" {
		return nil, ErrNotSVG
	}
	d := &Document{doc: doc, root: root}
	ensureNamespace(root, "inkscape", NamespaceInkscape)
	ensureNamespace(root, "sodipodi", NamespaceSodipodi)
	if err := d.measure(); err != nil {
		return nil, err
	}
	return d, nil
}

func ensureNamespace(root *etree.Element, prefix, uri string) {
	if root.SelectAttr("xmlns:"+prefix) == nil {
		root.CreateAttr("xmlns:"+prefix, uri)
	}
}

// measure derives the user unit scale and the page height from the width,
// height and viewBox attributes.
func (d *Document) measure() error {
	width, wUnit, err := parseLength(d.root.SelectAttrValue("width", ""))
	if err != nil {
		return fmt.Errorf("width: %w", err)
	}
	height, hUnit, err := parseLength(d.root.SelectAttrValue("height", ""))
	if err != nil {
		return fmt.Errorf("height: %w", err)
	}
	vb, hasViewBox, err := parseViewBox(d.root.SelectAttrValue("viewBox", ""))
	if err != nil {
		return err
	}

	switch {
	case hasViewBox && width > 0:
		widthPt, err := layout.ToPoints(width, wUnit)
		if err != nil {
			return err
		}
		d.conv = layout.NewScaledConverter(vb[2] / widthPt)
		d.height = vb[3]
	case hasViewBox:
		d.conv, _ = layout.NewConverter(layout.Px)
		d.height = vb[3]
	case height > 0:
		d.conv, _ = layout.NewConverter(layout.Px)
		d.height, err = d.conv.ToInternal(height, hUnit)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: document has neither height nor viewBox", ErrInvalidLength)
	}
	return nil
}

// parseLength splits an SVG length such as "210mm" into value and unit. An
// empty string or a percentage is a zero length so the viewBox decides; a
// bare number is in px.
func parseLength(s string) (float64, layout.Unit, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, "%") {
		return 0, layout.Px, nil
	}
	i := len(s)
	for i > 0 && (s[i-1] < '0' || s[i-1] > '9') && s[i-1] != '.' {
		i--
	}
	v, err := strconv.ParseFloat(s[:i], 64)
	if err != nil || v < 0 {
		return 0, "", fmt.Errorf("%w %q", ErrInvalidLength, s)
	}
	unit := layout.Px
	if suffix := s[i:]; suffix != "" {
		if unit, err = layout.ParseUnit(suffix); err != nil {
			return 0, "", err
		}
	}
	return v, unit, nil
}

func parseViewBox(s string) ([4]float64, bool, error) {
	var vb [4]float64
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' || r == '\n' })
	if len(fields) == 0 {
		return vb, false, nil
	}
	if len(fields) != 4 {
		return vb, false, fmt.Errorf("%w: viewBox %q", ErrInvalidLength, s)
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return vb, false, fmt.Errorf("%w: viewBox %q", ErrInvalidLength, s)
		}
		vb[i] = v
	}
	if vb[2] <= 0 || vb[3] <= 0 {
		return vb, false, fmt.Errorf("%w: viewBox %q", ErrInvalidLength, s)
	}
	if vb[0] != 0 || vb[1] != 0 {
		return vb, false, fmt.Errorf("%w: viewBox %q must start at the origin", ErrInvalidLength, s)
	}
	return vb, true, nil
}

func (d *Document) setDimensions(width, height float64, unit layout.Unit, vbWidth, vbHeight float64) {
	d.root.CreateAttr("width", formatNumber(width)+string(unit))
	d.root.CreateAttr("height", formatNumber(height)+string(unit))
	d.root.CreateAttr("viewBox", "0 0 "+formatNumber(vbWidth)+" "+formatNumber(vbHeight))
}

// Converter returns the mapping between physical units and user units.
func (d *Document) Converter() layout.Converter {
	return d.conv
}

// PageHeight returns the page height in user units.
func (d *Document) PageHeight() float64 {
	return d.height
}

// SetPageSize resizes the page. The user unit keeps its physical size so
// existing content is not scaled.
func (d *Document) SetPageSize(width, height float64, unit layout.Unit) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: page %gx%g", ErrInvalidLength, width, height)
	}
	vbWidth, err := d.conv.ToInternal(width, unit)
	if err != nil {
		return err
	}
	vbHeight, err := d.conv.ToInternal(height, unit)
	if err != nil {
		return err
	}
	conv := d.conv
	d.setDimensions(width, height, unit, vbWidth, vbHeight)
	if err := d.measure(); err != nil {
		return err
	}
	d.conv = conv
	return nil
}

func (d *Document) namedView() *etree.Element {
	if nv := d.root.SelectElement("sodipodi:namedview"); nv != nil {
		return nv
	}
	nv := etree.NewElement("sodipodi:namedview")
	nv.CreateAttr("id", "namedview1")
	d.root.InsertChildAt(0, nv)
	return nv
}

// DeleteAllGuides removes every guide from the named view.
func (d *Document) DeleteAllGuides() {
	nv := d.root.SelectElement("sodipodi:namedview")
	if nv == nil {
		return
	}
	for _, g := range nv.SelectElements("sodipodi:guide") {
		nv.RemoveChild(g)
	}
}

// CreateGuide adds a guide through (x, y) in guide space.
func (d *Document) CreateGuide(x, y float64, axis grid.Axis, color string) {
	g := d.namedView().CreateElement("sodipodi:guide")
	g.CreateAttr("position", formatNumber(x)+","+formatNumber(y))
	if axis == grid.Vertical {
		g.CreateAttr("orientation", "1,0")
	} else {
		g.CreateAttr("orientation", "0,1")
	}
	if color != "" {
		g.CreateAttr("inkscape:color", color)
	}
}

// Guide is a guide read back from a document.
type Guide struct {
	X, Y  float64
	Axis  grid.Axis
	Color string
}

// Guides returns the guides of the document in document order. Guides
// that are neither vertical nor horizontal are skipped.
func (d *Document) Guides() []Guide {
	nv := d.root.SelectElement("sodipodi:namedview")
	if nv == nil {
		return nil
	}
	var out []Guide
	for _, el := range nv.SelectElements("sodipodi:guide") {
		pos := strings.Split(el.SelectAttrValue("position", ""), ",")
		if len(pos) != 2 {
			continue
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(pos[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(pos[1]), 64)
		if errX != nil || errY != nil {
			continue
		}
		g := Guide{X: x, Y: y, Color: el.SelectAttrValue("inkscape:color", "")}
		switch el.SelectAttrValue("orientation", "") {
		case "1,0", "-1,0":
			g.Axis = grid.Vertical
		case "0,1", "0,-1":
			g.Axis = grid.Horizontal
		default:
			continue
		}
		out = append(out, g)
	}
	return out
}

// Layer is an Inkscape layer.
type Layer struct {
	el *etree.Element
}

// ID returns the id attribute of the layer group.
func (l *Layer) ID() string {
	return l.el.SelectAttrValue("id", "")
}

// CreateLayer appends a new top-level layer. The id is made unique within
// the document.
func (d *Document) CreateLayer(id, label string) sheet.Layer {
	g := d.root.CreateElement("g")
	g.CreateAttr("id", d.uniqueID(id))
	g.CreateAttr("inkscape:label", label)
	g.CreateAttr("inkscape:groupmode", "layer")
	return &Layer{el: g}
}

func (d *Document) uniqueID(id string) string {
	taken := make(map[string]bool)
	for _, el := range d.root.FindElements("//*[@id]") {
		taken[el.SelectAttrValue("id", "")] = true
	}
	if !taken[id] {
		return id
	}
	for n := 2; ; n++ {
		if c := fmt.Sprintf("%s-%d", id, n); !taken[c] {
			return c
		}
	}
}

// CreateShape adds a label outline to layer. Layers not created by this
// document put the shape at the top level.
func (d *Document) CreateShape(l sheet.Layer, p grid.Primitive, style sheet.Style) {
	parent := d.root
	if layer, ok := l.(*Layer); ok && layer != nil {
		parent = layer.el
	}
	d.shapeSeq++

	var el *etree.Element
	switch p := p.(type) {
	case grid.Rect:
		el = parent.CreateElement("rect")
		el.CreateAttr("id", fmt.Sprintf("label%d", d.shapeSeq))
		el.CreateAttr("x", formatNumber(p.X))
		el.CreateAttr("y", formatNumber(p.Y))
		el.CreateAttr("width", formatNumber(p.W))
		el.CreateAttr("height", formatNumber(p.H))
		if p.CornerRadius > 0 {
			el.CreateAttr("rx", formatNumber(p.CornerRadius))
			el.CreateAttr("ry", formatNumber(p.CornerRadius))
		}
	case grid.Ellipse:
		el = parent.CreateElement("ellipse")
		el.CreateAttr("id", fmt.Sprintf("label%d", d.shapeSeq))
		el.CreateAttr("cx", formatNumber(p.CX))
		el.CreateAttr("cy", formatNumber(p.CY))
		el.CreateAttr("rx", formatNumber(p.RX))
		el.CreateAttr("ry", formatNumber(p.RY))
	default:
		return
	}
	el.CreateAttr("style", styleAttr(style))
}

func styleAttr(s sheet.Style) string {
	fill := s.Fill
	if fill == "" {
		fill = "none"
	}
	parts := []string{"fill:" + fill}
	if s.Stroke != "" {
		parts = append(parts, "stroke:"+s.Stroke, "stroke-width:"+formatNumber(s.StrokeWidth))
	}
	return strings.Join(parts, ";")
}

// formatNumber prints v with at most six decimals and no trailing zeros.
func formatNumber(v float64) string {
	r := math.Round(v*1e6) / 1e6
	if r == 0 {
		r = 0 // no "-0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// WriteTo writes the document as indented XML.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	d.doc.Indent(2)
	return d.doc.WriteTo(w)
}

// Save writes the document to path.
func (d *Document) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := d.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
