package grid

// Primitive is a drawable label outline in drawing space. It is either a
// Rect or an Ellipse.
type Primitive interface {
	// Bounds returns the bounding box: top-left corner, width and height.
	Bounds() (x, y, w, h float64)
	isPrimitive()
}

// Rect is a rectangle with its top-left corner at (X, Y). A positive
// CornerRadius rounds the corners.
type Rect struct {
	X, Y, W, H   float64
	CornerRadius float64
}

// Bounds implements Primitive.
func (r Rect) Bounds() (x, y, w, h float64) {
	return r.X, r.Y, r.W, r.H
}

func (Rect) isPrimitive() {}

// Ellipse is an axis-aligned ellipse centred at (CX, CY).
type Ellipse struct {
	CX, CY, RX, RY float64
}

// Bounds implements Primitive.
func (e Ellipse) Bounds() (x, y, w, h float64) {
	return e.CX - e.RX, e.CY - e.RY, 2 * e.RX, 2 * e.RY
}

func (Ellipse) isPrimitive() {}

// ToDrawingY converts a y coordinate from guide space (origin at the page
// bottom) to drawing space (origin at the page top).
func ToDrawingY(pageHeight, guideY float64) float64 {
	return pageHeight - guideY
}

// ComputeShapes returns one outline per label of a spec in internal units.
// Labels are emitted column by column, top to bottom within a column.
func ComputeShapes(spec Spec, pageHeight float64) ([]Primitive, error) {
	guides, err := ComputeGuides(spec, pageHeight, 0)
	if err != nil {
		return nil, err
	}
	return ShapesFromGuides(guides, spec.Shape, spec.CornerRadius, pageHeight), nil
}

// ShapesFromGuides walks the guide pairs of an edge GuideSet and builds the
// outline of every cell. Unknown shapes produce no primitives.
func ShapesFromGuides(guides GuideSet, shape Shape, cornerRadius, pageHeight float64) []Primitive {
	cols := len(guides.Vertical) / 2
	rows := len(guides.Horizontal) / 2
	if !shape.Drawable() {
		return []Primitive{}
	}

	out := make([]Primitive, 0, cols*rows)
	for i := 0; i+1 < len(guides.Vertical); i += 2 {
		xl, xr := guides.Vertical[i], guides.Vertical[i+1]
		for j := 0; j+1 < len(guides.Horizontal); j += 2 {
			yt, yb := guides.Horizontal[j], guides.Horizontal[j+1]
			if p, ok := cellShape(shape, xl, xr, yt, yb, cornerRadius, pageHeight); ok {
				out = append(out, p)
			}
		}
	}
	return out
}

func cellShape(shape Shape, xl, xr, yt, yb, cornerRadius, pageHeight float64) (Primitive, bool) {
	switch shape.Kind {
	case KindCircle:
		cx := (xl + xr) / 2
		cy := (yt + yb) / 2
		return Ellipse{
			CX: cx,
			CY: ToDrawingY(pageHeight, cy),
			RX: cx - xl,
			RY: yt - cy,
		}, true
	case KindRect, KindRoundedRect:
		r := Rect{
			X: xl,
			Y: ToDrawingY(pageHeight, yt),
			W: xr - xl,
			H: yt - yb,
		}
		if shape.Kind == KindRoundedRect {
			r.CornerRadius = cornerRadius
		}
		return r, true
	case KindUnknown:
		return nil, false
	}
	return nil, false
}
