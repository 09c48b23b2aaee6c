package grid

import "strings"

// ShapeKind is the outline drawn for each label.
type ShapeKind int

const (
	// KindUnknown marks a shape token this package cannot draw. Cells with
	// an unknown shape produce no primitive.
	KindUnknown ShapeKind = iota
	KindRect
	KindRoundedRect
	KindCircle
)

// Shape is a label outline: one of the drawable kinds, or an unknown token
// kept verbatim.
type Shape struct {
	Kind  ShapeKind
	Token string
}

// The drawable shapes.
var (
	ShapeRect        = Shape{Kind: KindRect, Token: "rect"}
	ShapeRoundedRect = Shape{Kind: KindRoundedRect, Token: "rrect"}
	ShapeCircle      = Shape{Kind: KindCircle, Token: "circle"}
)

// ParseShape maps a shape token to a Shape. Tokens other than "rect",
// "rrect" and "circle" yield a KindUnknown shape.
func ParseShape(token string) Shape {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "rect":
		return ShapeRect
	case "rrect":
		return ShapeRoundedRect
	case "circle":
		return ShapeCircle
	}
	return Shape{Kind: KindUnknown, Token: token}
}

// Drawable reports whether cells of this shape produce primitives.
func (s Shape) Drawable() bool {
	return s.Kind != KindUnknown
}

func (s Shape) String() string {
	return s.Token
}
