package grid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseShape(t *testing.T) {
	tests := []struct {
		token    string
		expected Shape
	}{
		{"rect", ShapeRect},
		{"rrect", ShapeRoundedRect},
		{"circle", ShapeCircle},
		{" Circle ", ShapeCircle},
		{"none", Shape{Kind: KindUnknown, Token: "none"}},
		{"hexagon", Shape{Kind: KindUnknown, Token: "hexagon"}},
	}

	for _, tt := range tests {
		got := ParseShape(tt.token)
		if got != tt.expected {
			t.Errorf("ParseShape(%q) = %+v, want %+v", tt.token, got, tt.expected)
		}
		if got.Drawable() != (tt.expected.Kind != KindUnknown) {
			t.Errorf("ParseShape(%q).Drawable() = %v", tt.token, got.Drawable())
		}
	}
}

func TestToDrawingY(t *testing.T) {
	if got := ToDrawingY(300, 150); got != 150 {
		t.Errorf("ToDrawingY(300, 150) = %g", got)
	}
	if got := ToDrawingY(297, 284); got != 13 {
		t.Errorf("ToDrawingY(297, 284) = %g", got)
	}
}

func TestShapesFromGuidesCircle(t *testing.T) {
	guides := GuideSet{
		Vertical:   []float64{0, 100},
		Horizontal: []float64{200, 100},
	}
	got := ShapesFromGuides(guides, ShapeCircle, 0, 300)
	want := []Primitive{Ellipse{CX: 50, CY: 150, RX: 50, RY: 50}}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("ShapesFromGuides (-want +got):\n%s", d)
	}
}

func TestComputeShapesCircle(t *testing.T) {
	spec := Spec{
		Margin: Point{0, 100},
		Size:   Point{100, 100},
		Pitch:  Point{100, 100},
		Count:  Count{1, 1},
		Shape:  ShapeCircle,
	}
	got, err := ComputeShapes(spec, 300)
	if err != nil {
		t.Fatal(err)
	}
	want := []Primitive{Ellipse{CX: 50, CY: 150, RX: 50, RY: 50}}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("ComputeShapes (-want +got):\n%s", d)
	}
}

func TestComputeShapesRectangles(t *testing.T) {
	spec := Spec{
		Margin:       Point{10, 20},
		Size:         Point{30, 15},
		Pitch:        Point{40, 25},
		Count:        Count{2, 2},
		Shape:        ShapeRoundedRect,
		CornerRadius: 2,
	}
	got, err := ComputeShapes(spec, 200)
	if err != nil {
		t.Fatal(err)
	}
	// column by column, top to bottom
	want := []Primitive{
		Rect{X: 10, Y: 20, W: 30, H: 15, CornerRadius: 2},
		Rect{X: 10, Y: 45, W: 30, H: 15, CornerRadius: 2},
		Rect{X: 50, Y: 20, W: 30, H: 15, CornerRadius: 2},
		Rect{X: 50, Y: 45, W: 30, H: 15, CornerRadius: 2},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("ComputeShapes (-want +got):\n%s", d)
	}

	spec.Shape = ShapeRect
	got, err = ComputeShapes(spec, 200)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range got {
		if r := p.(Rect); r.CornerRadius != 0 {
			t.Errorf("rect %d has corner radius %g", i, r.CornerRadius)
		}
	}
}

func TestComputeShapesCount(t *testing.T) {
	tests := []struct {
		shape Shape
		want  int
	}{
		{ShapeRect, 35},
		{ShapeRoundedRect, 35},
		{ShapeCircle, 35},
		{ParseShape("none"), 0},
		{ParseShape("star"), 0},
	}

	for _, tt := range tests {
		spec := squareSheet()
		spec.Shape = tt.shape
		got, err := ComputeShapes(spec, 297)
		if err != nil {
			t.Fatalf("%s: %v", tt.shape, err)
		}
		if len(got) != tt.want {
			t.Errorf("%s: %d shapes, want %d", tt.shape, len(got), tt.want)
		}
	}
}

func TestComputeShapesEmptyAxis(t *testing.T) {
	spec := squareSheet()
	spec.Count.X = 0
	g, err := ComputeGuides(spec, 297, 0)
	if err != nil {
		t.Fatalf("zero columns rejected: %v", err)
	}
	if len(g.Vertical) != 0 {
		t.Errorf("expected no vertical guides, got %v", g.Vertical)
	}
	shapes, err := ComputeShapes(spec, 297)
	if err != nil {
		t.Fatal(err)
	}
	if len(shapes) != 0 {
		t.Errorf("expected no shapes, got %d", len(shapes))
	}
}

func TestPrimitiveBounds(t *testing.T) {
	tests := []struct {
		p          Primitive
		x, y, w, h float64
	}{
		{Rect{X: 1, Y: 2, W: 3, H: 4}, 1, 2, 3, 4},
		{Ellipse{CX: 10, CY: 20, RX: 5, RY: 2}, 5, 18, 10, 4},
	}
	for _, tt := range tests {
		x, y, w, h := tt.p.Bounds()
		if x != tt.x || y != tt.y || w != tt.w || h != tt.h {
			t.Errorf("%#v.Bounds() = %g,%g,%g,%g", tt.p, x, y, w, h)
		}
	}
}
