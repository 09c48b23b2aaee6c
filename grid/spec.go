package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/georgepadayatti/labelguides/layout"
)

// ErrInvalidGridParameter is returned (wrapped) when grid parameters
// describe an impossible sheet.
var ErrInvalidGridParameter = errors.New("invalid grid parameter")

// InvalidGridParameterError reports which parameter is wrong and why.
type InvalidGridParameterError struct {
	Param  string
	Reason string
}

func (e *InvalidGridParameterError) Error() string {
	return fmt.Sprintf("invalid grid parameter %s: %s", e.Param, e.Reason)
}

func (e *InvalidGridParameterError) Unwrap() error {
	return ErrInvalidGridParameter
}

func invalid(param, format string, args ...any) error {
	return &InvalidGridParameterError{Param: param, Reason: fmt.Sprintf(format, args...)}
}

// MaxCount is the largest number of labels along one axis.
const MaxCount = 1 << 20

// DefaultCornerRadius is the fillet of rounded rectangle labels, in mm,
// used when a spec does not set one.
const DefaultCornerRadius = 1.0

// Point is a pair of lengths along the x and y axes.
type Point struct {
	X, Y float64
}

// Count is the number of labels across (X) and down (Y).
type Count struct {
	X, Y int
}

// Cells returns the number of labels on the sheet.
func (c Count) Cells() int {
	return c.X * c.Y
}

// Spec describes a regular label grid.
//
// A physical spec has all lengths in Unit. A spec returned by Convert has
// lengths in the internal unit of a document, an empty Unit and no Page.
type Spec struct {
	Unit layout.Unit
	// Page is the page the sheet is printed on. Nil leaves the page alone.
	Page *layout.PageSpec
	// Margin is the distance from the left (X) and top (Y) page edges to
	// the first label.
	Margin Point
	Size   Point
	Pitch  Point
	Count  Count
	Shape  Shape
	// CornerRadius is the fillet used for rounded rectangles. Zero selects
	// DefaultCornerRadius during Convert.
	CornerRadius float64
}

// Validate checks the invariants of a spec: known unit, counts in
// [0, MaxCount], positive label size and pitch, and labels that do not
// overlap.
func (s Spec) Validate() error {
	if s.Unit != "" && !s.Unit.Valid() {
		return &layout.UnknownUnitError{Unit: string(s.Unit)}
	}
	if s.Count.X < 0 {
		return invalid("count.x", "must not be negative, got %d", s.Count.X)
	}
	if s.Count.Y < 0 {
		return invalid("count.y", "must not be negative, got %d", s.Count.Y)
	}
	if s.Count.X > MaxCount {
		return invalid("count.x", "%d exceeds the maximum of %d", s.Count.X, MaxCount)
	}
	if s.Count.Y > MaxCount {
		return invalid("count.y", "%d exceeds the maximum of %d", s.Count.Y, MaxCount)
	}
	checks := []struct {
		name  string
		value float64
	}{
		{"size.x", s.Size.X},
		{"size.y", s.Size.Y},
		{"pitch.x", s.Pitch.X},
		{"pitch.y", s.Pitch.Y},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || c.value <= 0 {
			return invalid(c.name, "must be positive, got %g", c.value)
		}
	}
	if math.IsNaN(s.Margin.X) || math.IsInf(s.Margin.X, 0) {
		return invalid("margin.left", "must be finite")
	}
	if math.IsNaN(s.Margin.Y) || math.IsInf(s.Margin.Y, 0) {
		return invalid("margin.top", "must be finite")
	}
	if s.Size.X > s.Pitch.X {
		return invalid("size.x", "label width %g exceeds pitch %g", s.Size.X, s.Pitch.X)
	}
	if s.Size.Y > s.Pitch.Y {
		return invalid("size.y", "label height %g exceeds pitch %g", s.Size.Y, s.Pitch.Y)
	}
	if s.CornerRadius < 0 {
		return invalid("corner-radius", "must not be negative, got %g", s.CornerRadius)
	}
	if s.Page != nil && s.Page.Name == "" && (s.Page.Width <= 0 || s.Page.Height <= 0) {
		return invalid("page", "explicit page size %s must be positive", s.Page)
	}
	return nil
}

// ValidateInset checks that inset guides drawn inset from every label edge
// keep their order: 0 <= inset < min(size.x, size.y)/2. The inset is in the
// same unit as the spec.
func (s Spec) ValidateInset(inset float64) error {
	if math.IsNaN(inset) || inset < 0 {
		return invalid("inset", "must not be negative, got %g", inset)
	}
	if inset == 0 {
		return nil
	}
	limit := math.Min(s.Size.X, s.Size.Y) / 2
	if inset >= limit {
		return invalid("inset", "%g must be less than half the smaller label side (%g)", inset, limit)
	}
	return nil
}

// PageDimensions resolves the declared page of the sheet. It returns nil
// when the spec leaves the page alone.
func (s Spec) PageDimensions() (*layout.PageSize, error) {
	return layout.ResolvePageSize(s.Page, s.Unit)
}

// Convert returns the spec with all lengths in the internal unit of conv.
func (s Spec) Convert(conv layout.Converter) (Spec, error) {
	if err := s.Validate(); err != nil {
		return Spec{}, err
	}
	out := Spec{Count: s.Count, Shape: s.Shape}
	fields := []struct {
		dst *float64
		src float64
	}{
		{&out.Margin.X, s.Margin.X},
		{&out.Margin.Y, s.Margin.Y},
		{&out.Size.X, s.Size.X},
		{&out.Size.Y, s.Size.Y},
		{&out.Pitch.X, s.Pitch.X},
		{&out.Pitch.Y, s.Pitch.Y},
		{&out.CornerRadius, s.CornerRadius},
	}
	for _, f := range fields {
		v, err := conv.ToInternal(f.src, s.Unit)
		if err != nil {
			return Spec{}, err
		}
		*f.dst = v
	}
	if s.CornerRadius == 0 {
		r, err := conv.ToInternal(DefaultCornerRadius, layout.Mm)
		if err != nil {
			return Spec{}, err
		}
		out.CornerRadius = r
	}
	return out, nil
}
