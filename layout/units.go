// Package layout provides measurement units, unit conversion and standard
// paper sizes for label sheet layout.
package layout

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownUnit is returned (wrapped) for unit tokens not in the unit table.
var ErrUnknownUnit = errors.New("unknown unit")

// Unit is a physical length unit token such as "mm" or "in".
type Unit string

const (
	Pt Unit = "pt" // PostScript point, 1/72 inch
	Pc Unit = "pc" // pica, 12 points
	In Unit = "in"
	Mm Unit = "mm"
	Cm Unit = "cm"
	M  Unit = "m"
	Q  Unit = "q"  // quarter-millimetre
	Px Unit = "px" // CSS pixel, 1/96 inch
)

// pointsPerUnit holds the length of one unit, in points.
var pointsPerUnit = map[Unit]float64{
	Pt: 1,
	Pc: 12,
	In: 72,
	Mm: 72 / 25.4,
	Cm: 72 / 2.54,
	M:  72 / 0.0254,
	Q:  72 / 25.4 / 4,
	Px: 72.0 / 96,
}

// UnknownUnitError reports a unit token that has no conversion factor.
type UnknownUnitError struct {
	Unit string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("unknown unit %q", e.Unit)
}

func (e *UnknownUnitError) Unwrap() error {
	return ErrUnknownUnit
}

// ParseUnit returns the unit for a token. Case and surrounding space are
// ignored.
func ParseUnit(token string) (Unit, error) {
	u := Unit(strings.ToLower(strings.TrimSpace(token)))
	if _, ok := pointsPerUnit[u]; !ok {
		return "", &UnknownUnitError{Unit: token}
	}
	return u, nil
}

// Units returns all known unit tokens.
func Units() []Unit {
	return []Unit{Mm, Cm, In, Px, Pt, Pc, M, Q}
}

// Valid reports whether u is in the unit table.
func (u Unit) Valid() bool {
	_, ok := pointsPerUnit[u]
	return ok
}

// ToPoints converts a value in the given unit to points.
func ToPoints(value float64, unit Unit) (float64, error) {
	f, ok := pointsPerUnit[unit]
	if !ok {
		return 0, &UnknownUnitError{Unit: string(unit)}
	}
	return value * f, nil
}

// FromPoints converts points to the given unit.
func FromPoints(points float64, unit Unit) (float64, error) {
	f, ok := pointsPerUnit[unit]
	if !ok {
		return 0, &UnknownUnitError{Unit: string(unit)}
	}
	return points / f, nil
}

// Converter converts physical lengths to the internal linear unit of a
// document. The internal unit is described by how many internal units make
// up one point.
type Converter struct {
	perPoint float64
}

// NewConverter returns a converter for a document whose internal unit is the
// given working unit.
func NewConverter(working Unit) (Converter, error) {
	f, ok := pointsPerUnit[working]
	if !ok {
		return Converter{}, &UnknownUnitError{Unit: string(working)}
	}
	return Converter{perPoint: 1 / f}, nil
}

// NewScaledConverter returns a converter for a document with perPoint
// internal units per point. SVG documents with a scaling viewBox use this.
func NewScaledConverter(perPoint float64) Converter {
	return Converter{perPoint: perPoint}
}

// PerPoint returns the number of internal units per point.
func (c Converter) PerPoint() float64 {
	return c.perPoint
}

// ToInternal converts value, measured in unit, to internal units.
func (c Converter) ToInternal(value float64, unit Unit) (float64, error) {
	pt, err := ToPoints(value, unit)
	if err != nil {
		return 0, err
	}
	return pt * c.perPoint, nil
}

// FromInternal converts a length in internal units to the given unit.
func (c Converter) FromInternal(value float64, unit Unit) (float64, error) {
	return FromPoints(value/c.perPoint, unit)
}
