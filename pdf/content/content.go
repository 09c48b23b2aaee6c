// Package content builds and inspects the PDF content streams that draw
// label sheets.
package content

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/georgepadayatti/labelguides/pdf/generic"
)

// Operator is a PDF content stream operator.
type Operator string

// Operators used for vector label drawings.
const (
	// Graphics state operators
	OpSaveState    Operator = "q"
	OpRestoreState Operator = "Q"
	OpSetCTM       Operator = "cm"
	OpSetLineWidth Operator = "w"
	OpSetLineCap   Operator = "J"
	OpSetLineJoin  Operator = "j"
	OpSetDash      Operator = "d"

	// Path construction operators
	OpMoveTo    Operator = "m"
	OpLineTo    Operator = "l"
	OpCurveTo   Operator = "c"
	OpClosePath Operator = "h"
	OpRectangle Operator = "re"

	// Path painting operators
	OpStroke        Operator = "S"
	OpFill          Operator = "f"
	OpFillAndStroke Operator = "B"
	OpEndPath       Operator = "n"

	// Color operators
	OpSetStrokeGray Operator = "G"
	OpSetFillGray   Operator = "g"
	OpSetStrokeRGB  Operator = "RG"
	OpSetFillRGB    Operator = "rg"

	// Marked content operators
	OpBeginMarkedContentDict Operator = "BDC"
	OpEndMarkedContent       Operator = "EMC"
)

// kappa places the control points of a cubic Bézier quarter circle.
const kappa = 0.5522847498307936

// ContentStream is a sequence of operations.
type ContentStream struct {
	Operations []Operation
}

// Operation is a single operator with its operands.
type Operation struct {
	Operator Operator
	Operands []any
}

// NewContentStream creates an empty content stream.
func NewContentStream() *ContentStream {
	return &ContentStream{}
}

// AddOperation appends an operation.
func (cs *ContentStream) AddOperation(op Operator, operands ...any) {
	cs.Operations = append(cs.Operations, Operation{Operator: op, Operands: operands})
}

// Count returns how many operations use op.
func (cs *ContentStream) Count(op Operator) int {
	n := 0
	for _, o := range cs.Operations {
		if o.Operator == op {
			n++
		}
	}
	return n
}

// Render renders the content stream, one operation per line.
func (cs *ContentStream) Render() []byte {
	var buf bytes.Buffer
	for _, op := range cs.Operations {
		for _, operand := range op.Operands {
			buf.WriteString(formatOperand(operand))
			buf.WriteByte(' ')
		}
		buf.WriteString(string(op.Operator))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func formatOperand(v any) string {
	switch val := v.(type) {
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return generic.FormatReal(val)
	case string:
		return val
	case generic.PdfObject:
		var buf bytes.Buffer
		val.Write(&buf)
		return buf.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Parse splits rendered content back into operations. It understands the
// numbers, names and arrays that ContentBuilder emits.
func Parse(data []byte) (*ContentStream, error) {
	cs := NewContentStream()
	var operands []any
	var array generic.ArrayObject
	inArray := false

	for _, tok := range strings.Fields(strings.NewReplacer("[", " [ ", "]", " ] ").Replace(string(data))) {
		var operand any
		switch {
		case tok == "[":
			if inArray {
				return nil, fmt.Errorf("nested array in content stream")
			}
			inArray, array = true, generic.ArrayObject{}
			continue
		case tok == "]":
			if !inArray {
				return nil, fmt.Errorf("unbalanced ']' in content stream")
			}
			inArray = false
			operands = append(operands, array)
			continue
		case strings.HasPrefix(tok, "/"):
			operand = generic.NameObject(tok[1:])
		default:
			f, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				if inArray {
					return nil, fmt.Errorf("unexpected %q in array", tok)
				}
				cs.AddOperation(Operator(tok), operands...)
				operands = nil
				continue
			}
			operand = f
		}
		if inArray {
			if f, ok := operand.(float64); ok {
				array = append(array, generic.RealObject(f))
			} else {
				array = append(array, operand.(generic.PdfObject))
			}
			continue
		}
		operands = append(operands, operand)
	}
	if inArray || len(operands) > 0 {
		return nil, fmt.Errorf("content stream ends with dangling operands")
	}
	return cs, nil
}

// ContentBuilder provides a fluent interface for building content streams.
type ContentBuilder struct {
	stream *ContentStream
}

// NewContentBuilder creates a new content builder.
func NewContentBuilder() *ContentBuilder {
	return &ContentBuilder{stream: NewContentStream()}
}

// SaveState saves the graphics state.
func (cb *ContentBuilder) SaveState() *ContentBuilder {
	cb.stream.AddOperation(OpSaveState)
	return cb
}

// RestoreState restores the graphics state.
func (cb *ContentBuilder) RestoreState() *ContentBuilder {
	cb.stream.AddOperation(OpRestoreState)
	return cb
}

// Transform concatenates a matrix to the CTM.
func (cb *ContentBuilder) Transform(a, b, c, d, e, f float64) *ContentBuilder {
	cb.stream.AddOperation(OpSetCTM, a, b, c, d, e, f)
	return cb
}

// MoveTo starts a subpath.
func (cb *ContentBuilder) MoveTo(x, y float64) *ContentBuilder {
	cb.stream.AddOperation(OpMoveTo, x, y)
	return cb
}

// LineTo appends a straight segment.
func (cb *ContentBuilder) LineTo(x, y float64) *ContentBuilder {
	cb.stream.AddOperation(OpLineTo, x, y)
	return cb
}

// CurveTo appends a cubic Bézier segment.
func (cb *ContentBuilder) CurveTo(x1, y1, x2, y2, x3, y3 float64) *ContentBuilder {
	cb.stream.AddOperation(OpCurveTo, x1, y1, x2, y2, x3, y3)
	return cb
}

// Rectangle appends a rectangle with its lower-left corner at (x, y).
func (cb *ContentBuilder) Rectangle(x, y, width, height float64) *ContentBuilder {
	cb.stream.AddOperation(OpRectangle, x, y, width, height)
	return cb
}

// RoundedRectangle appends a rectangle whose corners are quarter circles of
// radius r. The radius is limited to half the shorter side.
func (cb *ContentBuilder) RoundedRectangle(x, y, width, height, r float64) *ContentBuilder {
	r = min(r, width/2, height/2)
	if r <= 0 {
		return cb.Rectangle(x, y, width, height)
	}
	k := r * kappa
	x1, y1 := x+width, y+height
	cb.MoveTo(x+r, y)
	cb.LineTo(x1-r, y)
	cb.CurveTo(x1-r+k, y, x1, y+r-k, x1, y+r)
	cb.LineTo(x1, y1-r)
	cb.CurveTo(x1, y1-r+k, x1-r+k, y1, x1-r, y1)
	cb.LineTo(x+r, y1)
	cb.CurveTo(x+r-k, y1, x, y1-r+k, x, y1-r)
	cb.LineTo(x, y+r)
	cb.CurveTo(x, y+r-k, x+r-k, y, x+r, y)
	return cb.ClosePath()
}

// Ellipse appends an axis-aligned ellipse as four Bézier segments.
func (cb *ContentBuilder) Ellipse(cx, cy, rx, ry float64) *ContentBuilder {
	kx, ky := rx*kappa, ry*kappa
	cb.MoveTo(cx+rx, cy)
	cb.CurveTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	cb.CurveTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	cb.CurveTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	cb.CurveTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	return cb.ClosePath()
}

// ClosePath closes the current subpath.
func (cb *ContentBuilder) ClosePath() *ContentBuilder {
	cb.stream.AddOperation(OpClosePath)
	return cb
}

// Stroke strokes the path.
func (cb *ContentBuilder) Stroke() *ContentBuilder {
	cb.stream.AddOperation(OpStroke)
	return cb
}

// Fill fills the path.
func (cb *ContentBuilder) Fill() *ContentBuilder {
	cb.stream.AddOperation(OpFill)
	return cb
}

// FillAndStroke fills and strokes the path.
func (cb *ContentBuilder) FillAndStroke() *ContentBuilder {
	cb.stream.AddOperation(OpFillAndStroke)
	return cb
}

// EndPath discards the path without painting.
func (cb *ContentBuilder) EndPath() *ContentBuilder {
	cb.stream.AddOperation(OpEndPath)
	return cb
}

// SetStrokeColor sets the stroke color (RGB).
func (cb *ContentBuilder) SetStrokeColor(r, g, b float64) *ContentBuilder {
	cb.stream.AddOperation(OpSetStrokeRGB, r, g, b)
	return cb
}

// SetFillColor sets the fill color (RGB).
func (cb *ContentBuilder) SetFillColor(r, g, b float64) *ContentBuilder {
	cb.stream.AddOperation(OpSetFillRGB, r, g, b)
	return cb
}

// SetStrokeGray sets the stroke color (grayscale).
func (cb *ContentBuilder) SetStrokeGray(gray float64) *ContentBuilder {
	cb.stream.AddOperation(OpSetStrokeGray, gray)
	return cb
}

// SetLineWidth sets the line width. Zero selects the thinnest line the
// device can render.
func (cb *ContentBuilder) SetLineWidth(width float64) *ContentBuilder {
	cb.stream.AddOperation(OpSetLineWidth, width)
	return cb
}

// SetDash sets the dash pattern. An empty pattern draws solid lines.
func (cb *ContentBuilder) SetDash(phase float64, pattern ...float64) *ContentBuilder {
	arr := make(generic.ArrayObject, len(pattern))
	for i, v := range pattern {
		arr[i] = generic.RealObject(v)
	}
	cb.stream.AddOperation(OpSetDash, arr, phase)
	return cb
}

// BeginOptionalContent starts content belonging to the optional content
// group registered under name in the page resources.
func (cb *ContentBuilder) BeginOptionalContent(name string) *ContentBuilder {
	cb.stream.AddOperation(OpBeginMarkedContentDict, generic.NameObject("OC"), generic.NameObject(name))
	return cb
}

// EndMarkedContent ends the innermost marked content sequence.
func (cb *ContentBuilder) EndMarkedContent() *ContentBuilder {
	cb.stream.AddOperation(OpEndMarkedContent)
	return cb
}

// Build returns the content stream.
func (cb *ContentBuilder) Build() *ContentStream {
	return cb.stream
}

// Render renders the content stream to bytes.
func (cb *ContentBuilder) Render() []byte {
	return cb.stream.Render()
}
