// Package generic provides the PDF object model used to serialise label
// sheets.
package generic

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"regexp"
	"sort"
	"strconv"

	"golang.org/x/crypto/blake2b"

	"github.com/georgepadayatti/labelguides/pdf/filters"
)

// PdfObject is anything that can appear in a PDF file body.
type PdfObject interface {
	// Write serializes the object to PDF syntax.
	Write(w io.Writer) error
}

// Reference is an indirect reference to an object ("12 0 R").
type Reference struct {
	ObjectNumber     int
	GenerationNumber int
}

// Write implements PdfObject.
func (r Reference) Write(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%d %d R", r.ObjectNumber, r.GenerationNumber)
	return err
}

func (r Reference) String() string {
	return fmt.Sprintf("%d %d R", r.ObjectNumber, r.GenerationNumber)
}

// IndirectObject wraps an object with its object and generation numbers.
type IndirectObject struct {
	Reference
	Object PdfObject
}

// NewIndirectObject creates a new indirect object.
func NewIndirectObject(objNum, genNum int, obj PdfObject) *IndirectObject {
	return &IndirectObject{
		Reference: Reference{ObjectNumber: objNum, GenerationNumber: genNum},
		Object:    obj,
	}
}

// Write implements PdfObject.
func (i *IndirectObject) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%d %d obj\n", i.ObjectNumber, i.GenerationNumber); err != nil {
		return err
	}
	if i.Object != nil {
		if err := i.Object.Write(w); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\nendobj\n")
	return err
}

// BooleanObject is true or false.
type BooleanObject bool

// Write implements PdfObject.
func (b BooleanObject) Write(w io.Writer) error {
	_, err := io.WriteString(w, strconv.FormatBool(bool(b)))
	return err
}

// IntegerObject is a PDF integer.
type IntegerObject int64

// Write implements PdfObject.
func (i IntegerObject) Write(w io.Writer) error {
	_, err := io.WriteString(w, strconv.FormatInt(int64(i), 10))
	return err
}

// RealObject is a PDF real number.
type RealObject float64

// Write implements PdfObject.
func (r RealObject) Write(w io.Writer) error {
	_, err := io.WriteString(w, FormatReal(float64(r)))
	return err
}

// FormatReal prints v with at most four decimals, which is finer than any
// device resolution in points.
func FormatReal(v float64) string {
	v = math.Round(v*1e4) / 1e4
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// NameObject is a PDF name (/Type). The value excludes the slash.
type NameObject string

var nameEscapeRegex = regexp.MustCompile(`[^!-~]|[#%/\[\]()<>{}]`)

// Write implements PdfObject.
func (n NameObject) Write(w io.Writer) error {
	escaped := nameEscapeRegex.ReplaceAllStringFunc(string(n), func(s string) string {
		return fmt.Sprintf("#%02X", s[0])
	})
	_, err := io.WriteString(w, "/"+escaped)
	return err
}

// StringObject is a literal or hexadecimal PDF string.
type StringObject struct {
	Value []byte
	IsHex bool
}

// NewLiteralString creates a literal string.
func NewLiteralString(s string) *StringObject {
	return &StringObject{Value: []byte(s)}
}

// NewHexString creates a hexadecimal string.
func NewHexString(data []byte) *StringObject {
	return &StringObject{Value: data, IsHex: true}
}

// NewTextString creates a text string, UTF-16BE with a byte order mark when
// s is not Latin-1.
func NewTextString(s string) *StringObject {
	latin1 := true
	for _, r := range s {
		if r > 255 {
			latin1 = false
			break
		}
	}
	if latin1 {
		out := make([]byte, 0, len(s))
		for _, r := range s {
			out = append(out, byte(r))
		}
		return &StringObject{Value: out}
	}

	var buf bytes.Buffer
	buf.Write([]byte{0xFE, 0xFF})
	for _, r := range s {
		if r > 0xFFFF {
			r -= 0x10000
			hi, lo := 0xD800+(r>>10), 0xDC00+(r&0x3FF)
			buf.Write([]byte{byte(hi >> 8), byte(hi), byte(lo >> 8), byte(lo)})
			continue
		}
		buf.Write([]byte{byte(r >> 8), byte(r)})
	}
	return &StringObject{Value: buf.Bytes()}
}

// Write implements PdfObject.
func (s *StringObject) Write(w io.Writer) error {
	if s.IsHex {
		_, err := fmt.Fprintf(w, "<%s>", hex.EncodeToString(s.Value))
		return err
	}

	var buf bytes.Buffer
	buf.WriteByte('(')
	for _, b := range s.Value {
		switch b {
		case '\\', '(', ')':
			buf.WriteByte('\\')
			buf.WriteByte(b)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		default:
			if b < 32 || b > 126 {
				fmt.Fprintf(&buf, "\\%03o", b)
			} else {
				buf.WriteByte(b)
			}
		}
	}
	buf.WriteByte(')')
	_, err := w.Write(buf.Bytes())
	return err
}

// ArrayObject is a PDF array.
type ArrayObject []PdfObject

// Write implements PdfObject.
func (a ArrayObject) Write(w io.Writer) error {
	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}
	for i, item := range a {
		if i > 0 {
			if _, err := io.WriteString(w, " "); err != nil {
				return err
			}
		}
		if err := item.Write(w); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]")
	return err
}

// DictionaryObject is a PDF dictionary. Keys are written in insertion
// order.
type DictionaryObject struct {
	entries map[string]PdfObject
	order   []string
}

// NewDictionary creates an empty dictionary.
func NewDictionary() *DictionaryObject {
	return &DictionaryObject{entries: make(map[string]PdfObject)}
}

// Write implements PdfObject.
func (d *DictionaryObject) Write(w io.Writer) error {
	if _, err := io.WriteString(w, "<<"); err != nil {
		return err
	}
	for _, key := range d.order {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		if err := NameObject(key).Write(w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, " "); err != nil {
			return err
		}
		if err := d.entries[key].Write(w); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n>>")
	return err
}

// Set sets a key, keeping the position of an existing key.
func (d *DictionaryObject) Set(key string, value PdfObject) {
	if _, exists := d.entries[key]; !exists {
		d.order = append(d.order, key)
	}
	d.entries[key] = value
}

// Get returns the value for a key, nil if absent.
func (d *DictionaryObject) Get(key string) PdfObject {
	return d.entries[key]
}

// GetArray returns an array value.
func (d *DictionaryObject) GetArray(key string) ArrayObject {
	arr, _ := d.entries[key].(ArrayObject)
	return arr
}

// GetDict returns a dictionary value.
func (d *DictionaryObject) GetDict(key string) *DictionaryObject {
	dict, _ := d.entries[key].(*DictionaryObject)
	return dict
}

// Has reports whether the key is present.
func (d *DictionaryObject) Has(key string) bool {
	_, exists := d.entries[key]
	return exists
}

// Keys returns the keys in insertion order.
func (d *DictionaryObject) Keys() []string {
	return d.order
}

// StreamObject is a dictionary followed by binary data.
type StreamObject struct {
	Dictionary *DictionaryObject
	Data       []byte
}

// NewStream creates an uncompressed stream.
func NewStream(dict *DictionaryObject, data []byte) *StreamObject {
	if dict == nil {
		dict = NewDictionary()
	}
	return &StreamObject{Dictionary: dict, Data: data}
}

// NewFlateStream creates a stream whose data is zlib compressed and marked
// with the FlateDecode filter.
func NewFlateStream(dict *DictionaryObject, data []byte) (*StreamObject, error) {
	encoded, err := filters.EncodeStream(data, []string{"FlateDecode"})
	if err != nil {
		return nil, err
	}
	s := NewStream(dict, encoded)
	s.Dictionary.Set("Filter", NameObject("FlateDecode"))
	return s, nil
}

// Filters returns the names of the stream filters, in decoding order.
func (s *StreamObject) Filters() []string {
	switch f := s.Dictionary.Get("Filter").(type) {
	case NameObject:
		return []string{string(f)}
	case ArrayObject:
		names := make([]string, 0, len(f))
		for _, item := range f {
			if n, ok := item.(NameObject); ok {
				names = append(names, string(n))
			}
		}
		return names
	}
	return nil
}

// Decode returns the stream data with its filters undone.
func (s *StreamObject) Decode() ([]byte, error) {
	return filters.DecodeStream(s.Data, s.Filters())
}

// Write implements PdfObject.
func (s *StreamObject) Write(w io.Writer) error {
	s.Dictionary.Set("Length", IntegerObject(len(s.Data)))
	if err := s.Dictionary.Write(w); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\nstream\n"); err != nil {
		return err
	}
	if _, err := w.Write(s.Data); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\nendstream")
	return err
}

// Rectangle is a PDF rectangle given by its lower-left and upper-right
// corners.
type Rectangle struct {
	LLX, LLY float64
	URX, URY float64
}

// PageBox returns the rectangle of a page of the given size in points.
func PageBox(width, height float64) *Rectangle {
	return &Rectangle{URX: width, URY: height}
}

// ToArray converts the rectangle to a PDF array.
func (r *Rectangle) ToArray() ArrayObject {
	return ArrayObject{
		RealObject(r.LLX),
		RealObject(r.LLY),
		RealObject(r.URX),
		RealObject(r.URY),
	}
}

// Width returns the rectangle width.
func (r *Rectangle) Width() float64 {
	return r.URX - r.LLX
}

// Height returns the rectangle height.
func (r *Rectangle) Height() float64 {
	return r.URY - r.LLY
}

// ComputeFileID derives a 16 byte file identifier from document
// parameters. Keys are hashed in sorted order.
func ComputeFileID(info map[string]string) []byte {
	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h, _ := blake2b.New(16, nil)
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(info[k]))
		h.Write([]byte{0})
	}
	return h.Sum(nil)
}
