package generic

import (
	"bytes"
	"testing"
)

func render(t *testing.T, obj PdfObject) string {
	t.Helper()
	var buf bytes.Buffer
	if err := obj.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	return buf.String()
}

func TestScalars(t *testing.T) {
	tests := []struct {
		obj      PdfObject
		expected string
	}{
		{BooleanObject(true), "true"},
		{IntegerObject(-42), "-42"},
		{RealObject(8.5), "8.5"},
		{RealObject(24.094488188976378), "24.0945"},
		{RealObject(-0.00001), "0"},
		{RealObject(595.2756), "595.2756"},
		{NameObject("Type"), "/Type"},
		{NameObject("A B#"), "/A#20B#23"},
		{Reference{ObjectNumber: 12}, "12 0 R"},
	}

	for _, tt := range tests {
		if got := render(t, tt.obj); got != tt.expected {
			t.Errorf("Expected %q, got %q", tt.expected, got)
		}
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		name     string
		obj      *StringObject
		expected string
	}{
		{"literal", NewLiteralString("Labels (A4)"), `(Labels \(A4\))`},
		{"newline", NewLiteralString("a\nb"), `(a\nb)`},
		{"hex", NewHexString([]byte{0xDE, 0xAD}), "<dead>"},
		{"latin1", NewTextString("37×37"), `(37\32737)`},
		{"utf16", NewTextString("Ω"), `(\376\377\003\251)`},
	}

	for _, tt := range tests {
		if got := render(t, tt.obj); got != tt.expected {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.expected, got)
		}
	}
}

func TestDictionaryOrder(t *testing.T) {
	d := NewDictionary()
	d.Set("Type", NameObject("OCG"))
	d.Set("Name", NewTextString("Guides"))
	d.Set("Type", NameObject("Page"))

	expected := "<<\n/Type /Page\n/Name (Guides)\n>>"
	if got := render(t, d); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
	if !d.Has("Name") || d.Has("Kids") {
		t.Error("Has returned the wrong result")
	}
	if d.GetArray("Type") != nil {
		t.Error("Expected nil array for a name entry")
	}
}

func TestIndirectObject(t *testing.T) {
	obj := NewIndirectObject(3, 0, ArrayObject{IntegerObject(1), RealObject(0.5)})
	expected := "3 0 obj\n[1 0.5]\nendobj\n"
	if got := render(t, obj); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestFlateStream(t *testing.T) {
	data := bytes.Repeat([]byte("0 0 m 10 10 l S\n"), 50)
	s, err := NewFlateStream(nil, data)
	if err != nil {
		t.Fatalf("NewFlateStream failed: %v", err)
	}
	if len(s.Data) >= len(data) {
		t.Errorf("Expected compressed data, got %d bytes for %d", len(s.Data), len(data))
	}

	decoded, err := s.Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Error("Decoded data does not match")
	}

	out := render(t, s)
	if !bytes.Contains([]byte(out), []byte("/Filter /FlateDecode")) {
		t.Errorf("Expected filter entry in %q", out[:40])
	}
}

func TestStreamFilters(t *testing.T) {
	s := NewStream(nil, []byte("x"))
	if f := s.Filters(); len(f) != 0 {
		t.Errorf("Expected no filters, got %v", f)
	}
	s.Dictionary.Set("Filter", ArrayObject{NameObject("Fl"), NameObject("FlateDecode")})
	if f := s.Filters(); len(f) != 2 || f[0] != "Fl" || f[1] != "FlateDecode" {
		t.Errorf("Unexpected filters %v", f)
	}
	s.Dictionary.Set("Filter", NameObject("DCTDecode"))
	if _, err := s.Decode(); err == nil {
		t.Error("Expected an error for an unsupported filter")
	}
}

func TestPlainStream(t *testing.T) {
	s := NewStream(nil, []byte("q Q"))
	expected := "<<\n/Length 3\n>>\nstream\nq Q\nendstream"
	if got := render(t, s); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
	decoded, err := s.Decode()
	if err != nil || string(decoded) != "q Q" {
		t.Errorf("Expected raw data back, got %q (%v)", decoded, err)
	}
}

func TestPageBox(t *testing.T) {
	r := PageBox(595.2756, 841.8898)
	if r.Width() != 595.2756 || r.Height() != 841.8898 {
		t.Errorf("Unexpected size %vx%v", r.Width(), r.Height())
	}
	if got := render(t, r.ToArray()); got != "[0 0 595.2756 841.8898]" {
		t.Errorf("Unexpected array %q", got)
	}
}

func TestComputeFileID(t *testing.T) {
	a := ComputeFileID(map[string]string{"preset": "L7160", "version": "1.7"})
	b := ComputeFileID(map[string]string{"version": "1.7", "preset": "L7160"})
	c := ComputeFileID(map[string]string{"preset": "L7161", "version": "1.7"})

	if len(a) != 16 {
		t.Errorf("Expected 16 byte ID, got %d", len(a))
	}
	if !bytes.Equal(a, b) {
		t.Error("Expected ID to be independent of map order")
	}
	if bytes.Equal(a, c) {
		t.Error("Expected different IDs for different inputs")
	}
}
