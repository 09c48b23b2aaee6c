package filters

import (
	"bytes"
	"compress/zlib"
	"errors"
	"testing"
)

func TestFlateDecodeFilter(t *testing.T) {
	// Create compressed data
	original := []byte("q 0 w 0 0 1 RG 24.09 0 m 24.09 841.89 l S Q")

	var compressed bytes.Buffer
	w := zlib.NewWriter(&compressed)
	w.Write(original)
	w.Close()

	// Decode
	filter := &FlateDecodeFilter{}
	decoded, err := filter.Decode(compressed.Bytes())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if !bytes.Equal(decoded, original) {
		t.Errorf("Decoded data mismatch.\nExpected: %s\nGot: %s", original, decoded)
	}
}

func TestFlateEncodeFilter(t *testing.T) {
	original := bytes.Repeat([]byte("24.09 0 m 24.09 841.89 l "), 40)

	for _, level := range []int{0, zlib.BestSpeed, zlib.BestCompression} {
		filter := &FlateDecodeFilter{Level: level}
		encoded, err := filter.Encode(original)
		if err != nil {
			t.Fatalf("level %d: Encode failed: %v", level, err)
		}
		if len(encoded) >= len(original) {
			t.Errorf("level %d: no compression (%d >= %d)", level, len(encoded), len(original))
		}

		// Verify by decoding
		decoded, err := filter.Decode(encoded)
		if err != nil {
			t.Fatalf("level %d: Decode failed: %v", level, err)
		}
		if !bytes.Equal(decoded, original) {
			t.Errorf("level %d: round trip mismatch", level)
		}
	}

	if _, err := (&FlateDecodeFilter{Level: 42}).Encode(original); err == nil {
		t.Error("expected an error for an invalid level")
	}
}

func TestFlateDecodeCorrupt(t *testing.T) {
	_, err := (&FlateDecodeFilter{}).Decode([]byte("not zlib"))
	if !errors.Is(err, ErrDecodeFailed) {
		t.Errorf("expected ErrDecodeFailed, got %v", err)
	}
}

func TestGetFilter(t *testing.T) {
	for _, name := range []string{"FlateDecode", "Fl"} {
		f, err := GetFilter(name)
		if err != nil {
			t.Errorf("GetFilter(%s) failed: %v", name, err)
			continue
		}
		if f.Name() != "FlateDecode" {
			t.Errorf("GetFilter(%s).Name() = %s", name, f.Name())
		}
	}
}

func TestGetFilterUnknown(t *testing.T) {
	_, err := GetFilter("DCTDecode")
	if !errors.Is(err, ErrUnsupportedFilter) {
		t.Errorf("expected ErrUnsupportedFilter, got %v", err)
	}
}

func TestEncodeDecodeStream(t *testing.T) {
	original := []byte("BT /F1 12 Tf ET")

	encoded, err := EncodeStream(original, []string{"FlateDecode"})
	if err != nil {
		t.Fatalf("EncodeStream failed: %v", err)
	}
	decoded, err := DecodeStream(encoded, []string{"FlateDecode"})
	if err != nil {
		t.Fatalf("DecodeStream failed: %v", err)
	}
	if !bytes.Equal(decoded, original) {
		t.Errorf("round trip mismatch: %q", decoded)
	}

	// No filters leaves the data alone
	plain, err := DecodeStream(original, nil)
	if err != nil || !bytes.Equal(plain, original) {
		t.Errorf("DecodeStream without filters = %q, %v", plain, err)
	}

	if _, err := DecodeStream(original, []string{"LZWDecode"}); !errors.Is(err, ErrUnsupportedFilter) {
		t.Errorf("expected ErrUnsupportedFilter, got %v", err)
	}
}
