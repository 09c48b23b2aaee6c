// Package filters provides the PDF stream filters used for page content.
package filters

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// Common errors
var (
	ErrUnsupportedFilter = errors.New("unsupported filter")
	ErrDecodeFailed      = errors.New("decode failed")
)

// Filter represents a PDF stream filter.
type Filter interface {
	// Decode decodes the data.
	Decode(data []byte) ([]byte, error)
	// Encode encodes the data.
	Encode(data []byte) ([]byte, error)
	// Name returns the filter name.
	Name() string
}

// FlateDecodeFilter implements the FlateDecode filter (zlib compression).
type FlateDecodeFilter struct {
	// Level is the zlib compression level. Zero selects
	// zlib.DefaultCompression.
	Level int
}

// Name implements Filter.
func (f *FlateDecodeFilter) Name() string {
	return "FlateDecode"
}

// Decode implements Filter.
func (f *FlateDecodeFilter) Decode(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	defer r.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	return buf.Bytes(), nil
}

// Encode implements Filter.
func (f *FlateDecodeFilter) Encode(data []byte) ([]byte, error) {
	level := f.Level
	if level == 0 {
		level = zlib.DefaultCompression
	}
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("flate encode failed: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("flate encode failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("flate encode failed: %w", err)
	}
	return buf.Bytes(), nil
}

// Registry holds all registered filters.
var Registry = map[string]Filter{
	"FlateDecode": &FlateDecodeFilter{},
	"Fl":          &FlateDecodeFilter{},
}

// GetFilter returns a filter by name.
func GetFilter(name string) (Filter, error) {
	if f, ok := Registry[name]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFilter, name)
}

// DecodeStream decodes stream data using the specified filters.
func DecodeStream(data []byte, filters []string) ([]byte, error) {
	result := data

	for _, filterName := range filters {
		filter, err := GetFilter(filterName)
		if err != nil {
			return nil, err
		}
		result, err = filter.Decode(result)
		if err != nil {
			return nil, fmt.Errorf("filter %s decode failed: %w", filterName, err)
		}
	}

	return result, nil
}

// EncodeStream encodes stream data using the specified filters.
func EncodeStream(data []byte, filters []string) ([]byte, error) {
	result := data

	// Apply filters in reverse order for encoding
	for i := len(filters) - 1; i >= 0; i-- {
		filterName := filters[i]
		filter, err := GetFilter(filterName)
		if err != nil {
			return nil, err
		}
		result, err = filter.Encode(result)
		if err != nil {
			return nil, fmt.Errorf("filter %s encode failed: %w", filterName, err)
		}
	}

	return result, nil
}
