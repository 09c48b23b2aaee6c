package layout

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownPageSize is returned (wrapped) for unrecognised paper names.
var ErrUnknownPageSize = errors.New("unknown page size")

// UnknownPageSizeError reports a paper name missing from the paper table.
type UnknownPageSizeError struct {
	Name string
}

func (e *UnknownPageSizeError) Error() string {
	return fmt.Sprintf("unknown page size %q", e.Name)
}

func (e *UnknownPageSizeError) Unwrap() error {
	return ErrUnknownPageSize
}

// PageSize is a physical page size in its own unit.
type PageSize struct {
	Width  float64
	Height float64
	Unit   Unit
}

// Standard paper sizes, portrait.
var (
	A0 = PageSize{841, 1189, Mm}
	A1 = PageSize{594, 841, Mm}
	A2 = PageSize{420, 594, Mm}
	A3 = PageSize{297, 420, Mm}
	A4 = PageSize{210, 297, Mm}
	A5 = PageSize{148, 210, Mm}
	A6 = PageSize{105, 148, Mm}

	B4 = PageSize{250, 353, Mm}
	B5 = PageSize{176, 250, Mm}

	C5 = PageSize{162, 229, Mm}

	Letter    = PageSize{8.5, 11, In}
	Legal     = PageSize{8.5, 14, In}
	Tabloid   = PageSize{11, 17, In}
	Executive = PageSize{7.25, 10.5, In}
)

var paperSizes = map[string]PageSize{
	"a0":  A0,
	"a1":  A1,
	"a2":  A2,
	"a3":  A3,
	"a4":  A4,
	"a5":  A5,
	"a6":  A6,
	"a7":  {74, 105, Mm},
	"a8":  {52, 74, Mm},
	"a9":  {37, 52, Mm},
	"a10": {26, 37, Mm},

	"b0": {1000, 1414, Mm},
	"b1": {707, 1000, Mm},
	"b2": {500, 707, Mm},
	"b3": {353, 500, Mm},
	"b4": B4,
	"b5": B5,
	"b6": {125, 176, Mm},

	"c4": {229, 324, Mm},
	"c5": C5,
	"c6": {114, 162, Mm},

	"letter":      Letter,
	"legal":       Legal,
	"tabloid":     Tabloid,
	"ledger":      {17, 11, In},
	"executive":   Executive,
	"half-letter": {5.5, 8.5, In},
}

// LookupPageSize returns the size of a named paper format such as "a4" or
// "letter". Names are case-insensitive.
func LookupPageSize(name string) (PageSize, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if ps, ok := paperSizes[key]; ok {
		return ps, nil
	}
	return PageSize{}, &UnknownPageSizeError{Name: name}
}

// PageSizeNames returns the sorted list of known paper names.
func PageSizeNames() []string {
	names := make([]string, 0, len(paperSizes))
	for k := range paperSizes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Landscape returns the page size in landscape orientation.
func (p PageSize) Landscape() PageSize {
	if p.Width < p.Height {
		return PageSize{p.Height, p.Width, p.Unit}
	}
	return p
}

// Portrait returns the page size in portrait orientation.
func (p PageSize) Portrait() PageSize {
	if p.Width > p.Height {
		return PageSize{p.Height, p.Width, p.Unit}
	}
	return p
}

// IsLandscape returns true if width > height.
func (p PageSize) IsLandscape() bool {
	return p.Width > p.Height
}

// In returns the page size converted to another unit.
func (p PageSize) In(unit Unit) (PageSize, error) {
	w, err := ToPoints(p.Width, p.Unit)
	if err != nil {
		return PageSize{}, err
	}
	h, _ := ToPoints(p.Height, p.Unit)
	if w, err = FromPoints(w, unit); err != nil {
		return PageSize{}, err
	}
	h, _ = FromPoints(h, unit)
	return PageSize{w, h, unit}, nil
}

// PageSpec is a page size as declared by a label sheet: either a paper name
// or an explicit width and height in the sheet's unit.
type PageSpec struct {
	Name   string
	Width  float64
	Height float64
}

// Named returns a PageSpec for a paper name.
func Named(name string) *PageSpec {
	return &PageSpec{Name: name}
}

// Explicit returns a PageSpec with explicit dimensions.
func Explicit(width, height float64) *PageSpec {
	return &PageSpec{Width: width, Height: height}
}

func (p *PageSpec) String() string {
	if p == nil {
		return "unchanged"
	}
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("%gx%g", p.Width, p.Height)
}

// ResolvePageSize resolves the declared page of a sheet whose lengths are in
// unit. A nil spec resolves to nil, which means the page is left alone.
func ResolvePageSize(spec *PageSpec, unit Unit) (*PageSize, error) {
	if spec == nil {
		return nil, nil
	}
	if spec.Name != "" {
		ps, err := LookupPageSize(spec.Name)
		if err != nil {
			return nil, err
		}
		return &ps, nil
	}
	if !unit.Valid() {
		return nil, &UnknownUnitError{Unit: string(unit)}
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("page size %s: dimensions must be positive", spec)
	}
	return &PageSize{Width: spec.Width, Height: spec.Height, Unit: unit}, nil
}
