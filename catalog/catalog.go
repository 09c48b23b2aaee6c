// Package catalog holds the named label sheet presets.
//
// The built-in presets are parsed once from an embedded YAML document and
// never change afterwards. Lengths are stored in each preset's own unit so
// the catalog does not depend on the document it is applied to.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/georgepadayatti/labelguides/grid"
)

//go:embed presets.yaml
var builtinPresets []byte

// Common errors
var (
	ErrUnknownPreset     = errors.New("unknown preset")
	ErrUnsupportedFamily = errors.New("unsupported layout family")
	ErrDuplicatePreset   = errors.New("duplicate preset")
)

// UnknownPresetError reports a preset ID missing from the catalog.
type UnknownPresetError struct {
	ID string
}

func (e *UnknownPresetError) Error() string {
	return fmt.Sprintf("unknown preset %q", e.ID)
}

func (e *UnknownPresetError) Unwrap() error {
	return ErrUnknownPreset
}

// Family is the layout family of a preset.
type Family string

// Regular is a uniform grid: one label size, one pitch per axis.
const Regular Family = "reg"

// Preset is a named label sheet.
type Preset struct {
	ID          string
	Description string
	Family      Family
	Spec        grid.Spec
}

// Catalog is an immutable set of presets indexed by ID.
type Catalog struct {
	presets []Preset
	byID    map[string]int
	byFold  map[string]int
}

// New builds a catalog from presets. Every preset is validated.
func New(presets []Preset) (*Catalog, error) {
	c := &Catalog{
		presets: make([]Preset, 0, len(presets)),
		byID:    make(map[string]int, len(presets)),
		byFold:  make(map[string]int, len(presets)),
	}
	for _, p := range presets {
		if p.ID == "" {
			return nil, fmt.Errorf("preset without id")
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePreset, p.ID)
		}
		if p.Family != Regular {
			return nil, fmt.Errorf("preset %s: %w %q", p.ID, ErrUnsupportedFamily, p.Family)
		}
		if err := p.Spec.Validate(); err != nil {
			return nil, fmt.Errorf("preset %s: %w", p.ID, err)
		}
		if _, err := p.Spec.PageDimensions(); err != nil {
			return nil, fmt.Errorf("preset %s: %w", p.ID, err)
		}
		c.byID[p.ID] = len(c.presets)
		c.byFold[strings.ToLower(p.ID)] = len(c.presets)
		c.presets = append(c.presets, p)
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(builtinPresets)
	})
	return defaultCatalog, defaultErr
}

// Lookup returns the preset with the given ID. An exact match wins;
// otherwise IDs are compared case-insensitively.
func (c *Catalog) Lookup(id string) (Preset, error) {
	if i, ok := c.byID[id]; ok {
		return c.presets[i], nil
	}
	if i, ok := c.byFold[strings.ToLower(id)]; ok {
		return c.presets[i], nil
	}
	return Preset{}, &UnknownPresetError{ID: id}
}

// Resolve returns the grid parameters of a preset, in the preset's unit.
func (c *Catalog) Resolve(id string) (grid.Spec, error) {
	p, err := c.Lookup(id)
	if err != nil {
		return grid.Spec{}, err
	}
	return p.Spec, nil
}

// IDs returns the preset IDs in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.presets))
	for _, p := range c.presets {
		ids = append(ids, p.ID)
	}
	sort.Strings(ids)
	return ids
}

// Presets returns all presets sorted by ID.
func (c *Catalog) Presets() []Preset {
	out := make([]Preset, len(c.presets))
	copy(out, c.presets)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of presets.
func (c *Catalog) Len() int {
	return len(c.presets)
}
