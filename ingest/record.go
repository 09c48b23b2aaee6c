package ingest

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/georgepadayatti/labelguides/catalog"
	"github.com/georgepadayatti/labelguides/grid"
	"github.com/georgepadayatti/labelguides/layout"
)

// ErrUnknownKind is returned for template list kinds the vendor does not
// publish.
var ErrUnknownKind = errors.New("unknown template kind")

// ErrNoLayout is returned when a record has not been scraped from its
// template page yet.
var ErrNoLayout = errors.New("record has no layout")

// Kind is a vendor template list page and the shape of its labels.
type Kind struct {
	Token string
	Page  string
	Shape string
}

var kinds = []Kind{
	{Token: "rrect", Page: "rectangular-rounded-corners", Shape: "rrect"},
	{Token: "rect", Page: "rectangular-square-corners", Shape: "rect"},
	{Token: "circ", Page: "round", Shape: "circle"},
	{Token: "oval", Page: "oval", Shape: "circle"},
	{Token: "square", Page: "square", Shape: "rrect"},
}

// ParseKind returns the kind for a command line token.
func ParseKind(token string) (Kind, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	for _, k := range kinds {
		if k.Token == t {
			return k, nil
		}
	}
	return Kind{}, fmt.Errorf("%w %q (want one of %s)", ErrUnknownKind, token, strings.Join(KindTokens(), ", "))
}

// KindTokens returns the accepted kind tokens, sorted.
func KindTokens() []string {
	out := make([]string, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, k.Token)
	}
	sort.Strings(out)
	return out
}

// Record is one product of a template list page.
type Record struct {
	// Size is the label size as printed in the list, one part per axis.
	Size       []string
	AveryCode  string
	VendorCode string
	PerSheet   int
	Shape      string
	Link       string

	// Filled in from the template page.
	Description string
	Layout      *Layout
}

// ID returns the preset ID: the Avery code if there is one, otherwise the
// vendor code made safe for use as an identifier.
func (r Record) ID() string {
	if r.AveryCode != "" {
		return r.AveryCode
	}
	return strings.ReplaceAll(r.VendorCode, "/", "_")
}

func (r Record) title() string {
	desc := r.Description
	if desc == "" {
		desc = "Labels"
	}
	return fmt.Sprintf("%smm %s (%d/sheet, A4)", strings.Join(r.Size, " x "), desc, r.PerSheet)
}

// MenuEntry returns the one line summary shown in preset menus.
func (r Record) MenuEntry() string {
	codes := make([]string, 0, 2)
	if r.AveryCode != "" {
		codes = append(codes, r.AveryCode)
	}
	codes = append(codes, r.VendorCode)
	return fmt.Sprintf("%s [%s]", r.title(), strings.Join(codes, ", "))
}

// Preset converts a scraped record to an A4 millimetre catalog preset.
func (r Record) Preset() (catalog.Preset, error) {
	if r.Layout == nil {
		return catalog.Preset{}, fmt.Errorf("%s: %w", r.ID(), ErrNoLayout)
	}
	l := r.Layout
	var vals [6]float64
	for i, s := range []string{l.MarginL, l.MarginT, l.SizeX, l.SizeY, l.PitchX, l.PitchY} {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return catalog.Preset{}, fmt.Errorf("%s: %w: %q is not a length", r.ID(), ErrInvalidCell, s)
		}
		vals[i] = v
	}
	spec := grid.Spec{
		Unit:   layout.Mm,
		Page:   layout.Named("a4"),
		Margin: grid.Point{X: vals[0], Y: vals[1]},
		Size:   grid.Point{X: vals[2], Y: vals[3]},
		Pitch:  grid.Point{X: vals[4], Y: vals[5]},
		Count:  grid.Count{X: l.CountX, Y: l.CountY},
		Shape:  grid.ParseShape(r.Shape),
	}
	if err := spec.Validate(); err != nil {
		return catalog.Preset{}, fmt.Errorf("%s: %w", r.ID(), err)
	}
	return catalog.Preset{
		ID:          r.ID(),
		Description: r.title(),
		Family:      catalog.Regular,
		Spec:        spec,
	}, nil
}
