package catalog

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/georgepadayatti/labelguides/grid"
	"github.com/georgepadayatti/labelguides/layout"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("built-in presets do not parse: %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("built-in catalog is empty")
	}
	again, _ := Default()
	if again != c {
		t.Error("Default() should return the same catalog every time")
	}

	ids := c.IDs()
	if len(ids) != c.Len() {
		t.Errorf("IDs() returned %d ids for %d presets", len(ids), c.Len())
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] > ids[i] {
			t.Errorf("IDs() not sorted: %q before %q", ids[i-1], ids[i])
		}
	}
}

func TestResolveSquareLabels(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Resolve("LP35_37SQ")
	if err != nil {
		t.Fatal(err)
	}
	want := grid.Spec{
		Unit:   layout.Mm,
		Page:   layout.Named("a4"),
		Margin: grid.Point{X: 8.5, Y: 13},
		Size:   grid.Point{X: 37, Y: 37},
		Pitch:  grid.Point{X: 39, Y: 39},
		Count:  grid.Count{X: 5, Y: 7},
		Shape:  grid.ShapeRoundedRect,
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("Resolve(LP35_37SQ) (-want +got):\n%s", d)
	}
}

func TestResolveThenGuides(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	spec, err := c.Resolve("L7160")
	if err != nil {
		t.Fatal(err)
	}
	g, err := grid.ComputeGuides(spec, 297, 0)
	if err != nil {
		t.Fatal(err)
	}
	for k := 0; k < spec.Count.X; k++ {
		left := spec.Margin.X + float64(k)*spec.Pitch.X
		if math.Abs(g.Vertical[2*k]-left) > 1e-9 || math.Abs(g.Vertical[2*k+1]-left-spec.Size.X) > 1e-9 {
			t.Errorf("column %d = %v, want [%g %g]", k, g.Vertical[2*k:2*k+2], left, left+spec.Size.X)
		}
	}
}

func TestLookup(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	p, err := c.Lookup("l7160")
	if err != nil {
		t.Fatalf("case-insensitive lookup failed: %v", err)
	}
	if p.ID != "L7160" || p.Family != Regular {
		t.Errorf("Lookup(l7160) = %+v", p)
	}

	p, err = c.Lookup("5160")
	if err != nil {
		t.Fatal(err)
	}
	if p.Spec.Unit != layout.In || p.Spec.Page.Name != "letter" {
		t.Errorf("5160 = %+v", p.Spec)
	}

	_, err = c.Lookup("XYZZY")
	if !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("Expected ErrUnknownPreset, got %v", err)
	}
	var perr *UnknownPresetError
	if !errors.As(err, &perr) || perr.ID != "XYZZY" {
		t.Errorf("Expected *UnknownPresetError for XYZZY, got %v", err)
	}
	if _, err := c.Resolve("XYZZY"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("Resolve: expected ErrUnknownPreset, got %v", err)
	}
}

func TestPageForms(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	ship, err := c.Resolve("SHIP_4x6")
	if err != nil {
		t.Fatal(err)
	}
	ps, err := ship.PageDimensions()
	if err != nil {
		t.Fatal(err)
	}
	if *ps != (layout.PageSize{Width: 4, Height: 6, Unit: layout.In}) {
		t.Errorf("explicit page = %v", *ps)
	}

	roll, err := c.Resolve("DK-11209")
	if err != nil {
		t.Fatal(err)
	}
	if roll.Page != nil {
		t.Errorf("roll labels should leave the page alone, got %v", roll.Page)
	}
}

func TestAllPresetsFitTheirPage(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range c.Presets() {
		ps, err := p.Spec.PageDimensions()
		if err != nil {
			t.Errorf("%s: %v", p.ID, err)
			continue
		}
		if ps == nil {
			continue
		}
		page, err := ps.In(p.Spec.Unit)
		if err != nil {
			t.Errorf("%s: %v", p.ID, err)
			continue
		}
		s := p.Spec
		right := s.Margin.X + float64(s.Count.X-1)*s.Pitch.X + s.Size.X
		bottom := s.Margin.Y + float64(s.Count.Y-1)*s.Pitch.Y + s.Size.Y
		const slack = 1e-6
		if right > page.Width+slack {
			t.Errorf("%s: labels end at x=%g beyond page width %g", p.ID, right, page.Width)
		}
		if bottom > page.Height+slack {
			t.Errorf("%s: labels end at y=%g beyond page height %g", p.ID, bottom, page.Height)
		}
	}
}

func TestParseRejectsBadCatalogs(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  error
	}{
		{
			name: "unknown family",
			yaml: `
presets:
  - {id: A, family: staggered, unit: mm, margin: [0, 0], size: [1, 1], pitch: [1, 1], count: [1, 1], shape: rect}
`,
			err: ErrUnsupportedFamily,
		},
		{
			name: "duplicate id",
			yaml: `
presets:
  - {id: A, family: reg, unit: mm, margin: [0, 0], size: [1, 1], pitch: [1, 1], count: [1, 1], shape: rect}
  - {id: A, family: reg, unit: mm, margin: [0, 0], size: [1, 1], pitch: [1, 1], count: [1, 1], shape: rect}
`,
			err: ErrDuplicatePreset,
		},
		{
			name: "unknown unit",
			yaml: `
presets:
  - {id: A, family: reg, unit: ell, margin: [0, 0], size: [1, 1], pitch: [1, 1], count: [1, 1], shape: rect}
`,
			err: layout.ErrUnknownUnit,
		},
		{
			name: "unknown page",
			yaml: `
presets:
  - {id: A, family: reg, unit: mm, page: a99, margin: [0, 0], size: [1, 1], pitch: [1, 1], count: [1, 1], shape: rect}
`,
			err: layout.ErrUnknownPageSize,
		},
		{
			name: "overlapping labels",
			yaml: `
presets:
  - {id: A, family: reg, unit: mm, margin: [0, 0], size: [2, 1], pitch: [1, 1], count: [1, 1], shape: rect}
`,
			err: grid.ErrInvalidGridParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, tt.err) {
				t.Errorf("Parse() error = %v, want %v", err, tt.err)
			}
		})
	}

	if _, err := Parse([]byte("presets: [")); err == nil {
		t.Error("Expected error for malformed YAML")
	}
	if _, err := Parse([]byte("presets:\n  - {id: A, family: reg, unit: mm, page: [1, 2, 3]}\n")); err == nil {
		t.Error("Expected error for three-element page")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	data, err := Marshal(c.Presets())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "margin: [8.5, 13]") {
		t.Errorf("pairs should be written in flow style:\n%s", data)
	}

	again, err := Parse(data)
	if err != nil {
		t.Fatalf("marshalled catalog does not parse: %v", err)
	}
	if d := cmp.Diff(c.Presets(), again.Presets()); d != "" {
		t.Errorf("round trip changed presets (-want +got):\n%s", d)
	}
}

func TestUnknownShapeIsKept(t *testing.T) {
	c, err := Parse([]byte(`
presets:
  - {id: HEX, family: reg, unit: mm, margin: [0, 0], size: [10, 10], pitch: [12, 12], count: [2, 2], shape: hexagon}
`))
	if err != nil {
		t.Fatal(err)
	}
	spec, err := c.Resolve("HEX")
	if err != nil {
		t.Fatal(err)
	}
	if spec.Shape.Drawable() || spec.Shape.Token != "hexagon" {
		t.Errorf("shape = %+v", spec.Shape)
	}
}
