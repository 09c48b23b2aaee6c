package ingest

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/georgepadayatti/labelguides/catalog"
	"github.com/georgepadayatti/labelguides/grid"
	"github.com/georgepadayatti/labelguides/layout"
)

func scrapedRecord() Record {
	return Record{
		Size:        []string{"63.5", "38.1"},
		AveryCode:   "L7160",
		VendorCode:  "LP21/63",
		PerSheet:    21,
		Shape:       "rrect",
		Link:        "https://example.com/lp21-63.php",
		Description: "Address Labels",
		Layout: &Layout{
			SizeX: "63.5", SizeY: "38.1",
			CountX: 3, CountY: 7,
			MarginT: "15.15", MarginL: "7.25",
			PitchX: "66.04", PitchY: "38.1",
		},
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		token string
		page  string
		shape string
	}{
		{"rrect", "rectangular-rounded-corners", "rrect"},
		{"rect", "rectangular-square-corners", "rect"},
		{"square", "square", "rrect"},
		{"circ", "round", "circle"},
		{" OVAL ", "oval", "circle"},
	}
	for _, tt := range tests {
		k, err := ParseKind(tt.token)
		if err != nil {
			t.Errorf("ParseKind(%q) failed: %v", tt.token, err)
			continue
		}
		if k.Page != tt.page || k.Shape != tt.shape {
			t.Errorf("ParseKind(%q) = %+v", tt.token, k)
		}
	}

	if _, err := ParseKind("hexagon"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
	if diff := cmp.Diff([]string{"circ", "oval", "rect", "rrect", "square"}, KindTokens()); diff != "" {
		t.Errorf("KindTokens mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordID(t *testing.T) {
	r := scrapedRecord()
	if r.ID() != "L7160" {
		t.Errorf("ID() = %q", r.ID())
	}
	r.AveryCode = ""
	if r.ID() != "LP21_63" {
		t.Errorf("ID() without Avery code = %q", r.ID())
	}
}

func TestRecordMenuEntry(t *testing.T) {
	r := scrapedRecord()
	want := "63.5 x 38.1mm Address Labels (21/sheet, A4) [L7160, LP21/63]"
	if got := r.MenuEntry(); got != want {
		t.Errorf("MenuEntry() = %q, want %q", got, want)
	}

	r.AveryCode = ""
	r.Description = ""
	want = "63.5 x 38.1mm Labels (21/sheet, A4) [LP21/63]"
	if got := r.MenuEntry(); got != want {
		t.Errorf("MenuEntry() = %q, want %q", got, want)
	}
}

func TestRecordPreset(t *testing.T) {
	p, err := scrapedRecord().Preset()
	if err != nil {
		t.Fatalf("Preset failed: %v", err)
	}
	want := catalog.Preset{
		ID:          "L7160",
		Description: "63.5 x 38.1mm Address Labels (21/sheet, A4)",
		Family:      catalog.Regular,
		Spec: grid.Spec{
			Unit:   layout.Mm,
			Page:   layout.Named("a4"),
			Margin: grid.Point{X: 7.25, Y: 15.15},
			Size:   grid.Point{X: 63.5, Y: 38.1},
			Pitch:  grid.Point{X: 66.04, Y: 38.1},
			Count:  grid.Count{X: 3, Y: 7},
			Shape:  grid.ShapeRoundedRect,
		},
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("preset mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordPresetErrors(t *testing.T) {
	r := scrapedRecord()
	r.Layout = nil
	if _, err := r.Preset(); !errors.Is(err, ErrNoLayout) {
		t.Errorf("expected ErrNoLayout, got %v", err)
	}

	r = scrapedRecord()
	r.Layout.PitchX = "60"
	if _, err := r.Preset(); !errors.Is(err, grid.ErrInvalidGridParameter) {
		t.Errorf("expected ErrInvalidGridParameter, got %v", err)
	}

	r = scrapedRecord()
	r.Layout.MarginL = "7,25"
	if _, err := r.Preset(); !errors.Is(err, ErrInvalidCell) {
		t.Errorf("expected ErrInvalidCell, got %v", err)
	}
}
