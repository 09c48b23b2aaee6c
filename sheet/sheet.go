// Package sheet runs one layout pass of a label grid onto a document
// surface.
//
// A pass resolves the grid from a preset or from custom options, checks
// every parameter, optionally resizes the page and then emits guides and
// label outlines. Nothing is emitted when any check fails.
package sheet

import (
	"fmt"
	"log/slog"

	"github.com/georgepadayatti/labelguides/catalog"
	"github.com/georgepadayatti/labelguides/config"
	"github.com/georgepadayatti/labelguides/grid"
	"github.com/georgepadayatti/labelguides/layout"
)

// ShapesLayerID and ShapesLayerLabel name the layer holding label outlines.
const (
	ShapesLayerID    = "labels"
	ShapesLayerLabel = "Labels"
)

// Layer is a group of shapes created by a Surface.
type Layer interface {
	ID() string
}

// Style is the look of emitted outlines. StrokeWidth is in internal units.
type Style struct {
	Stroke      string
	Fill        string
	StrokeWidth float64
}

// Surface is a document that accepts guides and shapes.
//
// Guide coordinates are in guide space (origin bottom-left, y up); shape
// coordinates are in drawing space (origin top-left, y down). Both use the
// internal unit of the surface, as described by Converter.
type Surface interface {
	Converter() layout.Converter
	PageHeight() float64
	SetPageSize(width, height float64, unit layout.Unit) error
	DeleteAllGuides()
	CreateGuide(x, y float64, axis grid.Axis, color string)
	CreateLayer(id, label string) Layer
	CreateShape(layer Layer, p grid.Primitive, style Style)
}

// Result describes what a pass computed.
type Result struct {
	// Spec is the physical spec that was applied.
	Spec grid.Spec
	// Internal is Spec converted to the internal unit of the surface.
	Internal grid.Spec
	// Page is the page size applied to the surface, nil when the page was
	// left alone.
	Page *layout.PageSize

	Edge   grid.GuideSet
	Inset  grid.GuideSet
	Shapes []grid.Primitive
}

// Pass applies options to surfaces.
type Pass struct {
	// Catalog resolves preset names. Nil uses catalog.Default.
	Catalog *catalog.Catalog
	// Logger receives debug records for each step. Nil uses slog.Default.
	Logger *slog.Logger
}

// Apply runs a pass with the default logger.
func Apply(s Surface, opts config.Options, cat *catalog.Catalog) (*Result, error) {
	p := &Pass{Catalog: cat}
	return p.Run(s, opts)
}

func (p *Pass) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// ResolveSpec returns the physical spec selected by opts.
func (p *Pass) ResolveSpec(opts config.Options) (grid.Spec, error) {
	if opts.IsCustom() {
		return opts.CustomSpec()
	}
	cat := p.Catalog
	if cat == nil {
		var err error
		if cat, err = catalog.Default(); err != nil {
			return grid.Spec{}, err
		}
	}
	return cat.Resolve(opts.Preset)
}

// Run validates opts, then resizes and draws on s.
func (p *Pass) Run(s Surface, opts config.Options) (*Result, error) {
	log := p.logger()

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	spec, err := p.ResolveSpec(opts)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	inset, err := insetIn(opts, spec.Unit)
	if err != nil {
		return nil, err
	}
	if err := spec.ValidateInset(inset); err != nil {
		return nil, err
	}
	page, err := spec.PageDimensions()
	if err != nil {
		return nil, err
	}
	log.Debug("resolved sheet",
		"preset", opts.Preset,
		"unit", spec.Unit,
		"page", spec.Page.String(),
		"count", fmt.Sprintf("%dx%d", spec.Count.X, spec.Count.Y),
		"shape", spec.Shape.String())

	// Everything that can fail is checked in the internal unit before the
	// surface is touched. The converter does not depend on the page size.
	conv := s.Converter()
	internal, err := spec.Convert(conv)
	if err != nil {
		return nil, err
	}
	internalInset, err := conv.ToInternal(inset, spec.Unit)
	if err != nil {
		return nil, err
	}
	if err := internal.Validate(); err != nil {
		return nil, err
	}
	if err := internal.ValidateInset(internalInset); err != nil {
		return nil, err
	}
	strokeWidth, err := conv.ToInternal(opts.Style.StrokeWidth, layout.Mm)
	if err != nil {
		return nil, err
	}
	style := Style{Stroke: opts.Style.Stroke, Fill: opts.Style.Fill, StrokeWidth: strokeWidth}

	res := &Result{Spec: spec, Internal: internal}
	if opts.ResizePage && page != nil {
		if err := s.SetPageSize(page.Width, page.Height, page.Unit); err != nil {
			return nil, fmt.Errorf("failed to resize page: %w", err)
		}
		res.Page = page
		log.Debug("resized page", "width", page.Width, "height", page.Height, "unit", page.Unit)
	}
	height := s.PageHeight()

	if res.Edge, err = grid.ComputeGuides(internal, height, 0); err != nil {
		return nil, err
	}
	if res.Inset, err = grid.ComputeGuides(internal, height, internalInset); err != nil {
		return nil, err
	}
	res.Shapes = grid.ShapesFromGuides(res.Edge, internal.Shape, internal.CornerRadius, height)

	log.Debug("computed sheet",
		"page_height", height,
		"per_point", conv.PerPoint(),
		"edge_guides", res.Edge.Len(),
		"inset_guides", res.Inset.Len(),
		"shapes", len(res.Shapes))

	if opts.DeleteExistingGuides {
		s.DeleteAllGuides()
		log.Debug("deleted existing guides")
	}
	if opts.DrawEdgeGuides {
		emitGuides(s, res.Edge, opts.EdgeGuideColor)
	}
	if opts.DrawInsetGuides {
		emitGuides(s, res.Inset, opts.InsetGuideColor)
	}
	if opts.DrawShapes {
		if len(res.Shapes) == 0 {
			log.Debug("no shapes to draw", "shape", spec.Shape.String())
		} else {
			layer := s.CreateLayer(ShapesLayerID, ShapesLayerLabel)
			for _, prim := range res.Shapes {
				s.CreateShape(layer, prim, style)
			}
		}
	}
	return res, nil
}

func emitGuides(s Surface, g grid.GuideSet, color string) {
	for _, x := range g.Vertical {
		s.CreateGuide(x, 0, grid.Vertical, color)
	}
	for _, y := range g.Horizontal {
		s.CreateGuide(0, y, grid.Horizontal, color)
	}
}

// insetIn expresses the option inset, given in the option unit, in unit.
// The inset is zero unless inset guides are drawn.
func insetIn(opts config.Options, unit layout.Unit) (float64, error) {
	if !opts.DrawInsetGuides {
		return 0, nil
	}
	from, err := layout.ParseUnit(opts.Unit)
	if err != nil {
		return 0, err
	}
	if from == unit || opts.Inset == 0 {
		return opts.Inset, nil
	}
	pts, err := layout.ToPoints(opts.Inset, from)
	if err != nil {
		return 0, err
	}
	return layout.FromPoints(pts, unit)
}
