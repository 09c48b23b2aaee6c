package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/georgepadayatti/labelguides/grid"
	"github.com/georgepadayatti/labelguides/layout"
)

type document struct {
	Presets []entry `yaml:"presets"`
}

type entry struct {
	ID          string     `yaml:"id"`
	Description string     `yaml:"description,omitempty"`
	Family      string     `yaml:"family"`
	Unit        string     `yaml:"unit"`
	Page        *pageValue `yaml:"page,omitempty"`
	Margin      [2]float64 `yaml:"margin,flow"`
	Size        [2]float64 `yaml:"size,flow"`
	Pitch       [2]float64 `yaml:"pitch,flow"`
	Count       [2]int     `yaml:"count,flow"`
	Shape       string     `yaml:"shape"`
	Radius      float64    `yaml:"corner-radius,omitempty"`
}

// pageValue accepts a paper name or a [width, height] pair.
type pageValue layout.PageSpec

func (p *pageValue) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		return value.Decode(&p.Name)
	case yaml.SequenceNode:
		var wh []float64
		if err := value.Decode(&wh); err != nil {
			return err
		}
		if len(wh) != 2 {
			return fmt.Errorf("line %d: page needs [width, height], got %d values", value.Line, len(wh))
		}
		p.Width, p.Height = wh[0], wh[1]
		return nil
	case yaml.MappingNode:
		var wh struct {
			Width  float64 `yaml:"width"`
			Height float64 `yaml:"height"`
		}
		if err := value.Decode(&wh); err != nil {
			return err
		}
		p.Width, p.Height = wh.Width, wh.Height
		return nil
	}
	return fmt.Errorf("line %d: page must be a name or [width, height]", value.Line)
}

func (p pageValue) MarshalYAML() (any, error) {
	if p.Name != "" {
		return p.Name, nil
	}
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range []float64{p.Width, p.Height} {
		var item yaml.Node
		if err := item.Encode(v); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &item)
	}
	return n, nil
}

// Parse builds a catalog from a YAML preset document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}

	presets := make([]Preset, 0, len(doc.Presets))
	for _, e := range doc.Presets {
		p, err := e.preset()
		if err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return New(presets)
}

func (e entry) preset() (Preset, error) {
	unit, err := layout.ParseUnit(e.Unit)
	if err != nil {
		return Preset{}, fmt.Errorf("preset %s: %w", e.ID, err)
	}
	spec := grid.Spec{
		Unit:         unit,
		Margin:       grid.Point{X: e.Margin[0], Y: e.Margin[1]},
		Size:         grid.Point{X: e.Size[0], Y: e.Size[1]},
		Pitch:        grid.Point{X: e.Pitch[0], Y: e.Pitch[1]},
		Count:        grid.Count{X: e.Count[0], Y: e.Count[1]},
		Shape:        grid.ParseShape(e.Shape),
		CornerRadius: e.Radius,
	}
	if e.Page != nil {
		ps := layout.PageSpec(*e.Page)
		spec.Page = &ps
	}
	return Preset{
		ID:          e.ID,
		Description: e.Description,
		Family:      Family(e.Family),
		Spec:        spec,
	}, nil
}

func fromPreset(p Preset) entry {
	e := entry{
		ID:          p.ID,
		Description: p.Description,
		Family:      string(p.Family),
		Unit:        string(p.Spec.Unit),
		Margin:      [2]float64{p.Spec.Margin.X, p.Spec.Margin.Y},
		Size:        [2]float64{p.Spec.Size.X, p.Spec.Size.Y},
		Pitch:       [2]float64{p.Spec.Pitch.X, p.Spec.Pitch.Y},
		Count:       [2]int{p.Spec.Count.X, p.Spec.Count.Y},
		Shape:       p.Spec.Shape.Token,
		Radius:      p.Spec.CornerRadius,
	}
	if p.Spec.Page != nil {
		pv := pageValue(*p.Spec.Page)
		e.Page = &pv
	}
	return e
}

// Marshal renders presets as a YAML preset document that Parse accepts.
func Marshal(presets []Preset) ([]byte, error) {
	doc := document{Presets: make([]entry, 0, len(presets))}
	for _, p := range presets {
		doc.Presets = append(doc.Presets, fromPreset(p))
	}
	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal presets: %w", err)
	}
	return out, nil
}
