package grid

// Axis is the orientation of a guide line.
type Axis int

const (
	// Vertical guides sit at a fixed x coordinate.
	Vertical Axis = iota
	// Horizontal guides sit at a fixed y coordinate.
	Horizontal
)

func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// GuideSet holds guide coordinates in guide space. Vertical holds one
// (left, right) pair per column, left to right. Horizontal holds one
// (top, bottom) pair per row, top row first.
type GuideSet struct {
	Vertical   []float64
	Horizontal []float64
}

// Len returns the total number of guides.
func (g GuideSet) Len() int {
	return len(g.Vertical) + len(g.Horizontal)
}

// ComputeGuides returns the guides of a spec whose lengths are already in
// internal units, on a page of the given height.
//
// With inset zero the guides follow the label edges. A positive inset moves
// every guide towards the centre of its label by that amount, marking the
// safe printing area. The spec and the inset are validated first and no
// guides are returned on error.
func ComputeGuides(spec Spec, pageHeight, inset float64) (GuideSet, error) {
	if err := spec.Validate(); err != nil {
		return GuideSet{}, err
	}
	if err := spec.ValidateInset(inset); err != nil {
		return GuideSet{}, err
	}

	g := GuideSet{
		Vertical:   make([]float64, 0, 2*spec.Count.X),
		Horizontal: make([]float64, 0, 2*spec.Count.Y),
	}

	// left to right
	x := spec.Margin.X
	for range spec.Count.X {
		g.Vertical = append(g.Vertical, x+inset, x+spec.Size.X-inset)
		x += spec.Pitch.X
	}

	// top to bottom, measured up from the bottom of the page
	y := pageHeight - spec.Margin.Y
	for range spec.Count.Y {
		g.Horizontal = append(g.Horizontal, y-inset, y-spec.Size.Y+inset)
		y -= spec.Pitch.Y
	}

	return g, nil
}
