package iconmap

import (
	"github.com/matzehuels/pinmap/pkg/geometry"
	"github.com/matzehuels/pinmap/pkg/scale"
)

// Frame is one consistent layout: the snapshot, the scale derived from it
// and the placements computed from both.
type Frame struct {
	Geometry   geometry.Snapshot `json:"geometry"`
	Scale      float64           `json:"scale"`
	Placements []Placement       `json:"placements"`
}

// Mapper recomputes placements whenever the geometry changes.
type Mapper struct {
	Set   *Set
	Scale scale.Engine
	ZBase int

	// OnLayout receives every recomputed frame. It runs synchronously
	// within the geometry callback.
	OnLayout func(Frame)
}

// Frame computes the layout for g without publishing it.
func (m *Mapper) Frame(g geometry.Snapshot) Frame {
	f := m.Scale.Factor(g.ContainerWidth)
	return Frame{
		Geometry:   g,
		Scale:      f,
		Placements: Layout(m.Set, g, f, m.ZBase),
	}
}

// Update recomputes the layout for g and publishes it.
func (m *Mapper) Update(g geometry.Snapshot) {
	fr := m.Frame(g)
	if m.OnLayout != nil {
		m.OnLayout(fr)
	}
}

// Observe starts a geometry observation that drives Update. The first
// frame is published before Observe returns. Stopping the observation
// stops layout updates.
func (m *Mapper) Observe(container, image geometry.Element) *geometry.Observation {
	return geometry.Observe(container, image, m.Update)
}
