package viewport

import "github.com/matzehuels/pinmap/pkg/geometry"

// Transformed is an element rendered under a pan/zoom transform. Scaling
// is about the container's center; the pan offset, when the adapter has
// one, is applied after scaling.
type Transformed struct {
	Inner     geometry.Element
	Container geometry.Element
	Adapter   Adapter
}

// Bounds implements geometry.Element.
func (t Transformed) Bounds() geometry.Rect {
	r := t.Inner.Bounds()
	if t.Adapter == nil {
		return r
	}
	s := t.Adapter.Scale()
	var cx, cy float64
	if t.Container != nil {
		c := t.Container.Bounds()
		cx, cy = c.X+c.W/2, c.Y+c.H/2
	}
	var px, py float64
	if p, ok := t.Adapter.(interface{ Offset() (float64, float64) }); ok {
		px, py = p.Offset()
	}
	return geometry.Rect{
		X: cx + (r.X-cx)*s + px,
		Y: cy + (r.Y-cy)*s + py,
		W: r.W * s,
		H: r.H * s,
	}
}

// Follow keeps obs current with the adapter: every scale change refreshes
// the observation. The returned func releases the subscription.
func Follow(a Adapter, obs *geometry.Observation) (release func()) {
	return a.OnScaleChange(func(float64) { obs.Refresh() })
}
