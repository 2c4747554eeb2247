package iconmap

import (
	"math"

	"github.com/matzehuels/pinmap/pkg/geometry"
)

// Placement is the pixel position of one icon for one geometry snapshot.
// X and Y are the icon's center relative to the container's top-left
// corner. Placements are derived values and are never stored.
type Placement struct {
	IconID string  `json:"icon_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Size   float64 `json:"size"`
	Z      int     `json:"z"`
}

// Layout places every icon of set against g. Icon sizes are multiplied by
// scale; a non-positive or non-finite scale is treated as 1. Stacking order
// follows insertion order starting at zBase.
func Layout(set *Set, g geometry.Snapshot, scale float64, zBase int) []Placement {
	if !(scale > 0) || math.IsInf(scale, 1) {
		scale = 1
	}
	icons := set.Icons()
	out := make([]Placement, len(icons))
	for i, ic := range icons {
		out[i] = Placement{
			IconID: ic.ID,
			X:      g.ImageOffsetX + ic.X/100*g.ImageWidth,
			Y:      g.ImageOffsetY + ic.Y/100*g.ImageHeight,
			Size:   ic.Size * scale,
			Z:      zBase + i,
		}
	}
	return out
}

// Contains reports whether the point lies within the icon's square,
// centered on its anchor.
func (p Placement) Contains(x, y float64) bool {
	half := p.Size / 2
	return math.Abs(x-p.X) <= half && math.Abs(y-p.Y) <= half
}

// HitTest returns the topmost placement containing the point.
func HitTest(placements []Placement, x, y float64) (Placement, bool) {
	var (
		hit   Placement
		found bool
	)
	for _, p := range placements {
		if p.Contains(x, y) && (!found || p.Z > hit.Z) {
			hit, found = p, true
		}
	}
	return hit, found
}
