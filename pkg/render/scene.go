package render

import (
	"cmp"
	"slices"

	"github.com/matzehuels/pinmap/pkg/geometry"
	"github.com/matzehuels/pinmap/pkg/iconmap"
)

// Scene is a single laid-out frame of a map.
type Scene struct {
	Title      string
	Geometry   geometry.Snapshot
	Scale      float64
	Placements []iconmap.Placement
	Icons      *iconmap.Set

	// ImageHref is the reference written for the background image.
	ImageHref string

	// IconHrefs overrides the reference written for image icons, keyed by
	// icon ID. Icons not listed use their Image path.
	IconHrefs map[string]string
}

// Item pairs a placement with its icon.
type Item struct {
	iconmap.Placement
	Icon iconmap.Icon
}

// Items returns the placed icons in ascending stacking order. Placements
// whose icon is missing from the set are skipped.
func (s Scene) Items() []Item {
	items := make([]Item, 0, len(s.Placements))
	for _, p := range s.Placements {
		ic, ok := s.Icons.Get(p.IconID)
		if !ok {
			continue
		}
		items = append(items, Item{Placement: p, Icon: ic})
	}
	slices.SortStableFunc(items, func(a, b Item) int { return cmp.Compare(a.Z, b.Z) })
	return items
}

// IconHref returns the reference for an image icon.
func (s Scene) IconHref(ic iconmap.Icon) string {
	if h, ok := s.IconHrefs[ic.ID]; ok {
		return h
	}
	return ic.Image
}

// Size returns the canvas size: the container, or the image when the
// container was never measured.
func (s Scene) Size() (w, h float64) {
	g := s.Geometry
	w, h = g.ContainerWidth, g.ContainerHeight
	if w <= 0 || h <= 0 {
		w, h = g.ImageOffsetX+g.ImageWidth, g.ImageOffsetY+g.ImageHeight
	}
	return w, h
}
