package sink

import (
	"encoding/json"

	"github.com/matzehuels/pinmap/pkg/geometry"
	"github.com/matzehuels/pinmap/pkg/render"
)

type jsonOutput struct {
	Title    string            `json:"title,omitempty"`
	Width    float64           `json:"width"`
	Height   float64           `json:"height"`
	Geometry geometry.Snapshot `json:"geometry"`
	Scale    float64           `json:"scale"`
	Image    string            `json:"image,omitempty"`
	Icons    []jsonIcon        `json:"icons"`
}

type jsonIcon struct {
	ID          string  `json:"id"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Size        float64 `json:"size"`
	Z           int     `json:"z"`
	Variant     string  `json:"variant"`
	Emoji       string  `json:"emoji,omitempty"`
	Image       string  `json:"image,omitempty"`
}

// RenderJSON exports the scene's geometry and placements.
func RenderJSON(s render.Scene) ([]byte, error) {
	w, h := s.Size()
	out := jsonOutput{
		Title:    s.Title,
		Width:    w,
		Height:   h,
		Geometry: s.Geometry,
		Scale:    s.Scale,
		Image:    s.ImageHref,
		Icons:    make([]jsonIcon, 0, len(s.Placements)),
	}
	for _, it := range s.Items() {
		ji := jsonIcon{
			ID:          it.IconID,
			Title:       it.Icon.Title,
			Description: it.Icon.Description,
			X:           it.X,
			Y:           it.Y,
			Size:        it.Size,
			Z:           it.Z,
			Variant:     string(it.Icon.Variant),
			Emoji:       it.Icon.Emoji,
		}
		if it.Icon.Image != "" {
			ji.Image = s.IconHref(it.Icon)
		}
		out.Icons = append(out.Icons, ji)
	}
	return json.MarshalIndent(out, "", "  ")
}
