package iconmap

import (
	"strings"

	"github.com/matzehuels/pinmap/pkg/errors"
)

// Variant selects how an icon is drawn.
type Variant string

const (
	VariantEmoji Variant = "emoji"
	VariantImage Variant = "image"
)

// ParseVariant parses a variant name. The empty string is VariantEmoji.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(VariantEmoji):
		return VariantEmoji, nil
	case string(VariantImage):
		return VariantImage, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidIcon, "unknown icon variant %q (want emoji or image)", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Variant) UnmarshalText(b []byte) error {
	parsed, err := ParseVariant(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Icon is a point of interest anchored to the image by percentage.
type Icon struct {
	ID          string  `json:"id" toml:"id" yaml:"id"`
	X           float64 `json:"x" toml:"x" yaml:"x"`
	Y           float64 `json:"y" toml:"y" yaml:"y"`
	Size        float64 `json:"size" toml:"size" yaml:"size"`
	Variant     Variant `json:"variant,omitempty" toml:"variant" yaml:"variant,omitempty"`
	Emoji       string  `json:"emoji,omitempty" toml:"emoji" yaml:"emoji,omitempty"`
	Image       string  `json:"image,omitempty" toml:"image" yaml:"image,omitempty"`
	Title       string  `json:"title,omitempty" toml:"title" yaml:"title,omitempty"`
	Description string  `json:"description,omitempty" toml:"description" yaml:"description,omitempty"`
	// Media is the ID of the media item the viewer opens at for this icon.
	Media string `json:"media,omitempty" toml:"media" yaml:"media,omitempty"`
}

// Validate checks the anchor range, size and variant payload.
func (ic Icon) Validate() error {
	if err := errors.ValidateIconID(ic.ID); err != nil {
		return err
	}
	if err := errors.ValidatePercent(ic.ID, "x", ic.X); err != nil {
		return err
	}
	if err := errors.ValidatePercent(ic.ID, "y", ic.Y); err != nil {
		return err
	}
	if err := errors.ValidateIconSize(ic.ID, ic.Size); err != nil {
		return err
	}
	switch ic.Variant {
	case VariantEmoji, "":
		if ic.Emoji == "" {
			return errors.New(errors.ErrCodeInvalidIcon, "icon %q: emoji variant needs an emoji", ic.ID)
		}
	case VariantImage:
		if ic.Image == "" {
			return errors.New(errors.ErrCodeInvalidIcon, "icon %q: image variant needs an image path", ic.ID)
		}
	default:
		return errors.New(errors.ErrCodeInvalidIcon, "icon %q: unknown variant %q", ic.ID, ic.Variant)
	}
	return nil
}

// Label returns the title, falling back to the ID.
func (ic Icon) Label() string {
	if ic.Title != "" {
		return ic.Title
	}
	return ic.ID
}

// Set is an insertion-ordered collection of icons keyed by ID.
// The zero value is an empty set ready to use.
type Set struct {
	order []string
	byID  map[string]Icon
}

// NewSet builds a set from icons in order. It stops at the first invalid
// or duplicate icon.
func NewSet(icons ...Icon) (*Set, error) {
	s := &Set{}
	for _, ic := range icons {
		if err := s.Add(ic); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add validates ic and appends it. An empty variant is stored as
// VariantEmoji.
func (s *Set) Add(ic Icon) error {
	if err := ic.Validate(); err != nil {
		return err
	}
	if _, ok := s.byID[ic.ID]; ok {
		return errors.New(errors.ErrCodeDuplicateIcon, "duplicate icon id %q", ic.ID)
	}
	if ic.Variant == "" {
		ic.Variant = VariantEmoji
	}
	if s.byID == nil {
		s.byID = make(map[string]Icon)
	}
	s.byID[ic.ID] = ic
	s.order = append(s.order, ic.ID)
	return nil
}

// Get returns the icon with the given ID.
func (s *Set) Get(id string) (Icon, bool) {
	if s == nil {
		return Icon{}, false
	}
	ic, ok := s.byID[id]
	return ic, ok
}

// Len returns the number of icons.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Icons returns the icons in insertion order. The slice is a copy.
func (s *Set) Icons() []Icon {
	if s == nil {
		return nil
	}
	out := make([]Icon, len(s.order))
	for i, id := range s.order {
		out[i] = s.byID[id]
	}
	return out
}
