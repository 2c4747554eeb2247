package gallery

import (
	"strings"

	"github.com/matzehuels/pinmap/pkg/errors"
)

// Kind is the type of a media item.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// ParseKind parses a media kind. The empty string is KindImage.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(KindImage):
		return KindImage, nil
	case string(KindVideo):
		return KindVideo, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidMap, "unknown media kind %q (want image or video)", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MediaItem is one page of the viewer.
type MediaItem struct {
	ID      string `json:"id" toml:"id" yaml:"id"`
	Kind    Kind   `json:"kind,omitempty" toml:"kind" yaml:"kind,omitempty"`
	Src     string `json:"src" toml:"src" yaml:"src"`
	Title   string `json:"title,omitempty" toml:"title" yaml:"title,omitempty"`
	Caption string `json:"caption,omitempty" toml:"caption" yaml:"caption,omitempty"`
}
