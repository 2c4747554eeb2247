// Package mapfile reads and writes map definitions.
//
// A definition names a background image, the icons anchored to it and the
// media shown in the viewer. Definitions can be written as TOML, YAML or
// JSON; the format is picked from the file extension.
//
//	name = "castle"
//	image = "castle.png"
//	base_width = 1200
//
//	[[icons]]
//	id = "gate"
//	x = 48.5
//	y = 91
//	size = 32
//	emoji = "🚪"
//	title = "North Gate"
//
//	[[media]]
//	src = "photos/gate.jpg"
//
// Icons and media without an id get a random UUID. Relative paths are
// resolved against the directory of the definition file.
package mapfile

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/pinmap/pkg/errors"
	"github.com/matzehuels/pinmap/pkg/gallery"
	"github.com/matzehuels/pinmap/pkg/iconmap"
	"github.com/matzehuels/pinmap/pkg/scale"
)

// Format is a definition encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Extensions lists the recognized file extensions in lookup order.
var Extensions = []string{".toml", ".yaml", ".yml", ".json"}

// FormatOf returns the format for a file name.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported map file %q (want .toml, .yaml or .json)", filepath.Base(path))
	}
}

// Definition is a validated map.
type Definition struct {
	Name      string
	Title     string
	Image     string // resolved path of the background image
	ImageRef  string // image path as written in the file
	BaseWidth float64
	Scale     scale.Bounds
	ZBase     int
	Icons     *iconmap.Set
	Media     []gallery.MediaItem

	// Dir is the directory relative paths were resolved against.
	Dir string
}

// document is the on-disk shape of a definition.
type document struct {
	Name      string              `json:"name,omitempty" toml:"name" yaml:"name,omitempty"`
	Title     string              `json:"title,omitempty" toml:"title" yaml:"title,omitempty"`
	Image     string              `json:"image" toml:"image" yaml:"image"`
	BaseWidth float64             `json:"base_width,omitempty" toml:"base_width" yaml:"base_width,omitempty"`
	Scale     *scale.Bounds       `json:"scale,omitempty" toml:"scale" yaml:"scale,omitempty"`
	ZBase     int                 `json:"z_base,omitempty" toml:"z_base" yaml:"z_base,omitempty"`
	Icons     []iconmap.Icon      `json:"icons" toml:"icons" yaml:"icons"`
	Media     []gallery.MediaItem `json:"media,omitempty" toml:"media" yaml:"media,omitempty"`
}

// Load reads the definition at path.
func Load(path string) (*Definition, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeMapNotFound, err, "map %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMap, err, "open %s", path)
	}
	defer f.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMap, err, "resolve %s", path)
	}
	def, err := Decode(f, format, filepath.Dir(abs))
	if err != nil {
		return nil, err
	}
	if def.Name == "" {
		def.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return def, nil
}

// Decode reads a definition from r. Relative paths are resolved against
// dir; an empty dir leaves them as written.
func Decode(r io.Reader, format Format, dir string) (*Definition, error) {
	var doc document
	var err error
	switch format {
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&doc)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&doc)
		if err == io.EOF {
			err = nil
		}
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&doc)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown map format %q", format)
	}
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidMap, err, "decode %s map", format)
	}
	return doc.definition(dir)
}

// definition validates doc. Problems with individual icons and media items
// are collected so that one load reports all of them.
func (doc document) definition(dir string) (*Definition, error) {
	if doc.Image == "" {
		return nil, errors.New(errors.ErrCodeInvalidMap, "map %q has no image", doc.Name)
	}
	if doc.BaseWidth < 0 {
		return nil, errors.New(errors.ErrCodeInvalidMap, "map %q: base_width must not be negative", doc.Name)
	}

	def := &Definition{
		Name:      doc.Name,
		Title:     doc.Title,
		ImageRef:  doc.Image,
		Image:     resolve(dir, doc.Image),
		BaseWidth: doc.BaseWidth,
		ZBase:     doc.ZBase,
		Icons:     &iconmap.Set{},
		Dir:       dir,
	}
	if doc.Scale != nil {
		def.Scale = *doc.Scale
	}

	var problems errors.List
	for _, ic := range doc.Icons {
		if ic.ID == "" {
			ic.ID = uuid.NewString()
		}
		if ic.Image != "" {
			ic.Image = resolve(dir, ic.Image)
		}
		problems.Add(def.Icons.Add(ic))
	}

	seen := make(map[string]bool, len(doc.Media))
	for _, m := range doc.Media {
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		switch {
		case seen[m.ID]:
			problems.Add(errors.New(errors.ErrCodeInvalidMap, "duplicate media id %q", m.ID))
			continue
		case m.Src == "":
			problems.Add(errors.New(errors.ErrCodeInvalidMap, "media %q has no src", m.ID))
		}
		seen[m.ID] = true
		if m.Kind == "" {
			m.Kind = gallery.KindImage
		}
		m.Src = resolve(dir, m.Src)
		def.Media = append(def.Media, m)
	}

	for _, ic := range def.Icons.Icons() {
		if ic.Media != "" && !seen[ic.Media] {
			problems.Add(errors.New(errors.ErrCodeInvalidMap, "icon %q references unknown media %q", ic.ID, ic.Media))
		}
	}
	if err := problems.Err(); err != nil {
		return nil, err
	}
	return def, nil
}

// MediaIndex returns the position of the media item an icon opens, or 0
// when the icon names none.
func (def *Definition) MediaIndex(ic iconmap.Icon) int {
	for i, m := range def.Media {
		if m.ID == ic.Media {
			return i
		}
	}
	return 0
}

// Encode writes def in the given format. Paths are written as resolved.
func Encode(w io.Writer, def *Definition, format Format) error {
	doc := document{
		Name:      def.Name,
		Title:     def.Title,
		Image:     def.ImageRef,
		BaseWidth: def.BaseWidth,
		ZBase:     def.ZBase,
		Icons:     def.Icons.Icons(),
		Media:     def.Media,
	}
	if def.Scale != (scale.Bounds{}) {
		b := def.Scale
		doc.Scale = &b
	}
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown map format %q", format)
	}
}

// Digest returns a canonical JSON encoding of def, suitable for content
// hashing.
func Digest(def *Definition) []byte {
	var buf bytes.Buffer
	_ = Encode(&buf, def, FormatJSON)
	// The resolved image path changes the render even when ImageRef does not.
	buf.WriteString(def.Image)
	return buf.Bytes()
}

// resolve makes a relative local path absolute under dir. URLs and
// absolute paths are returned unchanged.
func resolve(dir, p string) string {
	if dir == "" || filepath.IsAbs(p) || strings.Contains(p, "://") || strings.HasPrefix(p, "data:") {
		return p
	}
	return filepath.Join(dir, filepath.FromSlash(p))
}
