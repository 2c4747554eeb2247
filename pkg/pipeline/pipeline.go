// Package pipeline provides the render pipeline for pinmap.
//
// This package implements the complete load → layout → render pipeline used
// by the CLI and the HTTP server. By centralizing this logic, both entry
// points lay maps out and cache renders identically.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read and validate the map definition
//  2. Layout: Measure the image inside the viewport, derive the scale and
//     place every icon
//  3. Render: Generate output in various formats (SVG, PNG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    MapPath: "maps/castle.toml",
//	    Width:   1280,
//	    Height:  720,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pinmap/pkg/cache"
	"github.com/matzehuels/pinmap/pkg/errors"
	"github.com/matzehuels/pinmap/pkg/iconmap"
	"github.com/matzehuels/pinmap/pkg/mapfile"
	"github.com/matzehuels/pinmap/pkg/scale"
	"github.com/matzehuels/pinmap/pkg/viewport"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 1200.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 800.0

	// DefaultZBase is the stacking order of the first icon.
	DefaultZBase = 10
)

// DefaultTier is the default device tier.
const DefaultTier = viewport.TierPointer

// DefaultScale bounds the responsive icon scale for maps that set none.
var DefaultScale = scale.Bounds{Min: 0.5, Max: 2}

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the render pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	MapPath string `json:"map_path,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`

	// Layout options
	Width     float64       `json:"width,omitempty"`
	Height    float64       `json:"height,omitempty"`
	Tier      string        `json:"tier,omitempty"`
	BaseWidth float64       `json:"base_width,omitempty"` // overrides the map's base width
	Scale     *scale.Bounds `json:"scale,omitempty"`      // overrides the map's scale bounds
	ZBase     int           `json:"z_base,omitempty"`     // overrides the map's z base

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	Outline     bool     `json:"outline,omitempty"`
	// AssetBase, when set, rewrites image references to
	// AssetBase+"/image" and AssetBase+"/icons/{id}".
	AssetBase string `json:"asset_base,omitempty"`

	// Runtime options (not serialized)
	Definition *mapfile.Definition `json:"-"` // preloaded definition; MapPath is ignored when set
	Logger     *log.Logger         `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Definition is the loaded map.
	Definition *mapfile.Definition

	// MapHash is the content hash of the definition and its image.
	MapHash string

	// Frame is the computed layout.
	Frame iconmap.Frame

	// Tier and Viewport are the device tier and its transform policy.
	Tier     viewport.Tier
	Viewport viewport.Config

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	IconCount  int
	MediaCount int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that a definition source is set.
func (o *Options) ValidateForLoad() error {
	if o.Definition == nil && o.MapPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "map path is required")
	}
	o.setLogger()
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Tier == "" {
		o.Tier = string(DefaultTier)
	}
	o.setLogger()
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if _, err := viewport.ParseTier(o.Tier); err != nil {
		return err
	}
	if o.BaseWidth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "base width must not be negative")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// TierValue returns the parsed tier, or DefaultTier when unset or invalid.
func (o *Options) TierValue() viewport.Tier {
	t, err := viewport.ParseTier(o.Tier)
	if err != nil {
		return DefaultTier
	}
	return t
}

// Engine returns the scale engine for def, applying option overrides and
// package defaults.
func (o *Options) Engine(def *mapfile.Definition) scale.Engine {
	e := scale.Engine{BaseWidth: def.BaseWidth, Bounds: def.Scale}
	if o.BaseWidth > 0 {
		e.BaseWidth = o.BaseWidth
	}
	if e.BaseWidth <= 0 {
		e.BaseWidth = DefaultWidth
	}
	if o.Scale != nil {
		e.Bounds = *o.Scale
	}
	if e.Bounds == (scale.Bounds{}) {
		e.Bounds = DefaultScale
	}
	return e
}

// ZBaseFor returns the stacking base for def.
func (o *Options) ZBaseFor(def *mapfile.Definition) int {
	switch {
	case o.ZBase != 0:
		return o.ZBase
	case def.ZBase != 0:
		return def.ZBase
	default:
		return DefaultZBase
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		Interactive: o.Interactive,
		Outline:     o.Outline,
		AssetBase:   o.AssetBase,
	}
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
