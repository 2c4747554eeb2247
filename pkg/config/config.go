// Package config loads pinmap's user settings.
//
// Settings live in a TOML file at $XDG_CONFIG_HOME/pinmap/config.toml
// (falling back to ~/.config/pinmap/config.toml). Every field has a default
// from [Default]; values present in the file override it, and command-line
// flags override the file.
//
// Example:
//
//	[viewport]
//	width = 1280
//	height = 720
//	tier = "touch"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pinmap/pkg/errors"
	"github.com/matzehuels/pinmap/pkg/gallery"
	"github.com/matzehuels/pinmap/pkg/mapfile"
	"github.com/matzehuels/pinmap/pkg/scale"
	"github.com/matzehuels/pinmap/pkg/viewport"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full settings file.
type Config struct {
	Viewport ViewportConfig `toml:"viewport"`
	Layout   LayoutConfig   `toml:"layout"`
	Viewer   ViewerConfig   `toml:"viewer"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
}

// ViewportConfig is the container headless renders are laid out in.
type ViewportConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Tier   string  `toml:"tier"`
}

// LayoutConfig holds layout defaults for maps that do not set their own.
type LayoutConfig struct {
	BaseWidth float64      `toml:"base_width"`
	Scale     scale.Bounds `toml:"scale"`
	ZBase     int          `toml:"z_base"`
}

// Apply fills the layout fields def leaves unset.
func (l LayoutConfig) Apply(def *mapfile.Definition) {
	if def.BaseWidth <= 0 {
		def.BaseWidth = l.BaseWidth
	}
	if def.Scale == (scale.Bounds{}) {
		def.Scale = l.Scale
	}
	if def.ZBase == 0 {
		def.ZBase = l.ZBase
	}
}

// ViewerConfig configures the media viewer.
type ViewerConfig struct {
	SwipeThreshold float64       `toml:"swipe_threshold"`
	HintDelay      time.Duration `toml:"hint_delay"`
}

// CacheConfig selects the render cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	Prefix    string `toml:"prefix"`
}

// ServerConfig configures `pinmap serve`.
type ServerConfig struct {
	Addr    string `toml:"addr"`
	MapsDir string `toml:"maps_dir"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Viewport: ViewportConfig{Width: 1200, Height: 800, Tier: string(viewport.TierPointer)},
		Layout:   LayoutConfig{BaseWidth: 1200, Scale: scale.Bounds{Min: 0.5, Max: 2}, ZBase: 10},
		Viewer:   ViewerConfig{SwipeThreshold: gallery.DefaultSwipeThreshold, HintDelay: gallery.DefaultHintDelay},
		Cache:    CacheConfig{Backend: BackendFile, RedisAddr: "localhost:6379", Prefix: "pinmap:"},
		Server:   ServerConfig{Addr: ":8080", MapsDir: "."},
	}
}

// DefaultPath returns the settings file location.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "pinmap", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate home directory")
	}
	return filepath.Join(home, ".config", "pinmap", "config.toml"), nil
}

// Load reads the settings file at path on top of Default. A missing file is
// not an error unless required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !required {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.Viewport.Width < 0 || c.Viewport.Height < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "viewport size must not be negative")
	}
	if _, err := viewport.ParseTier(c.Viewport.Tier); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "viewport.tier")
	}
	if c.Layout.BaseWidth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.base_width must not be negative")
	}
	if c.Viewer.SwipeThreshold < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "viewer.swipe_threshold must not be negative")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
