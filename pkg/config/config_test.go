package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/pinmap/pkg/errors"
	"github.com/matzehuels/pinmap/pkg/mapfile"
	"github.com/matzehuels/pinmap/pkg/scale"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[viewport]
width = 640
tier = "touch"

[viewer]
hint_delay = "5s"

[cache]
backend = "none"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Viewport.Width != 640 {
		t.Errorf("Viewport.Width = %v, want 640", cfg.Viewport.Width)
	}
	if cfg.Viewport.Height != Default().Viewport.Height {
		t.Errorf("unset Viewport.Height should keep default, got %v", cfg.Viewport.Height)
	}
	if cfg.Viewport.Tier != "touch" {
		t.Errorf("Viewport.Tier = %q", cfg.Viewport.Tier)
	}
	if cfg.Viewer.HintDelay != 5*time.Second {
		t.Errorf("Viewer.HintDelay = %v", cfg.Viewer.HintDelay)
	}
	if cfg.Cache.Backend != BackendNone {
		t.Errorf("Cache.Backend = %q", cfg.Cache.Backend)
	}
}

func TestLoadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.toml")

	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("optional missing file: %v", err)
	}
	if cfg != Default() {
		t.Error("missing file should yield defaults")
	}

	if _, err := Load(path, true); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("required missing file error = %v", err)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[viewport\nwidth = 1"},
		{"tier", "[viewport]\ntier = \"watch\""},
		{"backend", "[cache]\nbackend = \"memcached\""},
		{"negative", "[viewer]\nswipe_threshold = -4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path, true); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	got, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join("/tmp/xdg", "pinmap", "config.toml") {
		t.Errorf("DefaultPath() = %q", got)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Encode(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "[viewport]") {
		t.Errorf("encoded config missing [viewport]:\n%s", buf.String())
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Errorf("round trip changed config: %+v", cfg)
	}
}

func TestLayoutApply(t *testing.T) {
	l := Default().Layout

	def := &mapfile.Definition{}
	l.Apply(def)
	if def.BaseWidth != 1200 || def.Scale != l.Scale || def.ZBase != 10 {
		t.Errorf("defaults not applied: %+v", def)
	}

	def = &mapfile.Definition{BaseWidth: 640, Scale: scale.Bounds{Max: 3}, ZBase: 2}
	l.Apply(def)
	if def.BaseWidth != 640 || def.Scale.Max != 3 || def.Scale.Min != 0 || def.ZBase != 2 {
		t.Errorf("map values overridden: %+v", def)
	}
}
