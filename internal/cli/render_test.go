package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/pinmap/pkg/iconmap"
	"github.com/matzehuels/pinmap/pkg/pipeline"
)

const harborMap = `
title = "Harbor"
image = "harbor.png"
base_width = 800

[[icons]]
id = "dock"
x = 50
y = 50
size = 20
emoji = "⚓"
title = "Dock"
media = "m2"

[[icons]]
id = "crane"
x = 25
y = 75
size = 16
variant = "image"
image = "crane.png"
title = "Crane"

[[media]]
id = "m1"
src = "harbor.jpg"

[[media]]
id = "m2"
src = "dock.jpg"

[[media]]
id = "m3"
src = "tour.mp4"
kind = "video"
`

// writeHarbor writes a 400x200 map image, an icon image and a definition.
func writeHarbor(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, r := range map[string]image.Rectangle{
		"harbor.png": image.Rect(0, 0, 400, 200),
		"crane.png":  image.Rect(0, 0, 8, 8),
	} {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(f, image.NewRGBA(r)); err != nil {
			t.Fatal(err)
		}
		f.Close()
	}
	path := filepath.Join(dir, "harbor.toml")
	if err := os.WriteFile(path, []byte(harborMap), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,png,json", []string{"svg", "png", "json"}},
		{"spaces and blanks", " svg , ,json", []string{"svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"valid svg", []string{"svg"}, false},
		{"valid all", []string{"svg", "png", "json"}, false},
		{"pdf is not supported", []string{"pdf"}, true},
		{"mixed valid invalid", []string{"svg", "invalid"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pipeline.ValidateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"empty output uses input stem", "", "maps/harbor.toml", "maps/harbor"},
		{"strips svg extension", "out/harbor.svg", "harbor.toml", "out/harbor"},
		{"strips json extension", "out.json", "harbor.toml", "out"},
		{"keeps unknown extension", "out.v2", "harbor.toml", "out.v2"},
		{"no extension", "out/map", "harbor.yaml", "out/map"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestWatchedPaths(t *testing.T) {
	path := writeHarbor(t)
	c := New(&bytes.Buffer{}, LogInfo)
	def, err := c.loadMap(path)
	if err != nil {
		t.Fatal(err)
	}

	got := watchedPaths(path, def)
	if len(got) != 3 {
		t.Fatalf("watchedPaths() = %v, want definition, image and crane icon", got)
	}
	if got[0] != path {
		t.Errorf("first watched path = %q, want %q", got[0], path)
	}
	if filepath.Base(got[1]) != "harbor.png" || filepath.Base(got[2]) != "crane.png" {
		t.Errorf("watchedPaths() = %v", got)
	}

	for _, p := range []string{"https://cdn/x.png", "data:image/png;base64,AA", ""} {
		if isLocal(p) {
			t.Errorf("isLocal(%q) = true", p)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	path := writeHarbor(t)
	out := filepath.Join(t.TempDir(), "site", "harbor")

	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs([]string{"render", path, "--no-cache", "-f", "svg,json", "-o", out, "--width", "800", "--height", "800"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(out + ".svg")
	if err != nil {
		t.Fatalf("svg not written: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("svg output has no <svg> element")
	}

	data, err := os.ReadFile(out + ".json")
	if err != nil {
		t.Fatalf("json not written: %v", err)
	}
	if !bytes.Contains(data, []byte(`"dock"`)) {
		t.Errorf("json output does not mention dock: %s", data)
	}
}

func TestRenderCommandSingleFile(t *testing.T) {
	path := writeHarbor(t)
	out := filepath.Join(t.TempDir(), "exact-name.png")

	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs([]string{"render", path, "--no-cache", "-f", "png", "-o", out})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("render: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("output is not a PNG: %v", err)
	}
}

func TestRenderCommandRejectsFormat(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs([]string{"render", writeHarbor(t), "--no-cache", "-f", "pdf"})
	root.SetErr(&bytes.Buffer{})
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("render with pdf format should fail")
	}
}

func TestLayoutCommandJSON(t *testing.T) {
	path := writeHarbor(t)

	var out bytes.Buffer
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"layout", path, "--no-cache", "--json", "--width", "800", "--height", "800", "--filter", "dock"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("layout: %v", err)
	}

	var fr iconmap.Frame
	if err := json.Unmarshal(out.Bytes(), &fr); err != nil {
		t.Fatalf("decode frame: %v\n%s", err, out.String())
	}
	if len(fr.Placements) != 1 || fr.Placements[0].IconID != "dock" {
		t.Fatalf("placements = %+v, want only dock", fr.Placements)
	}
	if p := fr.Placements[0]; p.X != 400 || p.Y != 400 {
		t.Errorf("dock at (%v, %v), want (400, 400)", p.X, p.Y)
	}
}

func TestLayoutTable(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	def, err := c.loadMap(writeHarbor(t))
	if err != nil {
		t.Fatal(err)
	}
	placements := []iconmap.Placement{{IconID: "crane", X: 12.345, Y: 3, Size: 16, Z: 11}}
	got := layoutTable(def, placements)
	for _, want := range []string{"Crane", "crane", "12.3", "▣"} {
		if !strings.Contains(got, want) {
			t.Errorf("layoutTable() missing %q:\n%s", want, got)
		}
	}
}
