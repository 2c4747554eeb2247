package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// captureStdout redirects status lines into a buffer for the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

// isolateConfig points the settings lookup at an empty directory.
func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func runInfoArgs(t *testing.T, args ...string) string {
	t.Helper()
	out := captureStdout(t)
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs(append([]string{"info"}, args...))
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("info: %v", err)
	}
	return out.String()
}

func TestInfoCommand(t *testing.T) {
	isolateConfig(t)
	path := writeHarbor(t)

	got := runInfoArgs(t, path)
	for _, want := range []string{
		"Harbor",
		"harbor.png (png, 400×200)",
		"800.0",
		"0.5 – 2.0",
		"2 (1 emoji, 1 image)",
		"3 (2 image, 1 video)",
		"render " + path,
		"view " + path,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("info output missing %q:\n%s", want, got)
		}
	}
}

func TestInfoCommandSettingsBounds(t *testing.T) {
	dir := isolateConfig(t)
	settings := filepath.Join(dir, "pinmap", "config.toml")
	if err := os.MkdirAll(filepath.Dir(settings), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(settings, []byte("[layout.scale]\nmin = 1\nmax = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := runInfoArgs(t, writeHarbor(t)); !strings.Contains(got, "1.0 – 3.0") {
		t.Errorf("settings bounds not shown:\n%s", got)
	}
}

func TestInfoCommandMissingMap(t *testing.T) {
	isolateConfig(t)
	captureStdout(t)
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs([]string{"info", "does-not-exist.toml"})
	root.SetErr(&bytes.Buffer{})
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected an error for a missing map")
	}
}

func TestPrintStats(t *testing.T) {
	tests := []struct {
		name           string
		icons, media   int
		scale          float64
		cached         bool
		want, unwanted []string
	}{
		{"fresh", 2, 3, 2, false, []string{"2 icons", "3 media", "scale 2.00", "fresh"}, []string{"cached"}},
		{"cached single", 1, 0, 0, true, []string{"1 icon ", "cached"}, []string{"media", "scale"}},
		{"empty", 0, 0, 1, false, []string{"0 icons", "scale 1.00"}, []string{"media"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureStdout(t)
			printStats(tt.icons, tt.media, tt.scale, tt.cached)
			got := out.String()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("missing %q in %q", w, got)
				}
			}
			for _, u := range tt.unwanted {
				if strings.Contains(got, u) {
					t.Errorf("unexpected %q in %q", u, got)
				}
			}
		})
	}
}
