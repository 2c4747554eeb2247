package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/pinmap/pkg/observability"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	want := []string{"info", "layout", "render", "view", "map", "serve", "cache", "config", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestVersionFlag(t *testing.T) {
	var out bytes.Buffer
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.Contains(out.String(), "pinmap version: ") {
		t.Errorf("version output = %q", out.String())
	}
}

func TestSetupLoadsConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[viewport]\nwidth = 640\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(observability.Reset)
	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--config", path, "-v", "config", "path"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.Config.Viewport.Width != 640 {
		t.Errorf("width = %v, want 640", c.Config.Viewport.Width)
	}
	if c.Config.Viewport.Height != 800 {
		t.Errorf("height = %v, want default 800", c.Config.Viewport.Height)
	}
}

func TestSetupRequiresExplicitConfig(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.toml"), "config", "path"})
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("missing explicit --config should fail")
	}
}
