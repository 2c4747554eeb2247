package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/pinmap/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}

	c.Config.Cache.Dir = "/tmp/custom"
	if dir, _ := c.cacheDir(); dir != "/tmp/custom" {
		t.Errorf("configured cacheDir() = %q", dir)
	}
}

func TestCachePathAndClear(t *testing.T) {
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, k := range []string{"a", "b"} {
		if err := fc.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte("[cache]\ndir = \""+filepath.ToSlash(dir)+"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", cfgPath, "cache", "path"})
	if err := root.ExecuteContext(ctx); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != filepath.ToSlash(dir) {
		t.Errorf("cache path = %q, want %q", out.String(), dir)
	}

	status := captureStdout(t)
	asset := filepath.Join(dir, assetsDir, "0f.png")
	if err := os.MkdirAll(filepath.Dir(asset), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(asset, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	runClear := func(args ...string) {
		t.Helper()
		root := New(&bytes.Buffer{}, LogInfo).RootCommand()
		root.SetArgs(append([]string{"--config", cfgPath, "cache", "clear"}, args...))
		if err := root.ExecuteContext(ctx); err != nil {
			t.Fatal(err)
		}
	}

	runClear("--renders")
	if _, hit, _ := fc.Get(ctx, "a"); hit {
		t.Error("entry survived cache clear")
	}
	if !strings.Contains(status.String(), "Cleared 2 cached renders") {
		t.Errorf("status = %q", status.String())
	}
	if _, err := os.Stat(asset); err != nil {
		t.Error("--renders removed downloaded images")
	}

	runClear()
	if _, err := os.Stat(asset); !os.IsNotExist(err) {
		t.Error("downloaded image survived cache clear")
	}
	if !strings.Contains(status.String(), "Cleared 1 downloaded image") {
		t.Errorf("status = %q", status.String())
	}
}

func TestCacheClearFlagsExclusive(t *testing.T) {
	captureStdout(t)
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"cache", "clear", "--renders", "--assets"})
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("expected an error for --renders with --assets")
	}
}

func TestNewCacheBackends(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	ctx := context.Background()

	cc, err := c.newCache(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cc.(cache.NullCache); !ok {
		t.Errorf("--no-cache = %T, want cache.NullCache", cc)
	}

	c.Config.Cache.Backend = "redis"
	c.Config.Cache.RedisAddr = "127.0.0.1:1"
	cc, err = c.newCache(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cc.(cache.NullCache); !ok {
		t.Errorf("unreachable redis = %T, want fallback cache.NullCache", cc)
	}

	c.Config.Cache.Backend = "file"
	c.Config.Cache.Dir = t.TempDir()
	cc, err = c.newCache(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cc.(*cache.FileCache); !ok {
		t.Errorf("file backend = %T", cc)
	}
}
