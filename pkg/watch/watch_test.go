package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFilesReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.toml")
	other := filepath.Join(dir, "other.toml")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 4)
	errc := make(chan error, 1)
	go func() {
		errc <- Files(ctx, []string{path}, 20*time.Millisecond, nil, func(p string) { changed <- p })
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changed:
		want, _ := filepath.Abs(path)
		if got != want {
			t.Errorf("changed path = %q, want %q", got, want)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Files() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Files did not return after cancel")
	}
}
