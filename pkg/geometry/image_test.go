package geometry

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pinmap/pkg/errors"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestOpenImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	writePNG(t, path, 400, 200)

	container := NewBox(Rect{W: 800, H: 800})
	img, err := OpenImage(path, container)
	require.NoError(t, err)

	w, h := img.NaturalSize()
	assert.Equal(t, 400.0, w)
	assert.Equal(t, 200.0, h)
	assert.Equal(t, "png", img.Format())
	assert.Equal(t, Rect{X: 0, Y: 200, W: 800, H: 400}, img.Bounds())

	s := Measure(container, img)
	assert.Equal(t, 200.0, s.ImageOffsetY)
}

func TestOpenImageErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := OpenImage(filepath.Join(dir, "missing.png"), NewBox(Rect{}))
	assert.True(t, errors.Is(err, errors.ErrCodeImageDecode))

	garbage := filepath.Join(dir, "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o644))
	_, err = OpenImage(garbage, NewBox(Rect{}))
	assert.True(t, errors.Is(err, errors.ErrCodeImageDecode))
}

func TestReloadKeepsSizeOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	writePNG(t, path, 10, 20)

	img, err := OpenImage(path, NewBox(Rect{W: 100, H: 100}))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("broken"), 0o644))
	assert.Error(t, img.Reload())

	w, h := img.NaturalSize()
	assert.Equal(t, 10.0, w)
	assert.Equal(t, 20.0, h)
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	writePNG(t, path, 3, 2)

	img, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
}

func TestWatchRefreshesObservation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	writePNG(t, path, 100, 100)

	container := NewBox(Rect{W: 200, H: 100})
	img, err := OpenImage(path, container)
	require.NoError(t, err)

	snaps := make(chan Snapshot, 8)
	obs := Observe(container, img, func(s Snapshot) { snaps <- s })
	defer obs.Stop()
	<-snaps

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- Watch(ctx, img, obs, nil) }()

	time.Sleep(100 * time.Millisecond)
	writePNG(t, path, 200, 100)

	select {
	case s := <-snaps:
		assert.Equal(t, 200.0, s.ImageWidth)
		assert.Equal(t, 100.0, s.ImageHeight)
		assert.Equal(t, 0.0, s.ImageOffsetX)
	case <-time.After(3 * time.Second):
		t.Fatal("no snapshot after image rewrite")
	}

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
