package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pinmap/pkg/errors"
	"github.com/matzehuels/pinmap/pkg/httputil"
	"github.com/matzehuels/pinmap/pkg/iconmap"
	"github.com/matzehuels/pinmap/pkg/mapfile"
)

// assetServer serves a 400x200 map image and an 8x8 icon image.
func assetServer(t *testing.T) *httptest.Server {
	t.Helper()
	encode := func(w, h int) []byte {
		var buf bytes.Buffer
		if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
			t.Fatal(err)
		}
		return buf.Bytes()
	}
	assets := map[string][]byte{
		"/harbor.png": encode(400, 200),
		"/crane.png":  encode(8, 8),
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, ok := assets[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func remoteMap(t *testing.T, base, image string) *mapfile.Definition {
	t.Helper()
	doc := `
title = "Remote"
image = "` + base + image + `"
base_width = 800

[[icons]]
id = "dock"
x = 50
y = 50
size = 20
emoji = "⚓"

[[icons]]
id = "crane"
x = 25
y = 75
size = 16
variant = "image"
image = "` + base + `/crane.png"

[[icons]]
id = "lost"
x = 10
y = 10
size = 16
variant = "image"
image = "` + base + `/lost.png"
`
	def, err := mapfile.Decode(strings.NewReader(doc), mapfile.FormatTOML, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return def
}

func remoteRunner(t *testing.T) *Runner {
	t.Helper()
	store, err := httputil.NewStore(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	f := httputil.NewFetcher(store, nil)
	f.Attempts = 1
	r := NewRunner(newMemCache(), nil, log.New(&bytes.Buffer{}))
	r.Assets = f
	return r
}

func TestLocalize(t *testing.T) {
	srv := assetServer(t)
	def := remoteMap(t, srv.URL, "/harbor.png")
	r := remoteRunner(t)

	if err := r.Localize(context.Background(), def); err != nil {
		t.Fatalf("Localize() failed: %v", err)
	}
	if httputil.IsRemote(def.Image) {
		t.Errorf("image still remote: %s", def.Image)
	}
	if def.ImageRef != srv.URL+"/harbor.png" {
		t.Errorf("ImageRef = %q, should keep the URL", def.ImageRef)
	}

	crane, _ := def.Icons.Get("crane")
	if httputil.IsRemote(crane.Image) {
		t.Errorf("crane image still remote: %s", crane.Image)
	}
	lost, _ := def.Icons.Get("lost")
	if !httputil.IsRemote(lost.Image) {
		t.Errorf("unfetchable icon image rewritten to %s", lost.Image)
	}

	ids := make([]string, 0, def.Icons.Len())
	for _, ic := range def.Icons.Icons() {
		ids = append(ids, ic.ID)
	}
	if strings.Join(ids, ",") != "dock,crane,lost" {
		t.Errorf("icon order = %v", ids)
	}

	// Localizing again is a no-op.
	before := def.Image
	if err := r.Localize(context.Background(), def); err != nil || def.Image != before {
		t.Errorf("second Localize() changed the image: %v %s", err, def.Image)
	}
}

func TestLocalizeMissingImage(t *testing.T) {
	srv := assetServer(t)
	def := remoteMap(t, srv.URL, "/nope.png")

	err := remoteRunner(t).Localize(context.Background(), def)
	if !errors.Is(err, errors.ErrCodeFetch) {
		t.Errorf("Localize() error = %v, want FETCH_ERROR", err)
	}
}

func TestLocalizeWithoutFetcher(t *testing.T) {
	def := remoteMap(t, "https://example.invalid", "/harbor.png")
	r := NewRunner(nil, nil, nil)
	if err := r.Localize(context.Background(), def); err != nil {
		t.Fatal(err)
	}
	if def.Image != "https://example.invalid/harbor.png" {
		t.Errorf("image rewritten without a fetcher: %s", def.Image)
	}
}

func TestExecuteRemoteMap(t *testing.T) {
	srv := assetServer(t)
	def := remoteMap(t, srv.URL, "/harbor.png")

	res, err := remoteRunner(t).Execute(context.Background(), Options{
		Definition: def,
		Width:      800,
		Height:     800,
		Formats:    []string{FormatSVG, FormatPNG},
	})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !strings.Contains(string(res.Artifacts[FormatSVG]), `href="`+srv.URL+`/harbor.png"`) {
		t.Error("svg should reference the remote image URL")
	}
	var dock iconmap.Placement
	for _, p := range res.Frame.Placements {
		if p.IconID == "dock" {
			dock = p
		}
	}
	if dock.X != 400 || dock.Y != 400 {
		t.Errorf("dock = %+v, want (400, 400)", dock)
	}
}
