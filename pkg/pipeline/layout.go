package pipeline

import (
	"fmt"
	"os"

	"github.com/matzehuels/pinmap/pkg/cache"
	"github.com/matzehuels/pinmap/pkg/errors"
	"github.com/matzehuels/pinmap/pkg/geometry"
	"github.com/matzehuels/pinmap/pkg/iconmap"
	"github.com/matzehuels/pinmap/pkg/mapfile"
)

// Measure places the definition's image in a width×height viewport and
// returns the resulting geometry.
func Measure(def *mapfile.Definition, width, height float64) (geometry.Snapshot, error) {
	box := geometry.NewBox(geometry.Rect{W: width, H: height})
	img, err := geometry.OpenImage(def.Image, box)
	if err != nil {
		return geometry.Snapshot{}, err
	}
	obs := geometry.Observe(box, img, func(geometry.Snapshot) {})
	defer obs.Stop()
	return obs.Last(), nil
}

// Layout measures the image and places every icon of def.
func Layout(def *mapfile.Definition, opts Options) (iconmap.Frame, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return iconmap.Frame{}, err
	}
	g, err := Measure(def, opts.Width, opts.Height)
	if err != nil {
		return iconmap.Frame{}, err
	}
	m := iconmap.Mapper{
		Set:   def.Icons,
		Scale: opts.Engine(def),
		ZBase: opts.ZBaseFor(def),
	}
	fr := m.Frame(g)
	opts.Logger.Debug("layout",
		"map", def.Name,
		"image", fmt.Sprintf("%gx%g@%g,%g", g.ImageWidth, g.ImageHeight, g.ImageOffsetX, g.ImageOffsetY),
		"scale", fr.Scale,
		"placements", len(fr.Placements))
	return fr, nil
}

// MapHash returns the content hash of def. The image file's size and
// modification time are included so that replacing the image in place
// invalidates cached renders.
func MapHash(def *mapfile.Definition) (string, error) {
	data := mapfile.Digest(def)
	info, err := os.Stat(def.Image)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeImageDecode, err, "stat %s", def.Image)
	}
	data = fmt.Appendf(data, "|%d|%d", info.Size(), info.ModTime().UnixNano())
	return cache.Hash(data), nil
}
