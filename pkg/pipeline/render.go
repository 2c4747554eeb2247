package pipeline

import (
	"context"
	"image"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pinmap/pkg/geometry"
	"github.com/matzehuels/pinmap/pkg/httputil"
	"github.com/matzehuels/pinmap/pkg/iconmap"
	"github.com/matzehuels/pinmap/pkg/mapfile"
	"github.com/matzehuels/pinmap/pkg/render"
	"github.com/matzehuels/pinmap/pkg/render/sink"
)

// Scene builds the render scene for a frame, applying opts.AssetBase.
func Scene(def *mapfile.Definition, fr iconmap.Frame, opts Options) render.Scene {
	s := render.Scene{
		Title:      def.Title,
		Geometry:   fr.Geometry,
		Scale:      fr.Scale,
		Placements: fr.Placements,
		Icons:      def.Icons,
		ImageHref:  def.Image,
	}
	if s.Title == "" {
		s.Title = def.Name
	}
	if httputil.IsRemote(def.ImageRef) {
		s.ImageHref = def.ImageRef
	}
	if opts.AssetBase != "" {
		s.ImageHref = opts.AssetBase + "/image"
		s.IconHrefs = make(map[string]string)
		for _, ic := range def.Icons.Icons() {
			if ic.Variant == iconmap.VariantImage {
				s.IconHrefs[ic.ID] = opts.AssetBase + "/icons/" + ic.ID
			}
		}
	}
	return s
}

// Render generates all requested formats from a frame. Formats are
// rendered concurrently; the first failure cancels the rest.
func Render(ctx context.Context, def *mapfile.Definition, fr iconmap.Frame, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	scene := Scene(def, fr, opts)

	var (
		mu  sync.Mutex
		out = make(map[string][]byte, len(opts.Formats))
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := renderFormat(def, scene, format, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			out[format] = data
			mu.Unlock()
			opts.Logger.Debug("rendered", "format", format, "bytes", len(data))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func renderFormat(def *mapfile.Definition, scene render.Scene, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		var svgOpts []sink.SVGOption
		if opts.Interactive {
			svgOpts = append(svgOpts, sink.WithInteraction())
		}
		if opts.Outline {
			svgOpts = append(svgOpts, sink.WithOutline())
		}
		return sink.RenderSVG(scene, svgOpts...), nil
	case FormatJSON:
		return sink.RenderJSON(scene)
	case FormatPNG:
		base, err := geometry.DecodeFile(def.Image)
		if err != nil {
			return nil, err
		}
		return sink.RenderPNG(scene, base, decodeIcons(def, opts))
	default:
		return nil, ValidateFormat(format)
	}
}

// decodeIcons loads the images of image icons. Icons that fail to decode
// fall back to a marker and are logged.
func decodeIcons(def *mapfile.Definition, opts Options) map[string]image.Image {
	icons := make(map[string]image.Image)
	for _, ic := range def.Icons.Icons() {
		if ic.Variant != iconmap.VariantImage || ic.Image == "" {
			continue
		}
		img, err := geometry.DecodeFile(ic.Image)
		if err != nil {
			opts.Logger.Warn("icon image unavailable", "icon", ic.ID, "err", err)
			continue
		}
		icons[ic.ID] = img
	}
	return icons
}
