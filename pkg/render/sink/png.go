package sink

import (
	"bytes"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/matzehuels/pinmap/pkg/errors"
	"github.com/matzehuels/pinmap/pkg/render"
)

// MaxPNGSide bounds each side of a rendered PNG.
const MaxPNGSide = 8192

// PNGOption configures RenderPNG.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	background color.Color
	scaler     xdraw.Scaler
}

// WithBackground sets the canvas color behind the image (default white).
func WithBackground(c color.Color) PNGOption {
	return func(r *pngRenderer) { r.background = c }
}

// WithFastScaling uses approximate bilinear scaling instead of Catmull-Rom.
func WithFastScaling() PNGOption {
	return func(r *pngRenderer) { r.scaler = xdraw.ApproxBiLinear }
}

// RenderPNG rasterizes the scene. base is the decoded background image and
// icons holds decoded images for image icons, keyed by icon ID. Either may
// be nil.
func RenderPNG(s render.Scene, base image.Image, icons map[string]image.Image, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{background: color.White, scaler: xdraw.CatmullRom}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := s.Size()
	cw, ch := int(math.Ceil(w)), int(math.Ceil(h))
	if cw <= 0 || ch <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot render an empty %gx%g canvas", w, h)
	}
	if cw > MaxPNGSide || ch > MaxPNGSide {
		return nil, errors.New(errors.ErrCodeInvalidInput, "canvas %dx%d exceeds %d pixels per side", cw, ch, MaxPNGSide)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, cw, ch))
	xdraw.Draw(canvas, canvas.Bounds(), image.NewUniform(r.background), image.Point{}, xdraw.Src)

	g := s.Geometry
	if base != nil && g.ImageWidth > 0 && g.ImageHeight > 0 {
		dst := rect(g.ImageOffsetX, g.ImageOffsetY, g.ImageWidth, g.ImageHeight)
		r.scaler.Scale(canvas, dst, base, base.Bounds(), xdraw.Over, nil)
	}

	for _, it := range s.Items() {
		half := it.Size / 2
		dst := rect(it.X-half, it.Y-half, it.Size, it.Size)
		if img, ok := icons[it.IconID]; ok && img != nil {
			r.scaler.Scale(canvas, dst, img, img.Bounds(), xdraw.Over, nil)
			continue
		}
		drawMarker(canvas, it.X, it.Y, half, markerColor(it.IconID))
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func rect(x, y, w, h float64) image.Rectangle {
	return image.Rect(int(math.Round(x)), int(math.Round(y)), int(math.Round(x+w)), int(math.Round(y+h)))
}

// drawMarker draws a filled disk with a dark rim centered on (cx, cy).
func drawMarker(dst *image.RGBA, cx, cy, radius float64, fill color.RGBA) {
	if radius < 1 {
		radius = 1
	}
	rim := color.RGBA{R: fill.R / 3, G: fill.G / 3, B: fill.B / 3, A: 255}
	b := rect(cx-radius, cy-radius, 2*radius+1, 2*radius+1).Intersect(dst.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			switch {
			case d <= radius-1.5:
				dst.SetRGBA(x, y, fill)
			case d <= radius:
				dst.SetRGBA(x, y, rim)
			}
		}
	}
}

// markerColor picks a stable saturated color for an icon ID.
func markerColor(id string) color.RGBA {
	palette := []color.RGBA{
		{R: 0xe4, G: 0x57, B: 0x2e, A: 0xff},
		{R: 0x29, G: 0x80, B: 0xb9, A: 0xff},
		{R: 0x27, G: 0xae, B: 0x60, A: 0xff},
		{R: 0x8e, G: 0x44, B: 0xad, A: 0xff},
		{R: 0xf3, G: 0x9c, B: 0x12, A: 0xff},
		{R: 0x16, G: 0xa0, B: 0x85, A: 0xff},
	}
	h := fnv.New32a()
	h.Write([]byte(id))
	return palette[h.Sum32()%uint32(len(palette))]
}
