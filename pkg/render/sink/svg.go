package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/pinmap/pkg/iconmap"
	"github.com/matzehuels/pinmap/pkg/render"
)

const iconInteractionCSS = `
    .icon { cursor: pointer; transition: transform 0.15s ease; transform-box: fill-box; transform-origin: center; }
    .icon:hover .icon-body { filter: drop-shadow(0 0 3px rgba(0,0,0,0.6)); }
    .outline { fill: none; stroke: #e4572e; stroke-width: 1; stroke-dasharray: 4 3; }`

const iconInteractionJS = `
    function emit(name, el) {
      const detail = { id: el.dataset.icon, title: el.dataset.title || '' };
      document.dispatchEvent(new CustomEvent('pinmap:' + name, { detail: detail, bubbles: true }));
    }
    document.querySelectorAll('.icon').forEach(el => {
      el.addEventListener('mouseenter', () => emit('icon-hover', el));
      el.addEventListener('mouseleave', () => emit('icon-leave', el));
      el.addEventListener('click', () => emit('icon-click', el));
    });`

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	interaction bool
	outline     bool
}

// WithInteraction embeds the hover/leave/click event script.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interaction = true } }

// WithOutline draws image bounds and icon hit boxes.
func WithOutline() SVGOption { return func(r *svgRenderer) { r.outline = true } }

// RenderSVG renders the scene as a standalone SVG document.
func RenderSVG(s render.Scene, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	w, h := s.Size()
	g := s.Geometry

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	if s.Title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(s.Title))
	}

	if s.ImageHref != "" && g.ImageWidth > 0 && g.ImageHeight > 0 {
		fmt.Fprintf(&buf, `  <image class="map-image" href="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" preserveAspectRatio="none"/>`+"\n",
			html.EscapeString(s.ImageHref), g.ImageOffsetX, g.ImageOffsetY, g.ImageWidth, g.ImageHeight)
	}
	if r.outline {
		fmt.Fprintf(&buf, `  <rect class="outline" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n",
			g.ImageOffsetX, g.ImageOffsetY, g.ImageWidth, g.ImageHeight)
	}

	for _, it := range s.Items() {
		renderIcon(&buf, s, it, r.outline)
	}

	if r.interaction {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", iconInteractionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", iconInteractionJS)
	} else if r.outline {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", iconInteractionCSS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderIcon(buf *bytes.Buffer, s render.Scene, it render.Item, outline bool) {
	id := html.EscapeString(it.IconID)
	label := html.EscapeString(it.Icon.Label())
	half := it.Size / 2

	fmt.Fprintf(buf, `  <g class="icon" id="icon-%s" data-icon="%s" data-title="%s" transform="translate(%.1f,%.1f)">`+"\n",
		id, id, label, it.X, it.Y)

	tip := it.Icon.Label()
	if it.Icon.Description != "" {
		tip += "\n" + it.Icon.Description
	}
	fmt.Fprintf(buf, "    <title>%s</title>\n", html.EscapeString(tip))

	switch it.Icon.Variant {
	case iconmap.VariantImage:
		fmt.Fprintf(buf, `    <image class="icon-body" href="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n",
			html.EscapeString(s.IconHref(it.Icon)), -half, -half, it.Size, it.Size)
	default:
		fmt.Fprintf(buf, `    <text class="icon-body" x="0" y="0" font-size="%.1f" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
			it.Size, html.EscapeString(it.Icon.Emoji))
	}
	if outline {
		fmt.Fprintf(buf, `    <rect class="outline" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n",
			-half, -half, it.Size, it.Size)
	}
	buf.WriteString("  </g>\n")
}
