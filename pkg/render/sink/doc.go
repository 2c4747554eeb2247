// Package sink renders a [render.Scene] to output formats.
//
//   - SVG: vector output with native tooltips and optional interaction
//   - JSON: geometry, scale and placements for external front ends
//   - PNG: raster output composed with golang.org/x/image/draw
//
// # SVG Output
//
// [RenderSVG] draws the background image, then one group per icon in
// ascending stacking order. Emoji icons become text, image icons become
// nested images; every group carries a <title> tooltip.
//
//	svg := sink.RenderSVG(scene, sink.WithInteraction())
//
// With [WithInteraction] the SVG embeds a small script that re-emits icon
// hover, leave and click as DOM CustomEvents on the document, so a hosting
// page can react without knowing the markup:
//
//	pinmap:icon-hover  {detail: {id, title}}
//	pinmap:icon-leave  {detail: {id}}
//	pinmap:icon-click  {detail: {id, title}}
//
// [WithOutline] draws the image bounds and each icon's hit box, which is
// useful when positioning icons.
//
// # PNG Output
//
// [RenderPNG] needs the decoded background and any decoded icon images.
// Icons without an image are drawn as disk markers.
//
// [render.Scene]: github.com/matzehuels/pinmap/pkg/render.Scene
package sink
