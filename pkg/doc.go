// Package pkg provides the core libraries for pinmap interactive image maps.
//
// # Overview
//
// Pinmap anchors icons to an image by percentage and keeps them anchored
// while the image is resized, zoomed or panned. A map also carries a list
// of media items browsed in a viewer with wrap-around navigation. The pkg
// directory is organized into three areas:
//
//  1. Core - geometry, scaling, icon layout, viewport and navigation
//  2. Pipeline - load → layout → render, shared by CLI and server
//  3. Infrastructure - caching, remote assets, configuration, observability
//
// # Architecture
//
// The typical data flow through pinmap:
//
//	Map definition (.toml, .yaml, .json)
//	         ↓
//	    [mapfile] package (decode + validate)
//	         ↓
//	    [geometry] package (container + contain-fitted image → Snapshot)
//	         ↓
//	    [scale] + [iconmap] packages (responsive scale → Placements)
//	         ↓
//	    [render/sink] package (SVG, PNG, JSON)
//
// # Quick Start
//
// Lay out a map for a viewport:
//
//	import (
//	    "github.com/matzehuels/pinmap/pkg/geometry"
//	    "github.com/matzehuels/pinmap/pkg/iconmap"
//	    "github.com/matzehuels/pinmap/pkg/mapfile"
//	    "github.com/matzehuels/pinmap/pkg/scale"
//	)
//
//	def, _ := mapfile.Load("harbor.toml")
//	box := geometry.NewBox(geometry.Rect{W: 1200, H: 800})
//	img, _ := geometry.OpenImage(def.Image, box)
//
//	m := &iconmap.Mapper{
//	    Set:   def.Icons,
//	    Scale: scale.Engine{BaseWidth: def.BaseWidth, Bounds: def.Scale},
//	    OnLayout: func(fr iconmap.Frame) {
//	        // fr.Placements holds pixel positions, sizes and z-order
//	    },
//	}
//	obs := m.Observe(box, img)
//	defer obs.Stop()
//
//	box.Resize(800, 600)
//	obs.Refresh() // re-emits a frame
//
// # Main Packages
//
// ## Core
//
// [geometry] - Container and image measurement. [geometry.Observe] emits a
// Snapshot whenever the measured geometry changes; [geometry.Watch] follows
// the image file on disk.
//
// [scale] - Responsive icon scale: container width over base width, clamped
// to optional bounds.
//
// [iconmap] - Icons, insertion-ordered icon sets, percentage-to-pixel
// placement, hit testing and fuzzy search.
//
// [viewport] - Device tiers, per-tier pan/zoom policy and a reference
// pan/zoom engine whose transform feeds back into the geometry.
//
// [gallery] - Media items and the navigation controller: keys, wheel,
// swipes and direct jumps with wrap-around, plus an event dispatcher and a
// timed usage hint.
//
// ## Pipeline
//
// [mapfile] - Map definition files in TOML, YAML and JSON.
//
// [pipeline] - load → layout → render with cached artifacts, used by CLI and server.
//
// [render/sink] - SVG with hover/click events, PNG rasterization, JSON.
//
// ## Infrastructure
//
// [cache] - File, Redis and null cache backends with content-addressed keys.
//
// [httputil] - Remote image download with a local store and retries.
//
// [watch] - Debounced file watching.
//
// [config] - The settings file.
//
// [observability] - Hooks for layout, navigation, pipeline and cache events.
//
// [errors] - Coded errors shared by CLI and server.
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/iconmap/...            # Specific package
//	go test -run Example                 # Examples only
//	PINMAP_TEST_REDIS=localhost:6379 go test ./pkg/cache/...
//
// [geometry]: https://pkg.go.dev/github.com/matzehuels/pinmap/pkg/geometry
// [geometry.Observe]: https://pkg.go.dev/github.com/matzehuels/pinmap/pkg/geometry#Observe
// [geometry.Watch]: https://pkg.go.dev/github.com/matzehuels/pinmap/pkg/geometry#Watch
// [scale]: https://pkg.go.dev/github.com/matzehuels/pinmap/pkg/scale
// [iconmap]: https://pkg.go.dev/github.com/matzehuels/pinmap/pkg/iconmap
// [viewport]: https://pkg.go.dev/github.com/matzehuels/pinmap/pkg/viewport
// [gallery]: https://pkg.go.dev/github.com/matzehuels/pinmap/pkg/gallery
// [mapfile]: https://pkg.go.dev/github.com/matzehuels/pinmap/pkg/mapfile
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/pinmap/pkg/pipeline
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/pinmap/pkg/render/sink
// [cache]: https://pkg.go.dev/github.com/matzehuels/pinmap/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/pinmap/pkg/httputil
// [watch]: https://pkg.go.dev/github.com/matzehuels/pinmap/pkg/watch
// [config]: https://pkg.go.dev/github.com/matzehuels/pinmap/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/pinmap/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/pinmap/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/pinmap/pkg/buildinfo
package pkg
