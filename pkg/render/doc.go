// Package render describes a laid-out map as a [Scene] for output sinks.
//
// A scene is one frame of the pipeline: the geometry snapshot that was
// measured, the scale derived from it, and the placements computed from
// both, together with the icons they refer to. Sinks in the [sink]
// subpackage turn a scene into SVG, JSON or PNG without recomputing
// anything, so every format renders exactly the same positions.
//
// [sink]: github.com/matzehuels/pinmap/pkg/render/sink
package render
