// Package iconmap anchors icons to an image by percentage and converts those
// anchors into pixel placements.
//
// An [Icon] declares where it sits as a fraction of the image's width and
// height, so its position is independent of the resolution the image is
// shown at. [Layout] turns a [Set] of icons plus a [geometry.Snapshot] and a
// scale factor into [Placement] values:
//
//	X = ImageOffsetX + X%/100 * ImageWidth
//	Y = ImageOffsetY + Y%/100 * ImageHeight
//	Size = Size * scale
//
// Placements are never cached: every call is a full recompute against the
// geometry it is given, so a placement can never be stale with respect to
// the snapshot that produced it. A [Mapper] wires this to a geometry
// observation and publishes a fresh slice on every change.
//
// Before the first real measurement the snapshot is all zeros and every
// icon is placed at the container origin. This is a transient state, not an
// error.
package iconmap
