// Package geometry measures the pixel geometry of a map's container and image.
//
// A [Snapshot] is one consistent reading of the container size, the
// rendered image size and the image's offset inside the container. An
// [Observation] owns the current snapshot for one view: it emits an initial
// snapshot when created, re-emits only when the measured geometry actually
// changes, and stops deterministically when the view is torn down.
//
// # Elements
//
// Anything with a [Rect] in a shared coordinate space can be observed:
//   - [Box]: a mutable rectangle, used for terminal windows and HTTP viewports
//   - [FileImage]: an image file whose natural size is read from its header and
//     which is placed inside a container with object-fit "contain" semantics
//
// # Watching
//
// [Watch] ties a [FileImage] to the file system: when the image file is
// rewritten its natural size is re-read and the observation refreshed, so
// layouts follow the new aspect ratio without restarting the view.
package geometry
