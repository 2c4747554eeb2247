package geometry

import "math"

// Snapshot is a single consistent reading of container and image geometry.
// Sizes are never negative. Offsets are relative to the container's
// top-left corner.
type Snapshot struct {
	ContainerWidth  float64 `json:"container_width"`
	ContainerHeight float64 `json:"container_height"`
	ImageWidth      float64 `json:"image_width"`
	ImageHeight     float64 `json:"image_height"`
	ImageOffsetX    float64 `json:"image_offset_x"`
	ImageOffsetY    float64 `json:"image_offset_y"`
}

// IsZero reports whether s is the pre-measurement snapshot.
func (s Snapshot) IsZero() bool { return s == Snapshot{} }

// Rect is an axis-aligned rectangle. W and H are sizes, X and Y the
// top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Element is anything whose bounds can be measured.
type Element interface {
	Bounds() Rect
}

// Measure reads both elements and returns the resulting snapshot. A nil
// element measures as an empty rectangle at the origin.
func Measure(container, image Element) Snapshot {
	var c, i Rect
	if container != nil {
		c = container.Bounds()
	}
	if image != nil {
		i = image.Bounds()
	}
	s := Snapshot{
		ContainerWidth:  size(c.W),
		ContainerHeight: size(c.H),
		ImageWidth:      size(i.W),
		ImageHeight:     size(i.H),
	}
	if s.ImageWidth > 0 || s.ImageHeight > 0 {
		s.ImageOffsetX = finite(i.X - c.X)
		s.ImageOffsetY = finite(i.Y - c.Y)
	}
	return s
}

// Contain places an image of the given natural size inside container,
// scaled to fit entirely and centered. Degenerate sizes yield an empty
// rectangle at the container's corner.
func Contain(container Rect, naturalW, naturalH float64) Rect {
	if size(container.W) == 0 || size(container.H) == 0 || size(naturalW) == 0 || size(naturalH) == 0 {
		return Rect{X: container.X, Y: container.Y}
	}
	s := math.Min(container.W/naturalW, container.H/naturalH)
	w, h := naturalW*s, naturalH*s
	return Rect{
		X: container.X + (container.W-w)/2,
		Y: container.Y + (container.H-h)/2,
		W: w,
		H: h,
	}
}

func size(v float64) float64 {
	if !(v > 0) || math.IsInf(v, 1) {
		return 0
	}
	return v
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
