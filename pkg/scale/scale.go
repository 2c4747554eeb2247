// Package scale computes the responsive scale factor for a rendered map.
//
// The factor is the ratio of the container width to a configured base
// width, clamped into configured bounds. It has no state and no side
// effects, so identical inputs always produce identical layouts.
//
// Bounds on the interactive zoom level live in the viewport package; the
// bounds here only limit how far icon sizes follow the container.
package scale

import "math"

// DefaultFactor is returned for degenerate inputs (non-positive or
// non-finite widths).
const DefaultFactor = 1.0

// Bounds limits a scale factor. A zero Max means no upper bound and a zero
// Min means no lower bound; inverted bounds are swapped.
type Bounds struct {
	Min float64 `json:"min" toml:"min" yaml:"min"`
	Max float64 `json:"max" toml:"max" yaml:"max"`
}

// Clamp limits v to the bounds.
func (b Bounds) Clamp(v float64) float64 {
	lo, hi := b.Min, b.Max
	if hi > 0 && lo > hi {
		lo, hi = hi, lo
	}
	if lo > 0 && v < lo {
		v = lo
	}
	if hi > 0 && v > hi {
		v = hi
	}
	return v
}

// Factor returns clamp(containerWidth/baseWidth, b.Min, b.Max), or
// DefaultFactor when either width is not a positive finite number.
func Factor(containerWidth, baseWidth float64, b Bounds) float64 {
	return factor(containerWidth, baseWidth, b, DefaultFactor)
}

// Engine binds a base width and bounds so callers can compute the factor
// from the container width alone.
type Engine struct {
	BaseWidth float64
	Bounds    Bounds
	// Default is returned for degenerate widths. Zero means DefaultFactor.
	Default float64
}

// Factor returns the scale for the given container width.
func (e Engine) Factor(containerWidth float64) float64 {
	def := e.Default
	if def <= 0 {
		def = DefaultFactor
	}
	return factor(containerWidth, e.BaseWidth, e.Bounds, def)
}

func factor(containerWidth, baseWidth float64, b Bounds, def float64) float64 {
	if !positive(containerWidth) || !positive(baseWidth) {
		return def
	}
	return b.Clamp(containerWidth / baseWidth)
}

// positive reports whether v is a finite number greater than zero.
// NaN fails the comparison.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
