package geometry

import "sync"

// Box is a mutable Element. It is safe for concurrent use.
type Box struct {
	mu sync.RWMutex
	r  Rect
}

// NewBox creates a box with the given bounds.
func NewBox(r Rect) *Box {
	return &Box{r: r}
}

// Bounds returns the current bounds.
func (b *Box) Bounds() Rect {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.r
}

// Set replaces the bounds.
func (b *Box) Set(r Rect) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.r = r
}

// Resize changes the size and keeps the position.
func (b *Box) Resize(w, h float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.r.W, b.r.H = w, h
}

// Fitted is an Element that places an image of a fixed natural size inside
// a container using Contain. Its bounds follow the container.
type Fitted struct {
	Container          Element
	NaturalW, NaturalH float64
}

// Bounds returns the contain-fit placement inside the current container.
func (f Fitted) Bounds() Rect {
	if f.Container == nil {
		return Rect{}
	}
	return Contain(f.Container.Bounds(), f.NaturalW, f.NaturalH)
}
