package viewport

import (
	"math"
	"sync"
)

// Adapter is the contract of a pan/zoom engine.
type Adapter interface {
	ZoomIn()
	ZoomOut()
	// ResetTransform restores the initial scale and pan. It is always safe
	// to call, and calling it twice has the same effect as once.
	ResetTransform()
	Scale() float64
	// OnScaleChange registers fn to receive the new scale after each
	// change. Calling release unregisters it.
	OnScaleChange(fn func(scale float64)) (release func())
}

var _ Adapter = (*Engine)(nil)

// Engine is an in-process Adapter. Its zero value is not usable; create one
// with NewEngine.
type Engine struct {
	cfg Config

	mu        sync.Mutex
	scale     float64
	panX      float64
	panY      float64
	pinchBase float64
	listeners []listener
	nextID    int
}

type listener struct {
	id int
	fn func(float64)
}

// NewEngine returns an engine at cfg's initial scale.
func NewEngine(cfg Config) *Engine {
	if cfg.MinScale <= 0 {
		cfg.MinScale = 1
	}
	if cfg.MaxScale < cfg.MinScale {
		cfg.MaxScale = cfg.MinScale
	}
	e := &Engine{cfg: cfg}
	e.scale = e.clamp(cfg.InitialScale)
	return e
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Scale returns the current scale.
func (e *Engine) Scale() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scale
}

// Offset returns the current pan offset.
func (e *Engine) Offset() (x, y float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.panX, e.panY
}

// ZoomIn multiplies the scale by ZoomStep.
func (e *Engine) ZoomIn() { e.set(e.Scale() * ZoomStep) }

// ZoomOut divides the scale by ZoomStep.
func (e *Engine) ZoomOut() { e.set(e.Scale() / ZoomStep) }

// ResetTransform restores the initial scale and clears the pan.
func (e *Engine) ResetTransform() {
	e.mu.Lock()
	e.panX, e.panY = 0, 0
	e.mu.Unlock()
	e.set(e.cfg.InitialScale)
}

// OnScaleChange implements Adapter.
func (e *Engine) OnScaleChange(fn func(float64)) (release func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	e.listeners = append(e.listeners, listener{id: id, fn: fn})
	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			for i, l := range e.listeners {
				if l.id == id {
					e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
					break
				}
			}
		})
	}
}

// Wheel zooms in for negative dy (scrolling up) and out for positive dy.
// It reports whether the gesture was handled.
func (e *Engine) Wheel(dy float64) bool {
	if !e.cfg.WheelEnabled || dy == 0 || math.IsNaN(dy) {
		return false
	}
	if dy < 0 {
		e.ZoomIn()
	} else {
		e.ZoomOut()
	}
	return true
}

// PinchStart records the scale a pinch gesture is relative to.
func (e *Engine) PinchStart() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pinchBase = e.scale
}

// Pinch scales relative to the scale at PinchStart by ratio, the current
// finger distance over the initial one. It reports whether the gesture was
// handled.
func (e *Engine) Pinch(ratio float64) bool {
	if !e.cfg.PinchEnabled || !(ratio > 0) || math.IsInf(ratio, 1) {
		return false
	}
	e.mu.Lock()
	base := e.pinchBase
	if base == 0 {
		base = e.scale
	}
	e.mu.Unlock()
	e.set(base * ratio)
	return true
}

// Pan moves the content by (dx, dy). It reports whether the gesture was
// handled.
func (e *Engine) Pan(dx, dy float64) bool {
	if !e.cfg.PanEnabled || math.IsNaN(dx) || math.IsNaN(dy) {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.panX += dx
	e.panY += dy
	return true
}

// DoubleClick zooms in by the configured step, or resets once the maximum
// scale is reached. It reports whether the gesture was handled.
func (e *Engine) DoubleClick() bool {
	if e.cfg.DoubleClickZoomStep <= 0 {
		return false
	}
	s := e.Scale()
	if s >= e.cfg.MaxScale {
		e.ResetTransform()
		return true
	}
	e.set(s * (1 + e.cfg.DoubleClickZoomStep))
	return true
}

func (e *Engine) set(v float64) {
	v = e.clamp(v)
	e.mu.Lock()
	if v == e.scale {
		e.mu.Unlock()
		return
	}
	e.scale = v
	fns := make([]func(float64), len(e.listeners))
	for i, l := range e.listeners {
		fns[i] = l.fn
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

func (e *Engine) clamp(v float64) float64 {
	if math.IsNaN(v) || v <= 0 {
		v = 1
	}
	return math.Min(math.Max(v, e.cfg.MinScale), e.cfg.MaxScale)
}
