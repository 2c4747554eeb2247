package gallery

import (
	"math"

	"github.com/matzehuels/pinmap/pkg/observability"
)

// DefaultSwipeThreshold is the horizontal displacement a touch must exceed
// to count as a swipe.
const DefaultSwipeThreshold = 50.0

// Key is a navigation key.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyEscape
)

// Callbacks are the notifications a controller emits. All are optional.
type Callbacks struct {
	// OnIndexChange receives the new index after every transition. When set,
	// OnPrevious and OnNext are not called.
	OnIndexChange func(index int)
	OnPrevious    func()
	OnNext        func()
	// OnClose is called once per open/close cycle.
	OnClose func()
}

// Option configures a Controller.
type Option func(*Controller)

// WithSwipeThreshold overrides DefaultSwipeThreshold. Non-positive values
// are ignored.
func WithSwipeThreshold(v float64) Option {
	return func(c *Controller) {
		if v > 0 && !math.IsInf(v, 1) {
			c.threshold = v
		}
	}
}

// Controller holds the navigation state of one open viewer.
//
// A Controller is not safe for concurrent use. Drive it from a single event
// loop, or through a Dispatcher, which serializes delivery.
type Controller struct {
	items     []MediaItem
	index     int
	open      bool
	cb        Callbacks
	threshold float64

	touching   bool
	touchStart float64
}

// New returns an open controller positioned at index, clamped into range.
func New(items []MediaItem, index int, cb Callbacks, opts ...Option) *Controller {
	c := &Controller{
		items:     items,
		cb:        cb,
		threshold: DefaultSwipeThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Open(index)
	return c
}

// Open re-opens the viewer at index, clamped into range. The controller
// keeps no memory of where it was closed; the owner supplies the index.
func (c *Controller) Open(index int) {
	c.open = true
	c.index = c.clamp(index)
	c.touching = false
}

// Close ends navigation. OnClose fires once; further calls and all input
// are ignored until Open.
func (c *Controller) Close() {
	if !c.open {
		return
	}
	c.open = false
	c.touching = false
	observability.Navigation().OnClose(c.index)
	if c.cb.OnClose != nil {
		c.cb.OnClose()
	}
}

// IsOpen reports whether the viewer is open.
func (c *Controller) IsOpen() bool { return c.open }

// Viewable reports whether there is anything to show. A viewer with no items
// should not be rendered at all.
func (c *Controller) Viewable() bool { return c.open && len(c.items) > 0 }

// Index returns the current index. It is 0 when there are no items.
func (c *Controller) Index() int { return c.index }

// Count returns the number of items.
func (c *Controller) Count() int { return len(c.items) }

// Threshold returns the swipe threshold.
func (c *Controller) Threshold() float64 { return c.threshold }

// Current returns the item at the current index.
func (c *Controller) Current() (MediaItem, bool) {
	if len(c.items) == 0 {
		return MediaItem{}, false
	}
	return c.items[c.index], true
}

// Step moves delta items with wrap-around in both directions.
func (c *Controller) Step(delta int) { c.step(delta, "step") }

// JumpTo selects index directly, clamped into range, when OnIndexChange is
// configured. Without it, JumpTo moves a single step toward index.
func (c *Controller) JumpTo(index int) {
	if !c.navigable() {
		return
	}
	target := c.clamp(index)
	if c.cb.OnIndexChange == nil {
		switch {
		case target > c.index:
			c.step(1, "jump")
		case target < c.index:
			c.step(-1, "jump")
		}
		return
	}
	c.moveTo(target, 0, "jump")
}

// Wheel steps forward for dy > 0 and back for dy < 0. It is ignored unless
// the viewer is open with more than one item.
func (c *Controller) Wheel(dy float64) {
	if !c.open || len(c.items) < 2 {
		return
	}
	switch {
	case dy > 0:
		c.step(1, "wheel")
	case dy < 0:
		c.step(-1, "wheel")
	}
}

// TouchStart begins a horizontal swipe at x.
func (c *Controller) TouchStart(x float64) {
	if !c.navigable() || math.IsNaN(x) {
		return
	}
	c.touching = true
	c.touchStart = x
}

// TouchMove updates the swipe. Once the displacement start-x exceeds the
// threshold the controller steps in its direction and ignores the rest of
// the touch.
func (c *Controller) TouchMove(x float64) {
	if !c.touching || math.IsNaN(x) {
		return
	}
	d := c.touchStart - x
	if math.Abs(d) <= c.threshold {
		return
	}
	c.touching = false
	if d > 0 {
		c.step(1, "swipe")
	} else {
		c.step(-1, "swipe")
	}
}

// TouchEnd ends the current touch.
func (c *Controller) TouchEnd() { c.touching = false }

// Key handles a navigation key.
func (c *Controller) Key(k Key) {
	switch k {
	case KeyLeft:
		c.step(-1, "key")
	case KeyRight:
		c.step(1, "key")
	case KeyEscape:
		c.Close()
	}
}

func (c *Controller) step(delta int, channel string) {
	if !c.navigable() || delta == 0 {
		return
	}
	n := len(c.items)
	d := delta % n
	c.moveTo(((c.index+d)%n+n)%n, delta, channel)
}

// moveTo sets the index and notifies. direction selects the legacy
// callback and is ignored when OnIndexChange is set.
func (c *Controller) moveTo(next, direction int, channel string) {
	if next == c.index {
		return
	}
	prev := c.index
	c.index = next
	observability.Navigation().OnNavigate(channel, prev, next)

	switch {
	case c.cb.OnIndexChange != nil:
		c.cb.OnIndexChange(next)
	case direction > 0 && c.cb.OnNext != nil:
		c.cb.OnNext()
	case direction < 0 && c.cb.OnPrevious != nil:
		c.cb.OnPrevious()
	}
}

func (c *Controller) navigable() bool { return c.open && len(c.items) > 0 }

func (c *Controller) clamp(i int) int {
	switch {
	case len(c.items) == 0 || i < 0:
		return 0
	case i >= len(c.items):
		return len(c.items) - 1
	default:
		return i
	}
}
