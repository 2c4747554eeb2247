package gallery

import (
	"sync"
	"time"
)

// HintConfig configures the usage hint shown when a viewer is bound.
type HintConfig struct {
	// Delay before the hint is dismissed. Zero means DefaultHintDelay; a
	// negative value disables the hint.
	Delay time.Duration
	// OnDismiss is called from the timer goroutine when the hint expires.
	OnDismiss func()
}

// Binding is the set of subscriptions a bound controller holds.
type Binding struct {
	once    sync.Once
	handles []*Handle
	hint    *Hint
}

// Bind registers the controller's key, wheel and touch listeners on d and
// shows the usage hint. Release the binding when the viewer is torn down.
func (c *Controller) Bind(d *Dispatcher, hc HintConfig) *Binding {
	delay := hc.Delay
	if delay == 0 {
		delay = DefaultHintDelay
	}
	b := &Binding{
		handles: []*Handle{
			d.Listen(EventKey, func(ev Event) { c.Key(ev.Key) }),
			d.Listen(EventWheel, func(ev Event) { c.Wheel(ev.DY) }),
			d.Listen(EventTouch, func(ev Event) {
				switch ev.Phase {
				case TouchBegin:
					c.TouchStart(ev.X)
				case TouchMoved:
					c.TouchMove(ev.X)
				case TouchEnded:
					c.TouchEnd()
				}
			}),
		},
		hint: ShowHint(delay, hc.OnDismiss),
	}
	return b
}

// Hint returns the binding's usage hint.
func (b *Binding) Hint() *Hint { return b.hint }

// Release removes every listener and cancels the hint. It is idempotent.
func (b *Binding) Release() {
	b.once.Do(func() {
		for _, h := range b.handles {
			h.Release()
		}
		b.hint.Cancel()
	})
}
