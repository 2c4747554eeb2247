package gallery

import (
	"sync"
	"time"
)

// DefaultHintDelay is how long the usage hint stays visible.
const DefaultHintDelay = 3 * time.Second

// Hint is a one-shot dismissal timer for a transient usage hint.
type Hint struct {
	mu        sync.Mutex
	timer     *time.Timer
	fn        func()
	visible   bool
	cancelled bool
}

// ShowHint marks the hint visible and calls dismiss after delay. A
// non-positive delay yields a hint that is never shown.
func ShowHint(delay time.Duration, dismiss func()) *Hint {
	h := &Hint{fn: dismiss}
	if delay <= 0 {
		return h
	}
	h.visible = true
	h.timer = time.AfterFunc(delay, h.fire)
	return h
}

func (h *Hint) fire() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelled || !h.visible {
		return
	}
	h.visible = false
	if h.fn != nil {
		h.fn()
	}
}

// Visible reports whether the hint is still showing.
func (h *Hint) Visible() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.visible
}

// Cancel stops the timer. Once Cancel returns the dismiss callback will not
// run. The callback must not call Cancel.
func (h *Hint) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancelled = true
	h.visible = false
	if h.timer != nil {
		h.timer.Stop()
	}
}
