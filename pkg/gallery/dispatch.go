package gallery

import "sync"

// EventKind classifies an input event.
type EventKind int

const (
	EventKey EventKind = iota
	EventWheel
	EventTouch
)

// TouchPhase is the stage of a touch gesture.
type TouchPhase int

const (
	TouchBegin TouchPhase = iota
	TouchMoved
	TouchEnded
)

// Event is a raw input event from a front end.
type Event struct {
	Kind  EventKind
	Key   Key        // EventKey
	DY    float64    // EventWheel
	Phase TouchPhase // EventTouch
	X     float64    // EventTouch
}

// Dispatcher fans input events out to registered listeners. Delivery is
// serialized: one Dispatch completes before the next begins.
type Dispatcher struct {
	deliver sync.Mutex

	mu        sync.Mutex
	listeners map[EventKind][]*Handle
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[EventKind][]*Handle)}
}

// Handle is one listener registration.
type Handle struct {
	d        *Dispatcher
	kind     EventKind
	fn       func(Event)
	released bool
}

// Listen registers fn for events of kind. The listener stays registered
// until the returned handle is released.
func (d *Dispatcher) Listen(kind EventKind, fn func(Event)) *Handle {
	h := &Handle{d: d, kind: kind, fn: fn}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[kind] = append(d.listeners[kind], h)
	return h
}

// Release unregisters the listener. Dispatches that start after Release
// returns never call it. A Dispatch in progress on the same goroutine, as
// when a listener releases another, skips it as well; one running on
// another goroutine may still deliver to it once. Front ends dispatch from
// a single event loop, where the first two cases are the only ones.
// Release is idempotent and may be called from inside a listener.
func (h *Handle) Release() {
	d := h.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if h.released {
		return
	}
	h.released = true
	hs := d.listeners[h.kind]
	for i, other := range hs {
		if other == h {
			d.listeners[h.kind] = append(hs[:i:i], hs[i+1:]...)
			break
		}
	}
}

// Len returns the number of registered listeners.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, hs := range d.listeners {
		n += len(hs)
	}
	return n
}

// Dispatch delivers ev to every listener registered for its kind, in
// registration order, and returns how many received it.
func (d *Dispatcher) Dispatch(ev Event) int {
	d.deliver.Lock()
	defer d.deliver.Unlock()

	d.mu.Lock()
	hs := append([]*Handle(nil), d.listeners[ev.Kind]...)
	d.mu.Unlock()

	n := 0
	for _, h := range hs {
		d.mu.Lock()
		live := !h.released
		d.mu.Unlock()
		if !live {
			continue
		}
		h.fn(ev)
		n++
	}
	return n
}
