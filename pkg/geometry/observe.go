package geometry

import "sync"

// Observation tracks the geometry of one container/image pair and reports
// changes to a single callback.
//
// Measurement and emission are serialized: one callback runs to completion
// before the next measurement starts. The callback must not call Refresh
// or Stop on the same observation.
type Observation struct {
	mu        sync.Mutex
	container Element
	image     Element
	fn        func(Snapshot)
	last      Snapshot
	stopped   bool
}

// Observe measures container and image and emits the initial snapshot to fn
// before returning.
func Observe(container, image Element, fn func(Snapshot)) *Observation {
	o := &Observation{container: container, image: image, fn: fn}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.last = Measure(container, image)
	if fn != nil {
		fn(o.last)
	}
	return o
}

// Refresh re-measures both elements and emits a snapshot if anything
// changed. It reports whether a snapshot was emitted. After Stop it does
// nothing.
func (o *Observation) Refresh() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		return false
	}
	s := Measure(o.container, o.image)
	if s == o.last {
		return false
	}
	o.last = s
	if o.fn != nil {
		o.fn(s)
	}
	return true
}

// Last returns the most recently emitted snapshot.
func (o *Observation) Last() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

// Stop ends the observation. Once Stop returns the callback will not be
// invoked again. Stop is idempotent.
func (o *Observation) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopped = true
	o.fn = nil
}

// Stopped reports whether Stop has been called.
func (o *Observation) Stopped() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stopped
}
