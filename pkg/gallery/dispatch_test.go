package gallery

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatchByKind(t *testing.T) {
	d := NewDispatcher()
	var keys, wheels int
	d.Listen(EventKey, func(Event) { keys++ })
	d.Listen(EventWheel, func(Event) { wheels++ })

	assert.Equal(t, 1, d.Dispatch(Event{Kind: EventKey, Key: KeyLeft}))
	assert.Equal(t, 1, d.Dispatch(Event{Kind: EventWheel, DY: 1}))
	assert.Equal(t, 0, d.Dispatch(Event{Kind: EventTouch}))
	assert.Equal(t, 1, keys)
	assert.Equal(t, 1, wheels)
}

func TestHandleRelease(t *testing.T) {
	d := NewDispatcher()
	var calls int
	h := d.Listen(EventKey, func(Event) { calls++ })
	assert.Equal(t, 1, d.Len())

	h.Release()
	h.Release()
	assert.Equal(t, 0, d.Len())
	assert.Equal(t, 0, d.Dispatch(Event{Kind: EventKey}))
	assert.Zero(t, calls)
}

func TestReleaseDuringDispatch(t *testing.T) {
	d := NewDispatcher()
	var second *Handle
	var secondCalls int
	d.Listen(EventKey, func(Event) { second.Release() })
	second = d.Listen(EventKey, func(Event) { secondCalls++ })

	assert.Equal(t, 1, d.Dispatch(Event{Kind: EventKey}))
	assert.Zero(t, secondCalls)
}

func TestReleaseFromAnotherGoroutine(t *testing.T) {
	d := NewDispatcher()
	var calls atomic.Int32
	h := d.Listen(EventKey, func(Event) { calls.Add(1) })

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Release()
	}()
	<-done

	before := calls.Load()
	for i := 0; i < 10; i++ {
		assert.Equal(t, 0, d.Dispatch(Event{Kind: EventKey}))
	}
	assert.Equal(t, before, calls.Load())
	assert.Zero(t, d.Len())
}

func TestDispatchSerialized(t *testing.T) {
	d := NewDispatcher()
	var (
		mu      sync.Mutex
		inside  bool
		overlap bool
		total   int
	)
	d.Listen(EventWheel, func(Event) {
		mu.Lock()
		if inside {
			overlap = true
		}
		inside = true
		mu.Unlock()

		mu.Lock()
		inside = false
		total++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Dispatch(Event{Kind: EventWheel, DY: 1})
		}()
	}
	wg.Wait()
	assert.False(t, overlap)
	assert.Equal(t, 50, total)
}
