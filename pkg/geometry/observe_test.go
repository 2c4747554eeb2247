package geometry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveEmitsInitialSnapshot(t *testing.T) {
	container := NewBox(Rect{W: 800, H: 600})
	image := Fitted{Container: container, NaturalW: 400, NaturalH: 400}

	var got []Snapshot
	obs := Observe(container, image, func(s Snapshot) { got = append(got, s) })
	defer obs.Stop()

	require.Len(t, got, 1)
	assert.Equal(t, Snapshot{
		ContainerWidth: 800, ContainerHeight: 600,
		ImageWidth: 600, ImageHeight: 600,
		ImageOffsetX: 100,
	}, got[0])
	assert.Equal(t, got[0], obs.Last())
}

func TestRefreshEmitsOnlyOnChange(t *testing.T) {
	container := NewBox(Rect{W: 800, H: 600})
	image := Fitted{Container: container, NaturalW: 400, NaturalH: 400}

	var count int
	obs := Observe(container, image, func(Snapshot) { count++ })
	defer obs.Stop()

	assert.False(t, obs.Refresh(), "unchanged geometry must not emit")
	assert.Equal(t, 1, count)

	container.Resize(1000, 600)
	assert.True(t, obs.Refresh())
	assert.Equal(t, 2, count)
	assert.Equal(t, 1000.0, obs.Last().ContainerWidth)

	assert.False(t, obs.Refresh())
	assert.Equal(t, 2, count)
}

func TestStopIsFinal(t *testing.T) {
	container := NewBox(Rect{W: 100, H: 100})

	var count int
	obs := Observe(container, container, func(Snapshot) { count++ })
	obs.Stop()
	obs.Stop()

	container.Resize(200, 200)
	assert.False(t, obs.Refresh())
	assert.Equal(t, 1, count)
	assert.True(t, obs.Stopped())
}

func TestRefreshSerialized(t *testing.T) {
	container := NewBox(Rect{W: 100, H: 100})

	var (
		mu      sync.Mutex
		running bool
		overlap bool
	)
	obs := Observe(container, container, func(Snapshot) {
		mu.Lock()
		if running {
			overlap = true
		}
		running = true
		mu.Unlock()

		mu.Lock()
		running = false
		mu.Unlock()
	})
	defer obs.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			container.Resize(float64(100+i), 100)
			obs.Refresh()
		}(i)
	}
	wg.Wait()
	assert.False(t, overlap)
}
