package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pinmap/pkg/geometry"
)

func TestTransformedScalesAboutCenter(t *testing.T) {
	container := geometry.NewBox(geometry.Rect{W: 800, H: 600})
	image := geometry.NewBox(geometry.Rect{X: 0, Y: 100, W: 800, H: 400})
	e := NewEngine(ConfigFor(TierTouch))
	el := Transformed{Inner: image, Container: container, Adapter: e}

	assert.Equal(t, geometry.Rect{X: 0, Y: 100, W: 800, H: 400}, el.Bounds())

	e.ZoomIn() // 1.25
	assert.Equal(t, geometry.Rect{X: -100, Y: 50, W: 1000, H: 500}, el.Bounds())

	require.True(t, e.Pan(10, -20))
	got := el.Bounds()
	assert.InDelta(t, -90, got.X, 1e-9)
	assert.InDelta(t, 30, got.Y, 1e-9)
}

func TestFollowRefreshesObservation(t *testing.T) {
	container := geometry.NewBox(geometry.Rect{W: 800, H: 600})
	image := geometry.NewBox(geometry.Rect{W: 800, H: 600})
	e := NewEngine(ConfigFor(TierPointer))

	var snaps []geometry.Snapshot
	obs := geometry.Observe(container, Transformed{Inner: image, Container: container, Adapter: e}, func(s geometry.Snapshot) {
		snaps = append(snaps, s)
	})
	defer obs.Stop()
	release := Follow(e, obs)

	e.ZoomIn()
	require.Len(t, snaps, 2)
	assert.InDelta(t, 1000, snaps[1].ImageWidth, 1e-9)
	assert.InDelta(t, -100, snaps[1].ImageOffsetX, 1e-9)

	release()
	e.ZoomIn()
	assert.Len(t, snaps, 2)
}
