package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pinmap/pkg/errors"
)

func TestParseTier(t *testing.T) {
	tests := []struct {
		in   string
		want Tier
		ok   bool
	}{
		{"", TierPointer, true},
		{"pointer", TierPointer, true},
		{" Touch ", TierTouch, true},
		{"tv", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTier(tt.in)
			if !tt.ok {
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidTier))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPolicyTable(t *testing.T) {
	touch := ConfigFor(TierTouch)
	assert.False(t, touch.WheelEnabled)
	assert.True(t, touch.PinchEnabled)
	assert.True(t, touch.PanEnabled)

	pointer := ConfigFor(TierPointer)
	assert.True(t, pointer.WheelEnabled)
	assert.False(t, pointer.PinchEnabled)
	assert.False(t, pointer.PanEnabled)

	assert.Equal(t, pointer, ConfigFor("unknown"))

	for _, tier := range Tiers {
		c := ConfigFor(tier)
		assert.Greater(t, c.MinScale, 0.0, tier)
		assert.LessOrEqual(t, c.MinScale, c.InitialScale, tier)
		assert.LessOrEqual(t, c.InitialScale, c.MaxScale, tier)
	}
}

func TestClassifiers(t *testing.T) {
	assert.Equal(t, TierTouch, TierOf(Static(true)))
	assert.Equal(t, TierPointer, TierOf(Static(false)))
	assert.Equal(t, TierPointer, TierOf(nil))

	agents := map[string]Tier{
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148": TierTouch,
		"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 Chrome/120.0 Mobile Safari":    TierTouch,
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 Chrome/120.0 Safari/537.36":             TierPointer,
		"curl/8.4.0": TierPointer,
		"":           TierPointer,
	}
	for ua, want := range agents {
		assert.Equal(t, want, TierOf(UserAgent(ua)), ua)
	}
}
