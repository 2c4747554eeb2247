package iconmap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pinmap/pkg/errors"
)

func emoji(id string, x, y float64) Icon {
	return Icon{ID: id, X: x, Y: y, Size: 24, Emoji: "📍"}
}

func TestSetAdd(t *testing.T) {
	tests := []struct {
		name string
		icon Icon
		code errors.Code
	}{
		{"valid emoji", emoji("a", 50, 50), ""},
		{"valid image", Icon{ID: "b", X: 0, Y: 100, Size: 10, Variant: VariantImage, Image: "b.png"}, ""},
		{"empty id", emoji("", 1, 1), errors.ErrCodeInvalidIcon},
		{"x above range", emoji("c", 100.5, 0), errors.ErrCodeInvalidIcon},
		{"y below range", emoji("c", 0, -1), errors.ErrCodeInvalidIcon},
		{"nan x", emoji("c", math.NaN(), 0), errors.ErrCodeInvalidIcon},
		{"zero size", Icon{ID: "c", Size: 0, Emoji: "x"}, errors.ErrCodeInvalidIcon},
		{"emoji missing", Icon{ID: "c", Size: 1}, errors.ErrCodeInvalidIcon},
		{"image missing", Icon{ID: "c", Size: 1, Variant: VariantImage}, errors.ErrCodeInvalidIcon},
		{"unknown variant", Icon{ID: "c", Size: 1, Variant: "svg", Emoji: "x"}, errors.ErrCodeInvalidIcon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Set
			err := s.Add(tt.icon)
			if tt.code == "" {
				require.NoError(t, err)
				assert.Equal(t, 1, s.Len())
				return
			}
			assert.Equal(t, tt.code, errors.GetCode(err))
			assert.Equal(t, 0, s.Len())
		})
	}
}

func TestSetDuplicate(t *testing.T) {
	s, err := NewSet(emoji("a", 1, 1))
	require.NoError(t, err)

	err = s.Add(emoji("a", 2, 2))
	assert.True(t, errors.Is(err, errors.ErrCodeDuplicateIcon))

	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1.0, got.X, "original icon kept")
}

func TestSetOrderAndDefaults(t *testing.T) {
	s, err := NewSet(emoji("c", 1, 1), emoji("a", 2, 2), emoji("b", 3, 3))
	require.NoError(t, err)

	var ids []string
	for _, ic := range s.Icons() {
		ids = append(ids, ic.ID)
		assert.Equal(t, VariantEmoji, ic.Variant)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)

	_, ok := s.Get("missing")
	assert.False(t, ok)

	var nilSet *Set
	assert.Equal(t, 0, nilSet.Len())
	assert.Nil(t, nilSet.Icons())
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant(" Image ")
	require.NoError(t, err)
	assert.Equal(t, VariantImage, v)

	v, err = ParseVariant("")
	require.NoError(t, err)
	assert.Equal(t, VariantEmoji, v)

	_, err = ParseVariant("gif")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidIcon))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "id", Icon{ID: "id"}.Label())
	assert.Equal(t, "Tower", Icon{ID: "id", Title: "Tower"}.Label())
}
