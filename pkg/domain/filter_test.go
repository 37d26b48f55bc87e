package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilterKind(t *testing.T) {
	k, err := ParseFilterKind(" Sepia ")
	require.NoError(t, err)
	assert.Equal(t, FilterSepia, k)

	_, err = ParseFilterKind("vintage")
	assert.Error(t, err)
	assert.Contains(t, FilterKinds(), FilterNone)
}

func TestImageFilters(t *testing.T) {
	t.Run("調整値は丸められる", func(t *testing.T) {
		f := ImageFilters{Effect: FilterNone, Brightness: 150, Saturation: -300}.Clamped()
		assert.Equal(t, ImageFilters{Brightness: 100, Saturation: -100}, f)
		assert.False(t, f.IsZero())
		assert.True(t, ImageFilters{Effect: FilterNone}.IsZero())
	})

	t.Run("未設定のフィルタはJSONに出ない", func(t *testing.T) {
		data, err := json.Marshal(NewImage("a.png", 10, 10, 0, 0))
		require.NoError(t, err)
		assert.NotContains(t, string(data), "filters")

		e := NewImage("a.png", 10, 10, 0, 0)
		e.Image.Filters.Effect = FilterBlur
		data, err = json.Marshal(e)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"filters":{"effect":"blur"}`)
	})
}
