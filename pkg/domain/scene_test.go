package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleScene() Scene {
	s := NewScene(1080, 1080)
	s.Add(Element{ID: "img", Kind: KindImage, Width: 800, Height: 800, ScaleX: 1, ScaleY: 1, Opacity: 1, Visible: true,
		Image: &ImageAttrs{PixelWidth: 800, PixelHeight: 800, Source: "product.png"}})
	s.Add(Element{ID: "txt", Kind: KindText, Width: 300, Height: 40, ScaleX: 1, ScaleY: 1, Opacity: 1, Visible: true,
		Text: &TextAttrs{Content: "Shop Now ₹499", FontSize: 20}})
	s.Add(Element{ID: "rect", Kind: KindRect, Width: 100, Height: 100, ScaleX: 1, ScaleY: 1, Opacity: 1, Visible: true,
		Shape: &ShapeAttrs{Fill: "#ff0000"}})
	return s
}

func TestScene_EncodeDecode(t *testing.T) {
	t.Run("スナップショットから同じシーンに戻るのだ", func(t *testing.T) {
		s := sampleScene()
		snap, err := s.Encode()
		require.NoError(t, err)

		decoded, err := DecodeScene(snap)
		require.NoError(t, err)
		assert.Equal(t, s, decoded)
	})

	t.Run("壊れたJSONはエラーなのだ", func(t *testing.T) {
		_, err := DecodeScene(Snapshot(`{ invalid`))
		assert.Error(t, err)
	})
}

func TestScene_Clone(t *testing.T) {
	s := sampleScene()
	c := s.Clone()
	c.Elements[1].Text.Content = "Buy"
	c.Elements[0].X = 99

	assert.Equal(t, "Shop Now ₹499", s.Elements[1].Text.Content)
	assert.Equal(t, 0.0, s.Elements[0].X)
}

func TestScene_Shift(t *testing.T) {
	s := sampleScene()

	moved, err := s.Shift("img", 1)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, []string{"txt", "img", "rect"}, ids(s))

	moved, err = s.Shift("rect", 5)
	require.NoError(t, err)
	assert.False(t, moved, "最前面からは動かないのだ")

	require.NoError(t, s.ToBack("rect"))
	assert.Equal(t, []string{"rect", "txt", "img"}, ids(s))

	_, err = s.Shift("missing", 1)
	assert.True(t, errors.Is(err, ErrElementNotFound))
}

func TestScene_RemoveReplace(t *testing.T) {
	s := sampleScene()
	require.NoError(t, s.Remove("txt"))
	assert.Equal(t, []string{"img", "rect"}, ids(s))

	r := s.Elements[1]
	r.X = 42
	require.NoError(t, s.Replace(r))
	assert.Equal(t, 42.0, s.Elements[1].X)

	assert.ErrorIs(t, s.Remove("txt"), ErrElementNotFound)
}

func TestScene_Digest(t *testing.T) {
	a, err := sampleScene().Digest()
	require.NoError(t, err)
	b, err := sampleScene().Digest()
	require.NoError(t, err)
	assert.Equal(t, a, b)

	s := sampleScene()
	s.Background = "#000000"
	c, err := s.Digest()
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestScene_Validate(t *testing.T) {
	assert.NoError(t, sampleScene().Validate())
	assert.Error(t, Scene{Width: 0, Height: 10}.Validate())

	s := sampleScene()
	s.Elements = append(s.Elements, s.Elements[0])
	assert.Error(t, s.Validate())
}

func TestScene_LayerNames(t *testing.T) {
	assert.Equal(t, []string{"Rectangle", "Shop Now ₹499", "Image"}, sampleScene().LayerNames())
}

func ids(s Scene) []string {
	out := make([]string, len(s.Elements))
	for i, e := range s.Elements {
		out[i] = e.ID
	}
	return out
}
