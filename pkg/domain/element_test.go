package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElement_UnmarshalDefaults(t *testing.T) {
	t.Run("省略されたフィールドにはデフォルト値が入るのだ", func(t *testing.T) {
		var e Element
		require.NoError(t, json.Unmarshal([]byte(`{"id":"t1","kind":"text","width":100,"height":20,"text":{"content":"Hi"}}`), &e))

		assert.Equal(t, 1.0, e.ScaleX)
		assert.Equal(t, 1.0, e.ScaleY)
		assert.Equal(t, 1.0, e.Opacity)
		assert.True(t, e.Visible)
		assert.Equal(t, DefaultFontSize, e.Text.FontSize)
	})

	t.Run("明示された値はそのまま使われるのだ", func(t *testing.T) {
		var e Element
		require.NoError(t, json.Unmarshal([]byte(`{"id":"r","kind":"rect","scale_x":2,"scale_y":0.5,"opacity":0.3,"visible":false}`), &e))

		assert.Equal(t, 2.0, e.ScaleX)
		assert.Equal(t, 0.5, e.ScaleY)
		assert.Equal(t, 0.3, e.Opacity)
		assert.False(t, e.Visible)
	})

	t.Run("サイズ省略時は内容から補うのだ", func(t *testing.T) {
		var img Element
		require.NoError(t, json.Unmarshal([]byte(`{"id":"i","kind":"image","image":{"pixel_width":800,"pixel_height":600}}`), &img))
		assert.Equal(t, 800.0, img.Width)
		assert.Equal(t, 600.0, img.Height)

		var txt Element
		require.NoError(t, json.Unmarshal([]byte(`{"id":"t","kind":"text","text":{"content":"SALE","font_size":50}}`), &txt))
		w, h := EstimateTextBox("SALE", 50)
		assert.Equal(t, w, txt.Width)
		assert.Equal(t, h, txt.Height)

		var g Element
		require.NoError(t, json.Unmarshal([]byte(`{"id":"g","kind":"group","group":{"children":[
			{"id":"c","kind":"rect","x":10,"y":5,"width":40,"height":20}]}}`), &g))
		assert.Equal(t, 50.0, g.Width)
		assert.Equal(t, 25.0, g.Height)
	})

	t.Run("片方だけ指定されたサイズは残す", func(t *testing.T) {
		var img Element
		require.NoError(t, json.Unmarshal([]byte(`{"id":"i","kind":"image","width":300,"image":{"pixel_width":800,"pixel_height":600}}`), &img))
		assert.Equal(t, 300.0, img.Width)
		assert.Equal(t, 600.0, img.Height)
	})

	t.Run("範囲外の不透明度は丸められる", func(t *testing.T) {
		var e Element
		require.NoError(t, json.Unmarshal([]byte(`{"id":"r","kind":"rect","opacity":3}`), &e))
		assert.Equal(t, 1.0, e.Opacity)
	})
}

func TestElement_BoundingBox(t *testing.T) {
	e := NewRect(0, 0, 100, 50, "#000")
	e.ScaleX = 2

	w, h := e.BoundingBox()
	assert.InDelta(t, 200, w, 1e-9)
	assert.InDelta(t, 50, h, 1e-9)

	e.Rotation = 90
	w, h = e.BoundingBox()
	assert.InDelta(t, 50, w, 1e-9)
	assert.InDelta(t, 200, h, 1e-9)
}

func TestElement_Clone(t *testing.T) {
	child := NewText("Shop", 0, 0, 16)
	g := NewGroup(10, 10, "urgency", NewRect(0, 0, 100, 40, "#f00"), child)

	c := g.Clone()
	c.Group.Children[1].Text.Content = "changed"
	c.Group.BadgeType = "trust"

	assert.Equal(t, "Shop", g.Group.Children[1].Text.Content)
	assert.Equal(t, "urgency", g.Group.BadgeType)
}

func TestElement_LayerName(t *testing.T) {
	tests := []struct {
		name string
		e    Element
		want string
	}{
		{"テキストは内容を20文字で切る", NewText("This headline is definitely too long", 0, 0, 20), "This headline is def..."},
		{"矩形", NewRect(0, 0, 1, 1, ""), "Rectangle"},
		{"円", NewCircle(0, 0, 1, ""), "Circle"},
		{"画像", NewImage("h", 1, 1, 0, 0), "Image"},
		{"バッジ", NewGroup(0, 0, "value"), "Badge (value)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.e.LayerName())
		})
	}
}

func TestNewGroup_Bounds(t *testing.T) {
	g := NewGroup(0, 0, "", NewRect(0, 0, 160, 45, "#fff"), NewRect(20, 10, 200, 20, "#fff"))
	assert.Equal(t, 220.0, g.Width)
	assert.Equal(t, 45.0, g.Height)
}

func TestTextAttrs_Size(t *testing.T) {
	assert.Equal(t, DefaultFontSize, TextAttrs{Content: "x"}.Size())
	assert.Equal(t, DefaultFontSize, TextAttrs{FontSize: -3}.Size())
	assert.Equal(t, 32.0, TextAttrs{FontSize: 32}.Size())
}
