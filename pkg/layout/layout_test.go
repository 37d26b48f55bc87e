package layout

import (
	"errors"
	"testing"

	"github.com/shouni/go-creative-kit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutManager_Align(t *testing.T) {
	l := NewLayoutManager()
	scene := domain.NewScene(1000, 500)
	id := scene.Add(domain.NewRect(10, 10, 200, 100, "#000"))

	tests := []struct {
		pos  Position
		x, y float64
	}{
		{Right, 800, 10},
		{Left, 0, 10},
		{Center, 400, 10},
		{Bottom, 400, 400},
		{Top, 400, 0},
		{Middle, 400, 200},
	}
	for _, tt := range tests {
		t.Run(string(tt.pos), func(t *testing.T) {
			require.NoError(t, l.Align(&scene, id, tt.pos))
			e, _ := scene.Find(id)
			assert.Equal(t, tt.x, e.X)
			assert.Equal(t, tt.y, e.Y)
		})
	}

	assert.True(t, errors.Is(l.Align(&scene, "missing", Left), domain.ErrElementNotFound))
	assert.Error(t, l.Align(&scene, id, Position("diagonal")))

	_, err := ParsePosition("middle")
	assert.NoError(t, err)
	_, err = ParsePosition("up")
	assert.Error(t, err)
}

func TestLayoutManager_AutoArrange(t *testing.T) {
	l := NewLayoutManager()

	t.Run("要素が1つでは配置しない", func(t *testing.T) {
		scene := domain.NewScene(1080, 1080)
		scene.Add(domain.NewRect(0, 0, 10, 10, "#000"))
		assert.True(t, errors.Is(l.AutoArrange(&scene), ErrTooFewElements))
	})

	scene := domain.NewScene(1080, 1080)
	t1 := domain.NewText("Headline", 0, 0, 40)
	t1.Width, t1.Height = 200, 40
	scene.Add(t1)
	rect := domain.NewRect(0, 0, 100, 50, "#000")
	scene.Add(rect)
	img := domain.NewImage("p.png", 400, 400, 0, 0)
	scene.Add(img)
	t2 := domain.NewText("Shop now", 0, 0, 20)
	t2.Width, t2.Height = 100, 20
	scene.Add(t2)

	require.NoError(t, l.AutoArrange(&scene))

	assert.Equal(t, []string{img.ID, rect.ID, t1.ID, t2.ID}, []string{
		scene.Elements[0].ID, scene.Elements[1].ID, scene.Elements[2].ID, scene.Elements[3].ID,
	})
	i, _ := scene.Find(img.ID)
	assert.Equal(t, 340.0, i.X)
	assert.Equal(t, 340.0, i.Y)
	h1, _ := scene.Find(t1.ID)
	assert.Equal(t, 440.0, h1.X)
	assert.Equal(t, 60.0, h1.Y)
	h2, _ := scene.Find(t2.ID)
	assert.Equal(t, 150.0, h2.Y)
	r, _ := scene.Find(rect.ID)
	assert.Equal(t, 515.0, r.Y)
}

func TestLayoutManager_BadgeSlot(t *testing.T) {
	l := NewLayoutManager()
	x, y := l.BadgeSlot(1080, 200, 0)
	assert.Equal(t, 860.0, x)
	assert.Equal(t, 20.0, y)
	_, y = l.BadgeSlot(1080, 200, 2)
	assert.Equal(t, 120.0, y)
}

func TestLayoutManager_Resize(t *testing.T) {
	l := NewLayoutManager()
	scene := domain.NewScene(1000, 1000)
	scene.Add(domain.NewRect(100, 200, 10, 10, "#000"))

	require.NoError(t, l.Resize(&scene, 500, 2000))
	e := scene.Elements[0]
	assert.Equal(t, 50.0, e.X)
	assert.Equal(t, 400.0, e.Y)
	assert.Equal(t, 0.5, e.ScaleX)
	assert.Equal(t, 2.0, e.ScaleY)
	assert.Equal(t, 500.0, scene.Width)

	assert.Error(t, l.Resize(&scene, 0, 10))
}

func TestStyleManager(t *testing.T) {
	s := NewStyleManager()

	ratio, err := s.ContrastRatio("#000000", "#ffffff")
	require.NoError(t, err)
	assert.InDelta(t, 21.0, ratio, 0.01)

	ratio, err = s.ContrastRatio("#777777", "#777777")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ratio, 1e-9)

	_, err = s.ContrastRatio("nope", "#fff")
	assert.Error(t, err)

	assert.Equal(t, "#ffffff", s.ReadableTextColor("#1a1a2e"))
	assert.Equal(t, "#000000", s.ReadableTextColor("#fef3c7"))

	t.Run("テキストの下の図形を背景とみなすのだ", func(t *testing.T) {
		scene := domain.NewScene(1000, 1000)
		scene.Background = "#fafafa"
		scene.Add(domain.NewRect(0, 0, 1000, 300, "#ff6b35"))
		txt := domain.NewText("Your Product Name", 100, 100, 42)
		scene.Add(txt)
		low := domain.NewText("Below", 100, 700, 20)
		scene.Add(low)

		assert.Equal(t, "#ff6b35", s.BackdropOf(scene, 1))
		assert.Equal(t, "#fafafa", s.BackdropOf(scene, 2))
	})
}
