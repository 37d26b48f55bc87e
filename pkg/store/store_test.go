package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shouni/go-creative-kit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "creative.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestStore_Projects(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return clock }

	scene := domain.NewScene(1080, 1080)
	id := scene.Add(domain.NewText("Fresh Mangoes", 10, 20, 32))

	info, err := s.SaveProject(ctx, "Mango Promo", scene, []byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	assert.Equal(t, clock, info.SavedAt)

	t.Run("保存したシーンを読み込める", func(t *testing.T) {
		p, err := s.LoadProject(ctx, "Mango Promo")
		require.NoError(t, err)
		assert.Equal(t, scene.Elements[0].ID, p.Scene.Elements[0].ID)
		e, err := p.Scene.Find(id)
		require.NoError(t, err)
		assert.Equal(t, "Fresh Mangoes", e.TextContent())
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, p.Preview)
	})

	t.Run("一覧は新しい順", func(t *testing.T) {
		clock = clock.Add(time.Hour)
		_, err := s.SaveProject(ctx, "Diwali", domain.NewScene(1200, 628), nil)
		require.NoError(t, err)

		list, err := s.ListProjects(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Diwali", list[0].Name)
		assert.Equal(t, "Mango Promo", list[1].Name)
	})

	t.Run("同名は上書き", func(t *testing.T) {
		clock = clock.Add(time.Hour)
		_, err := s.SaveProject(ctx, "Mango Promo", domain.NewScene(728, 90), nil)
		require.NoError(t, err)
		p, err := s.LoadProject(ctx, "Mango Promo")
		require.NoError(t, err)
		assert.Equal(t, 728.0, p.Scene.Width)

		list, _ := s.ListProjects(ctx)
		assert.Equal(t, "Mango Promo", list[0].Name)
	})

	t.Run("削除", func(t *testing.T) {
		require.NoError(t, s.DeleteProject(ctx, "Diwali"))
		_, err := s.LoadProject(ctx, "Diwali")
		assert.ErrorIs(t, err, ErrProjectNotFound)
		assert.ErrorIs(t, s.DeleteProject(ctx, "Diwali"), ErrProjectNotFound)
	})

	t.Run("空の名前は保存できない", func(t *testing.T) {
		_, err := s.SaveProject(ctx, " ", scene, nil)
		assert.Error(t, err)
	})
}

func TestStore_Colors(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	added, err := s.AddColor(ctx, "#FF0000")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.AddColor(ctx, "#ff0000")
	require.NoError(t, err)
	assert.False(t, added)

	require.NoError(t, s.SaveColors(ctx, []string{"#00ff00", "#ff0000", "", "#0000ff"}))
	colors, err := s.LoadColors(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"#ff0000", "#00ff00", "#0000ff"}, colors)

	require.NoError(t, s.RemoveColor(ctx, "#00FF00"))
	colors, err = s.LoadColors(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"#ff0000", "#0000ff"}, colors)
}
