package templates

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/shouni/go-creative-kit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(ts []Template) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

func TestCatalog_Queries(t *testing.T) {
	c := Default()
	require.Len(t, c.All(), 10)

	t.Run("IDで検索できる", func(t *testing.T) {
		tpl, ok := c.ByID("flash-sale")
		require.True(t, ok)
		assert.Equal(t, CategoryAll, tpl.Category)
		_, ok = c.ByID("missing")
		assert.False(t, ok)
	})

	t.Run("カテゴリ指定には全カテゴリ向けも含まれる", func(t *testing.T) {
		got := ids(c.ByCategory("food"))
		assert.Equal(t, []string{"food-premium-1", "flash-sale", "festive-special", "minimalist-modern"}, got)
		assert.Len(t, c.ByCategory(CategoryAll), 10)
	})

	t.Run("CTR上位", func(t *testing.T) {
		assert.Equal(t, []string{"flash-sale", "beverage-energy-1", "festive-special"}, ids(c.TopPerforming(3)))
	})

	t.Run("タグなしの推薦はCTR順", func(t *testing.T) {
		got := c.Recommend("food", nil)
		assert.Equal(t, "flash-sale", got[0].ID)
		assert.LessOrEqual(t, len(got), 5)
	})

	t.Run("タグ一致数が優先される", func(t *testing.T) {
		tpl, _ := c.ByID("food-premium-1")
		require.NotEmpty(t, tpl.Tags)
		got := c.Recommend("food", []string{strings.ToUpper(tpl.Tags[0])})
		assert.Equal(t, "food-premium-1", got[0].ID)
	})

	t.Run("検索は大文字小文字を区別しない", func(t *testing.T) {
		got := c.Search("FLASH")
		assert.Contains(t, ids(got), "flash-sale")
		assert.Empty(t, c.Search("zzzz-no-match"))
	})

	t.Run("結果の変更はカタログに影響しない", func(t *testing.T) {
		all := c.All()
		all[0].ID = "changed"
		_, ok := c.ByID("changed")
		assert.False(t, ok)
	})
}

func TestCatalog_CompareAndInsights(t *testing.T) {
	c := Default()
	tpl, ok := c.ByID("flash-sale")
	require.True(t, ok)

	cmp := c.CompareWithCategory(tpl)
	assert.Equal(t, 1, cmp.Rank)
	assert.Equal(t, 10, cmp.TotalInCategory)
	assert.Greater(t, cmp.CTRVsAvg, 0.0)

	insights := c.Insights(tpl)
	require.NotEmpty(t, insights)
	assert.Equal(t, "High Engagement", insights[0].Title)
	assert.Contains(t, insights[0].Text, "113% above industry standard")

	minimal, _ := c.ByID("personal-care-natural")
	titles := []string{}
	for _, in := range c.Insights(minimal) {
		titles = append(titles, in.Title)
	}
	assert.NotContains(t, titles, "High Engagement")
	assert.Contains(t, titles, "Smart Layout")
}

func TestPickBadge(t *testing.T) {
	t.Run("rngなしは先頭と下限で決定的", func(t *testing.T) {
		b, text, err := PickBadge(BadgeScarcity, nil)
		require.NoError(t, err)
		assert.Equal(t, "#7c3aed", b.Background)
		assert.Equal(t, "📦 Only 5 Left!", text)
	})

	t.Run("同じシードなら同じ結果", func(t *testing.T) {
		for _, kind := range BadgeKinds() {
			_, a, err := PickBadge(kind, rand.New(rand.NewPCG(1, 2)))
			require.NoError(t, err)
			_, b, _ := PickBadge(kind, rand.New(rand.NewPCG(1, 2)))
			assert.Equal(t, a, b)
			assert.NotContains(t, a, "{X}")
		}
	})

	t.Run("未知の種類はエラー", func(t *testing.T) {
		_, _, err := PickBadge("sparkly", nil)
		assert.Error(t, err)
		_, err = ParseBadgeKind("Trust")
		assert.NoError(t, err)
	})
}

func TestNewBadgeElement(t *testing.T) {
	first, err := NewBadgeElement(BadgeUrgency, 1080, 0, nil)
	require.NoError(t, err)
	assert.True(t, first.IsBadge())
	assert.Equal(t, "urgency", first.Group.BadgeType)

	// "⏰ Limited Time Offer!" は21文字
	assert.InDelta(t, 21*9+30, first.Width, 1e-9)
	assert.InDelta(t, 1080-first.Width-20, first.X, 1e-9)
	assert.InDelta(t, 20, first.Y, 1e-9)

	second, err := NewBadgeElement(BadgeTrust, 1080, 1, nil)
	require.NoError(t, err)
	assert.InDelta(t, 70, second.Y, 1e-9)
}

func TestBuild(t *testing.T) {
	c := Default()

	t.Run("帯付きレイアウト", func(t *testing.T) {
		tpl, _ := c.ByID("flash-sale")
		scene := Build(tpl, 1080, 1080, nil)
		require.NoError(t, scene.Validate())

		band := scene.Elements[0]
		assert.Equal(t, domain.KindRect, band.Kind)
		assert.InDelta(t, 324, band.Height, 1e-9)
		assert.Equal(t, tpl.Style.PrimaryColor, band.Shape.Fill)

		texts := scene.Texts()
		require.Len(t, texts, 2)
		assert.Equal(t, HeadingPlaceholder, texts[0].TextContent())
		assert.Equal(t, "#ffffff", texts[0].Text.Fill)
		assert.InDelta(t, 1080*0.15, texts[0].Y+texts[0].Height/2, 1e-9)
		assert.InDelta(t, 540, texts[0].X+texts[0].Width/2, 1e-9)

		if tpl.Style.HasUrgencyBadge {
			assert.Len(t, scene.Badges(), 1)
		}
	})

	t.Run("minimalは帯なしで見出しが主色", func(t *testing.T) {
		tpl, _ := c.ByID("minimalist-modern")
		scene := Build(tpl, 1200, 628, nil)
		assert.Empty(t, scene.Shapes())
		texts := scene.Texts()
		require.NotEmpty(t, texts)
		assert.Equal(t, tpl.Style.PrimaryColor, texts[0].Text.Fill)
		assert.InDelta(t, 60, texts[0].Y+texts[0].Height/2, 1e-9)
	})

	t.Run("CTAと価格はグループ", func(t *testing.T) {
		for _, tpl := range c.All() {
			scene := Build(tpl, 1080, 1080, rand.New(rand.NewPCG(7, 7)))
			groups := scene.OfKind(domain.KindGroup)
			want := 0
			for _, has := range []bool{tpl.Style.HasCTA, tpl.Style.HasPrice, tpl.Style.HasUrgencyBadge} {
				if has {
					want++
				}
			}
			assert.Len(t, groups, want, tpl.ID)
		}
	})
}

func TestFill(t *testing.T) {
	tpl, ok := Default().ByID("flash-sale")
	require.True(t, ok)
	scene := Build(tpl, 1080, 1080, nil)
	before := scene.Texts()[0]

	Fill(&scene, Copy{Heading: "Mega Mango Sale", Price: "₹499"})

	heading := scene.Texts()[0]
	assert.Equal(t, "Mega Mango Sale", heading.Text.Content)
	assert.InDelta(t, before.X+before.Width/2, heading.X+heading.Width/2, 1e-9)
	assert.InDelta(t, 15*42*0.6, heading.Width, 1e-9)
	assert.Equal(t, SubheadingPlaceholder, scene.Texts()[1].Text.Content)

	found := false
	for _, g := range scene.OfKind(domain.KindGroup) {
		if g.Name == NamePrice {
			found = true
			assert.Equal(t, "₹499", g.Group.Children[1].TextContent())
		}
	}
	assert.True(t, found)
}
