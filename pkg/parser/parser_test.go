package parser

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shouni/go-creative-kit/pkg/compliance"
	"github.com/shouni/go-creative-kit/pkg/domain"
	"github.com/shouni/go-creative-kit/pkg/layout"
	"github.com/shouni/go-creative-kit/pkg/rules"
	"github.com/shouni/go-creative-kit/pkg/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sceneJSON = `{
  "width": 1080,
  "height": 1080,
  "elements": [
    {"kind": "image", "x": 0, "y": 0, "width": 500, "height": 500,
     "image": {"pixel_width": 500, "pixel_height": 500, "source": "assets/mango.png"}},
    {"id": "headline", "kind": "text", "x": 100, "y": 80, "text": {"content": "Fresh Mangoes"}},
    {"kind": "group", "x": 10, "y": 10, "group": {"children": [
      {"kind": "rect", "width": 40, "height": 20, "shape": {"fill": "#ff0000"}}
    ]}}
  ]
}`

func TestSceneParser_ParseFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json")
	require.NoError(t, os.WriteFile(path, []byte(sceneJSON), 0o644))

	p := NewSceneParser(NewLocalReader())
	scene, err := p.ParseFromPath(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultBackground, scene.Background)
	require.Len(t, scene.Elements, 3)
	assert.Equal(t, filepath.Join(dir, "assets", "mango.png"), scene.Elements[0].Image.Source)
	assert.NotEmpty(t, scene.Elements[0].ID)
	assert.Equal(t, "headline", scene.Elements[1].ID)
	assert.Equal(t, domain.DefaultFontSize, scene.Elements[1].Text.FontSize)
	assert.NotEmpty(t, scene.Elements[2].Group.Children[0].ID)

	t.Run("存在しないファイル", func(t *testing.T) {
		_, err := p.ParseFromPath(context.Background(), filepath.Join(dir, "missing.json"))
		assert.Error(t, err)
	})

	t.Run("URLは読めない", func(t *testing.T) {
		_, err := p.ParseFromPath(context.Background(), "gs://bucket/scene.json")
		assert.Error(t, err)
	})
}

func TestDecode(t *testing.T) {
	t.Run("壊れたJSON", func(t *testing.T) {
		_, err := Decode(strings.NewReader("{"))
		assert.Error(t, err)
	})

	t.Run("キャンバスサイズが不正", func(t *testing.T) {
		_, err := Decode(strings.NewReader(`{"width": 0, "height": 100, "elements": []}`))
		assert.Error(t, err)
	})

	t.Run("サイズを省略した要素も被覆率の判定に使われる", func(t *testing.T) {
		scene, err := Decode(strings.NewReader(`{"width": 1080, "height": 1080, "elements": [
			{"kind": "image", "x": 140, "y": 140, "image": {"pixel_width": 800, "pixel_height": 800}},
			{"kind": "text", "x": 0, "y": 0, "text": {"content": "SHOP NOW ₹499 TODAY ONLY", "font_size": 200}}]}`))
		require.NoError(t, err)
		assert.Equal(t, 800.0, scene.Elements[0].Width)
		assert.Positive(t, scene.Elements[1].Width)

		p, err := rules.NewRegistry().Lookup("tesco")
		require.NoError(t, err)
		report := compliance.Evaluate(*scene, p)

		var coverage []compliance.Verdict
		for _, v := range report.Verdicts {
			if v.Rule == compliance.RuleTextCoverage || v.Rule == compliance.RuleProductImageSize {
				coverage = append(coverage, v)
			}
		}
		require.Len(t, coverage, 2)
		assert.Equal(t, compliance.StatusPassed, coverage[0].Status)
		assert.Equal(t, compliance.StatusWarning, coverage[1].Status)
		assert.Contains(t, coverage[1].Message, "57.3%")
	})

	t.Run("IDの重複", func(t *testing.T) {
		_, err := Decode(strings.NewReader(`{"width": 10, "height": 10, "elements": [
			{"id": "a", "kind": "rect"}, {"id": "a", "kind": "circle"}]}`))
		assert.Error(t, err)
	})
}

const briefMD = `# Mango Festival

- template: festive-special
- profile: BigBasket
- size: instagram-story
- heading: Alphonso Mangoes
- tagline: Straight from Ratnagiri
- cta: Order Now
- price: ₹499
- badge: urgency
- badge: Trust
- mood: sunny

## Image: images/mango.png
- position: bottom
- scale: 0.6
- filter: Sepia

## Image: https://cdn.example.com/leaf.png
`

func TestBriefParser_Parse(t *testing.T) {
	p := NewBriefParser()
	brief, err := p.Parse(filepath.Join("briefs", "mango.md"), briefMD)
	require.NoError(t, err)

	assert.Equal(t, "Mango Festival", brief.Title)
	assert.Equal(t, "festive-special", brief.Template)
	assert.Equal(t, "bigbasket", brief.Profile)
	assert.Equal(t, "instagram-story", brief.Size)
	assert.Equal(t, templates.Copy{
		Heading: "Alphonso Mangoes",
		Tagline: "Straight from Ratnagiri",
		CTA:     "Order Now",
		Price:   "₹499",
	}, brief.Copy)
	assert.Equal(t, []templates.BadgeKind{templates.BadgeUrgency, templates.BadgeTrust}, brief.Badges)

	require.Len(t, brief.Images, 2)
	assert.Equal(t, BriefImage{
		Source:   filepath.Join("briefs", "images", "mango.png"),
		Position: layout.Bottom,
		Scale:    0.6,
		Filter:   domain.FilterSepia,
	}, brief.Images[0])
	assert.Equal(t, "https://cdn.example.com/leaf.png", brief.Images[1].Source)
	assert.Equal(t, layout.Center, brief.Images[1].Position)

	t.Run("空のブリーフ", func(t *testing.T) {
		_, err := p.Parse("", "# Only a title\n\nsome prose\n")
		assert.Error(t, err)
	})

	t.Run("未知のバッジ", func(t *testing.T) {
		_, err := p.Parse("", "- heading: x\n- badge: glitter\n")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2行目")
	})

	t.Run("不正な配置", func(t *testing.T) {
		_, err := p.Parse("", "## Image: a.png\n- position: diagonal\n")
		assert.Error(t, err)
	})

	t.Run("未知のフィルタ", func(t *testing.T) {
		_, err := p.Parse("", "## Image: a.png\n- filter: vintage\n")
		assert.Error(t, err)
	})

	t.Run("scaleの範囲", func(t *testing.T) {
		_, err := p.Parse("", "## Image: a.png\n- scale: 1.5\n")
		assert.Error(t, err)
	})

	t.Run("パスのない画像セクションは無視", func(t *testing.T) {
		b, err := p.Parse("", "- heading: x\n## Image\n- position: top\n")
		require.NoError(t, err)
		assert.Empty(t, b.Images)
	})
}
