package workflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shouni/go-creative-kit/pkg/config"
	"github.com/shouni/go-creative-kit/pkg/domain"
	"github.com/shouni/go-creative-kit/pkg/export"
	"github.com/shouni/go-creative-kit/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const extraProfiles = `profiles:
  - name: reliance
    display_name: Reliance Retail
    required_elements: [brand_logo, price]
    forbidden_words: [cheapest]
    max_text_percentage: 30
    logo_min_size: 8
    logo_max_size: 20
    text_min_contrast: 4.5
    cta_required: true
    price_required: true
    min_image_percentage: 30
    min_font_size: 14
    max_font_size: 72
`

func newTestConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.RateInterval = 0
	cfg.OutputDir = filepath.Join(dir, "out")
	cfg.StorePath = filepath.Join(dir, "creative.db")
	return cfg
}

func TestNew(t *testing.T) {
	t.Run("既定の設定", func(t *testing.T) {
		m, err := New(ManagerArgs{Config: newTestConfig(t)})
		require.NoError(t, err)
		t.Cleanup(func() { _ = m.Close() })
		assert.Equal(t, []string{"amazon", "bigbasket", "flipkart", "tesco"}, m.Registry().Names())
		assert.NotEmpty(t, m.Catalog().All())
	})

	t.Run("追加プロファイル", func(t *testing.T) {
		cfg := newTestConfig(t)
		cfg.ProfilesFile = filepath.Join(t.TempDir(), "profiles.yaml")
		require.NoError(t, os.WriteFile(cfg.ProfilesFile, []byte(extraProfiles), 0o644))
		cfg.Profile = "reliance"

		m, err := New(ManagerArgs{Config: cfg})
		require.NoError(t, err)
		assert.Contains(t, m.Registry().Names(), "reliance")
	})

	t.Run("未知の既定プロファイル", func(t *testing.T) {
		cfg := newTestConfig(t)
		cfg.Profile = "walmart"
		_, err := New(ManagerArgs{Config: cfg})
		assert.ErrorIs(t, err, rules.ErrInvalidProfile)
	})
}

func TestManager_Runners(t *testing.T) {
	cfg := newTestConfig(t)
	m, err := New(ManagerArgs{Config: cfg})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	ctx := context.Background()

	scene := domain.NewScene(1080, 1080)
	scene.Add(domain.NewRect(100, 100, 300, 300, "#0ea5e9"))
	scene.Add(domain.NewText("Buy Now", 200, 700, 36))

	cr, err := m.BuildComplianceRunner()
	require.NoError(t, err)
	report, err := cr.Run(ctx, scene, "")
	require.NoError(t, err)
	_, err = cr.Run(ctx, scene, "")
	require.NoError(t, err)
	hits, misses := m.Evaluator().Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)

	er, err := m.BuildExportRunner("Test", true)
	require.NoError(t, err)
	res, err := er.RunAndSave(ctx, scene, []export.Size{export.Square, export.Leaderboard}, export.PolicyCover, &report, cfg.OutputDir)
	require.NoError(t, err)
	assert.Len(t, res.ImagePaths, 2)
	assert.FileExists(t, res.ReportPath)
	assert.FileExists(t, res.JSONPath)

	pr, err := m.BuildPredictRunner(42)
	require.NoError(t, err)
	a, err := pr.Run(scene, "")
	require.NoError(t, err)
	pr2, _ := m.BuildPredictRunner(42)
	b, err := pr2.Run(scene, "")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	projects, err := m.BuildProjectRunner()
	require.NoError(t, err)
	_, err = projects.Save(ctx, "demo", scene)
	require.NoError(t, err)
	list, err := projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "demo", list[0].Name)
}
