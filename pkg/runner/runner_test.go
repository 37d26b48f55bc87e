package runner

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shouni/go-creative-kit/pkg/compliance"
	"github.com/shouni/go-creative-kit/pkg/config"
	"github.com/shouni/go-creative-kit/pkg/domain"
	"github.com/shouni/go-creative-kit/pkg/export"
	"github.com/shouni/go-creative-kit/pkg/parser"
	"github.com/shouni/go-creative-kit/pkg/predict"
	"github.com/shouni/go-creative-kit/pkg/publisher"
	"github.com/shouni/go-creative-kit/pkg/render"
	"github.com/shouni/go-creative-kit/pkg/rules"
	"github.com/shouni/go-creative-kit/pkg/store"
	"github.com/shouni/go-creative-kit/pkg/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryWriter struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (w *memoryWriter) Write(_ context.Context, path string, r io.Reader, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.files == nil {
		w.files = map[string][]byte{}
	}
	w.files[path] = data
	return nil
}

func sampleScene() domain.Scene {
	scene := domain.NewScene(1080, 1080)
	scene.Add(domain.NewRect(100, 100, 400, 300, "#22c55e"))
	scene.Add(domain.NewText("Shop Now", 300, 800, 32))
	return scene
}

func TestCreativeComplianceRunner(t *testing.T) {
	cfg := config.DefaultConfig()
	registry := rules.Default()
	r := NewCreativeComplianceRunner(cfg, compliance.NewEvaluator(registry), registry)

	report, err := r.Run(context.Background(), sampleScene(), "")
	require.NoError(t, err)
	assert.Equal(t, cfg.Profile, report.Profile)

	quick, err := r.Quick(sampleScene(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, quick)

	t.Run("未知のプロファイル", func(t *testing.T) {
		_, err := r.Run(context.Background(), sampleScene(), "walmart")
		assert.ErrorIs(t, err, rules.ErrInvalidProfile)
		_, err = r.Quick(sampleScene(), "walmart")
		assert.ErrorIs(t, err, rules.ErrInvalidProfile)
	})
}

func newExportRunner(t *testing.T, w *memoryWriter) *CreativeExportRunner {
	t.Helper()
	x, err := export.New(render.NewRenderer(render.MemoryImageSource{}), export.Options{Format: render.FormatPNG})
	require.NoError(t, err)
	pub, err := publisher.NewCreativePublisher(w)
	require.NoError(t, err)
	return NewCreativeExportRunner(x, NewDefaultPublisherRunner(pub, "Mango", false))
}

func TestCreativeExportRunner(t *testing.T) {
	w := &memoryWriter{}
	r := newExportRunner(t, w)
	sizes := []export.Size{export.InstagramPost, {Width: 600, Height: 300}}

	res, err := r.RunAndSave(context.Background(), sampleScene(), sizes, export.PolicyFit, nil, "out")
	require.NoError(t, err)
	require.Len(t, res.ImagePaths, 2)
	for _, p := range res.ImagePaths {
		assert.NotEmpty(t, w.files[p])
	}
	assert.Contains(t, string(w.files[res.ReportPath]), "# Mango")

	t.Run("空のシーンは保存しない", func(t *testing.T) {
		_, err := r.RunAndSave(context.Background(), domain.NewScene(1080, 1080), sizes, export.PolicyFit, nil, "out")
		assert.ErrorIs(t, err, export.ErrEmptyScene)
	})

	t.Run("サイズ未指定", func(t *testing.T) {
		_, err := r.Run(context.Background(), sampleScene(), nil, export.PolicyFit)
		assert.Error(t, err)
	})
}

func TestCreativePredictRunner(t *testing.T) {
	r := NewCreativePredictRunner(predict.New(), templates.Default())

	res, err := r.Run(sampleScene(), "")
	require.NoError(t, err)
	assert.Equal(t, predict.Project(res.Prediction, predict.DefaultBaseline), res.Projection)

	res, err = r.Run(sampleScene(), "flash-sale")
	require.NoError(t, err)
	tpl, _ := templates.Default().ByID("flash-sale")
	assert.Equal(t, "flash-sale", res.Template)
	assert.Equal(t, tpl.Performance.AvgROAS, res.Projection.ROAS)

	_, err = r.Run(sampleScene(), "nope")
	assert.Error(t, err)
}

func TestBaselineFor(t *testing.T) {
	c := templates.Default()
	tpl, _ := c.ByID("flash-sale")
	base := BaselineFor(c, tpl)
	assert.Equal(t, tpl.Performance.AvgCTR, base.CTR)
	assert.Equal(t, c.CompareWithCategory(tpl).CategoryAvgCTR, base.CategoryAvgCTR)
	assert.Equal(t, predict.DefaultBaseline.Confidence, base.Confidence)
}

func newComposeRunner(measure Measure) *CreativeComposeRunner {
	registry := rules.Default()
	return NewCreativeComposeRunner(config.DefaultConfig(), ComposeDeps{
		Reader:    parser.NewLocalReader(),
		Catalog:   templates.Default(),
		Registry:  registry,
		Evaluator: compliance.NewEvaluator(registry),
		Measure:   measure,
	})
}

func TestCreativeComposeRunner(t *testing.T) {
	measure := func(string) (int, int, error) { return 800, 800, nil }

	t.Run("テンプレートとブリーフ", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "brief.md")
		brief := "# Mango\n- template: flash-sale\n- profile: amazon\n- heading: Mango Mania\n- price: ₹499\n- badge: trust\n\n## Image: mango.png\n- filter: grayscale\n"
		require.NoError(t, os.WriteFile(path, []byte(brief), 0o644))

		sess, b, err := newComposeRunner(measure).RunFromPath(context.Background(), path, export.Size{}, "instagram-post")
		require.NoError(t, err)
		assert.Equal(t, "Mango", b.Title)
		assert.Equal(t, "amazon", sess.Profile())
		assert.Equal(t, []string{"initial", "template flash-sale", "apply brief"}, sess.History())

		scene := sess.Scene()
		assert.Equal(t, 1080.0, scene.Width)
		assert.Contains(t, scene.TextContents(), "Mango Mania")
		require.Len(t, scene.Images(), 1)
		assert.Equal(t, filepath.Join(dir, "mango.png"), scene.Images()[0].Image.Source)
		assert.Equal(t, domain.FilterGrayscale, scene.Images()[0].Image.Filters.Effect)
		assert.Len(t, scene.Badges(), 2)
	})

	t.Run("テンプレートなしは自動配置", func(t *testing.T) {
		b := &parser.Brief{Copy: templates.Copy{Heading: "Fresh", Tagline: "Daily"}}
		sess, err := newComposeRunner(measure).Run(context.Background(), b, export.Square)
		require.NoError(t, err)
		texts := sess.Scene().Texts()
		require.Len(t, texts, 2)
		assert.Less(t, texts[0].Y, texts[1].Y)
	})

	t.Run("画像が測れなければ巻き戻す", func(t *testing.T) {
		fail := func(string) (int, int, error) { return 0, 0, errors.New("boom") }
		b := &parser.Brief{Template: "flash-sale", Images: []parser.BriefImage{{Source: "x.png"}}}
		_, err := newComposeRunner(fail).Run(context.Background(), b, export.InstagramPost)
		assert.Error(t, err)
	})

	t.Run("未知のテンプレート", func(t *testing.T) {
		_, err := newComposeRunner(measure).Run(context.Background(), &parser.Brief{Template: "nope"}, export.InstagramPost)
		assert.Error(t, err)
	})
}

func TestCreativeProjectRunner(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "p.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	r := NewCreativeProjectRunner(st, render.NewRenderer(render.MemoryImageSource{}))
	ctx := context.Background()

	_, err = r.Save(ctx, "mango", sampleScene())
	require.NoError(t, err)

	p, err := r.Load(ctx, "mango")
	require.NoError(t, err)
	assert.Len(t, p.Scene.Elements, 2)
	assert.NotEmpty(t, p.Preview)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, r.Delete(ctx, "mango"))
	assert.ErrorIs(t, r.Delete(ctx, "mango"), store.ErrProjectNotFound)

	_, err = r.Save(ctx, "", sampleScene())
	assert.Error(t, err)
}
