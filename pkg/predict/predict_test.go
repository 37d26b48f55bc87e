package predict

import (
	"math/rand/v2"
	"testing"

	"github.com/shouni/go-creative-kit/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func richScene() domain.Scene {
	s := domain.NewScene(1080, 1080)
	s.Add(domain.NewImage("product.png", 500, 500, 290, 290))
	s.Add(domain.NewText("Shop Now", 100, 100, 40))
	s.Add(domain.NewRect(0, 0, 1080, 200, "#10b981"))
	return s
}

func TestPredictor_Predict(t *testing.T) {
	p := New()

	t.Run("充実したシーンは上限で止まる", func(t *testing.T) {
		got := p.Predict(richScene())
		assert.Equal(t, 98, got.Quality)
		assert.InDelta(t, 0.95, got.Compliance, 1e-9)
		for _, f := range []Factor{FactorProductImage, FactorOptimalImage, FactorHasText, FactorHasCTA, FactorHasHeadline, FactorDesignElements, FactorBalanced} {
			assert.True(t, got.Has(f), f)
		}
		assert.False(t, got.Has(FactorCustomBG))
	})

	t.Run("空のシーンは25", func(t *testing.T) {
		got := p.Predict(domain.NewScene(1080, 1080))
		assert.Equal(t, 25, got.Quality)
		assert.InDelta(t, 0.5, got.Compliance, 1e-9)
		assert.Equal(t, []Factor{FactorEmpty}, got.Factors)
	})

	t.Run("テキストのみ", func(t *testing.T) {
		s := domain.NewScene(1080, 1080)
		s.Add(domain.NewText("hello", 0, 0, 20))
		got := p.Predict(s)
		assert.Equal(t, 55, got.Quality)
		assert.InDelta(t, 0.6, got.Compliance, 1e-9)
	})

	t.Run("要素過多は減点", func(t *testing.T) {
		s := domain.NewScene(1080, 1080)
		for i := 0; i < 13; i++ {
			s.Add(domain.NewCircle(float64(i*10), 0, 5, "#000000"))
		}
		got := p.Predict(s)
		assert.Equal(t, 30, got.Quality)
		assert.InDelta(t, 0.3, got.Compliance, 1e-9)
		assert.True(t, got.Has(FactorOvercrowded))
	})

	t.Run("独自の背景色は加点", func(t *testing.T) {
		s := domain.NewScene(1080, 1080)
		s.Background = "#1a1a2e"
		s.Add(domain.NewText("hello", 0, 0, 20))
		assert.Equal(t, 60, p.Predict(s).Quality)
	})

	t.Run("揺らぎなしなら決定的", func(t *testing.T) {
		assert.Equal(t, p.Predict(richScene()), p.Predict(richScene()))
	})

	t.Run("揺らぎは±2に収まりシードで再現する", func(t *testing.T) {
		a := New(WithJitter(rand.New(rand.NewPCG(3, 4)))).Predict(richScene())
		b := New(WithJitter(rand.New(rand.NewPCG(3, 4)))).Predict(richScene())
		assert.Equal(t, a, b)
		assert.InDelta(t, 98, a.Quality, 2)
	})
}

func TestProject(t *testing.T) {
	pred := Prediction{Quality: 98, Compliance: 0.95}
	got := Project(pred, DefaultBaseline)
	assert.InDelta(t, 2.08, got.PredictedCTR, 1e-9)
	assert.InDelta(t, 73, got.VsCategory, 1e-9)
	assert.Equal(t, "+73% above avg", got.Comparison())
	assert.Equal(t, 80, got.Confidence)

	low := Project(Prediction{Quality: 20, Compliance: 0.3}, DefaultBaseline)
	// 1.5 * 0.82 = 1.23
	assert.InDelta(t, 1.23, low.PredictedCTR, 1e-9)
	assert.InDelta(t, 3, low.VsCategory, 1e-9)
}
