package predict

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/shouni/go-creative-kit/pkg/domain"
)

// Factor は予測スコアに寄与した要因です。
type Factor string

const (
	FactorProductImage   Factor = "product-image"
	FactorOptimalImage   Factor = "optimal-image-size"
	FactorHasText        Factor = "has-text"
	FactorHasCTA         Factor = "has-cta"
	FactorHasHeadline    Factor = "has-headline"
	FactorDesignElements Factor = "design-elements"
	FactorCustomBG       Factor = "custom-bg"
	FactorBalanced       Factor = "balanced-layout"
	FactorOvercrowded    Factor = "overcrowded"
	FactorEmpty          Factor = "empty-canvas"
)

// スコアの範囲です。
const (
	baseQuality     = 45.0
	emptyQuality    = 25.0
	minQuality      = 20.0
	maxQuality      = 98.0
	minCompliance   = 0.3
	maxCompliance   = 0.95
	headlineSize    = 32.0
	jitterAmplitude = 2.0
)

// ctaWords は予測で CTA とみなす語です。コンプライアンス判定の CTA 語とは別の緩い一覧なのだ。
var ctaWords = []string{"shop", "buy", "order", "get", "now", "save", "offer", "deal", "free", "new", "limited"}

// Prediction はシーンの品質予測です。
type Prediction struct {
	Quality    int      `json:"quality"`
	Compliance float64  `json:"compliance"`
	Factors    []Factor `json:"factors"`
}

// Has は要因が含まれているかを判定します。
func (p Prediction) Has(f Factor) bool {
	for _, x := range p.Factors {
		if x == f {
			return true
		}
	}
	return false
}

// Predictor はシーンの構成から品質スコアを推定します。
type Predictor struct {
	rng *rand.Rand
}

// Option は Predictor の設定です。
type Option func(*Predictor)

// WithJitter は ±2 の揺らぎを加える乱数源を設定します。nil なら揺らぎなしです。
func WithJitter(rng *rand.Rand) Option {
	return func(p *Predictor) { p.rng = rng }
}

// New は Predictor を生成します。オプションなしなら結果は常に同じです。
func New(opts ...Option) *Predictor {
	p := &Predictor{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Predict はシーンの品質スコアとコンプライアンス見込みを計算します。
// 揺らぎを設定しない限り、同じシーンには同じ結果を返します。
func (p *Predictor) Predict(scene domain.Scene) Prediction {
	score := baseQuality
	var factors []Factor
	add := func(f Factor, delta float64) {
		score += delta
		factors = append(factors, f)
	}

	if images := scene.Images(); len(images) > 0 {
		add(FactorProductImage, 20)
		main := images[0]
		if area := scene.Area(); area > 0 {
			cov := main.ScaledWidth() * main.ScaledHeight() / area
			if cov > 0.15 && cov < 0.6 {
				add(FactorOptimalImage, 5)
			}
		}
	}

	if texts := scene.Texts(); len(texts) > 0 {
		add(FactorHasText, 10)
		all := strings.ToLower(strings.Join(scene.TextContents(), " "))
		for _, w := range ctaWords {
			if strings.Contains(all, w) {
				add(FactorHasCTA, 8)
				break
			}
		}
		for _, t := range texts {
			if t.Text != nil && t.Text.Size() >= headlineSize {
				add(FactorHasHeadline, 5)
				break
			}
		}
	}

	if n := len(scene.Shapes()); n > 0 && n <= 5 {
		add(FactorDesignElements, 8)
	}

	if bg := strings.ToLower(scene.Background); bg != "" && bg != domain.DefaultBackground && bg != "white" {
		add(FactorCustomBG, 5)
	}

	n := len(scene.Elements)
	if n >= 2 && n <= 8 {
		add(FactorBalanced, 7)
	}
	if n > 12 {
		add(FactorOvercrowded, -15)
	}
	if n == 0 {
		score = emptyQuality
		factors = append(factors, FactorEmpty)
	}

	score = clamp(score, minQuality, maxQuality)
	if p.rng != nil {
		score += p.rng.Float64()*2*jitterAmplitude - jitterAmplitude
	}

	pred := Prediction{Quality: int(math.Round(score)), Factors: factors}
	pred.Compliance = complianceLikelihood(pred)
	return pred
}

func complianceLikelihood(p Prediction) float64 {
	c := 0.5
	weights := []struct {
		f Factor
		w float64
	}{
		{FactorProductImage, 0.15},
		{FactorHasText, 0.1},
		{FactorHasCTA, 0.1},
		{FactorBalanced, 0.1},
		{FactorOvercrowded, -0.2},
	}
	for _, x := range weights {
		if p.Has(x.f) {
			c += x.w
		}
	}
	return math.Round(clamp(c, minCompliance, maxCompliance)*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// Baseline はカテゴリの実績値です。テンプレートの実績から作ることもできます。
type Baseline struct {
	CTR            float64
	CategoryAvgCTR float64
	ROAS           float64
	Confidence     int
}

// DefaultBaseline は実績データがない場合の既定値です。
var DefaultBaseline = Baseline{CTR: 1.5, CategoryAvgCTR: 1.2, ROAS: 4.0, Confidence: 80}

// Projection は予測から見積もった配信成果です。
type Projection struct {
	PredictedCTR   float64 `json:"predicted_ctr"`
	CategoryAvgCTR float64 `json:"category_avg_ctr"`
	ROAS           float64 `json:"roas"`
	Confidence     int     `json:"confidence"`
	// VsCategory はカテゴリ平均に対する差分のパーセントです。
	VsCategory float64 `json:"vs_category"`
}

// Comparison は平均との比較を表示用に整形します。
func (p Projection) Comparison() string {
	if p.VsCategory > 0 {
		return fmt.Sprintf("+%.0f%% above avg", p.VsCategory)
	}
	return fmt.Sprintf("%.0f%% below avg", p.VsCategory)
}

// Project は品質スコアで基準 CTR を補正します。コンプライアンス見込みが 0.7 を超えると加点されます。
func Project(pred Prediction, base Baseline) Projection {
	mult := 0.7 + float64(pred.Quality)/100*0.6
	bonus := 0.0
	if pred.Compliance > 0.7 {
		bonus = 0.15
	}
	ctr := math.Round((base.CTR*mult+bonus)*100) / 100
	avg := math.Round(base.CategoryAvgCTR*100) / 100

	var vs float64
	if avg > 0 {
		vs = math.Round((ctr - avg) / avg * 100)
	}
	return Projection{
		PredictedCTR:   ctr,
		CategoryAvgCTR: avg,
		ROAS:           base.ROAS,
		Confidence:     base.Confidence,
		VsCategory:     vs,
	}
}
