package runner

import (
	"fmt"

	"github.com/shouni/go-creative-kit/pkg/domain"
	"github.com/shouni/go-creative-kit/pkg/predict"
	"github.com/shouni/go-creative-kit/pkg/templates"
)

// PredictResult は性能予測と配信成果の見積もりです。
type PredictResult struct {
	Prediction predict.Prediction `json:"prediction"`
	Projection predict.Projection `json:"projection"`
	// Template は見積もりの基準にしたテンプレートIDです。空なら既定の基準値です。
	Template string `json:"template,omitempty"`
}

// CreativePredictRunner はシーンの性能を予測します。
type CreativePredictRunner struct {
	predictor *predict.Predictor
	catalog   *templates.Catalog
}

// NewCreativePredictRunner は依存関係を注入して初期化します。
func NewCreativePredictRunner(predictor *predict.Predictor, catalog *templates.Catalog) *CreativePredictRunner {
	return &CreativePredictRunner{
		predictor: predictor,
		catalog:   catalog,
	}
}

// Run はシーンを予測し、templateID の実績を基準に成果を見積もります。
func (r *CreativePredictRunner) Run(scene domain.Scene, templateID string) (PredictResult, error) {
	base := predict.DefaultBaseline
	if templateID != "" {
		t, ok := r.catalog.ByID(templateID)
		if !ok {
			return PredictResult{}, fmt.Errorf("テンプレートが見つかりません: %s", templateID)
		}
		base = BaselineFor(r.catalog, t)
	}

	pred := r.predictor.Predict(scene)
	return PredictResult{
		Prediction: pred,
		Projection: predict.Project(pred, base),
		Template:   templateID,
	}, nil
}

// BaselineFor はテンプレートとそのカテゴリの実績から見積もりの基準値を作ります。
func BaselineFor(c *templates.Catalog, t templates.Template) predict.Baseline {
	cmp := c.CompareWithCategory(t)
	return predict.Baseline{
		CTR:            t.Performance.AvgCTR,
		CategoryAvgCTR: cmp.CategoryAvgCTR,
		ROAS:           t.Performance.AvgROAS,
		Confidence:     predict.DefaultBaseline.Confidence,
	}
}
