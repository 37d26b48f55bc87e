package workflow

import (
	"fmt"
	"math/rand/v2"

	"github.com/shouni/go-creative-kit/pkg/export"
	"github.com/shouni/go-creative-kit/pkg/predict"
	"github.com/shouni/go-creative-kit/pkg/publisher"
	"github.com/shouni/go-creative-kit/pkg/render"
	"github.com/shouni/go-creative-kit/pkg/runner"
)

// BuildComplianceRunner は、コンプライアンス評価を担当する Runner を作成します。
func (m *Manager) BuildComplianceRunner() (ComplianceRunner, error) {
	return runner.NewCreativeComplianceRunner(m.cfg, m.evaluator, m.registry), nil
}

// BuildComposeRunner は、ブリーフからのシーン組み立てを担当する Runner を作成します。
func (m *Manager) BuildComposeRunner() (ComposeRunner, error) {
	return runner.NewCreativeComposeRunner(m.cfg, runner.ComposeDeps{
		Reader:    m.reader,
		Catalog:   m.catalog,
		Registry:  m.registry,
		Evaluator: m.evaluator,
		Measure:   render.Dimensions,
	}), nil
}

// BuildExportRunner は、マルチサイズ書き出しと保存を担当する Runner を作成します。
func (m *Manager) BuildExportRunner(title string, withJSON bool) (ExportRunner, error) {
	exporter, err := export.New(m.renderer, export.Options{
		Concurrency: m.cfg.ExportConcurrency,
		Interval:    m.cfg.RateInterval,
		Format:      m.cfg.ExportFormat,
		Quality:     m.cfg.ExportQuality,
	})
	if err != nil {
		return nil, fmt.Errorf("exporter の初期化に失敗しました: %w", err)
	}
	pub, err := publisher.NewCreativePublisher(m.writer)
	if err != nil {
		return nil, fmt.Errorf("publisher の初期化に失敗しました: %w", err)
	}
	return runner.NewCreativeExportRunner(exporter, runner.NewDefaultPublisherRunner(pub, title, withJSON)), nil
}

// BuildPredictRunner は、性能予測を担当する Runner を作成します。seed が 0 なら揺らぎはありません。
func (m *Manager) BuildPredictRunner(seed uint64) (PredictRunner, error) {
	var opts []predict.Option
	if seed != 0 {
		opts = append(opts, predict.WithJitter(rand.New(rand.NewPCG(seed, seed))))
	}
	return runner.NewCreativePredictRunner(predict.New(opts...), m.catalog), nil
}

// BuildProjectRunner は、プロジェクトの保存と読み込みを担当する Runner を作成します。
func (m *Manager) BuildProjectRunner() (ProjectRunner, error) {
	st, err := m.Store()
	if err != nil {
		return nil, fmt.Errorf("プロジェクトストアを開けませんでした: %w", err)
	}
	return runner.NewCreativeProjectRunner(st, m.renderer), nil
}
