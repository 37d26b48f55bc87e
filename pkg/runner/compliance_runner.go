package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-creative-kit/pkg/compliance"
	"github.com/shouni/go-creative-kit/pkg/config"
	"github.com/shouni/go-creative-kit/pkg/domain"
	"github.com/shouni/go-creative-kit/pkg/rules"
)

// CreativeComplianceRunner はシーンをリテーラーのプロファイルで評価します。
type CreativeComplianceRunner struct {
	cfg       config.Config
	evaluator compliance.ReportEvaluator
	registry  *rules.Registry
}

// NewCreativeComplianceRunner は依存関係を注入して初期化します。
func NewCreativeComplianceRunner(cfg config.Config, evaluator compliance.ReportEvaluator, registry *rules.Registry) *CreativeComplianceRunner {
	return &CreativeComplianceRunner{
		cfg:       cfg,
		evaluator: evaluator,
		registry:  registry,
	}
}

// Run はシーンを評価してレポートを返します。profile が空なら設定の既定プロファイルです。
func (r *CreativeComplianceRunner) Run(ctx context.Context, scene domain.Scene, profile string) (compliance.Report, error) {
	profile = r.profileOrDefault(profile)
	slog.InfoContext(ctx, "ComplianceRunner: Evaluating scene", "profile", profile, "elements", len(scene.Elements))

	report, err := r.evaluator.Evaluate(ctx, scene, profile)
	if err != nil {
		return compliance.Report{}, fmt.Errorf("コンプライアンス評価に失敗しました: %w", err)
	}
	slog.InfoContext(ctx, "ComplianceRunner: Evaluation finished",
		"score", report.Score,
		"grade", report.Grade(),
		"failed", len(report.Failures()),
		"warnings", len(report.Warnings()),
	)
	return report, nil
}

// Quick は簡易チェックの結果を返します。
func (r *CreativeComplianceRunner) Quick(scene domain.Scene, profile string) ([]compliance.Verdict, error) {
	p, err := r.registry.Lookup(r.profileOrDefault(profile))
	if err != nil {
		return nil, err
	}
	return compliance.QuickCheck(scene, p), nil
}

func (r *CreativeComplianceRunner) profileOrDefault(profile string) string {
	if profile == "" {
		return r.cfg.Profile
	}
	return profile
}
