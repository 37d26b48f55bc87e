package workflow

import (
	"context"

	"github.com/shouni/go-creative-kit/pkg/compliance"
	"github.com/shouni/go-creative-kit/pkg/domain"
	"github.com/shouni/go-creative-kit/pkg/export"
	"github.com/shouni/go-creative-kit/pkg/parser"
	"github.com/shouni/go-creative-kit/pkg/publisher"
	"github.com/shouni/go-creative-kit/pkg/runner"
	"github.com/shouni/go-creative-kit/pkg/session"
	"github.com/shouni/go-creative-kit/pkg/store"
)

// Workflow は、クリエイティブ制作の各工程を担当する Runner を構築するためのインターフェースを定義します。
type Workflow interface {
	BuildComplianceRunner() (ComplianceRunner, error)
	BuildComposeRunner() (ComposeRunner, error)
	BuildExportRunner(title string, withJSON bool) (ExportRunner, error)
	BuildPredictRunner(seed uint64) (PredictRunner, error)
	BuildProjectRunner() (ProjectRunner, error)
}

// ComplianceRunner は、シーンをリテーラーのガイドラインで評価する責務を持ちます。
type ComplianceRunner interface {
	Run(ctx context.Context, scene domain.Scene, profile string) (compliance.Report, error)
	Quick(scene domain.Scene, profile string) ([]compliance.Verdict, error)
}

// ComposeRunner は、ブリーフを基にテンプレートからシーンを組み立てる責務を持ちます。
type ComposeRunner interface {
	Run(ctx context.Context, brief *parser.Brief, size export.Size) (*session.Session, error)
	RunFromPath(ctx context.Context, briefPath string, size export.Size, defaultSize string) (*session.Session, *parser.Brief, error)
}

// ExportRunner は、シーンを複数サイズに書き出して保存する責務を持ちます。
type ExportRunner interface {
	Run(ctx context.Context, scene domain.Scene, sizes []export.Size, policy export.Policy) (*export.Batch, error)
	RunAndSave(ctx context.Context, scene domain.Scene, sizes []export.Size, policy export.Policy, report *compliance.Report, outputDir string) (publisher.PublishResult, error)
}

// PredictRunner は、シーンの性能を予測する責務を持ちます。
type PredictRunner interface {
	Run(scene domain.Scene, templateID string) (runner.PredictResult, error)
}

// ProjectRunner は、シーンをプロジェクトとして永続化する責務を持ちます。
type ProjectRunner interface {
	Save(ctx context.Context, name string, scene domain.Scene) (store.ProjectInfo, error)
	Load(ctx context.Context, name string) (store.Project, error)
	List(ctx context.Context) ([]store.ProjectInfo, error)
	Delete(ctx context.Context, name string) error
}
