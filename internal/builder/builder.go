package builder

import (
	"fmt"

	"github.com/shouni/go-creative-kit/pkg/export"
	"github.com/shouni/go-creative-kit/pkg/workflow"
)

// BuildComplianceRunner はコンプライアンス評価を担当する Runner を構築します。
func BuildComplianceRunner(appCtx *AppContext) (workflow.ComplianceRunner, error) {
	return appCtx.Manager.BuildComplianceRunner()
}

// BuildComposeRunner はブリーフからのシーン組み立てを担当する Runner を構築します。
func BuildComposeRunner(appCtx *AppContext) (workflow.ComposeRunner, error) {
	return appCtx.Manager.BuildComposeRunner()
}

// BuildExportRunner は書き出しとレポート保存を担当する Runner を構築します。
// レポートの見出しは title、JSON レポートは --json 指定時のみ保存されます。
func BuildExportRunner(appCtx *AppContext, title string) (workflow.ExportRunner, error) {
	return appCtx.Manager.BuildExportRunner(title, appCtx.Options.AsJSON)
}

// BuildPredictRunner は性能予測を担当する Runner を構築します。
func BuildPredictRunner(appCtx *AppContext) (workflow.PredictRunner, error) {
	return appCtx.Manager.BuildPredictRunner(appCtx.Options.Seed)
}

// BuildProjectRunner はプロジェクトの保存を担当する Runner を構築します。
func BuildProjectRunner(appCtx *AppContext) (workflow.ProjectRunner, error) {
	return appCtx.Manager.BuildProjectRunner()
}

// ResolveSizes は --size の指定を書き出しサイズに変換します。未指定なら標準フォーマットすべてです。
func ResolveSizes(specs []string) ([]export.Size, error) {
	if len(specs) == 0 {
		return append([]export.Size(nil), export.StandardFormats...), nil
	}
	sizes, err := export.ParseSizes(specs)
	if err != nil {
		return nil, fmt.Errorf("書き出しサイズの指定が不正です: %w", err)
	}
	return sizes, nil
}
