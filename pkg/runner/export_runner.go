package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-creative-kit/pkg/compliance"
	"github.com/shouni/go-creative-kit/pkg/domain"
	"github.com/shouni/go-creative-kit/pkg/export"
	"github.com/shouni/go-creative-kit/pkg/publisher"
)

// CreativeExportRunner はシーンを複数サイズに書き出し、結果を保存します。
type CreativeExportRunner struct {
	exporter  *export.Exporter
	publisher *DefaultPublisherRunner
}

// NewCreativeExportRunner は依存関係を注入して初期化します。
func NewCreativeExportRunner(exporter *export.Exporter, pub *DefaultPublisherRunner) *CreativeExportRunner {
	return &CreativeExportRunner{
		exporter:  exporter,
		publisher: pub,
	}
}

// Run は書き出しバッチを実行します。失敗時も途中までのバッチを返します。
func (r *CreativeExportRunner) Run(ctx context.Context, scene domain.Scene, sizes []export.Size, policy export.Policy) (*export.Batch, error) {
	if len(sizes) == 0 {
		return nil, fmt.Errorf("書き出しサイズが指定されていません")
	}
	return r.exporter.Run(ctx, scene, sizes, policy)
}

// RunAndSave は書き出しを実行し、画像とレポートを outputDir に保存します。
// 途中で失敗した場合も、完了したサイズの画像とレポートは保存してからエラーを返します。
func (r *CreativeExportRunner) RunAndSave(ctx context.Context, scene domain.Scene, sizes []export.Size, policy export.Policy, report *compliance.Report, outputDir string) (publisher.PublishResult, error) {
	batch, runErr := r.Run(ctx, scene, sizes, policy)
	if batch == nil || len(batch.Renditions) == 0 {
		if runErr == nil {
			runErr = fmt.Errorf("書き出された画像がありません")
		}
		return publisher.PublishResult{}, runErr
	}

	// キャンセル後も保存は行うため、呼び出し元のキャンセルを引き継がない
	result, err := r.publisher.Run(context.WithoutCancel(ctx), batch, report, outputDir)
	if err != nil {
		return result, fmt.Errorf("書き出し結果の保存に失敗しました: %w", err)
	}
	if runErr != nil {
		slog.WarnContext(ctx, "ExportRunner: Saved partial batch", "state", batch.State, "saved", len(result.ImagePaths))
		return result, runErr
	}
	return result, nil
}
