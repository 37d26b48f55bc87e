package runner

import (
	"context"

	"github.com/shouni/go-creative-kit/pkg/compliance"
	"github.com/shouni/go-creative-kit/pkg/export"
	"github.com/shouni/go-creative-kit/pkg/publisher"
)

// DefaultPublisherRunner は pkg/publisher を利用した標準実装なのだ。
type DefaultPublisherRunner struct {
	title     string
	withJSON  bool
	publisher *publisher.CreativePublisher
}

// NewDefaultPublisherRunner は DefaultPublisherRunner を生成します。
func NewDefaultPublisherRunner(pub *publisher.CreativePublisher, title string, withJSON bool) *DefaultPublisherRunner {
	return &DefaultPublisherRunner{
		title:     title,
		withJSON:  withJSON,
		publisher: pub,
	}
}

// Run は書き出し結果と評価レポートを outputDir に保存します。
func (pr *DefaultPublisherRunner) Run(ctx context.Context, batch *export.Batch, report *compliance.Report, outputDir string) (publisher.PublishResult, error) {
	opts := publisher.Options{
		OutputDir: outputDir,
		Title:     pr.title,
		WithJSON:  pr.withJSON,
	}
	return pr.publisher.Publish(ctx, batch, report, opts)
}

// BuildMarkdown は保存処理を行わず、Markdown 文字列のみを生成して返却します。
// ファイル名の列は空になります。
func (pr *DefaultPublisherRunner) BuildMarkdown(batch *export.Batch, report *compliance.Report) string {
	return publisher.BuildReport(pr.title, batch, report, nil)
}
