package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/shouni/go-creative-kit/pkg/asset"
	"github.com/shouni/go-creative-kit/pkg/compliance"
	"github.com/shouni/go-creative-kit/pkg/export"
)

// Options はパブリッシュ動作を制御する設定項目です。
type Options struct {
	OutputDir string
	// Title はレポートの見出しです。
	Title string
	// WithJSON が true の場合はコンプライアンス評価を JSON でも保存します。
	WithJSON bool
}

// PublishResult はパブリッシュ処理の結果として生成されたファイルの情報を保持します。
type PublishResult struct {
	ReportPath string   // 生成された creative_report.md のパス
	JSONPath   string   // 生成された creative_report.json のパス
	ImagePaths []string // 保存された全画像のパスリスト
}

// CreativePublisher は書き出し結果とレポートの永続化を担います。
type CreativePublisher struct {
	writer OutputWriter
}

// NewCreativePublisher は CreativePublisher を生成します。
func NewCreativePublisher(writer OutputWriter) (*CreativePublisher, error) {
	if writer == nil {
		return nil, fmt.Errorf("writer は必須です")
	}
	return &CreativePublisher{writer: writer}, nil
}

// Publish は各サイズの画像を保存し、評価結果と書き出し一覧の Markdown レポートを書き出します。
// report が nil の場合、レポートに評価結果は含まれません。
func (p *CreativePublisher) Publish(ctx context.Context, batch *export.Batch, report *compliance.Report, opts Options) (PublishResult, error) {
	result := PublishResult{}
	if batch == nil {
		return result, fmt.Errorf("batch は必須です")
	}

	// 1. 画像の保存
	saved, names, err := p.saveRenditions(ctx, batch.Renditions, opts.OutputDir)
	if err != nil {
		return result, err
	}
	result.ImagePaths = saved

	// 2. Markdown の構築と書き出し
	reportPath, err := asset.ResolveOutputPath(opts.OutputDir, asset.DefaultReportName)
	if err != nil {
		return result, err
	}
	content := BuildReport(opts.Title, batch, report, names)
	if err := p.writer.Write(ctx, reportPath, strings.NewReader(content), "text/markdown; charset=utf-8"); err != nil {
		return result, fmt.Errorf("markdownファイルの書き込みに失敗しました: %w", err)
	}
	result.ReportPath = reportPath

	// 3. JSON の書き出し
	if opts.WithJSON && report != nil {
		jsonPath, err := asset.ResolveOutputPath(opts.OutputDir, asset.DefaultReportJSON)
		if err != nil {
			return result, err
		}
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return result, fmt.Errorf("レポートのシリアライズに失敗しました: %w", err)
		}
		if err := p.writer.Write(ctx, jsonPath, bytes.NewReader(data), "application/json"); err != nil {
			return result, fmt.Errorf("jsonファイルの書き込みに失敗しました: %w", err)
		}
		result.JSONPath = jsonPath
	}

	slog.InfoContext(ctx, "Published creatives", "dir", opts.OutputDir, "images", len(saved), "state", batch.State)
	return result, nil
}

// saveRenditions は各サイズの画像を書き出し、そのパスを返します。
// 同じ名前になる書き出しには連番を付けます。names は renditions と同じ長さで、保存しなかったものは空文字です。
func (p *CreativePublisher) saveRenditions(ctx context.Context, renditions []export.Rendition, baseDir string) (paths, names []string, err error) {
	names = make([]string, len(renditions))
	seen := make(map[string]int)
	for i, r := range renditions {
		if len(r.Data) == 0 {
			continue
		}
		t := r.Entry.Target
		name := asset.RenditionFileName(t.Name, t.Width, t.Height, r.Format.Ext())
		fullPath, err := asset.ResolveOutputPath(baseDir, name)
		if err != nil {
			return nil, nil, fmt.Errorf("出力パスの解決に失敗しました: %w", err)
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			if fullPath, err = asset.GenerateIndexedPath(fullPath, n); err != nil {
				return nil, nil, fmt.Errorf("出力パスの解決に失敗しました: %w", err)
			}
		}

		if err := p.writer.Write(ctx, fullPath, bytes.NewReader(r.Data), r.Format.MimeType()); err != nil {
			return nil, nil, fmt.Errorf("画像の書き込みに失敗しました %s: %w", fullPath, err)
		}
		slog.DebugContext(ctx, "Saved rendition", "path", fullPath, "target", t.Dimensions())
		paths = append(paths, fullPath)
		names[i] = path.Base(strings.ReplaceAll(fullPath, "\\", "/"))
	}
	return paths, names, nil
}
