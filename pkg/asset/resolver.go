package asset

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shouni/go-utils/urlpath"
)

const (
	// DefaultReportName は書き出し結果をまとめた Markdown レポートのファイル名です。
	DefaultReportName = "creative_report.md"
	// DefaultReportJSON はコンプライアンス評価を保存する JSON のファイル名です。
	DefaultReportJSON = "creative_report.json"
	// DefaultScenePrefix は書き出しファイル名の接頭辞です。
	DefaultScenePrefix = "RetailSync"
	// DefaultPreviewFileName はプロジェクト保存時のプレビュー画像の名前です。
	DefaultPreviewFileName = "preview.png"
)

var (
	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

	// RenditionFileRegex は書き出しファイル (RetailSync_Instagram_Post_1080x1080.png 等) に一致します
	RenditionFileRegex = regexp.MustCompile(fmt.Sprintf(`^%s_\w+_\d+x\d+\.(png|jpeg|webp)$`, regexp.QuoteMeta(DefaultScenePrefix)))
)

// ResolveOutputPath は、ベースとなるディレクトリパスとファイル名から、
// GCS/ローカルを考慮した最終的な出力パスを生成します。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	return urlpath.ResolvePath(baseDir, fileName)
}

// ResolveBaseURL は、入力パス（URLまたはローカルパス）から
// 親ディレクトリのパスを解決し、末尾がセパレータで終わるように正規化します。
func ResolveBaseURL(rawPath string) string {
	return urlpath.ResolveBaseDir(rawPath)
}

// GenerateIndexedPath は、指定されたベースパスの拡張子の前に連番を挿入します。
// 同名の書き出しが衝突したときに使うのだ。
// 例: "out/RetailSync_Square_1200x1200.png", 2 -> "out/RetailSync_Square_1200x1200_2.png"
func GenerateIndexedPath(basePath string, index int) (string, error) {
	return urlpath.GenerateIndexedPath(basePath, index)
}

// SanitizeName は英数字以外をアンダースコアに置き換えます。
func SanitizeName(name string) string {
	return unsafeChars.ReplaceAllString(strings.TrimSpace(name), "_")
}

// RenditionFileName は書き出しファイルの名前です。
// 名前が空の場合は "Custom" として扱います。
func RenditionFileName(name string, width, height int, ext string) string {
	if strings.TrimSpace(name) == "" {
		name = "Custom"
	}
	return fmt.Sprintf("%s_%s_%dx%d.%s", DefaultScenePrefix, SanitizeName(name), width, height, ext)
}
