package parser

import (
	"log/slog"
	"net/url"
	"path/filepath"
)

// resolveAssetPath は入力ファイルのディレクトリを基準に画像の参照パスを解決するのだ。
// URL や絶対パスはそのまま返すのだ。
func resolveAssetPath(baseDir, ref string) string {
	if ref == "" {
		return ""
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" && u.Host != "" {
		slog.Debug("URL形式の参照はそのまま使うのだ", "ref", ref)
		return ref
	}
	if filepath.IsAbs(ref) || baseDir == "" || baseDir == "." {
		return ref
	}
	return filepath.Join(baseDir, ref)
}
