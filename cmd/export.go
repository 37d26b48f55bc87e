package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-creative-kit/internal/pipeline"
	"github.com/shouni/go-creative-kit/pkg/export"

	"github.com/spf13/cobra"
)

// exportCmd は、シーンを複数の広告サイズに書き出すのだ。
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "シーンを各広告サイズの画像に書き出すのだ。",
	Long: `シーンを評価したうえで、指定したサイズごとに複製・変換・描画して保存するのだ。
画像と一緒に評価結果と書き出し一覧の Markdown レポートも出力するのだよ。`,
	RunE: exportCommand,
}

func init() {
	exportCmd.Flags().StringArrayVar(&opts.Sizes, "size", nil,
		fmt.Sprintf("書き出しサイズ（%s または WxH）。複数指定できるのだ。", strings.Join(export.FormatKeys(), ", ")))
	exportCmd.Flags().StringVar(&opts.Policy, "policy", "", "拡縮方法なのだ（fit または cover）。")
	exportCmd.Flags().StringVar(&opts.Format, "format", "", "画像形式なのだ（png, jpeg, webp）。")
	exportCmd.Flags().IntVar(&opts.Quality, "quality", 0, "JPEG / WebP の品質（1〜100）なのだ。")
	exportCmd.Flags().IntVar(&opts.Concurrency, "concurrency", 0, "同時に描画するサイズ数なのだ。")
}

func exportCommand(cmd *cobra.Command, args []string) error {
	res, err := pipeline.ExecuteExport(cmd.Context(), loadConfig())
	for _, p := range res.ImagePaths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	if err != nil {
		return fmt.Errorf("書き出し中にエラーが発生したのだ: %w", err)
	}
	slog.Info("書き出しが完了したのだ！", "images", len(res.ImagePaths), "report", res.ReportPath)
	return nil
}
