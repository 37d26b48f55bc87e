package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-creative-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

var composeOutput string

// composeCmd は、ブリーフからシーンを組み立てて保存するのだ。
var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "ブリーフ（Markdown）からシーン JSON を組み立てるのだ。",
	Long: `ブリーフに書かれたテンプレート・文言・商品画像・バッジを使ってシーンを組み立てるのだ。
出力したシーンは check や export の --scene にそのまま渡せるのだよ。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		scene, err := pipeline.ExecuteCompose(cmd.Context(), loadConfig(), composeOutput)
		if err != nil {
			return fmt.Errorf("シーンの組み立てに失敗したのだ: %w", err)
		}
		slog.Info("シーンを組み立てたのだ！", "output", composeOutput, "elements", len(scene.Elements))
		return nil
	},
}

func init() {
	composeCmd.Flags().StringVar(&composeOutput, "out", "output/scene.json", "シーン JSON の保存先なのだ。")
}
