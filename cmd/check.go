package cmd

import (
	"github.com/shouni/go-creative-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// checkCmd は、シーンをリテーラーのガイドラインで評価するのだ。
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "シーンのガイドライン適合度を評価するのだ。",
	Long: `シーンまたはブリーフを読み込み、選択したプロファイルのルールで評価するのだ。
スコア、各ルールの判定と修正案、簡易チェックの結果を出力するのだよ。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.ExecuteCheck(cmd.Context(), loadConfig(), cmd.OutOrStdout())
	},
}
