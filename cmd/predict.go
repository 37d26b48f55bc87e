package cmd

import (
	"github.com/shouni/go-creative-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// predictCmd は、シーンの性能を予測するのだ。
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "シーンの品質スコアと配信成果を予測するのだ。",
	Long: `シーンの構成から品質スコアとガイドライン適合の見込みを算出するのだ。
--template を指定すると、そのテンプレートの実績を基準に CTR を見積もるのだよ。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.ExecutePredict(cmd.Context(), loadConfig(), cmd.OutOrStdout())
	},
}

func init() {
	predictCmd.Flags().StringVar(&opts.Template, "template", "", "見積もりの基準にするテンプレートIDなのだ。")
	predictCmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "スコアの揺らぎに使う乱数シード（0 なら揺らぎなし）なのだ。")
}
