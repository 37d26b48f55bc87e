package cmd

import (
	"log/slog"
	"os"

	"github.com/shouni/go-creative-kit/internal/config"

	"github.com/spf13/cobra"
)

// opts はコマンドラインから渡される実行時の設定なのだ。
var opts config.GenerateOptions

var rootCmd = &cobra.Command{
	Use:   "creative-kit",
	Short: "リテールメディア向けクリエイティブの評価と書き出しを行うのだ。",
	Long: `シーン（JSON）またはブリーフ（Markdown）からクリエイティブを組み立て、
リテーラーのガイドラインで評価し、各広告サイズに書き出すのだ。`,
	SilenceUsage:      true,
	PersistentPreRunE: preRunAppE,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- 入力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.SceneFile, "scene", "s", config.DefaultSceneFile, "シーン JSON のパスなのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.BriefFile, "brief", "b", "", "ブリーフ Markdown のパス。指定するとシーンより優先されるのだ。")

	// --- 評価・出力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.Profile, "profile", "p", "", "リテーラーのプロファイル名なのだ（tesco, amazon, flipkart, bigbasket など）。")
	rootCmd.PersistentFlags().BoolVar(&opts.AsJSON, "json", false, "結果を JSON で出力するのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", "", "書き出し先のディレクトリなのだ。")

	// --- 実行制御 ---
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "デバッグログを出力するのだ。")
}

// preRunAppE は、コマンド実行前にログの出力レベルを設定するのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig は環境変数の設定に CLI の指定を重ねるのだ。
func loadConfig() *config.Config {
	cfg := config.LoadConfig()
	cfg.Options = opts
	return cfg
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(
		checkCmd,
		composeCmd,
		exportCmd,
		predictCmd,
		profilesCmd,
		templatesCmd,
		projectCmd,
		paletteCmd,
	)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
