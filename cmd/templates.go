package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/shouni/go-creative-kit/internal/pipeline"
	"github.com/shouni/go-creative-kit/pkg/templates"

	"github.com/spf13/cobra"
)

var (
	templateCategory string
	templateTags     []string
	templateSize     string
	templateOutput   string
)

// templatesCmd は、テンプレートマーケットプレイスを操作するのだ。
var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "実績データ付きテンプレートを一覧・検索するのだ。",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := templates.Default()
		list := c.All()
		if templateCategory != "" {
			list = c.ByCategory(templateCategory)
		}
		return printTemplates(cmd.OutOrStdout(), list)
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "テンプレートの詳細とカテゴリ内の比較を表示するのだ。",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := templates.Default()
		t, ok := c.ByID(args[0])
		if !ok {
			return fmt.Errorf("テンプレートが見つからないのだ: %s", args[0])
		}
		cmp := c.CompareWithCategory(t)
		insights := c.Insights(t)
		w := cmd.OutOrStdout()

		if opts.AsJSON {
			return writeJSON(w, map[string]any{"template": t, "comparison": cmp, "insights": insights})
		}
		fmt.Fprintf(w, "%s (%s) %s\n%s\n\n", t.Name, t.ID, t.Stars(), t.Description)
		fmt.Fprintf(w, "CTR %.1f%% (%+.0f%% vs category) / ROAS %gx (%+.0f%%) / rank %d of %d in %s\n\n",
			t.Performance.AvgCTR, cmp.CTRVsAvg, t.Performance.AvgROAS, cmp.ROASVsAvg, cmp.Rank, cmp.TotalInCategory, t.Category)
		for _, in := range insights {
			fmt.Fprintf(w, "- %s: %s\n", in.Title, in.Text)
		}
		return nil
	},
}

var templatesRecommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "カテゴリとタグに合うテンプレートを推薦するのだ。",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printTemplates(cmd.OutOrStdout(), templates.Default().Recommend(templateCategory, templateTags))
	},
}

var templatesSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "名前・説明・タグからテンプレートを検索するのだ。",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printTemplates(cmd.OutOrStdout(), templates.Default().Search(args[0]))
	},
}

var templatesBuildCmd = &cobra.Command{
	Use:   "build <id>",
	Short: "テンプレートからシーン JSON を組み立てるのだ。",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scene, err := pipeline.ExecuteTemplateBuild(cmd.Context(), loadConfig(), args[0], templateSize, templateOutput)
		if err != nil {
			return err
		}
		slog.Info("テンプレートからシーンを組み立てたのだ！", "template", args[0], "output", templateOutput, "elements", len(scene.Elements))
		return nil
	},
}

func init() {
	templatesCmd.Flags().StringVar(&templateCategory, "category", "", "カテゴリで絞り込むのだ。")
	templatesRecommendCmd.Flags().StringVar(&templateCategory, "category", "", "商品カテゴリなのだ。")
	templatesRecommendCmd.Flags().StringSliceVar(&templateTags, "tag", nil, "優先するタグなのだ。")
	templatesBuildCmd.Flags().StringVar(&templateSize, "size", "", "キャンバスサイズ（フォーマットキーまたは WxH）なのだ。")
	templatesBuildCmd.Flags().StringVar(&templateOutput, "out", "output/scene.json", "シーン JSON の保存先なのだ。")

	templatesCmd.AddCommand(templatesShowCmd, templatesRecommendCmd, templatesSearchCmd, templatesBuildCmd)
}

func printTemplates(w io.Writer, list []templates.Template) error {
	if opts.AsJSON {
		return writeJSON(w, list)
	}
	for _, t := range list {
		fmt.Fprintf(w, "%-24s %-28s %-12s CTR %.1f%%  ROAS %gx  %s\n",
			t.ID, t.Name, t.Category, t.Performance.AvgCTR, t.Performance.AvgROAS, t.Stars())
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
