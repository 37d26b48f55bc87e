package cmd

import (
	"log/slog"

	"github.com/shouni/go-creative-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

var projectOutput string

// projectCmd は、シーンをプロジェクトとして保存・読み込みするのだ。
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "プロジェクトの保存・読み込み・一覧・削除を行うのだ。",
}

var projectSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "シーンをプロジェクトとして保存するのだ。同名なら上書きなのだ。",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.ExecuteProjectSave(cmd.Context(), loadConfig(), args[0], cmd.OutOrStdout())
	},
}

var projectLoadCmd = &cobra.Command{
	Use:   "load <name>",
	Short: "保存済みプロジェクトのシーンを書き出すのだ。",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scene, err := pipeline.ExecuteProjectLoad(cmd.Context(), loadConfig(), args[0], projectOutput)
		if err != nil {
			return err
		}
		slog.Info("プロジェクトを読み込んだのだ！", "name", args[0], "output", projectOutput, "elements", len(scene.Elements))
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "保存済みプロジェクトを新しい順に表示するのだ。",
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.ExecuteProjectList(cmd.Context(), loadConfig(), cmd.OutOrStdout())
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "プロジェクトを削除するのだ。",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.ExecuteProjectDelete(cmd.Context(), loadConfig(), args[0])
	},
}

// paletteCmd は、保存済みカラーパレットを操作するのだ。
var paletteCmd = &cobra.Command{
	Use:       "palette <add|remove|list> [colors...]",
	Short:     "保存済みカラーパレットを操作するのだ。",
	Args:      cobra.MinimumNArgs(1),
	ValidArgs: []string{"add", "remove", "list"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.ExecutePalette(cmd.Context(), loadConfig(), args[0], args[1:], cmd.OutOrStdout())
	},
}

func init() {
	projectLoadCmd.Flags().StringVar(&projectOutput, "out", "output/scene.json", "シーン JSON の保存先なのだ。")
	projectCmd.AddCommand(projectSaveCmd, projectLoadCmd, projectListCmd, projectDeleteCmd)
}
