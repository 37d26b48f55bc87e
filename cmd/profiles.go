package cmd

import (
	"github.com/shouni/go-creative-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// profilesCmd は、利用できるリテーラープロファイルを一覧表示するのだ。
var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "リテーラープロファイルの一覧を表示するのだ。",
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.ExecuteProfiles(loadConfig(), cmd.OutOrStdout())
	},
}
