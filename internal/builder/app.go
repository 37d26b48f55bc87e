package builder

import (
	"fmt"

	"github.com/shouni/go-creative-kit/internal/config"
	"github.com/shouni/go-creative-kit/pkg/workflow"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config  *config.Config         // Configは、環境変数から読み込まれたグローバルな設定です（プロファイル、出力先など）。
	Options config.GenerateOptions // Optionsは、コマンドラインから渡された実行時の設定です（サイズ、形式、シードなど）。
	Manager *workflow.Manager      // Managerは、評価・書き出し・保存の各 Runner を構築します。
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(cfg *config.Config) (*AppContext, error) {
	m, err := workflow.New(workflow.ManagerArgs{Config: cfg.Kit})
	if err != nil {
		return nil, fmt.Errorf("ワークフローの初期化に失敗しました: %w", err)
	}
	return &AppContext{
		Config:  cfg,
		Options: cfg.Options,
		Manager: m,
	}, nil
}

// Close は Manager が保持するリソースを解放します。
func (a *AppContext) Close() error {
	return a.Manager.Close()
}
