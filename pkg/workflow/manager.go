package workflow

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/shouni/go-creative-kit/pkg/compliance"
	"github.com/shouni/go-creative-kit/pkg/config"
	"github.com/shouni/go-creative-kit/pkg/parser"
	"github.com/shouni/go-creative-kit/pkg/publisher"
	"github.com/shouni/go-creative-kit/pkg/render"
	"github.com/shouni/go-creative-kit/pkg/rules"
	"github.com/shouni/go-creative-kit/pkg/store"
	"github.com/shouni/go-creative-kit/pkg/templates"
)

// ManagerArgs は Manager の生成に使う依存関係です。nil の項目には既定の実装が使われます。
type ManagerArgs struct {
	Config   config.Config
	Reader   parser.InputReader
	Writer   publisher.OutputWriter
	Images   render.ImageSource
	Registry *rules.Registry
	Catalog  *templates.Catalog
}

// Manager は、ワークフローの各工程を担う Runner 群を構築・管理します。
type Manager struct {
	cfg       config.Config
	reader    parser.InputReader
	writer    publisher.OutputWriter
	registry  *rules.Registry
	catalog   *templates.Catalog
	evaluator *compliance.CachedEvaluator
	renderer  *render.Renderer

	storeOnce sync.Once
	store     *store.Store
	storeErr  error
}

// New は設定を基に新しい Manager を初期化します。
func New(args ManagerArgs) (*Manager, error) {
	cfg := args.Config
	if cfg.Profile == "" {
		cfg.Profile = config.DefaultProfile
	}
	if args.Reader == nil {
		args.Reader = parser.NewLocalReader()
	}
	if args.Writer == nil {
		args.Writer = publisher.NewLocalWriter()
	}

	registry, err := initializeRegistry(args.Registry, cfg.ProfilesFile)
	if err != nil {
		return nil, err
	}
	if _, err := registry.Lookup(cfg.Profile); err != nil {
		return nil, fmt.Errorf("既定のプロファイルが不正です: %w", err)
	}

	evaluator, err := compliance.NewCachedEvaluator(compliance.NewEvaluator(registry), cfg.ReportCacheTTL, cfg.CacheCleanup)
	if err != nil {
		return nil, fmt.Errorf("評価キャッシュの初期化に失敗しました: %w", err)
	}

	images := args.Images
	if images == nil {
		images = render.NewFileImageSource(cfg.AssetDir, cfg.ImageCacheTTL, cfg.CacheCleanup)
	}
	var renderOpts []render.Option
	if cfg.FontPath != "" {
		renderOpts = append(renderOpts, render.WithFontPath(cfg.FontPath))
	}

	catalog := args.Catalog
	if catalog == nil {
		catalog = templates.Default()
	}

	return &Manager{
		cfg:       cfg,
		reader:    args.Reader,
		writer:    args.Writer,
		registry:  registry,
		catalog:   catalog,
		evaluator: evaluator,
		renderer:  render.NewRenderer(images, renderOpts...),
	}, nil
}

// initializeRegistry はプロファイルのレジストリを初期化します。
// 引数として既存のレジストリが渡された場合はそれを使い、nil の場合は組み込みプロファイルから作成します。
func initializeRegistry(registry *rules.Registry, profilesFile string) (*rules.Registry, error) {
	if registry == nil {
		registry = rules.NewRegistry()
	}
	if profilesFile == "" {
		return registry, nil
	}
	if err := registry.LoadFile(profilesFile); err != nil {
		return nil, fmt.Errorf("プロファイル定義の読み込みに失敗しました: %w", err)
	}
	slog.Info("追加のプロファイルを読み込みました", "path", profilesFile, "profiles", registry.Names())
	return registry, nil
}

// Config は Manager の設定を返します。
func (m *Manager) Config() config.Config {
	return m.cfg
}

// Registry はプロファイルのレジストリを返します。
func (m *Manager) Registry() *rules.Registry {
	return m.registry
}

// Catalog はテンプレートカタログを返します。
func (m *Manager) Catalog() *templates.Catalog {
	return m.catalog
}

// Evaluator はキャッシュ付きの評価器を返します。
func (m *Manager) Evaluator() *compliance.CachedEvaluator {
	return m.evaluator
}

// SceneParser はシーンファイルのパーサーを返します。
func (m *Manager) SceneParser() *parser.SceneParser {
	return parser.NewSceneParser(m.reader)
}

// Store はプロジェクトストアを返します。最初の呼び出しで開きます。
func (m *Manager) Store() (*store.Store, error) {
	m.storeOnce.Do(func() {
		m.store, m.storeErr = store.Open(m.cfg.StorePath)
		if m.storeErr == nil {
			slog.Debug("プロジェクトストアを開きました", "path", m.cfg.StorePath)
		}
	})
	return m.store, m.storeErr
}

// Close は開いているリソースを解放します。
func (m *Manager) Close() error {
	m.evaluator.Flush()
	if m.store != nil {
		return m.store.Close()
	}
	return nil
}
