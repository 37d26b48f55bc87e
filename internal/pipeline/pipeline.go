package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shouni/go-creative-kit/internal/builder"
	"github.com/shouni/go-creative-kit/internal/config"
	"github.com/shouni/go-creative-kit/pkg/domain"
	"github.com/shouni/go-creative-kit/pkg/export"
	"github.com/shouni/go-creative-kit/pkg/parser"
	"github.com/shouni/go-creative-kit/pkg/publisher"
	"github.com/shouni/go-creative-kit/pkg/render"
	"github.com/shouni/go-creative-kit/pkg/rules"
)

// ExecuteCheck はシーンを読み込んでコンプライアンス評価と簡易チェックを実行し、結果を w に出力するのだ。
func ExecuteCheck(ctx context.Context, cfg *config.Config, w io.Writer) error {
	appCtx, err := setupAppContext(cfg)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	scene, _, err := loadScene(ctx, appCtx)
	if err != nil {
		return err
	}

	cr, err := builder.BuildComplianceRunner(appCtx)
	if err != nil {
		return err
	}
	report, err := cr.Run(ctx, scene, appCtx.Options.Profile)
	if err != nil {
		return err
	}
	quick, err := cr.Quick(scene, appCtx.Options.Profile)
	if err != nil {
		return err
	}

	if appCtx.Options.AsJSON {
		return writeJSON(w, map[string]any{"report": report, "quick_check": quick})
	}
	printReport(w, report, quick)
	return nil
}

// ExecuteExport はシーンを評価してから全サイズに書き出し、画像とレポートを保存するのだ。
func ExecuteExport(ctx context.Context, cfg *config.Config) (publisher.PublishResult, error) {
	appCtx, err := setupAppContext(cfg)
	if err != nil {
		return publisher.PublishResult{}, err
	}
	defer appCtx.Close()

	scene, title, err := loadScene(ctx, appCtx)
	if err != nil {
		return publisher.PublishResult{}, err
	}

	sizes, err := builder.ResolveSizes(appCtx.Options.Sizes)
	if err != nil {
		return publisher.PublishResult{}, err
	}
	policy, err := export.ParsePolicy(cfg.Kit.ExportPolicy)
	if err != nil {
		return publisher.PublishResult{}, err
	}

	// --- Phase 1: Compliance (評価) ---
	cr, err := builder.BuildComplianceRunner(appCtx)
	if err != nil {
		return publisher.PublishResult{}, err
	}
	report, err := cr.Run(ctx, scene, appCtx.Options.Profile)
	if err != nil {
		return publisher.PublishResult{}, err
	}
	if n := len(report.Failures()); n > 0 {
		slog.WarnContext(ctx, "ガイドライン違反があるまま書き出すのだ", "failed", n, "score", report.Score)
	}

	// --- Phase 2: Export & Publish (書き出しと保存) ---
	er, err := builder.BuildExportRunner(appCtx, title)
	if err != nil {
		return publisher.PublishResult{}, err
	}
	return er.RunAndSave(ctx, scene, sizes, policy, &report, cfg.Kit.OutputDir)
}

// ExecuteCompose はブリーフからシーンを組み立て、シーン JSON として outputFile に保存するのだ。
func ExecuteCompose(ctx context.Context, cfg *config.Config, outputFile string) (domain.Scene, error) {
	if cfg.Options.BriefFile == "" {
		return domain.Scene{}, fmt.Errorf("--brief を指定してほしいのだ")
	}
	appCtx, err := setupAppContext(cfg)
	if err != nil {
		return domain.Scene{}, err
	}
	defer appCtx.Close()

	scene, _, err := loadScene(ctx, appCtx)
	if err != nil {
		return domain.Scene{}, err
	}
	if err := saveScene(ctx, scene, outputFile); err != nil {
		return domain.Scene{}, err
	}
	return scene, nil
}

// ExecutePredict はシーンの性能予測を w に出力するのだ。
func ExecutePredict(ctx context.Context, cfg *config.Config, w io.Writer) error {
	appCtx, err := setupAppContext(cfg)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	scene, _, err := loadScene(ctx, appCtx)
	if err != nil {
		return err
	}
	pr, err := builder.BuildPredictRunner(appCtx)
	if err != nil {
		return err
	}
	res, err := pr.Run(scene, appCtx.Options.Template)
	if err != nil {
		return err
	}

	if appCtx.Options.AsJSON {
		return writeJSON(w, res)
	}
	printPrediction(w, res)
	return nil
}

// setupAppContext は、CLI の指定を設定に反映してからアプリケーションコンテキストを初期化するのだ。
func setupAppContext(cfg *config.Config) (*builder.AppContext, error) {
	opts := cfg.Options
	if opts.Profile != "" {
		cfg.Kit.Profile = strings.ToLower(opts.Profile)
	}
	if opts.OutputDir != "" {
		cfg.Kit.OutputDir = opts.OutputDir
	}
	if opts.Policy != "" {
		cfg.Kit.ExportPolicy = opts.Policy
	}
	if opts.Format != "" {
		f, err := render.ParseFormat(opts.Format)
		if err != nil {
			return nil, err
		}
		cfg.Kit.ExportFormat = f
	}
	if opts.Quality > 0 {
		cfg.Kit.ExportQuality = opts.Quality
	}
	if opts.Concurrency > 0 {
		cfg.Kit.ExportConcurrency = opts.Concurrency
	}
	return builder.NewAppContext(cfg)
}

// loadScene はブリーフが指定されていれば組み立て、なければシーンファイルを読み込むのだ。
// 戻り値の文字列はレポートの見出しに使うタイトルなのだ。
func loadScene(ctx context.Context, appCtx *builder.AppContext) (domain.Scene, string, error) {
	opts := appCtx.Options
	if opts.BriefFile != "" {
		cr, err := builder.BuildComposeRunner(appCtx)
		if err != nil {
			return domain.Scene{}, "", err
		}
		sess, brief, err := cr.RunFromPath(ctx, opts.BriefFile, export.Size{}, config.DefaultTemplateSize)
		if err != nil {
			return domain.Scene{}, "", err
		}
		return sess.Scene(), brief.Title, nil
	}

	sceneFile := opts.SceneFile
	if sceneFile == "" {
		sceneFile = config.DefaultSceneFile
	}
	scene, err := appCtx.Manager.SceneParser().ParseFromPath(ctx, sceneFile)
	if err != nil {
		return domain.Scene{}, "", err
	}
	return *scene, "", nil
}

func saveScene(ctx context.Context, scene domain.Scene, path string) error {
	data, err := json.MarshalIndent(scene, "", "  ")
	if err != nil {
		return fmt.Errorf("シーンのシリアライズに失敗したのだ: %w", err)
	}
	if err := publisher.NewLocalWriter().Write(ctx, path, bytes.NewReader(data), "application/json"); err != nil {
		return fmt.Errorf("シーンの保存に失敗したのだ: %w", err)
	}
	slog.InfoContext(ctx, "シーンを保存したのだ", "path", path, "elements", len(scene.Elements))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ExecuteTemplateBuild はテンプレートからシーンを組み立てて outputFile に保存するのだ。
func ExecuteTemplateBuild(ctx context.Context, cfg *config.Config, templateID, sizeKey, outputFile string) (domain.Scene, error) {
	appCtx, err := setupAppContext(cfg)
	if err != nil {
		return domain.Scene{}, err
	}
	defer appCtx.Close()

	if sizeKey == "" {
		sizeKey = config.DefaultTemplateSize
	}
	size, err := export.ParseSize(sizeKey)
	if err != nil {
		return domain.Scene{}, err
	}
	cr, err := builder.BuildComposeRunner(appCtx)
	if err != nil {
		return domain.Scene{}, err
	}
	sess, err := cr.Run(ctx, &parser.Brief{Template: templateID}, size)
	if err != nil {
		return domain.Scene{}, err
	}
	scene := sess.Scene()
	if err := saveScene(ctx, scene, outputFile); err != nil {
		return domain.Scene{}, err
	}
	return scene, nil
}

// ExecuteProfiles は利用できるプロファイルの一覧を出力するのだ。
func ExecuteProfiles(cfg *config.Config, w io.Writer) error {
	appCtx, err := setupAppContext(cfg)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	registry := appCtx.Manager.Registry()
	var profiles []rules.Profile
	for _, name := range registry.Names() {
		p, err := registry.Lookup(name)
		if err != nil {
			return err
		}
		profiles = append(profiles, p)
	}
	if appCtx.Options.AsJSON {
		return writeJSON(w, profiles)
	}
	for _, p := range profiles {
		marker := " "
		if p.Name == cfg.Kit.Profile {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-10s %-12s text<=%g%% cta:%t price:%t font:%g-%gpx\n",
			marker, p.Name, p.DisplayName, p.MaxTextPercentage, p.CTARequired, p.PriceRequired, p.MinFontSize, p.MaxFontSize)
	}
	return nil
}
