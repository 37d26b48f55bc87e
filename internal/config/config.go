package config

import (
	"log/slog"
	"time"

	"github.com/shouni/go-creative-kit/pkg/config"
	"github.com/shouni/go-creative-kit/pkg/render"
	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultSceneFile    = "examples/sample_scene.json" // check や export の既定の入力なのだ
	DefaultTemplateSize = "instagram-post"
)

// Config はアプリケーション全体の環境設定を保持する構造体なのだ。
type Config struct {
	Kit config.Config

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	kit := config.DefaultConfig()
	kit.Profile = envutil.GetEnv("CREATIVE_PROFILE", kit.Profile)
	kit.ProfilesFile = envutil.GetEnv("CREATIVE_PROFILES_FILE", "")
	kit.OutputDir = envutil.GetEnv("CREATIVE_OUTPUT_DIR", kit.OutputDir)
	kit.StorePath = envutil.GetEnv("CREATIVE_STORE_PATH", kit.StorePath)
	kit.AssetDir = envutil.GetEnv("CREATIVE_ASSET_DIR", "")
	kit.FontPath = envutil.GetEnv("CREATIVE_FONT_PATH", "")
	kit.ExportPolicy = envutil.GetEnv("CREATIVE_EXPORT_POLICY", kit.ExportPolicy)

	if f, err := render.ParseFormat(envutil.GetEnv("CREATIVE_EXPORT_FORMAT", string(kit.ExportFormat))); err == nil {
		kit.ExportFormat = f
	} else {
		slog.Warn("CREATIVE_EXPORT_FORMAT を無視するのだ", "error", err)
	}
	kit.ExportQuality = envutil.GetEnvAsInt("CREATIVE_EXPORT_QUALITY", kit.ExportQuality)
	kit.ExportConcurrency = envutil.GetEnvAsInt("CREATIVE_EXPORT_CONCURRENCY", kit.ExportConcurrency)
	kit.HistoryCapacity = envutil.GetEnvAsInt("CREATIVE_HISTORY_CAPACITY", kit.HistoryCapacity)
	kit.RateInterval = envDuration("CREATIVE_RATE_INTERVAL", kit.RateInterval)
	kit.ReportCacheTTL = envDuration("CREATIVE_REPORT_CACHE_TTL", kit.ReportCacheTTL)

	return &Config{Kit: kit}
}

func envDuration(key string, def time.Duration) time.Duration {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("期間として解釈できない環境変数を無視するのだ", "key", key, "value", raw)
		return def
	}
	return v
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// 入力関連
	SceneFile string // --scene
	BriefFile string // --brief
	Template  string // --template

	// 評価関連
	Profile string // --profile
	AsJSON  bool   // --json

	// 書き出し関連
	Sizes       []string // --size
	Policy      string   // --policy
	Format      string   // --format
	Quality     int      // --quality
	Concurrency int      // --concurrency
	OutputDir   string   // --output-dir

	// 予測関連
	Seed uint64 // --seed (0 なら揺らぎなし)

	// 実行制御
	Verbose bool // --verbose
}
