package config

import (
	"time"

	"github.com/shouni/go-creative-kit/pkg/history"
	"github.com/shouni/go-creative-kit/pkg/render"
)

// デフォルト値の定義
const (
	DefaultProfile           = "tesco"
	DefaultExportConcurrency = 1
	DefaultRateInterval      = 600 * time.Millisecond
	DefaultReportCacheTTL    = 5 * time.Minute
	DefaultCacheCleanup      = 15 * time.Minute
	DefaultImageCacheTTL     = 10 * time.Minute
	DefaultExportFormat      = render.FormatPNG
	DefaultExportQuality     = render.DefaultQuality
	DefaultOutputDir         = "output"
	DefaultStorePath         = "creative.db"
	DefaultExportPolicy      = "fit"
	DefaultHistoryCapacity   = history.DefaultCapacity
)

// Config は Go Creative Kit の各 Runner を動作させるための基本設定です。
type Config struct {
	// --- Compliance Settings ---
	Profile        string        // 既定のリテーラープロファイル
	ProfilesFile   string        // 追加プロファイルを定義した YAML (空なら組み込みのみ)
	ReportCacheTTL time.Duration // 評価結果のキャッシュ期間
	CacheCleanup   time.Duration

	// --- Editor Settings ---
	HistoryCapacity int

	// --- Export Settings ---
	ExportConcurrency int
	RateInterval      time.Duration // サイズごとの描画開始間隔
	ExportFormat      render.Format
	ExportQuality     int
	ExportPolicy      string
	FontPath          string // 空なら組み込みのビットマップフォント

	// --- Storage & Output Settings ---
	OutputDir     string
	StorePath     string
	AssetDir      string // 画像ソースの相対パスの基準
	ImageCacheTTL time.Duration
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数です。
func DefaultConfig() Config {
	return Config{
		Profile:           DefaultProfile,
		ReportCacheTTL:    DefaultReportCacheTTL,
		CacheCleanup:      DefaultCacheCleanup,
		HistoryCapacity:   DefaultHistoryCapacity,
		ExportConcurrency: DefaultExportConcurrency,
		RateInterval:      DefaultRateInterval,
		ExportFormat:      DefaultExportFormat,
		ExportQuality:     DefaultExportQuality,
		ExportPolicy:      DefaultExportPolicy,
		OutputDir:         DefaultOutputDir,
		StorePath:         DefaultStorePath,
		ImageCacheTTL:     DefaultImageCacheTTL,
	}
}
