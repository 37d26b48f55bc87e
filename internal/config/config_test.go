package config

import (
	"testing"
	"time"

	"github.com/shouni/go-creative-kit/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("未設定ならデフォルト値なのだ", func(t *testing.T) {
		cfg := LoadConfig()
		def := config.DefaultConfig()
		assert.Equal(t, def.ExportQuality, cfg.Kit.ExportQuality)
		assert.Equal(t, def.ExportConcurrency, cfg.Kit.ExportConcurrency)
		assert.Equal(t, def.HistoryCapacity, cfg.Kit.HistoryCapacity)
	})

	t.Run("環境変数で上書きできるのだ", func(t *testing.T) {
		t.Setenv("CREATIVE_PROFILE", "amazon")
		t.Setenv("CREATIVE_EXPORT_QUALITY", "75")
		t.Setenv("CREATIVE_EXPORT_CONCURRENCY", "4")
		t.Setenv("CREATIVE_HISTORY_CAPACITY", "20")
		t.Setenv("CREATIVE_RATE_INTERVAL", "250ms")

		cfg := LoadConfig()
		assert.Equal(t, "amazon", cfg.Kit.Profile)
		assert.Equal(t, 75, cfg.Kit.ExportQuality)
		assert.Equal(t, 4, cfg.Kit.ExportConcurrency)
		assert.Equal(t, 20, cfg.Kit.HistoryCapacity)
		assert.Equal(t, 250*time.Millisecond, cfg.Kit.RateInterval)
	})

	t.Run("期間として読めない値は無視する", func(t *testing.T) {
		t.Setenv("CREATIVE_REPORT_CACHE_TTL", "soon")
		assert.Equal(t, config.DefaultReportCacheTTL, LoadConfig().Kit.ReportCacheTTL)
	})
}
