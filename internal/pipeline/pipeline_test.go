package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shouni/go-creative-kit/internal/config"
	kitconfig "github.com/shouni/go-creative-kit/pkg/config"
	"github.com/shouni/go-creative-kit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	kit := kitconfig.DefaultConfig()
	kit.RateInterval = 0
	kit.OutputDir = filepath.Join(dir, "out")
	kit.StorePath = filepath.Join(dir, "creative.db")
	return &config.Config{
		Kit:     kit,
		Options: config.GenerateOptions{SceneFile: filepath.Join("..", "..", "examples", "sample_scene.json")},
	}
}

func TestExecuteCheck(t *testing.T) {
	t.Run("テキスト出力", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, ExecuteCheck(context.Background(), testConfig(t), &out))
		assert.Contains(t, out.String(), "Tesco compliance score:")
		assert.Contains(t, out.String(), "quick check:")
	})

	t.Run("JSON出力とプロファイル指定", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Options.AsJSON = true
		cfg.Options.Profile = "Amazon"
		var out bytes.Buffer
		require.NoError(t, ExecuteCheck(context.Background(), cfg, &out))

		var got struct {
			Report struct {
				Profile string `json:"profile"`
			} `json:"report"`
		}
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, "amazon", got.Report.Profile)
	})

	t.Run("未知のプロファイル", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Options.Profile = "walmart"
		assert.Error(t, ExecuteCheck(context.Background(), cfg, &bytes.Buffer{}))
	})
}

func TestExecuteExport(t *testing.T) {
	cfg := testConfig(t)
	cfg.Options.Sizes = []string{"square", "728x90"}
	cfg.Options.Format = "jpeg"

	res, err := ExecuteExport(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, res.ImagePaths, 2)
	for _, p := range res.ImagePaths {
		assert.FileExists(t, p)
		assert.Equal(t, ".jpeg", filepath.Ext(p))
	}
	assert.FileExists(t, res.ReportPath)

	t.Run("不正なポリシー", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Options.Policy = "stretch"
		_, err := ExecuteExport(context.Background(), cfg)
		assert.Error(t, err)
	})
}

func TestExecuteCompose(t *testing.T) {
	cfg := testConfig(t)
	cfg.Options.BriefFile = filepath.Join("..", "..", "examples", "sample_brief.md")
	out := filepath.Join(t.TempDir(), "scene.json")

	scene, err := ExecuteCompose(context.Background(), cfg, out)
	require.NoError(t, err)
	assert.Contains(t, scene.TextContents(), "Alphonso Mangoes")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	saved, err := domain.DecodeScene(data)
	require.NoError(t, err)
	assert.Len(t, saved.Elements, len(scene.Elements))

	t.Run("ブリーフ未指定", func(t *testing.T) {
		_, err := ExecuteCompose(context.Background(), testConfig(t), out)
		assert.Error(t, err)
	})
}

func TestExecutePredict(t *testing.T) {
	cfg := testConfig(t)
	cfg.Options.Template = "festive-special"
	var out bytes.Buffer
	require.NoError(t, ExecutePredict(context.Background(), cfg, &out))
	assert.Contains(t, out.String(), "quality score:")
	assert.Contains(t, out.String(), "predicted CTR:")
}

func TestExecuteTemplateBuild(t *testing.T) {
	out := filepath.Join(t.TempDir(), "scene.json")
	scene, err := ExecuteTemplateBuild(context.Background(), testConfig(t), "flash-sale", "1200x628", out)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, scene.Width)
	assert.FileExists(t, out)

	_, err = ExecuteTemplateBuild(context.Background(), testConfig(t), "nope", "", out)
	assert.Error(t, err)
}

func TestExecuteProject(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, ExecuteProjectSave(ctx, cfg, "mango", &out))
	assert.Contains(t, out.String(), "saved mango")

	out.Reset()
	require.NoError(t, ExecuteProjectList(ctx, cfg, &out))
	assert.Contains(t, out.String(), "mango")

	target := filepath.Join(t.TempDir(), "loaded.json")
	scene, err := ExecuteProjectLoad(ctx, cfg, "mango", target)
	require.NoError(t, err)
	assert.Len(t, scene.Elements, 5)

	require.NoError(t, ExecuteProjectDelete(ctx, cfg, "mango"))
	assert.Error(t, ExecuteProjectDelete(ctx, cfg, "mango"))
}

func TestExecutePalette(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, ExecutePalette(ctx, cfg, "add", []string{"#FF0000", "#00ff00", "#ff0000"}, &out))
	assert.Contains(t, out.String(), "#ff0000\n#00ff00\n")

	out.Reset()
	require.NoError(t, ExecutePalette(ctx, cfg, "remove", []string{"#ff0000"}, &out))
	assert.Equal(t, "#00ff00\n", out.String())

	assert.Error(t, ExecutePalette(ctx, cfg, "paint", nil, &bytes.Buffer{}))
}

func TestExecuteProfiles(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, ExecuteProfiles(testConfig(t), &out))
	assert.Contains(t, out.String(), "* tesco")
	assert.Contains(t, out.String(), "bigbasket")
}
