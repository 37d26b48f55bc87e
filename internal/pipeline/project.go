package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shouni/go-creative-kit/internal/builder"
	"github.com/shouni/go-creative-kit/internal/config"
	"github.com/shouni/go-creative-kit/pkg/asset"
	"github.com/shouni/go-creative-kit/pkg/domain"
	"github.com/shouni/go-creative-kit/pkg/publisher"
)

// ExecuteProjectSave はシーンをプロジェクトとして保存するのだ。
func ExecuteProjectSave(ctx context.Context, cfg *config.Config, name string, w io.Writer) error {
	appCtx, err := setupAppContext(cfg)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	scene, _, err := loadScene(ctx, appCtx)
	if err != nil {
		return err
	}
	pr, err := builder.BuildProjectRunner(appCtx)
	if err != nil {
		return err
	}
	info, err := pr.Save(ctx, name, scene)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "saved %s (%s)\n", info.Name, info.SavedAt.Format(time.DateTime))
	return nil
}

// ExecuteProjectLoad は保存済みプロジェクトのシーンを outputFile に書き出すのだ。
// プレビューがあれば同じディレクトリに preview.png として保存するのだ。
func ExecuteProjectLoad(ctx context.Context, cfg *config.Config, name, outputFile string) (domain.Scene, error) {
	appCtx, err := setupAppContext(cfg)
	if err != nil {
		return domain.Scene{}, err
	}
	defer appCtx.Close()

	pr, err := builder.BuildProjectRunner(appCtx)
	if err != nil {
		return domain.Scene{}, err
	}
	p, err := pr.Load(ctx, name)
	if err != nil {
		return domain.Scene{}, err
	}
	if err := saveScene(ctx, p.Scene, outputFile); err != nil {
		return domain.Scene{}, err
	}
	if len(p.Preview) > 0 {
		previewPath, err := asset.ResolveOutputPath(asset.ResolveBaseURL(outputFile), asset.DefaultPreviewFileName)
		if err != nil {
			return domain.Scene{}, err
		}
		if err := publisher.NewLocalWriter().Write(ctx, previewPath, bytes.NewReader(p.Preview), "image/png"); err != nil {
			return domain.Scene{}, fmt.Errorf("プレビューの保存に失敗したのだ: %w", err)
		}
	}
	return p.Scene, nil
}

// ExecuteProjectList は保存済みプロジェクトの一覧を出力するのだ。
func ExecuteProjectList(ctx context.Context, cfg *config.Config, w io.Writer) error {
	appCtx, err := setupAppContext(cfg)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	pr, err := builder.BuildProjectRunner(appCtx)
	if err != nil {
		return err
	}
	list, err := pr.List(ctx)
	if err != nil {
		return err
	}
	if appCtx.Options.AsJSON {
		return writeJSON(w, list)
	}
	for _, p := range list {
		fmt.Fprintf(w, "%s\t%s\n", p.SavedAt.Format(time.DateTime), p.Name)
	}
	return nil
}

// ExecuteProjectDelete はプロジェクトを削除するのだ。
func ExecuteProjectDelete(ctx context.Context, cfg *config.Config, name string) error {
	appCtx, err := setupAppContext(cfg)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	pr, err := builder.BuildProjectRunner(appCtx)
	if err != nil {
		return err
	}
	return pr.Delete(ctx, name)
}

// ExecutePalette は保存済みカラーパレットを操作するのだ。action は add / remove / list なのだ。
func ExecutePalette(ctx context.Context, cfg *config.Config, action string, colors []string, w io.Writer) error {
	appCtx, err := setupAppContext(cfg)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	st, err := appCtx.Manager.Store()
	if err != nil {
		return err
	}

	switch action {
	case "add":
		for _, c := range colors {
			added, err := st.AddColor(ctx, c)
			if err != nil {
				return err
			}
			if !added {
				fmt.Fprintf(w, "%s は登録済みなのだ\n", c)
			}
		}
	case "remove":
		for _, c := range colors {
			if err := st.RemoveColor(ctx, c); err != nil {
				return err
			}
		}
	case "list":
	default:
		return fmt.Errorf("未知の操作なのだ: %s", action)
	}

	saved, err := st.LoadColors(ctx)
	if err != nil {
		return err
	}
	for _, c := range saved {
		fmt.Fprintln(w, c)
	}
	return nil
}
