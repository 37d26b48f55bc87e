package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/shouni/go-creative-kit/pkg/domain"
	"github.com/shouni/go-creative-kit/pkg/export"
	"github.com/shouni/go-creative-kit/pkg/render"
	"github.com/shouni/go-creative-kit/pkg/store"
)

// PreviewSize はプロジェクトのプレビュー画像の長辺です。
const PreviewSize = 320

// CreativeProjectRunner はシーンをプロジェクトとして保存・読み込みします。
type CreativeProjectRunner struct {
	store    *store.Store
	renderer export.SceneRenderer
}

// NewCreativeProjectRunner は依存関係を注入して初期化します。renderer が nil ならプレビューは保存しません。
func NewCreativeProjectRunner(st *store.Store, renderer export.SceneRenderer) *CreativeProjectRunner {
	return &CreativeProjectRunner{store: st, renderer: renderer}
}

// Save はシーンとプレビュー画像を保存します。同名のプロジェクトは上書きされます。
func (r *CreativeProjectRunner) Save(ctx context.Context, name string, scene domain.Scene) (store.ProjectInfo, error) {
	if name == "" {
		return store.ProjectInfo{}, fmt.Errorf("プロジェクト名は必須です")
	}
	var preview []byte
	if r.renderer != nil && !scene.IsEmpty() {
		img, err := r.renderer.Render(ctx, scene)
		if err != nil {
			slog.WarnContext(ctx, "プレビューの描画に失敗したため省略します", "project", name, "error", err)
		} else {
			thumb := imaging.Fit(img, PreviewSize, PreviewSize, imaging.Lanczos)
			if preview, err = render.EncodeBytes(thumb, render.FormatPNG, 0); err != nil {
				return store.ProjectInfo{}, err
			}
		}
	}
	return r.store.SaveProject(ctx, name, scene, preview)
}

// Load は保存済みのプロジェクトを返します。
func (r *CreativeProjectRunner) Load(ctx context.Context, name string) (store.Project, error) {
	return r.store.LoadProject(ctx, name)
}

// List は保存日時の新しい順にプロジェクトを返します。
func (r *CreativeProjectRunner) List(ctx context.Context) ([]store.ProjectInfo, error) {
	return r.store.ListProjects(ctx)
}

// Delete はプロジェクトを削除します。
func (r *CreativeProjectRunner) Delete(ctx context.Context, name string) error {
	return r.store.DeleteProject(ctx, name)
}
