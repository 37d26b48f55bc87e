package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shouni/go-creative-kit/pkg/domain"
)

// InputReader はパスを指定してコンテンツを開くためのインターフェースです。
type InputReader interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// LocalReader はローカルファイルシステムから読み込む InputReader です。
type LocalReader struct{}

// NewLocalReader は LocalReader を生成します。
func NewLocalReader() *LocalReader {
	return &LocalReader{}
}

// Open はローカルファイルを開きます。URL 形式のパスは扱いません。
func (LocalReader) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if strings.Contains(path, "://") {
		return nil, fmt.Errorf("ローカル以外のパスには対応していません: %s", path)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Parser はシーンを読み込むためのインターフェースを定義します。
type Parser interface {
	ParseFromPath(ctx context.Context, fullPath string) (*domain.Scene, error)
}

// SceneParser は JSON 形式のシーンを解析する構造体です。
type SceneParser struct {
	reader InputReader
}

// NewSceneParser は新しい SceneParser インスタンスを生成します。
func NewSceneParser(r InputReader) *SceneParser {
	return &SceneParser{reader: r}
}

// ParseFromPath はファイルからシーンを読み込み、整合性を確認して返します。
// 画像ソースの相対パスはシーンファイルのディレクトリを基準に解決されます。
func (p *SceneParser) ParseFromPath(ctx context.Context, sceneFile string) (*domain.Scene, error) {
	slog.InfoContext(ctx, "シーンファイルを読み込んでいます", "path", sceneFile)
	rc, err := p.reader.Open(ctx, sceneFile)
	if err != nil {
		return nil, fmt.Errorf("シーンファイルのオープンに失敗しました (%s): %w", sceneFile, err)
	}
	defer rc.Close()

	scene, err := Decode(rc)
	if err != nil {
		return nil, err
	}
	resolveImageSources(scene.Elements, filepath.Dir(sceneFile))
	return scene, nil
}

// Decode は JSON を読み取りシーンを返します。ID を持たない要素には採番します。
func Decode(r io.Reader) (*domain.Scene, error) {
	scene := &domain.Scene{}
	if err := json.NewDecoder(r).Decode(scene); err != nil {
		return nil, fmt.Errorf("シーンJSONのパースに失敗しました: %w", err)
	}
	if scene.Background == "" {
		scene.Background = domain.DefaultBackground
	}
	assignIDs(scene.Elements)
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	return scene, nil
}

func assignIDs(elems []domain.Element) {
	for i := range elems {
		if elems[i].ID == "" {
			elems[i].ID = domain.NewID()
		}
		if elems[i].Group != nil {
			assignIDs(elems[i].Group.Children)
		}
	}
}

func resolveImageSources(elems []domain.Element, baseDir string) {
	for i := range elems {
		if img := elems[i].Image; img != nil {
			img.Source = resolveAssetPath(baseDir, img.Source)
		}
		if elems[i].Group != nil {
			resolveImageSources(elems[i].Group.Children, baseDir)
		}
	}
}
