package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// ErrImageNotFound は画像ハンドルを解決できなかった場合のエラーです。
var ErrImageNotFound = errors.New("image not found")

// ImageSource は画像要素の不透明なハンドルをデコード済みの画像に解決します。
type ImageSource interface {
	Load(ctx context.Context, source string) (image.Image, error)
}

// FileImageSource はローカルファイルから画像を読み込み、デコード結果をキャッシュします。
type FileImageSource struct {
	baseDir string
	cache   *cache.Cache
	group   singleflight.Group
}

// NewFileImageSource は baseDir を起点に相対パスを解決する FileImageSource を生成します。
func NewFileImageSource(baseDir string, expiration, cleanup time.Duration) *FileImageSource {
	return &FileImageSource{
		baseDir: baseDir,
		cache:   cache.New(expiration, cleanup),
	}
}

// Load は画像をデコードして返します。同じパスへの同時要求は1回の読み込みにまとめられます。
func (s *FileImageSource) Load(ctx context.Context, source string) (image.Image, error) {
	path := source
	if !filepath.IsAbs(path) && s.baseDir != "" {
		path = filepath.Join(s.baseDir, path)
	}
	if img, ok := s.cache.Get(path); ok {
		return img.(image.Image), nil
	}

	val, err, _ := s.group.Do(path, func() (interface{}, error) {
		if img, ok := s.cache.Get(path); ok {
			return img, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := imaging.Open(path, imaging.AutoOrientation(true))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrImageNotFound, source, err)
		}
		slog.DebugContext(ctx, "Image decoded", "path", path, "bounds", img.Bounds().String())
		s.cache.SetDefault(path, img)
		return img, nil
	})
	if err != nil {
		return nil, err
	}

	img, ok := val.(image.Image)
	if !ok {
		return nil, fmt.Errorf("unexpected return type from singleflight: %T", val)
	}
	return img, nil
}

// MemoryImageSource はメモリ上の画像をハンドル名で返します。
type MemoryImageSource map[string]image.Image

// Load はハンドルに対応する画像を返します。
func (m MemoryImageSource) Load(_ context.Context, source string) (image.Image, error) {
	img, ok := m[source]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, source)
	}
	return img, nil
}

// Dimensions は画像ファイルの画素サイズを返します。
func Dimensions(path string) (int, int, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("画像の読み込みに失敗しました: %w", err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}
