package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/shouni/go-creative-kit/pkg/domain"
)

// basicFontHeight はフォント未指定時に使われる gg 既定フォントの高さ(px)です。
const basicFontHeight = 13.0

// placeholderColor は画像ハンドルが空の要素を描く色です。
const placeholderColor = "#e5e7eb"

// Renderer はシーンをラスタ画像に描画します。
type Renderer struct {
	images   ImageSource
	fontPath string
}

// Option は Renderer の設定を変更します。
type Option func(*Renderer)

// WithFontPath はテキスト描画に使う TrueType フォントを指定します。
func WithFontPath(path string) Option {
	return func(r *Renderer) { r.fontPath = path }
}

// NewRenderer は Renderer を生成します。images が nil の場合、画像要素はプレースホルダとして描かれます。
func NewRenderer(images ImageSource, opts ...Option) *Renderer {
	r := &Renderer{images: images}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render はシーンの寸法で背景と全要素を背面から順に描画します。
// シーンは読み取るだけで変更しません。
func (r *Renderer) Render(ctx context.Context, scene domain.Scene) (image.Image, error) {
	w, h := int(math.Round(scene.Width)), int(math.Round(scene.Height))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("描画サイズが不正です: %dx%d", w, h)
	}

	dc := gg.NewContext(w, h)
	bg, err := ParseColor(scene.Background)
	if err != nil {
		bg = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	dc.SetColor(bg)
	dc.Clear()

	for i, e := range scene.Elements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.drawElement(ctx, dc, e, 1); err != nil {
			return nil, fmt.Errorf("要素 %d (%s) の描画に失敗しました: %w", i, e.Kind, err)
		}
	}
	return dc.Image(), nil
}

func (r *Renderer) drawElement(ctx context.Context, dc *gg.Context, e domain.Element, parentOpacity float64) error {
	if !e.Visible {
		return nil
	}
	opacity := parentOpacity * clamp01(e.Opacity)

	dc.Push()
	defer dc.Pop()
	dc.Translate(e.X, e.Y)
	if e.Rotation != 0 {
		dc.Rotate(gg.Radians(e.Rotation))
	}

	if e.Kind == domain.KindImage {
		return r.drawImage(ctx, dc, e, opacity)
	}

	dc.Scale(e.ScaleX, e.ScaleY)
	if e.FlipX {
		dc.Translate(e.Width, 0)
		dc.Scale(-1, 1)
	}
	if e.FlipY {
		dc.Translate(0, e.Height)
		dc.Scale(1, -1)
	}

	switch e.Kind {
	case domain.KindRect, domain.KindCircle:
		r.drawShape(dc, e, opacity)
	case domain.KindText:
		return r.drawText(dc, e, opacity)
	case domain.KindGroup:
		if e.Group == nil {
			return nil
		}
		for _, c := range e.Group.Children {
			if err := r.drawElement(ctx, dc, c, opacity); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) drawShape(dc *gg.Context, e domain.Element, opacity float64) {
	attrs := domain.ShapeAttrs{Fill: "#000000"}
	if e.Shape != nil {
		attrs = *e.Shape
	}

	if e.Kind == domain.KindCircle {
		dc.DrawEllipse(e.Width/2, e.Height/2, e.Width/2, e.Height/2)
	} else if attrs.CornerRadius > 0 {
		dc.DrawRoundedRectangle(0, 0, e.Width, e.Height, attrs.CornerRadius)
	} else {
		dc.DrawRectangle(0, 0, e.Width, e.Height)
	}

	if fill, err := ParseColor(attrs.Fill); err == nil && attrs.Fill != "" {
		dc.SetColor(withOpacity(fill, opacity))
		dc.FillPreserve()
	}
	if stroke, err := ParseColor(attrs.Stroke); err == nil && attrs.Stroke != "" && attrs.StrokeWidth > 0 {
		dc.SetColor(withOpacity(stroke, opacity))
		dc.SetLineWidth(attrs.StrokeWidth)
		dc.StrokePreserve()
	}
	dc.ClearPath()
}

func (r *Renderer) drawText(dc *gg.Context, e domain.Element, opacity float64) error {
	if e.Text == nil || e.Text.Content == "" {
		return nil
	}
	fill, err := ParseColor(e.Text.Fill)
	if err != nil {
		fill = color.NRGBA{A: 255}
	}
	dc.SetColor(withOpacity(fill, opacity))

	if r.fontPath != "" {
		if err := dc.LoadFontFace(r.fontPath, e.Text.Size()); err != nil {
			return fmt.Errorf("フォントの読み込みに失敗しました: %w", err)
		}
	} else {
		k := e.Text.Size() / basicFontHeight
		dc.Scale(k, k)
	}

	lineHeight := dc.FontHeight() * 1.16
	for i, line := range strings.Split(e.Text.Content, "\n") {
		dc.DrawStringAnchored(line, 0, float64(i)*lineHeight, 0, 1)
	}
	return nil
}

func (r *Renderer) drawImage(ctx context.Context, dc *gg.Context, e domain.Element, opacity float64) error {
	w, h := int(math.Round(e.ScaledWidth())), int(math.Round(e.ScaledHeight()))
	if w <= 0 || h <= 0 {
		return nil
	}

	var src image.Image
	if e.Image != nil && e.Image.Source != "" && r.images != nil {
		img, err := r.images.Load(ctx, e.Image.Source)
		if err != nil {
			return err
		}
		src = imaging.Resize(img, w, h, imaging.Lanczos)
	} else {
		ph, _ := ParseColor(placeholderColor)
		src = imaging.New(w, h, ph)
	}

	var nrgba *image.NRGBA
	if e.Image != nil && !e.Image.Filters.IsZero() {
		nrgba = ApplyFilters(src, e.Image.Filters)
	} else {
		nrgba = imaging.Clone(src)
	}
	if e.FlipX != (e.ScaleX < 0) {
		nrgba = imaging.FlipH(nrgba)
	}
	if e.FlipY != (e.ScaleY < 0) {
		nrgba = imaging.FlipV(nrgba)
	}
	if opacity < 1 {
		nrgba = imaging.AdjustFunc(nrgba, func(c color.NRGBA) color.NRGBA {
			return withOpacity(c, opacity)
		})
	}

	slog.DebugContext(ctx, "Drawing image element", "id", e.ID, "width", w, "height", h)
	dc.DrawImage(nrgba, 0, 0)
	return nil
}
