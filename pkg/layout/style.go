package layout

import (
	"image/color"
	"math"

	"github.com/shouni/go-creative-kit/pkg/domain"
	"github.com/shouni/go-creative-kit/pkg/render"
)

// StyleManager は要素の配色に関する判定を行います。
type StyleManager struct{}

// NewStyleManager は StyleManager を生成します。
func NewStyleManager() *StyleManager {
	return &StyleManager{}
}

// ContrastRatio は WCAG のコントラスト比 (1〜21) を返します。
func (s *StyleManager) ContrastRatio(fg, bg string) (float64, error) {
	a, err := render.ParseColor(fg)
	if err != nil {
		return 0, err
	}
	b, err := render.ParseColor(bg)
	if err != nil {
		return 0, err
	}
	la, lb := luminance(a), luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05), nil
}

// ReadableTextColor は塗り色の上で読みやすい白か黒を返します。
func (s *StyleManager) ReadableTextColor(fill string) string {
	white, err := s.ContrastRatio("#ffffff", fill)
	if err != nil {
		return "#000000"
	}
	black, _ := s.ContrastRatio("#000000", fill)
	if white >= black {
		return "#ffffff"
	}
	return "#000000"
}

// BackdropOf はテキスト要素の中心の直下にある塗りつぶし図形の色を返します。
// 該当する図形がなければシーンの背景色です。
func (s *StyleManager) BackdropOf(scene domain.Scene, index int) string {
	e := scene.Elements[index]
	cx := e.X + e.ScaledWidth()/2
	cy := e.Y + e.ScaledHeight()/2
	for i := index - 1; i >= 0; i-- {
		under := scene.Elements[i]
		if !under.Visible || !under.IsShape() || under.Shape == nil || under.Shape.Fill == "" {
			continue
		}
		if fill, err := render.ParseColor(under.Shape.Fill); err != nil || fill.A == 0 {
			continue
		}
		if cx >= under.X && cx <= under.X+under.ScaledWidth() && cy >= under.Y && cy <= under.Y+under.ScaledHeight() {
			return under.Shape.Fill
		}
	}
	if scene.Background == "" {
		return domain.DefaultBackground
	}
	return scene.Background
}

func luminance(c color.NRGBA) float64 {
	channel := func(v uint8) float64 {
		f := float64(v) / 255
		if f <= 0.03928 {
			return f / 12.92
		}
		return math.Pow((f+0.055)/1.055, 2.4)
	}
	return 0.2126*channel(c.R) + 0.7152*channel(c.G) + 0.0722*channel(c.B)
}
