package compliance

import (
	"fmt"
	"slices"

	"github.com/shouni/go-creative-kit/pkg/domain"
	"github.com/shouni/go-creative-kit/pkg/layout"
	"github.com/shouni/go-creative-kit/pkg/rules"
)

// MaxElements は「混み合っていない」とみなす要素数の上限です。
const MaxElements = 15

// quickMinFontSize は簡易チェックでの可読性の下限です。
const quickMinFontSize = 12.0

// StandardSizes は広告フォーマットとして認められるキャンバスサイズです。
var StandardSizes = []string{"1080x1080", "1080x1920", "1200x628", "1200x1200", "728x90"}

// QuickCheck はエディタ上で常時表示する簡易チェックです。結果は合格か不合格のみです。
func QuickCheck(scene domain.Scene, p rules.Profile) []Verdict {
	texts := scene.Texts()
	var out []Verdict

	readable := true
	oversized := false
	for _, t := range texts {
		if t.Text == nil {
			continue
		}
		if t.Text.Size() < quickMinFontSize {
			readable = false
		}
		if t.Text.Size() > p.MaxFontSize {
			oversized = true
		}
	}
	out = append(out, quick("Text is readable", readable, "Increase the smallest font size"))
	out = append(out, quick("Good color contrast", hasContrast(scene, p.TextMinContrast),
		fmt.Sprintf("Use text colors with a contrast ratio of at least %g:1", p.TextMinContrast)))

	size := fmt.Sprintf("%gx%g", scene.Width, scene.Height)
	out = append(out, quick("Appropriate canvas size", slices.Contains(StandardSizes, size), "Resize the canvas to a standard ad format"))
	out = append(out, quick("Not too crowded", len(scene.Elements) <= MaxElements, fmt.Sprintf("Keep the creative to %d elements or fewer", MaxElements)))
	out = append(out, quick("Text size appropriate", !oversized, fmt.Sprintf("Keep font sizes at or below %gpx", p.MaxFontSize)))
	return out
}

func quick(name string, ok bool, fix string) Verdict {
	if ok {
		return Passed(name, name)
	}
	return Failed(name, name, fix)
}

// hasContrast は全テキストが直下の背景に対して minRatio 以上のコントラスト比を持つかを判定します。
// 解釈できない色は判定の対象外です。
func hasContrast(scene domain.Scene, minRatio float64) bool {
	if minRatio <= 0 {
		return true
	}
	style := layout.NewStyleManager()
	for i, e := range scene.Elements {
		if e.Kind != domain.KindText || e.Text == nil || !e.Visible {
			continue
		}
		fill := e.Text.Fill
		if fill == "" {
			fill = "#000000"
		}
		ratio, err := style.ContrastRatio(fill, style.BackdropOf(scene, i))
		if err != nil {
			continue
		}
		if ratio < minRatio {
			return false
		}
	}
	return true
}
