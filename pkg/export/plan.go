package export

import (
	"errors"
	"fmt"
	"math"

	"github.com/shouni/go-creative-kit/pkg/domain"
)

var (
	// ErrEmptyScene は要素のないシーンを書き出そうとした場合のエラーです。空の画像を黙って出力することはしません。
	ErrEmptyScene = errors.New("scene has no elements")
	// ErrScaleDegenerate は幅または高さが0以下の出力サイズを指定した場合のエラーです。
	ErrScaleDegenerate = errors.New("degenerate export size")
	// ErrUnknownPolicy は fit / cover 以外のポリシーを指定した場合のエラーです。
	ErrUnknownPolicy = errors.New("unknown export policy")
)

// Policy は出力サイズに対する倍率の決め方です。
type Policy string

const (
	// PolicyFit は出力に収まる倍率 min(targetW/W, targetH/H) です。
	PolicyFit Policy = "fit"
	// PolicyCover は出力を覆う倍率 max(targetW/W, targetH/H) です。
	PolicyCover Policy = "cover"
)

// ParsePolicy はポリシー名を解釈します。空文字は fit です。
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyFit:
		return PolicyFit, nil
	case PolicyCover:
		return PolicyCover, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Entry は1つの出力サイズに対する計画です。
// Scale はポリシーで決まる一様倍率、ScaleX/ScaleY は軸ごとの倍率なのだ。
type Entry struct {
	Index  int     `json:"index"`
	Target Size    `json:"target"`
	Scale  float64 `json:"scale"`
	ScaleX float64 `json:"scale_x"`
	ScaleY float64 `json:"scale_y"`
}

// Plan は1つのシーンから複数サイズを書き出すための計画です。
type Plan struct {
	SourceWidth  float64 `json:"source_width"`
	SourceHeight float64 `json:"source_height"`
	Policy       Policy  `json:"policy"`
	Entries      []Entry `json:"entries"`
}

// PlanExport は各出力サイズの倍率を計算します。シーンは変更しません。
func PlanExport(scene domain.Scene, targets []Size, policy Policy) (Plan, error) {
	if policy != PolicyFit && policy != PolicyCover {
		return Plan{}, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
	}
	if scene.IsEmpty() {
		return Plan{}, ErrEmptyScene
	}
	if scene.Width <= 0 || scene.Height <= 0 {
		return Plan{}, fmt.Errorf("%w: source %vx%v", ErrScaleDegenerate, scene.Width, scene.Height)
	}

	plan := Plan{
		SourceWidth:  scene.Width,
		SourceHeight: scene.Height,
		Policy:       policy,
		Entries:      make([]Entry, 0, len(targets)),
	}
	for i, t := range targets {
		if t.Width <= 0 || t.Height <= 0 {
			return Plan{}, fmt.Errorf("%w: target %d is %dx%d", ErrScaleDegenerate, i, t.Width, t.Height)
		}
		sx := float64(t.Width) / scene.Width
		sy := float64(t.Height) / scene.Height
		scale := math.Min(sx, sy)
		if policy == PolicyCover {
			scale = math.Max(sx, sy)
		}
		plan.Entries = append(plan.Entries, Entry{Index: i, Target: t, Scale: scale, ScaleX: sx, ScaleY: sy})
	}
	return plan, nil
}

// Transform はシーンを複製し、各要素の位置と倍率を軸ごとの倍率で変換した出力用シーンを返します。
// 線幅と角丸はポリシーの一様倍率で変換します。元のシーンは変更されません。
func Transform(scene domain.Scene, e Entry) domain.Scene {
	out := scene.Clone()
	out.Width = float64(e.Target.Width)
	out.Height = float64(e.Target.Height)
	for i := range out.Elements {
		el := &out.Elements[i]
		el.X *= e.ScaleX
		el.Y *= e.ScaleY
		el.ScaleX *= e.ScaleX
		el.ScaleY *= e.ScaleY
		if el.Shape != nil {
			el.Shape.StrokeWidth *= e.Scale
			el.Shape.CornerRadius *= e.Scale
		}
	}
	return out
}
