package layout

import (
	"errors"
	"fmt"

	"github.com/shouni/go-creative-kit/pkg/domain"
)

// ErrTooFewElements は自動配置に必要な要素数が足りない場合のエラーです。
var ErrTooFewElements = errors.New("add more objects to auto-arrange")

// Position は整列先です。
type Position string

const (
	Left   Position = "left"
	Center Position = "center"
	Right  Position = "right"
	Top    Position = "top"
	Middle Position = "middle"
	Bottom Position = "bottom"
)

// ParsePosition は整列先の名前を解釈します。
func ParsePosition(s string) (Position, error) {
	switch p := Position(s); p {
	case Left, Center, Right, Top, Middle, Bottom:
		return p, nil
	default:
		return "", fmt.Errorf("unknown align position: %q", s)
	}
}

// LayoutManager は要素の整列や自動配置、バッジの配置ルールを管理します。
type LayoutManager struct {
	// Margin はキャンバス端からバッジまでの余白です。
	Margin float64
	// BadgeSpacing はバッジを縦に積む間隔です。
	BadgeSpacing float64
	// TextTop と TextSpacing は自動配置でテキストを積む開始位置と間隔です。
	TextTop     float64
	TextSpacing float64
	// ShapeSpacing は自動配置で図形を並べる間隔です。
	ShapeSpacing float64
}

// NewLayoutManager は既定の余白と間隔で LayoutManager を生成します。
func NewLayoutManager() *LayoutManager {
	return &LayoutManager{
		Margin:       20,
		BadgeSpacing: 50,
		TextTop:      80,
		TextSpacing:  80,
		ShapeSpacing: 100,
	}
}

// Align は要素を指定方向に揃えます。座標は外接矩形ではなく表示サイズで計算します。
func (l *LayoutManager) Align(scene *domain.Scene, id string, pos Position) error {
	e, err := scene.Find(id)
	if err != nil {
		return err
	}
	w, h := e.ScaledWidth(), e.ScaledHeight()

	switch pos {
	case Left:
		e.X = 0
	case Center:
		e.X = (scene.Width - w) / 2
	case Right:
		e.X = scene.Width - w
	case Top:
		e.Y = 0
	case Middle:
		e.Y = (scene.Height - h) / 2
	case Bottom:
		e.Y = scene.Height - h
	default:
		return fmt.Errorf("unknown align position: %q", pos)
	}
	return nil
}

// AutoArrange は画像を最背面の中央に、テキストを上から順に、図形を中央から下へ並べます。
// テキストは最前面に移動します。要素が2つ未満の場合は ErrTooFewElements を返します。
func (l *LayoutManager) AutoArrange(scene *domain.Scene) error {
	if len(scene.Elements) < 2 {
		return ErrTooFewElements
	}

	var imageIDs, textIDs []string
	shapeIndex := 0
	textIndex := 0
	for i := range scene.Elements {
		e := &scene.Elements[i]
		w, h := e.ScaledWidth(), e.ScaledHeight()
		switch {
		case e.Kind == domain.KindImage:
			centerOn(e, scene.Width/2, scene.Height/2, w, h)
			imageIDs = append(imageIDs, e.ID)
		case e.Kind == domain.KindText:
			centerOn(e, scene.Width/2, l.TextTop+float64(textIndex)*l.TextSpacing, w, h)
			textIndex++
			textIDs = append(textIDs, e.ID)
		case e.IsShape():
			centerOn(e, scene.Width/2, scene.Height/2+float64(shapeIndex)*l.ShapeSpacing, w, h)
			shapeIndex++
		}
	}

	for _, id := range imageIDs {
		if err := scene.ToBack(id); err != nil {
			return err
		}
	}
	for _, id := range textIDs {
		if err := scene.ToFront(id); err != nil {
			return err
		}
	}
	return nil
}

// BadgeSlot は index 番目のバッジを置く左上座標です。右上から下へ積んでいきます。
func (l *LayoutManager) BadgeSlot(canvasWidth, badgeWidth float64, index int) (float64, float64) {
	return canvasWidth - badgeWidth - l.Margin, l.Margin + float64(index)*l.BadgeSpacing
}

// Resize はキャンバスを新しい寸法に変更し、要素の位置と倍率を比例させて変換します。
func (l *LayoutManager) Resize(scene *domain.Scene, width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("キャンバスサイズが不正です: %vx%v", width, height)
	}
	if scene.Width <= 0 || scene.Height <= 0 {
		scene.Width, scene.Height = width, height
		return nil
	}
	sx, sy := width/scene.Width, height/scene.Height
	for i := range scene.Elements {
		e := &scene.Elements[i]
		e.X *= sx
		e.Y *= sy
		e.ScaleX *= sx
		e.ScaleY *= sy
	}
	scene.Width, scene.Height = width, height
	return nil
}

func centerOn(e *domain.Element, cx, cy, w, h float64) {
	e.X = cx - w/2
	e.Y = cy - h/2
}
