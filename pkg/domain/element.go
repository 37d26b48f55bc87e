package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/oklog/ulid/v2"
)

// ElementKind は描画要素の種類を表します。
type ElementKind string

const (
	KindImage  ElementKind = "image"
	KindText   ElementKind = "text"
	KindRect   ElementKind = "rect"
	KindCircle ElementKind = "circle"
	KindGroup  ElementKind = "group"
)

// DefaultFontSize はフォントサイズが未指定のテキストに適用される値です。
const DefaultFontSize = 20.0

// TextAttrs はテキスト要素固有の属性です。
type TextAttrs struct {
	Content    string  `json:"content"`
	FontFamily string  `json:"font_family,omitempty"`
	FontSize   float64 `json:"font_size,omitempty"`
	FontWeight string  `json:"font_weight,omitempty"`
	Fill       string  `json:"fill,omitempty"`
}

// Size は描画に使うフォントサイズです。未指定なら DefaultFontSize なのだ。
func (t TextAttrs) Size() float64 {
	if t.FontSize <= 0 {
		return DefaultFontSize
	}
	return t.FontSize
}

// ImageAttrs は画像要素固有の属性です。
// Source はホストエディタ側が解決する不透明なハンドルなのだ。
type ImageAttrs struct {
	PixelWidth  int          `json:"pixel_width"`
	PixelHeight int          `json:"pixel_height"`
	Source      string       `json:"source,omitempty"`
	Filters     ImageFilters `json:"filters,omitzero"`
}

// ShapeAttrs は矩形・円の属性です。CornerRadius は矩形のみで使われます。
type ShapeAttrs struct {
	Fill         string  `json:"fill,omitempty"`
	Stroke       string  `json:"stroke,omitempty"`
	StrokeWidth  float64 `json:"stroke_width,omitempty"`
	CornerRadius float64 `json:"corner_radius,omitempty"`
}

// GroupAttrs はグループ要素の子要素とバッジ種別を保持します。
// 子要素の座標はグループの左上を原点とする相対座標です。
type GroupAttrs struct {
	Children  []Element `json:"children"`
	BadgeType string    `json:"badge_type,omitempty"`
}

// Element はシーンを構成する描画要素です。Kind に応じていずれか1つの属性が設定されます。
type Element struct {
	ID       string      `json:"id"`
	Kind     ElementKind `json:"kind"`
	Name     string      `json:"name,omitempty"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	ScaleX   float64     `json:"scale_x"`
	ScaleY   float64     `json:"scale_y"`
	Rotation float64     `json:"rotation,omitempty"`
	Opacity  float64     `json:"opacity"`
	Visible  bool        `json:"visible"`
	Locked   bool        `json:"locked,omitempty"`
	FlipX    bool        `json:"flip_x,omitempty"`
	FlipY    bool        `json:"flip_y,omitempty"`

	Text  *TextAttrs  `json:"text,omitempty"`
	Image *ImageAttrs `json:"image,omitempty"`
	Shape *ShapeAttrs `json:"shape,omitempty"`
	Group *GroupAttrs `json:"group,omitempty"`
}

// NewID はソート可能な一意の要素IDを生成します。
func NewID() string {
	return ulid.Make().String()
}

// UnmarshalJSON は省略されたフィールドにデフォルト値を補ってからデコードします。
func (e *Element) UnmarshalJSON(data []byte) error {
	type alias Element
	a := alias{ScaleX: 1, ScaleY: 1, Opacity: 1, Visible: true}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*e = Element(a)
	e.normalize()
	return nil
}

// normalize は不正・欠損値をローカルに補正するのだ。エラーにはしないのだよ。
func (e *Element) normalize() {
	if e.ScaleX == 0 {
		e.ScaleX = 1
	}
	if e.ScaleY == 0 {
		e.ScaleY = 1
	}
	e.Opacity = math.Max(0, math.Min(1, e.Opacity))
	if e.Kind == KindText && e.Text == nil {
		e.Text = &TextAttrs{}
	}
	if e.Text != nil && e.Text.FontSize <= 0 {
		e.Text.FontSize = DefaultFontSize
	}
	e.fillSize()
}

// fillSize は幅・高さが省略された要素に内容から求めたサイズを補います。
func (e *Element) fillSize() {
	if e.Width > 0 && e.Height > 0 {
		return
	}
	var w, h float64
	switch {
	case e.Image != nil:
		w, h = float64(e.Image.PixelWidth), float64(e.Image.PixelHeight)
	case e.Text != nil:
		w, h = EstimateTextBox(e.Text.Content, e.Text.Size())
	case e.Group != nil:
		for _, c := range e.Group.Children {
			w = math.Max(w, c.X+c.ScaledWidth())
			h = math.Max(h, c.Y+c.ScaledHeight())
		}
	default:
		return
	}
	if e.Width <= 0 {
		e.Width = w
	}
	if e.Height <= 0 {
		e.Height = h
	}
}

// NewText はテキスト要素を生成します。
func NewText(content string, x, y, fontSize float64) Element {
	e := Element{
		ID:      NewID(),
		Kind:    KindText,
		X:       x,
		Y:       y,
		ScaleX:  1,
		ScaleY:  1,
		Opacity: 1,
		Visible: true,
		Text:    &TextAttrs{Content: content, FontSize: fontSize, FontFamily: "Inter", Fill: "#000000"},
	}
	e.normalize()
	e.Width, e.Height = EstimateTextBox(content, e.Text.FontSize)
	return e
}

// NewImage は画像要素を生成します。表示サイズは画素サイズと同じになります。
func NewImage(source string, pixelW, pixelH int, x, y float64) Element {
	return Element{
		ID:      NewID(),
		Kind:    KindImage,
		X:       x,
		Y:       y,
		Width:   float64(pixelW),
		Height:  float64(pixelH),
		ScaleX:  1,
		ScaleY:  1,
		Opacity: 1,
		Visible: true,
		Image:   &ImageAttrs{PixelWidth: pixelW, PixelHeight: pixelH, Source: source},
	}
}

// NewRect は矩形要素を生成します。
func NewRect(x, y, w, h float64, fill string) Element {
	return Element{
		ID: NewID(), Kind: KindRect,
		X: x, Y: y, Width: w, Height: h,
		ScaleX: 1, ScaleY: 1, Opacity: 1, Visible: true,
		Shape: &ShapeAttrs{Fill: fill},
	}
}

// NewCircle は半径 r の円要素を生成します。
func NewCircle(x, y, r float64, fill string) Element {
	return Element{
		ID: NewID(), Kind: KindCircle,
		X: x, Y: y, Width: 2 * r, Height: 2 * r,
		ScaleX: 1, ScaleY: 1, Opacity: 1, Visible: true,
		Shape: &ShapeAttrs{Fill: fill},
	}
}

// NewGroup は子要素をまとめたグループを生成します。サイズは子要素の外接矩形です。
func NewGroup(x, y float64, badgeType string, children ...Element) Element {
	g := Element{
		ID: NewID(), Kind: KindGroup,
		X: x, Y: y,
		ScaleX: 1, ScaleY: 1, Opacity: 1, Visible: true,
		Group: &GroupAttrs{Children: children, BadgeType: badgeType},
	}
	for _, c := range children {
		g.Width = math.Max(g.Width, c.X+c.ScaledWidth())
		g.Height = math.Max(g.Height, c.Y+c.ScaledHeight())
	}
	return g
}

// EstimateTextBox はフォントメトリクスを持たない環境向けの概算テキスト枠を返します。
// 1文字あたりフォントサイズの 0.6 倍、行の高さは 1.16 倍として計算します。
func EstimateTextBox(content string, fontSize float64) (float64, float64) {
	lines := strings.Split(content, "\n")
	longest := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > longest {
			longest = n
		}
	}
	return float64(longest) * fontSize * 0.6, float64(len(lines)) * fontSize * 1.16
}

// ScaledWidth はスケール適用後の幅です。
func (e Element) ScaledWidth() float64 {
	return e.Width * math.Abs(e.ScaleX)
}

// ScaledHeight はスケール適用後の高さです。
func (e Element) ScaledHeight() float64 {
	return e.Height * math.Abs(e.ScaleY)
}

// BoundingBox は回転を考慮した軸並行の外接矩形の幅と高さを返します。
func (e Element) BoundingBox() (float64, float64) {
	w, h := e.ScaledWidth(), e.ScaledHeight()
	if e.Rotation == 0 {
		return w, h
	}
	rad := e.Rotation * math.Pi / 180
	sin, cos := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))
	return w*cos + h*sin, w*sin + h*cos
}

// Area は外接矩形の面積です。
func (e Element) Area() float64 {
	w, h := e.BoundingBox()
	return w * h
}

// IsShape は矩形または円であるかを判定します。
func (e Element) IsShape() bool {
	return e.Kind == KindRect || e.Kind == KindCircle
}

// IsBadge はバッジとしてタグ付けされたグループかを判定します。
func (e Element) IsBadge() bool {
	return e.Kind == KindGroup && e.Group != nil && e.Group.BadgeType != ""
}

// TextContent はテキスト要素の内容を返します。テキスト以外は空文字なのだ。
func (e Element) TextContent() string {
	if e.Kind != KindText || e.Text == nil {
		return ""
	}
	return e.Text.Content
}

// Clone は属性ポインタと子要素を含めたディープコピーを返します。
func (e Element) Clone() Element {
	c := e
	if e.Text != nil {
		t := *e.Text
		c.Text = &t
	}
	if e.Image != nil {
		i := *e.Image
		c.Image = &i
	}
	if e.Shape != nil {
		s := *e.Shape
		c.Shape = &s
	}
	if e.Group != nil {
		g := GroupAttrs{BadgeType: e.Group.BadgeType}
		if e.Group.Children != nil {
			g.Children = make([]Element, len(e.Group.Children))
			for i, child := range e.Group.Children {
				g.Children[i] = child.Clone()
			}
		}
		c.Group = &g
	}
	return c
}

// LayerName はレイヤー一覧に表示する名前を返します。
func (e Element) LayerName() string {
	if e.Name != "" {
		return e.Name
	}
	switch e.Kind {
	case KindText:
		content := e.TextContent()
		if r := []rune(content); len(r) > 20 {
			content = string(r[:20]) + "..."
		}
		return content
	case KindImage:
		return "Image"
	case KindRect:
		return "Rectangle"
	case KindCircle:
		return "Circle"
	case KindGroup:
		if e.IsBadge() {
			return fmt.Sprintf("Badge (%s)", e.Group.BadgeType)
		}
		return "Group"
	default:
		return string(e.Kind)
	}
}
