package templates

import (
	"math/rand/v2"

	"github.com/shouni/go-creative-kit/pkg/domain"
)

// テンプレート適用時のプレースホルダ文言です。
const (
	HeadingPlaceholder    = "Your Product Name"
	SubheadingPlaceholder = "Tagline or offer goes here"
	PricePlaceholder      = "₹999"
)

// テンプレートが生成する要素の名前です。Fill はこの名前で差し替え先を探します。
const (
	NameHeaderBand = "Header Band"
	NameHeading    = "Heading"
	NameSubheading = "Subheading"
	NameCTA        = "CTA Button"
	NamePrice      = "Price Tag"
)

// Build はテンプレートからシーンを組み立てます。
// minimal レイアウト以外は上部 30% に主色の帯を敷き、見出しを白で重ねます。
// rng はバッジの選択に使われ、nil の場合は決定的に選ばれます。
func Build(t Template, width, height float64, rng *rand.Rand) domain.Scene {
	s := t.Style
	minimal := s.Layout == "minimal"

	scene := domain.NewScene(width, height)
	if s.BackgroundColor != "" {
		scene.Background = s.BackgroundColor
	}

	if !minimal {
		band := domain.NewRect(0, 0, width, height*0.3, s.PrimaryColor)
		band.Name = NameHeaderBand
		band.Locked = true
		scene.Add(band)
	}

	headingTop, headingFill, subFill := height*0.15, "#ffffff", "#ffffffcc"
	if minimal {
		headingTop, headingFill, subFill = 60, s.PrimaryColor, "#666666"
	}

	heading := domain.NewText(HeadingPlaceholder, 0, 0, 42)
	heading.Name = NameHeading
	heading.Text.FontWeight = "bold"
	heading.Text.Fill = headingFill
	heading.Text.FontFamily = s.FontPrimary
	centerAt(&heading, width/2, headingTop)
	scene.Add(heading)

	sub := domain.NewText(SubheadingPlaceholder, 0, 0, 20)
	sub.Name = NameSubheading
	sub.Text.Fill = subFill
	sub.Text.FontFamily = s.FontSecondary
	centerAt(&sub, width/2, headingTop+50)
	scene.Add(sub)

	if s.HasCTA {
		buttonFill, labelFill := "#ffffff", s.PrimaryColor
		if minimal {
			buttonFill, labelFill = s.PrimaryColor, "#ffffff"
		}
		scene.Add(button(NameCTA, width/2-80, height-100, 160, 45, 8, buttonFill, ctaText(s), 16, labelFill))
	}

	if s.HasPrice {
		scene.Add(button(NamePrice, 20, 20, 100, 40, 4, "#ef4444", PricePlaceholder, 18, "#ffffff"))
	}

	if s.HasUrgencyBadge {
		if badge, err := NewBadgeElement(BadgeUrgency, width, 0, rng); err == nil {
			scene.Add(badge)
		}
	}
	return scene
}

func ctaText(s Style) string {
	if s.CTAText == "" {
		return "Shop Now"
	}
	return s.CTAText
}

// button は角丸の矩形と中央寄せのラベルをまとめたグループです。
func button(name string, x, y, w, h, radius float64, fill, label string, fontSize float64, labelFill string) domain.Element {
	bg := domain.NewRect(0, 0, w, h, fill)
	bg.Shape.CornerRadius = radius

	txt := domain.NewText(label, 0, 0, fontSize)
	txt.Text.FontWeight = "bold"
	txt.Text.Fill = labelFill
	centerAt(&txt, w/2, h/2)

	g := domain.NewGroup(x, y, "", bg, txt)
	g.Name = name
	g.Width, g.Height = w, h
	return g
}

func centerAt(e *domain.Element, cx, cy float64) {
	e.X = cx - e.ScaledWidth()/2
	e.Y = cy - e.ScaledHeight()/2
}

// Copy はテンプレートのプレースホルダに差し込む文言です。空の項目はそのまま残ります。
type Copy struct {
	Heading string
	Tagline string
	CTA     string
	Price   string
}

// Fill はテンプレートから組み立てたシーンの文言を差し替えます。
// テキストは元の中心位置を保ったまま幅を計算し直します。
func Fill(scene *domain.Scene, c Copy) {
	for i := range scene.Elements {
		e := &scene.Elements[i]
		switch e.Name {
		case NameHeading:
			replaceText(e, c.Heading)
		case NameSubheading:
			replaceText(e, c.Tagline)
		case NameCTA:
			replaceLabel(e, c.CTA)
		case NamePrice:
			replaceLabel(e, c.Price)
		}
	}
}

func replaceText(e *domain.Element, content string) {
	if content == "" || e.Text == nil {
		return
	}
	cx, cy := e.X+e.ScaledWidth()/2, e.Y+e.ScaledHeight()/2
	e.Text.Content = content
	e.Width, e.Height = domain.EstimateTextBox(content, e.Text.Size())
	centerAt(e, cx, cy)
}

func replaceLabel(g *domain.Element, content string) {
	if g.Group == nil {
		return
	}
	for i := range g.Group.Children {
		if g.Group.Children[i].Kind == domain.KindText {
			replaceText(&g.Group.Children[i], content)
		}
	}
}
