package templates

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/shouni/go-creative-kit/pkg/domain"
	"github.com/shouni/go-creative-kit/pkg/layout"
)

// BadgeKind はスマートバッジの種類です。
type BadgeKind string

const (
	BadgeUrgency  BadgeKind = "urgency"
	BadgeScarcity BadgeKind = "scarcity"
	BadgeSocial   BadgeKind = "social"
	BadgeValue    BadgeKind = "value"
	BadgeTrust    BadgeKind = "trust"
)

// バッジの寸法です。
const (
	badgeHeight   = 36.0
	badgeFontSize = 14.0
	badgeRadius   = 6.0
)

// Badge はバッジの文言と配色です。Text の {X} は数値で置き換えられます。
type Badge struct {
	Text       string
	Background string
	Icon       string
}

var badgeCatalog = map[BadgeKind][]Badge{
	BadgeUrgency: {
		{"Limited Time Offer!", "#ef4444", "⏰"},
		{"Ends Tonight!", "#f97316", "🔥"},
		{"Last Few Hours!", "#dc2626", "⚡"},
		{"Flash Sale!", "#b91c1c", "💥"},
		{"Hurry, Limited Period!", "#ea580c", "⏳"},
	},
	BadgeScarcity: {
		{"Only {X} Left!", "#7c3aed", "📦"},
		{"Selling Fast!", "#8b5cf6", "🏃"},
		{"Low Stock Alert", "#6d28d9", "⚠️"},
		{"Almost Gone!", "#5b21b6", "🔴"},
		{"{X} Sold Today", "#9333ea", "🛒"},
	},
	BadgeSocial: {
		{"Bestseller", "#059669", "⭐"},
		{"{X}+ Happy Customers", "#10b981", "👥"},
		{"Customer Favorite", "#047857", "❤️"},
		{"Trending Now", "#065f46", "📈"},
		{"Top Rated ★★★★★", "#15803d", "🌟"},
	},
	BadgeValue: {
		{"{X}% OFF", "#dc2626", "🏷️"},
		{"Best Value", "#2563eb", "💎"},
		{"Save ₹{X}", "#16a34a", "💰"},
		{"Buy 2 Get 1 Free", "#9333ea", "🎁"},
		{"Special Offer", "#ea580c", "✨"},
	},
	BadgeTrust: {
		{"Verified Quality", "#0891b2", "✅"},
		{"Premium Product", "#1d4ed8", "👑"},
		{"100% Authentic", "#0d9488", "🛡️"},
		{"Official Store", "#0ea5e9", "🏪"},
		{"Quality Assured", "#0284c7", "✓"},
	},
}

// placeholderRanges は {X} に入る数値の範囲 [min, min+span) です。
var placeholderRanges = map[BadgeKind][2]int{
	BadgeScarcity: {5, 20},
	BadgeSocial:   {500, 2000},
	BadgeValue:    {10, 40},
}

// BadgeKinds はバッジの種類の一覧です。
func BadgeKinds() []BadgeKind {
	return []BadgeKind{BadgeUrgency, BadgeScarcity, BadgeSocial, BadgeValue, BadgeTrust}
}

// ParseBadgeKind はバッジの種類名を解釈します。
func ParseBadgeKind(s string) (BadgeKind, error) {
	k := BadgeKind(strings.ToLower(s))
	if _, ok := badgeCatalog[k]; !ok {
		return "", fmt.Errorf("unknown badge kind: %q", s)
	}
	return k, nil
}

// PickBadge はバッジを1つ選び、{X} を埋めた表示文言と共に返します。
// rng が nil の場合は先頭のバッジと範囲の下限を使うため、結果は常に同じなのだ。
func PickBadge(kind BadgeKind, rng *rand.Rand) (Badge, string, error) {
	badges, ok := badgeCatalog[kind]
	if !ok {
		return Badge{}, "", fmt.Errorf("unknown badge kind: %q", kind)
	}
	b := badges[0]
	if rng != nil {
		b = badges[rng.IntN(len(badges))]
	}

	text := b.Text
	if strings.Contains(text, "{X}") {
		r := placeholderRanges[kind]
		n := r[0]
		if rng != nil && r[1] > 0 {
			n += rng.IntN(r[1])
		}
		text = strings.Replace(text, "{X}", strconv.Itoa(n), 1)
	}
	return b, b.Icon + " " + text, nil
}

// NewBadgeElement はシーンの右上に積むバッジのグループ要素を生成します。
// existing は既にシーンにあるバッジの数です。
func NewBadgeElement(kind BadgeKind, canvasWidth float64, existing int, rng *rand.Rand) (domain.Element, error) {
	b, display, err := PickBadge(kind, rng)
	if err != nil {
		return domain.Element{}, err
	}
	width := float64(len([]rune(display)))*9 + 30

	bg := domain.NewRect(0, 0, width, badgeHeight, b.Background)
	bg.Shape.CornerRadius = badgeRadius

	label := domain.NewText(display, 0, 0, badgeFontSize)
	label.Text.FontWeight = "bold"
	label.Text.Fill = "#ffffff"
	label.X = (width - label.Width) / 2
	label.Y = (badgeHeight - label.Height) / 2

	x, y := layout.NewLayoutManager().BadgeSlot(canvasWidth, width, existing)
	g := domain.NewGroup(x, y, string(kind), bg, label)
	g.Width, g.Height = width, badgeHeight
	return g, nil
}
