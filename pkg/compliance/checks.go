package compliance

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shouni/go-creative-kit/pkg/domain"
	"github.com/shouni/go-creative-kit/pkg/rules"
)

// ctaKeywords は行動喚起とみなすキーワードです。
var ctaKeywords = []string{"shop", "buy", "order", "get", "try", "discover", "learn", "click", "now", "today"}

// pricePattern は価格やオファー表記を検出します。
var pricePattern = regexp.MustCompile(`(?i)₹|\$|€|£|rs\.?|price|off|%\s*off`)

// HasCTA はテキストのいずれかに行動喚起キーワードが含まれるかを判定します。
func HasCTA(texts []string) bool {
	for _, t := range texts {
		lower := strings.ToLower(t)
		for _, kw := range ctaKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

// HasPrice はテキストのいずれかに価格・割引表記が含まれるかを判定します。
func HasPrice(texts []string) bool {
	for _, t := range texts {
		if pricePattern.MatchString(t) {
			return true
		}
	}
	return false
}

// ForbiddenMatches は連結テキストに含まれる禁止語をプロファイルの定義順で返します。
func ForbiddenMatches(texts []string, forbidden []string) []string {
	all := strings.ToLower(strings.Join(texts, " "))
	var found []string
	for _, w := range forbidden {
		if w != "" && strings.Contains(all, strings.ToLower(w)) {
			found = append(found, w)
		}
	}
	return found
}

// TextCoverage はテキストの描画領域の合計がキャンバスに占める割合(%)です。
func TextCoverage(scene domain.Scene) float64 {
	if scene.Area() <= 0 {
		return 0
	}
	var total float64
	for _, t := range scene.Texts() {
		total += t.Area()
	}
	return total / scene.Area() * 100
}

// ImageCoverage は先頭の画像要素がキャンバスに占める割合(%)です。画像がなければ0です。
func ImageCoverage(scene domain.Scene) float64 {
	images := scene.Images()
	if len(images) == 0 || scene.Area() <= 0 {
		return 0
	}
	main := images[0]
	return main.ScaledWidth() * main.ScaledHeight() / scene.Area() * 100
}

func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

func checkProductImage(scene domain.Scene, p rules.Profile) []Verdict {
	if len(scene.Images()) == 0 {
		return []Verdict{Failed(RuleProductImage,
			"Add at least one product image",
			"Upload a product image using the Assets panel")}
	}
	out := []Verdict{Passed(RuleProductImage, "Product image present ✓")}
	ratio := ImageCoverage(scene)
	if ratio < p.MinImagePercentage {
		out = append(out, Warning(RuleProductImageSize,
			fmt.Sprintf("Product image is only %s of canvas", pct(ratio)),
			"Increase product image size for better visibility",
			"Product images covering 25-40% perform 25% better"))
	} else {
		out = append(out, Passed(RuleProductImageSize, fmt.Sprintf("Product image size: %s ✓", pct(ratio))))
	}
	return out
}

func checkCTA(texts []string, p rules.Profile) []Verdict {
	has := HasCTA(texts)
	switch {
	case has:
		return []Verdict{Passed(RuleCTA, "Call-to-action present ✓")}
	case p.CTARequired:
		return []Verdict{Warning(RuleCTA,
			"No clear CTA found",
			`Add a CTA like "Shop Now", "Buy Today", "Order Now"`,
			"Clear CTAs increase conversion by 35%")}
	}
	return nil
}

func checkPrice(texts []string, p rules.Profile) []Verdict {
	has := HasPrice(texts)
	switch {
	case has:
		return []Verdict{Passed(RulePrice, "Price/Offer displayed ✓")}
	case p.PriceRequired:
		return []Verdict{Warning(RulePrice,
			"No price or offer visible",
			"Add price or discount information",
			"Price visibility increases purchase intent by 28%")}
	}
	return nil
}

func checkTextCoverage(scene domain.Scene, p rules.Profile) Verdict {
	coverage := TextCoverage(scene)
	if coverage > p.MaxTextPercentage {
		return Warning(RuleTextCoverage,
			fmt.Sprintf("Text covers %s (max: %s%%)", pct(coverage), strconv.FormatFloat(p.MaxTextPercentage, 'f', -1, 64)),
			"Reduce text or make fonts smaller",
			"Too much text reduces engagement by 20%")
	}
	return Passed(RuleTextCoverage, fmt.Sprintf("Text coverage: %s ✓", pct(coverage)))
}

func checkForbidden(texts []string, p rules.Profile) Verdict {
	found := ForbiddenMatches(texts, p.ForbiddenWords)
	if len(found) > 0 {
		list := strings.Join(found, ", ")
		v := Failed(RuleRestrictedWords, "Found restricted words: "+list, "Remove or replace: "+list)
		v.Suggestion = "These words may cause ad rejection"
		return v
	}
	return Passed(RuleRestrictedWords, "No restricted words ✓")
}

func checkReadability(scene domain.Scene, p rules.Profile) Verdict {
	for _, t := range scene.Texts() {
		if t.Text != nil && t.Text.Size() < p.MinFontSize {
			return Warning(RuleReadability,
				"Some text may be too small to read",
				fmt.Sprintf("Increase font size to at least %spx", strconv.FormatFloat(p.MinFontSize, 'f', -1, 64)),
				"Readable text improves engagement by 15%")
		}
	}
	return Passed(RuleReadability, "Text is readable ✓")
}

// LogoSize はロゴの長辺がキャンバス短辺に占める割合(%)です。
func LogoSize(scene domain.Scene, logo domain.Element) float64 {
	side := math.Min(scene.Width, scene.Height)
	if side <= 0 {
		return 0
	}
	w, h := logo.BoundingBox()
	return math.Max(w, h) / side * 100
}

// findLogo は名前に "logo" を含む画像またはグループを探します。
func findLogo(scene domain.Scene) (domain.Element, bool) {
	for _, e := range scene.Elements {
		if e.Kind != domain.KindImage && e.Kind != domain.KindGroup {
			continue
		}
		if strings.Contains(strings.ToLower(e.Name), "logo") {
			return e, true
		}
	}
	return domain.Element{}, false
}

// checkBrandLogo はロゴを必須とするプロファイルでのみ判定を出します。
func checkBrandLogo(scene domain.Scene, p rules.Profile) []Verdict {
	if !p.Requires(rules.RequiredBrandLogo) {
		return nil
	}
	logo, ok := findLogo(scene)
	if !ok {
		return []Verdict{Warning(RuleBrandLogo,
			"Brand logo not found",
			`Add the brand logo as an image named "Logo"`,
			p.DisplayName+" requires brand identification on every creative")}
	}
	size := LogoSize(scene, logo)
	if (p.LogoMinSize > 0 && size < p.LogoMinSize) || (p.LogoMaxSize > 0 && size > p.LogoMaxSize) {
		return []Verdict{Warning(RuleBrandLogo,
			fmt.Sprintf("Logo is %s of the canvas", pct(size)),
			fmt.Sprintf("Keep the logo between %s%% and %s%%",
				strconv.FormatFloat(p.LogoMinSize, 'f', -1, 64), strconv.FormatFloat(p.LogoMaxSize, 'f', -1, 64)),
			"")}
	}
	return []Verdict{Passed(RuleBrandLogo, fmt.Sprintf("Brand logo size: %s ✓", pct(size)))}
}

func checkAuxiliary(scene domain.Scene) []Verdict {
	var out []Verdict
	if n := len(scene.Shapes()); n > 0 {
		out = append(out, Passed(RuleDesignElements, fmt.Sprintf("%d design elements present ✓", n)))
	}
	if n := len(scene.Badges()); n > 0 {
		out = append(out, Passed(RuleSmartBadges, fmt.Sprintf("%d smart badge(s) added ✓", n)))
	}
	return out
}
