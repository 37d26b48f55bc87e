package templates

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"sync"
)

//go:embed catalog.json
var catalogJSON []byte

// CategoryAll は全カテゴリ向けテンプレートのカテゴリ名です。
const CategoryAll = "all"

// Performance はテンプレートの実績値です。
type Performance struct {
	AvgCTR           float64 `json:"avg_ctr"`
	UsedBy           int     `json:"used_by"`
	TotalImpressions string  `json:"total_impressions"`
	AvgROAS          float64 `json:"avg_roas"`
	TopRegion        string  `json:"top_region"`
	ConversionRate   float64 `json:"conversion_rate"`
}

// Style はテンプレートの配色と構成要素です。
type Style struct {
	Layout          string `json:"layout"`
	PrimaryColor    string `json:"primary_color"`
	SecondaryColor  string `json:"secondary_color"`
	BackgroundColor string `json:"background_color"`
	HasUrgencyBadge bool   `json:"has_urgency_badge"`
	HasPrice        bool   `json:"has_price"`
	HasCTA          bool   `json:"has_cta"`
	CTAText         string `json:"cta_text"`
	FontPrimary     string `json:"font_primary"`
	FontSecondary   string `json:"font_secondary"`
}

// Template はマーケットプレイスのテンプレートです。
type Template struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Performance Performance `json:"performance"`
	Style       Style       `json:"style"`
	Tags        []string    `json:"tags"`
	BestFor     []string    `json:"best_for"`
	Rating      float64     `json:"rating"`
}

// IsHighPerformer は CTR が 2 を超えるテンプレートかを判定します。
func (t Template) IsHighPerformer() bool {
	return t.Performance.AvgCTR > 2
}

// Stars は評価を星で表した文字列です。
func (t Template) Stars() string {
	s := strings.Repeat("★", int(math.Floor(t.Rating)))
	if math.Mod(t.Rating, 1) >= 0.5 {
		s += "½"
	}
	return s
}

// Catalog はテンプレートの一覧です。
type Catalog struct {
	templates []Template
}

// Parse は JSON のテンプレート一覧を読み込みます。
func Parse(data []byte) (*Catalog, error) {
	var ts []Template
	if err := json.Unmarshal(data, &ts); err != nil {
		return nil, fmt.Errorf("テンプレートカタログのパースに失敗しました: %w", err)
	}
	return &Catalog{templates: ts}, nil
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// Default は組み込みのカタログを返します。
func Default() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := Parse(catalogJSON)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// All は全テンプレートのコピーを返します。
func (c *Catalog) All() []Template {
	return slices.Clone(c.templates)
}

// ByID は ID でテンプレートを検索します。
func (c *Catalog) ByID(id string) (Template, bool) {
	for _, t := range c.templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// ByCategory はカテゴリのテンプレートを返します。全カテゴリ向けのテンプレートも含まれます。
// "all" を指定すると全件を返すのだ。
func (c *Catalog) ByCategory(category string) []Template {
	if category == CategoryAll {
		return c.All()
	}
	var out []Template
	for _, t := range c.templates {
		if t.Category == category || t.Category == CategoryAll {
			out = append(out, t)
		}
	}
	return out
}

// TopPerforming は CTR の高い順に limit 件を返します。
func (c *Catalog) TopPerforming(limit int) []Template {
	ts := c.All()
	sortByCTR(ts)
	return head(ts, limit)
}

// Recommend はカテゴリとタグの一致数、次に CTR で並べた上位5件を返します。
func (c *Catalog) Recommend(category string, tags []string) []Template {
	ts := c.ByCategory(category)
	if len(tags) == 0 {
		sortByCTR(ts)
		return head(ts, 5)
	}

	score := func(t Template) int {
		n := 0
		for _, tag := range t.Tags {
			for _, want := range tags {
				if strings.Contains(tag, strings.ToLower(want)) {
					n++
					break
				}
			}
		}
		return n
	}
	sort.SliceStable(ts, func(i, j int) bool {
		si, sj := score(ts[i]), score(ts[j])
		if si != sj {
			return si > sj
		}
		return ts[i].Performance.AvgCTR > ts[j].Performance.AvgCTR
	})
	return head(ts, 5)
}

// Search は名前・説明・タグに query を含むテンプレートを返します。
func (c *Catalog) Search(query string) []Template {
	q := strings.ToLower(query)
	var out []Template
	for _, t := range c.templates {
		if strings.Contains(strings.ToLower(t.Name), q) ||
			strings.Contains(strings.ToLower(t.Description), q) ||
			slices.ContainsFunc(t.Tags, func(tag string) bool { return strings.Contains(tag, q) }) {
			out = append(out, t)
		}
	}
	return out
}

// Comparison はカテゴリ平均との比較結果です。
type Comparison struct {
	CTRVsAvg        float64 `json:"ctr_vs_avg"`
	ROASVsAvg       float64 `json:"roas_vs_avg"`
	CategoryAvgCTR  float64 `json:"category_avg_ctr"`
	CategoryAvgROAS float64 `json:"category_avg_roas"`
	Rank            int     `json:"rank"`
	TotalInCategory int     `json:"total_in_category"`
}

// CompareWithCategory はテンプレートを同じカテゴリの平均と比較します。差分はパーセントです。
func (c *Catalog) CompareWithCategory(t Template) Comparison {
	ts := c.ByCategory(t.Category)
	if len(ts) == 0 {
		return Comparison{}
	}
	var ctr, roas float64
	for _, x := range ts {
		ctr += x.Performance.AvgCTR
		roas += x.Performance.AvgROAS
	}
	ctr /= float64(len(ts))
	roas /= float64(len(ts))

	sortByCTR(ts)
	rank := slices.IndexFunc(ts, func(x Template) bool { return x.ID == t.ID }) + 1

	return Comparison{
		CTRVsAvg:        math.Round((t.Performance.AvgCTR - ctr) / ctr * 100),
		ROASVsAvg:       math.Round((t.Performance.AvgROAS - roas) / roas * 100),
		CategoryAvgCTR:  math.Round(ctr*100) / 100,
		CategoryAvgROAS: math.Round(roas*100) / 100,
		Rank:            rank,
		TotalInCategory: len(ts),
	}
}

// Insight はテンプレートが効果的な理由の説明です。
type Insight struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

var layoutInsights = map[string]string{
	"product-center": "Centered product placement captures attention immediately",
	"diagonal":       "Dynamic diagonal layout creates energy and movement",
	"minimal":        "Clean minimal design builds trust and sophistication",
	"grid":           "Grid layout perfect for showcasing multiple products",
	"product-left":   "Left-aligned products follow natural reading patterns",
}

// Insights はテンプレートの実績と構成から説明を組み立てます。
func (c *Catalog) Insights(t Template) []Insight {
	var out []Insight
	if t.IsHighPerformer() {
		out = append(out, Insight{
			Title: "High Engagement",
			Text: fmt.Sprintf("This template achieves %gx average CTR, %.0f%% above industry standard",
				t.Performance.AvgCTR, (t.Performance.AvgCTR-1.5)/1.5*100),
		})
	}
	if text, ok := layoutInsights[t.Style.Layout]; ok {
		out = append(out, Insight{Title: "Smart Layout", Text: text})
	}
	out = append(out,
		Insight{
			Title: "Optimized Colors",
			Text:  fmt.Sprintf("Primary color %s tested to increase engagement in %s category", t.Style.PrimaryColor, t.Category),
		},
		Insight{
			Title: "Regional Winner",
			Text:  fmt.Sprintf("Top performer in %s with %s impressions", t.Performance.TopRegion, t.Performance.TotalImpressions),
		},
	)
	if t.Style.HasUrgencyBadge {
		out = append(out, Insight{Title: "Urgency Elements", Text: "Includes urgency badge that increases conversion by 23%"})
	}
	return out
}

func sortByCTR(ts []Template) {
	sort.SliceStable(ts, func(i, j int) bool {
		return ts[i].Performance.AvgCTR > ts[j].Performance.AvgCTR
	})
}

func head(ts []Template, n int) []Template {
	if n >= 0 && len(ts) > n {
		return ts[:n]
	}
	return ts
}
