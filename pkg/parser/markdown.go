package parser

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shouni/go-creative-kit/pkg/domain"
	"github.com/shouni/go-creative-kit/pkg/layout"
	"github.com/shouni/go-creative-kit/pkg/templates"
)

const (
	fieldKeyTemplate   = "template"
	fieldKeyProfile    = "profile"
	fieldKeySize       = "size"
	fieldKeyHeading    = "heading"
	fieldKeyTagline    = "tagline"
	fieldKeyCTA        = "cta"
	fieldKeyPrice      = "price"
	fieldKeyBackground = "background"
	fieldKeyBadge      = "badge"
	fieldKeyPosition   = "position"
	fieldKeyScale      = "scale"
	fieldKeyFilter     = "filter"
)

// BriefImage はブリーフで指定された商品画像です。
type BriefImage struct {
	Source   string
	Position layout.Position
	// Scale はキャンバスの短辺に対する画像の長辺の比率です。0 なら既定値を使います。
	Scale float64
	// Filter は画像に掛けるエフェクトです。空ならそのままなのだ。
	Filter domain.FilterKind
}

// Brief は Markdown で書かれたクリエイティブの指示書です。
type Brief struct {
	Title      string
	Template   string
	Profile    string
	Size       string
	Background string
	Copy       templates.Copy
	Badges     []templates.BadgeKind
	Images     []BriefImage
}

// BriefParser は Markdown 形式のブリーフを解析し、構造化データに変換する構造体です。
type BriefParser struct{}

// NewBriefParser は BriefParser を初期化します。
func NewBriefParser() *BriefParser {
	return &BriefParser{}
}

// Parse はブリーフのパスと内容を受け取り Brief に変換します。
// 画像の相対パスはブリーフファイルのディレクトリを基準に解決されます。
func (p *BriefParser) Parse(briefPath string, input string) (*Brief, error) {
	baseDir := ""
	if briefPath != "" {
		baseDir = filepath.Dir(briefPath)
	}

	brief := &Brief{}
	var current *BriefImage
	flush := func() {
		if current != nil && current.Source != "" {
			brief.Images = append(brief.Images, *current)
		}
		current = nil
	}

	for n, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := ImageRegex.FindStringSubmatch(trimmed); m != nil {
			flush()
			current = &BriefImage{
				Source:   resolveAssetPath(baseDir, strings.TrimSpace(m[1])),
				Position: layout.Center,
			}
			continue
		}

		if m := TitleRegex.FindStringSubmatch(trimmed); m != nil {
			brief.Title = strings.TrimSpace(m[1])
			continue
		}

		m := FieldRegex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		key, val := strings.ToLower(m[1]), strings.TrimSpace(m[2])

		if current != nil {
			if err := applyImageField(current, key, val); err != nil {
				return nil, fmt.Errorf("%d行目: %w", n+1, err)
			}
			continue
		}
		if err := applyField(brief, key, val); err != nil {
			return nil, fmt.Errorf("%d行目: %w", n+1, err)
		}
	}
	flush()

	if brief.Template == "" && len(brief.Images) == 0 && brief.Copy == (templates.Copy{}) {
		return nil, fmt.Errorf("有効なブリーフ情報が見つかりませんでした")
	}
	return brief, nil
}

func applyField(b *Brief, key, val string) error {
	switch key {
	case fieldKeyTemplate:
		b.Template = val
	case fieldKeyProfile:
		b.Profile = strings.ToLower(val)
	case fieldKeySize:
		b.Size = val
	case fieldKeyHeading:
		b.Copy.Heading = val
	case fieldKeyTagline:
		b.Copy.Tagline = val
	case fieldKeyCTA:
		b.Copy.CTA = val
	case fieldKeyPrice:
		b.Copy.Price = val
	case fieldKeyBackground:
		b.Background = val
	case fieldKeyBadge:
		kind, err := templates.ParseBadgeKind(strings.ToLower(val))
		if err != nil {
			return err
		}
		b.Badges = append(b.Badges, kind)
	default:
		slog.Debug("ブリーフ内に未知のフィールドキーが見つかりました", "key", key)
	}
	return nil
}

func applyImageField(img *BriefImage, key, val string) error {
	switch key {
	case fieldKeyPosition:
		pos, err := layout.ParsePosition(strings.ToLower(val))
		if err != nil {
			return err
		}
		img.Position = pos
	case fieldKeyScale:
		s, err := strconv.ParseFloat(val, 64)
		if err != nil || s <= 0 || s > 1 {
			return fmt.Errorf("scale は 0 より大きく 1 以下で指定してください: %q", val)
		}
		img.Scale = s
	case fieldKeyFilter:
		f, err := domain.ParseFilterKind(val)
		if err != nil {
			return err
		}
		img.Filter = f
	default:
		slog.Debug("画像セクション内に未知のフィールドキーが見つかりました", "key", key)
	}
	return nil
}
