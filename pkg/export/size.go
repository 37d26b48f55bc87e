package export

import (
	"fmt"
	"strconv"
	"strings"
)

// Size は出力サイズです。Name はファイル名に使われる表示名です。
type Size struct {
	Name   string `json:"name,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// String は "名前 (WxH)" 形式の文字列です。
func (s Size) String() string {
	if s.Name == "" {
		return s.Dimensions()
	}
	return fmt.Sprintf("%s (%s)", s.Name, s.Dimensions())
}

// Dimensions は "WxH" 形式の文字列です。
func (s Size) Dimensions() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Label は名前が空なら寸法を返します。
func (s Size) Label() string {
	if s.Name == "" {
		return s.Dimensions()
	}
	return s.Name
}

// 代表的な広告フォーマットです。
var (
	InstagramPost  = Size{Name: "Instagram Post", Width: 1080, Height: 1080}
	InstagramStory = Size{Name: "Instagram Story", Width: 1080, Height: 1920}
	FacebookFeed   = Size{Name: "Facebook Feed", Width: 1200, Height: 628}
	Square         = Size{Name: "Square", Width: 1200, Height: 1200}
	Leaderboard    = Size{Name: "Leaderboard", Width: 728, Height: 90}
)

// StandardFormats は代表的な広告フォーマットの一覧です。
var StandardFormats = []Size{InstagramPost, InstagramStory, FacebookFeed, Square, Leaderboard}

var formatAliases = map[string]Size{
	"instagram-post":  InstagramPost,
	"instagram-story": InstagramStory,
	"facebook-feed":   FacebookFeed,
	"square":          Square,
	"leaderboard":     Leaderboard,
}

// FormatKeys はフォーマット指定に使えるキーの一覧です。
func FormatKeys() []string {
	return []string{"instagram-post", "instagram-story", "facebook-feed", "square", "leaderboard"}
}

// ParseSize はフォーマットキーまたは "WxH" 形式を解釈します。
// 寸法が0以下の場合もここではエラーにせず、計画作成時に ErrScaleDegenerate として扱います。
func ParseSize(s string) (Size, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if size, ok := formatAliases[key]; ok {
		return size, nil
	}
	w, h, ok := strings.Cut(key, "x")
	if !ok {
		return Size{}, fmt.Errorf("出力サイズの形式が不正です: %q", s)
	}
	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return Size{}, fmt.Errorf("出力サイズの幅が不正です: %q: %w", s, err)
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return Size{}, fmt.Errorf("出力サイズの高さが不正です: %q: %w", s, err)
	}
	for _, std := range StandardFormats {
		if std.Width == width && std.Height == height {
			return std, nil
		}
	}
	return Size{Width: width, Height: height}, nil
}

// ParseSizes は複数のサイズ指定を解釈します。
func ParseSizes(specs []string) ([]Size, error) {
	out := make([]Size, 0, len(specs))
	for _, s := range specs {
		size, err := ParseSize(s)
		if err != nil {
			return nil, err
		}
		out = append(out, size)
	}
	return out, nil
}
