package rules

import (
	"errors"
	"slices"
)

// ErrInvalidProfile は指定されたルールプロファイルがレジストリに存在しない場合のエラーです。
// 未知の小売業者名を既定プロファイルで黙って置き換えることはしません。
var ErrInvalidProfile = errors.New("invalid rule profile")

// 要素の種別を表す必須要素名です。
const (
	RequiredProductImage = "product_image"
	RequiredPrice        = "price"
	RequiredCTA          = "cta"
	RequiredBrandLogo    = "brand_logo"
)

// チューニング定数の既定値です。プロファイルで個別に上書きできます。
const (
	DefaultMinImagePercentage = 15.0
	DefaultMinFontSize        = 14.0
	DefaultMaxFontSize        = 100.0
	DefaultMaxTextPercentage  = 40.0
)

// Profile は小売業者ごとの広告ガイドラインです。レジストリからはコピーが返されるため不変として扱えます。
type Profile struct {
	Name               string   `yaml:"name" json:"name"`
	DisplayName        string   `yaml:"display_name" json:"display_name"`
	RequiredElements   []string `yaml:"required_elements" json:"required_elements"`
	ForbiddenWords     []string `yaml:"forbidden_words" json:"forbidden_words"`
	MaxTextPercentage  float64  `yaml:"max_text_percentage" json:"max_text_percentage"`
	LogoMinSize        float64  `yaml:"logo_min_size" json:"logo_min_size"`
	LogoMaxSize        float64  `yaml:"logo_max_size" json:"logo_max_size"`
	TextMinContrast    float64  `yaml:"text_min_contrast" json:"text_min_contrast"`
	CTARequired        bool     `yaml:"cta_required" json:"cta_required"`
	PriceRequired      bool     `yaml:"price_required" json:"price_required"`
	MinImagePercentage float64  `yaml:"min_image_percentage" json:"min_image_percentage"`
	MinFontSize        float64  `yaml:"min_font_size" json:"min_font_size"`
	MaxFontSize        float64  `yaml:"max_font_size" json:"max_font_size"`
}

// withDefaults は未設定のチューニング値に既定値を入れたコピーを返します。
func (p Profile) withDefaults() Profile {
	if p.DisplayName == "" {
		p.DisplayName = p.Name
	}
	if p.MaxTextPercentage <= 0 {
		p.MaxTextPercentage = DefaultMaxTextPercentage
	}
	if p.MinImagePercentage <= 0 {
		p.MinImagePercentage = DefaultMinImagePercentage
	}
	if p.MinFontSize <= 0 {
		p.MinFontSize = DefaultMinFontSize
	}
	if p.MaxFontSize <= 0 {
		p.MaxFontSize = DefaultMaxFontSize
	}
	return p
}

// clone はスライスを含めたコピーを返します。
func (p Profile) clone() Profile {
	p.RequiredElements = slices.Clone(p.RequiredElements)
	p.ForbiddenWords = slices.Clone(p.ForbiddenWords)
	return p
}

// Requires は必須要素に name が含まれるかを判定します。
func (p Profile) Requires(name string) bool {
	return slices.Contains(p.RequiredElements, name)
}

// builtinProfiles は組み込みの小売業者ガイドラインなのだ。
var builtinProfiles = []Profile{
	{
		Name:              "tesco",
		DisplayName:       "Tesco",
		LogoMinSize:       15,
		LogoMaxSize:       30,
		TextMinContrast:   4.5,
		RequiredElements:  []string{RequiredProductImage, RequiredPrice, RequiredCTA},
		ForbiddenWords:    []string{"best", "guaranteed", "miracle", "cure"},
		MaxTextPercentage: 40,
		CTARequired:       true,
		PriceRequired:     true,
	},
	{
		Name:              "bigbasket",
		DisplayName:       "BigBasket",
		LogoMinSize:       10,
		LogoMaxSize:       25,
		TextMinContrast:   4.5,
		RequiredElements:  []string{RequiredProductImage, RequiredBrandLogo},
		ForbiddenWords:    []string{"cheap", "lowest", "free"},
		MaxTextPercentage: 35,
		CTARequired:       true,
		PriceRequired:     false,
	},
	{
		Name:              "amazon",
		DisplayName:       "Amazon India",
		LogoMinSize:       12,
		LogoMaxSize:       20,
		TextMinContrast:   4.5,
		RequiredElements:  []string{RequiredProductImage},
		ForbiddenWords:    []string{"amazon", "prime", "best seller", "guaranteed"},
		MaxTextPercentage: 30,
		CTARequired:       false,
		PriceRequired:     true,
	},
	{
		Name:              "flipkart",
		DisplayName:       "Flipkart",
		LogoMinSize:       10,
		LogoMaxSize:       22,
		TextMinContrast:   4.5,
		RequiredElements:  []string{RequiredProductImage, RequiredPrice},
		ForbiddenWords:    []string{"flipkart", "big billion", "lowest"},
		MaxTextPercentage: 35,
		CTARequired:       true,
		PriceRequired:     true,
	},
}
