package domain

import (
	"fmt"
	"math"
	"strings"
)

// FilterKind は画像に掛けるエフェクトの種類です。
type FilterKind string

const (
	FilterNone      FilterKind = "none"
	FilterGrayscale FilterKind = "grayscale"
	FilterSepia     FilterKind = "sepia"
	FilterInvert    FilterKind = "invert"
	FilterBlur      FilterKind = "blur"
	FilterSharpen   FilterKind = "sharpen"
)

// MaxAdjustment は明るさ・コントラスト・彩度の調整幅(%)です。
const MaxAdjustment = 100.0

var filterKinds = []FilterKind{FilterNone, FilterGrayscale, FilterSepia, FilterInvert, FilterBlur, FilterSharpen}

// ImageFilters は画像要素のエフェクトと色調整です。
// 調整値は -100〜100 のパーセントで、0 は無調整なのだ。
type ImageFilters struct {
	Effect     FilterKind `json:"effect,omitempty"`
	Brightness float64    `json:"brightness,omitempty"`
	Contrast   float64    `json:"contrast,omitempty"`
	Saturation float64    `json:"saturation,omitempty"`
}

// IsZero はエフェクトも調整もない状態かを判定します。
func (f ImageFilters) IsZero() bool {
	return (f.Effect == "" || f.Effect == FilterNone) &&
		f.Brightness == 0 && f.Contrast == 0 && f.Saturation == 0
}

// Clamped は調整値を許容範囲に丸めた値を返します。
func (f ImageFilters) Clamped() ImageFilters {
	clamp := func(v float64) float64 { return math.Max(-MaxAdjustment, math.Min(MaxAdjustment, v)) }
	f.Brightness = clamp(f.Brightness)
	f.Contrast = clamp(f.Contrast)
	f.Saturation = clamp(f.Saturation)
	if f.Effect == FilterNone {
		f.Effect = ""
	}
	return f
}

// FilterKinds は選択可能なエフェクトの一覧です。
func FilterKinds() []FilterKind {
	return append([]FilterKind(nil), filterKinds...)
}

// ParseFilterKind は名前からエフェクトを引きます。大文字小文字は区別しません。
func ParseFilterKind(s string) (FilterKind, error) {
	k := FilterKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range filterKinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown filter: %q", s)
}
