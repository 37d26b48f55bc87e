package render

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/shouni/go-creative-kit/pkg/domain"
)

// blurSigma はぼかしエフェクトのガウス半径です。
const blurSigma = 2.0

var sharpenKernel = [9]float64{0, -1, 0, -1, 5, -1, 0, -1, 0}

// ApplyFilters はエフェクトを掛けてから明るさ・コントラスト・彩度を調整します。
func ApplyFilters(img image.Image, f domain.ImageFilters) *image.NRGBA {
	f = f.Clamped()
	out := imaging.Clone(img)

	switch f.Effect {
	case domain.FilterGrayscale:
		out = imaging.Grayscale(out)
	case domain.FilterSepia:
		out = imaging.AdjustFunc(out, sepia)
	case domain.FilterInvert:
		out = imaging.Invert(out)
	case domain.FilterBlur:
		out = imaging.Blur(out, blurSigma)
	case domain.FilterSharpen:
		out = imaging.Convolve3x3(out, sharpenKernel, nil)
	}

	if f.Brightness != 0 {
		out = imaging.AdjustBrightness(out, f.Brightness)
	}
	if f.Contrast != 0 {
		out = imaging.AdjustContrast(out, f.Contrast)
	}
	if f.Saturation != 0 {
		out = imaging.AdjustSaturation(out, f.Saturation)
	}
	return out
}

func sepia(c color.NRGBA) color.NRGBA {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	return color.NRGBA{
		R: clamp8(0.393*r + 0.769*g + 0.189*b),
		G: clamp8(0.349*r + 0.686*g + 0.168*b),
		B: clamp8(0.272*r + 0.534*g + 0.131*b),
		A: c.A,
	}
}

func clamp8(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}
