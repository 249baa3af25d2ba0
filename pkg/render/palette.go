package render

import (
	"image/color"

	"github.com/gonewx/tears-of-aya/pkg/components"
	"github.com/gonewx/tears-of-aya/pkg/utils"
)

// Palette 变体配色
type Palette struct {
	SkyTop    color.RGBA
	SkyBottom color.RGBA
	Ceiling   color.RGBA
	Catcher   color.RGBA
	Text      color.RGBA
	Heart     color.RGBA
	HeartOff  color.RGBA
	Shield    color.RGBA
}

var palettes = map[string]Palette{
	"tears": {
		SkyTop:    color.RGBA{R: 0x12, G: 0x18, B: 0x2e, A: 0xff},
		SkyBottom: color.RGBA{R: 0x26, G: 0x36, B: 0x5a, A: 0xff},
		Ceiling:   color.RGBA{R: 0x3a, G: 0x4a, B: 0x70, A: 0xff},
		Catcher:   color.RGBA{R: 0xd8, G: 0xe4, B: 0xf0, A: 0xff},
		Text:      color.RGBA{R: 0xf0, G: 0xf4, B: 0xff, A: 0xff},
		Heart:     color.RGBA{R: 0xff, G: 0x5c, B: 0x7a, A: 0xff},
		HeartOff:  color.RGBA{R: 0x40, G: 0x40, B: 0x50, A: 0xff},
		Shield:    color.RGBA{R: 0x4a, G: 0xe8, B: 0xe8, A: 0xff},
	},
	"blood": {
		SkyTop:    color.RGBA{R: 0x1a, G: 0x06, B: 0x0a, A: 0xff},
		SkyBottom: color.RGBA{R: 0x3c, G: 0x0e, B: 0x16, A: 0xff},
		Ceiling:   color.RGBA{R: 0x5a, G: 0x1a, B: 0x22, A: 0xff},
		Catcher:   color.RGBA{R: 0xe8, G: 0xd0, B: 0xc8, A: 0xff},
		Text:      color.RGBA{R: 0xff, G: 0xec, B: 0xe8, A: 0xff},
		Heart:     color.RGBA{R: 0xff, G: 0x2a, B: 0x3a, A: 0xff},
		HeartOff:  color.RGBA{R: 0x48, G: 0x30, B: 0x34, A: 0xff},
		Shield:    color.RGBA{R: 0x4a, G: 0xe8, B: 0xe8, A: 0xff},
	},
}

// PaletteFor 返回变体配色,未知变体使用 tears
func PaletteFor(variant string) Palette {
	if p, ok := palettes[variant]; ok {
		return p
	}
	return palettes["tears"]
}

// ItemColor 泪滴颜色
// blood 变体的普通泪滴是深红色
func ItemColor(variant string, category components.ItemCategory) color.RGBA {
	switch category {
	case components.CategoryBonus:
		return components.StyleBonus.Color()
	case components.CategoryHazard:
		if variant == "blood" {
			return color.RGBA{R: 0x8a, G: 0x00, B: 0x10, A: 0xff}
		}
		return components.StyleHazard.Color()
	case components.CategoryHeal:
		return components.StyleHeal.Color()
	case components.CategoryShield:
		return components.StyleShield.Color()
	default:
		if variant == "blood" {
			return color.RGBA{R: 0xc8, G: 0x28, B: 0x38, A: 0xff}
		}
		return components.StyleBasic.Color()
	}
}

// withAlpha 按透明度缩放颜色(预乘 alpha)
func withAlpha(c color.RGBA, alpha float64) color.RGBA {
	if alpha <= 0 {
		return color.RGBA{}
	}
	if alpha >= 1 {
		return c
	}
	return color.RGBA{
		R: uint8(float64(c.R) * alpha),
		G: uint8(float64(c.G) * alpha),
		B: uint8(float64(c.B) * alpha),
		A: uint8(float64(c.A) * alpha),
	}
}

// lerpColor 线性插值两种颜色
func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(utils.Lerp(float64(x), float64(y), t))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
