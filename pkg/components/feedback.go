package components

import "image/color"

// FeedbackStyle 反馈效果的样式,决定飘字和水花的颜色
// 所有水花效果共用一个数据驱动的类型,不再按颜色区分子类
type FeedbackStyle int

const (
	StyleBasic  FeedbackStyle = iota // 蓝色
	StyleBonus                       // 金色
	StyleHazard                      // 红色
	StyleHeal                        // 绿色
	StyleShield                      // 青色
	StyleMiss                        // 灰色
	StyleBlock                       // 白色,护盾抵挡危险泪滴
)

// Color 返回样式对应的颜色
func (s FeedbackStyle) Color() color.RGBA {
	switch s {
	case StyleBasic:
		return color.RGBA{R: 0x6c, G: 0xb4, B: 0xff, A: 0xff}
	case StyleBonus:
		return color.RGBA{R: 0xff, G: 0xd2, B: 0x4a, A: 0xff}
	case StyleHazard:
		return color.RGBA{R: 0xe0, G: 0x30, B: 0x3a, A: 0xff}
	case StyleHeal:
		return color.RGBA{R: 0x5c, G: 0xd6, B: 0x7a, A: 0xff}
	case StyleShield:
		return color.RGBA{R: 0x4a, G: 0xe8, B: 0xe8, A: 0xff}
	case StyleMiss:
		return color.RGBA{R: 0x90, G: 0x90, B: 0x98, A: 0xff}
	default:
		return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
}

// Droplet 水花中的单个粒子
type Droplet struct {
	X, Y   float64 // 相对于反馈事件位置的偏移
	VX, VY float64 // 像素/帧
	Radius float64
}

// FeedbackComponent 飘字 + 水花反馈事件
//
// 每帧 Opacity 递减 Decay,降到 0 以下时由反馈系统删除
// 由帧循环独占,外部只能通过快照读取
type FeedbackComponent struct {
	Text      string
	Style     FeedbackStyle
	Opacity   float64
	Decay     float64 // 每帧透明度衰减量
	RiseSpeed float64 // 飘字每帧上升像素
	Droplets  []Droplet
	Gravity   float64 // 水花粒子每帧垂直加速度
}
