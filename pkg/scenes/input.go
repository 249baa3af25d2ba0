package scenes

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog/log"
)

var logger = log.With().Str("component", "Scenes").Logger()

// keyboardNudge 方向键每帧移动的像素
const keyboardNudge = 9.0

// pointerTracker 只在指针真正移动时报告位置,避免覆盖键盘输入
type pointerTracker struct {
	lastX, lastY int
	seen         bool
}

// poll 返回本帧的指针 X(鼠标或第一个触点)
func (p *pointerTracker) poll() (float64, bool) {
	touches := ebiten.AppendTouchIDs(nil)
	if len(touches) > 0 {
		x, _ := ebiten.TouchPosition(touches[0])
		return float64(x), true
	}

	x, y := ebiten.CursorPosition()
	moved := !p.seen || x != p.lastX || y != p.lastY
	first := !p.seen
	p.lastX, p.lastY, p.seen = x, y, true
	if first || !moved {
		return 0, false
	}
	return float64(x), true
}

// horizontalAxis 方向键 / A D 的水平输入,-1、0 或 1
func horizontalAxis() float64 {
	axis := 0.0
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		axis--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		axis++
	}
	return axis
}

// confirmPressed Enter / 空格 / 点击 / 触摸
func confirmPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEnter) ||
		inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
		len(inpututil.AppendJustPressedTouchIDs(nil)) > 0
}

// backPressed Esc
func backPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}
