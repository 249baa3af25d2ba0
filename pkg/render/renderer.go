// Package render 把引擎快照画到 Ebitengine 屏幕上
//
// 渲染器只读快照,不触碰模拟状态。精灵加载成功时优先使用精灵,
// 否则退回矢量图形,所以没有任何资源也能完整显示。
package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/gonewx/tears-of-aya/pkg/components"
	"github.com/gonewx/tears-of-aya/pkg/config"
	"github.com/gonewx/tears-of-aya/pkg/engine"
	"github.com/gonewx/tears-of-aya/pkg/game"
	"github.com/gonewx/tears-of-aya/pkg/utils"
)

// maxHeartSlots HUD 最多显示的生命图标数
const maxHeartSlots = 10

// Renderer 实现 engine.RenderSink,保存最新快照并在 Draw 时绘制
type Renderer struct {
	resourceManager *game.ResourceManager // 可为 nil
	face            text.Face
	shieldDuration  float64
	snapshot        engine.Snapshot
	hasSnapshot     bool
}

var _ engine.RenderSink = (*Renderer)(nil)

// New 创建渲染器
// rm 为 nil 时只使用矢量图形和内置字体
func New(rm *game.ResourceManager, cfg *config.VariantConfig) *Renderer {
	r := &Renderer{resourceManager: rm}
	if rm != nil {
		r.face = rm.HUDFace()
	} else {
		r.face = text.NewGoXFace(basicfont.Face7x13)
	}
	if cfg != nil {
		r.shieldDuration = cfg.Shield.DurationMs
	}
	return r
}

// Render 接收一帧快照
func (r *Renderer) Render(s engine.Snapshot) {
	r.snapshot = s
	r.hasSnapshot = true
}

// Snapshot 最近一次收到的快照
func (r *Renderer) Snapshot() (engine.Snapshot, bool) {
	return r.snapshot, r.hasSnapshot
}

// Face 渲染器使用的字体
func (r *Renderer) Face() text.Face {
	return r.face
}

// Draw 绘制最近的快照
func (r *Renderer) Draw(screen *ebiten.Image) {
	if !r.hasSnapshot {
		return
	}
	s := r.snapshot
	pal := PaletteFor(s.Variant)

	r.drawBackground(screen, s, pal)
	for _, sh := range s.Shields {
		r.drawShieldPickup(screen, sh, pal)
	}
	for _, it := range s.Items {
		r.drawItem(screen, s.Variant, it)
	}
	r.drawCatcher(screen, s, pal)
	for _, fb := range s.Feedback {
		r.drawFeedback(screen, fb)
	}
	r.drawHUD(screen, s, pal)
}

// drawBackground 竖直渐变天空 + 顶部滑道
func (r *Renderer) drawBackground(screen *ebiten.Image, s engine.Snapshot, pal Palette) {
	const bands = 12
	w, h := float32(s.Playfield.Width), float32(s.Playfield.Height)
	bandH := h / bands
	for i := 0; i < bands; i++ {
		c := lerpColor(pal.SkyTop, pal.SkyBottom, float64(i)/float64(bands-1))
		vector.DrawFilledRect(screen, 0, float32(i)*bandH, w, bandH+1, c, false)
	}
	vector.DrawFilledRect(screen, 0, 0, w, float32(s.Playfield.CeilingY), pal.Ceiling, false)
}

// drawItem 水洼按成形进度插值,完整后是泪滴形
func (r *Renderer) drawItem(screen *ebiten.Image, variant string, it engine.ItemView) {
	clr := ItemColor(variant, it.Category)

	if it.State == components.ItemFalling || it.FormationProgress >= 1 {
		if img := r.sprite(spriteForCategory(it.Category)); img != nil {
			drawSpriteInRect(screen, img, it.X, it.Y, it.Width, it.Height, 1)
			return
		}
	}

	x, y := float32(it.X), float32(it.Y)
	w, h := float32(it.Width), float32(it.Height)
	if h <= w {
		// 水洼:圆角扁矩形
		radius := h / 2
		vector.DrawFilledRect(screen, x+radius, y, w-2*radius, h, clr, true)
		vector.DrawFilledCircle(screen, x+radius, y+radius, radius, clr, true)
		vector.DrawFilledCircle(screen, x+w-radius, y+radius, radius, clr, true)
		return
	}

	// 泪滴:底部圆 + 逐渐收窄的尖端
	bodyR := w / 2
	cx := x + w/2
	cy := y + h - bodyR
	vector.DrawFilledCircle(screen, cx, cy, bodyR, clr, true)
	tip := cy - y
	const steps = 4
	for i := 1; i <= steps; i++ {
		t := float32(i) / steps
		vector.DrawFilledCircle(screen, cx, cy-tip*t, bodyR*(1-t*0.8), clr, true)
	}
	highlight := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x70}
	vector.DrawFilledCircle(screen, cx-bodyR*0.35, cy-bodyR*0.2, bodyR*0.25, highlight, true)
}

// drawShieldPickup 护盾拾取物
func (r *Renderer) drawShieldPickup(screen *ebiten.Image, sh engine.ShieldView, pal Palette) {
	if img := r.sprite(game.SpriteShield); img != nil {
		drawSpriteInRect(screen, img, sh.X, sh.Y, sh.Size, sh.Size, 1)
		return
	}
	half := float32(sh.Size / 2)
	cx, cy := float32(sh.X)+half, float32(sh.Y)+half
	vector.DrawFilledCircle(screen, cx, cy, half, withAlpha(pal.Shield, 0.35), true)
	vector.StrokeCircle(screen, cx, cy, half-1, 2, pal.Shield, true)
}

// drawCatcher 接取器,护盾激活时外围发光
func (r *Renderer) drawCatcher(screen *ebiten.Image, s engine.Snapshot, pal Palette) {
	c := s.Catcher
	if s.ShieldActive {
		vector.DrawFilledRect(screen, float32(c.X-4), float32(c.Y-4), float32(c.Width+8), float32(c.Height+8), withAlpha(pal.Shield, 0.4), true)
	}
	if img := r.sprite(game.SpriteCatcher); img != nil {
		drawSpriteInRect(screen, img, c.X, c.Y, c.Width, c.Height, 1)
		return
	}
	vector.DrawFilledRect(screen, float32(c.X), float32(c.Y), float32(c.Width), float32(c.Height), pal.Catcher, true)
	vector.StrokeRect(screen, float32(c.X), float32(c.Y), float32(c.Width), float32(c.Height), 1, withAlpha(pal.Text, 0.6), true)
}

// feedbackRise 飘字淡出过程中上移的像素
const feedbackRise = 14

// drawFeedback 飘字与水花,透明度随 Opacity 变化,飘字同时上移
func (r *Renderer) drawFeedback(screen *ebiten.Image, fb engine.FeedbackView) {
	if fb.Opacity <= 0 {
		return
	}
	clr := fb.Style.Color()
	for _, d := range fb.Droplets {
		vector.DrawFilledCircle(screen, float32(fb.X+d.X), float32(fb.Y+d.Y), float32(d.Radius), withAlpha(clr, fb.Opacity), true)
	}
	if fb.Text != "" {
		tw, _ := text.Measure(fb.Text, r.face, 0)
		rise := feedbackRise * utils.EaseOutCubic(1-fb.Opacity)
		r.drawText(screen, fb.Text, fb.X-tw/2, fb.Y-config.HUDLineHeight-rise, clr, fb.Opacity)
	}
}

// drawHUD 生命值、分数、速度、护盾剩余时间
func (r *Renderer) drawHUD(screen *ebiten.Image, s engine.Snapshot, pal Palette) {
	hud := FormatHUD(s)
	top := s.Playfield.CeilingY + config.HUDMargin

	heart := r.sprite(game.SpriteHeart)
	for i, full := range HeartSlots(s.Health, s.HealthCeiling, maxHeartSlots) {
		x := config.HUDMargin + float64(i)*(config.HUDHeartSize+config.HUDHeartGap)
		alpha := 1.0
		if !full {
			alpha = 0.25
		}
		if heart != nil {
			drawSpriteInRect(screen, heart, x, top, config.HUDHeartSize, config.HUDHeartSize, alpha)
			continue
		}
		clr := pal.Heart
		if !full {
			clr = pal.HeartOff
		}
		vector.DrawFilledCircle(screen, float32(x+config.HUDHeartSize/2), float32(top+config.HUDHeartSize/2), config.HUDHeartSize/2, clr, true)
	}

	scoreW, _ := text.Measure(hud.Score, r.face, 0)
	right := s.Playfield.Width - config.HUDMargin
	r.drawText(screen, hud.Score, right-scoreW, top, pal.Text, 1)
	speedW, _ := text.Measure(hud.Speed, r.face, 0)
	r.drawText(screen, hud.Speed, right-speedW, top+config.HUDLineHeight, pal.Text, 0.8)

	if hud.Shield != "" {
		y := top + config.HUDHeartSize + config.HUDHeartGap*2
		frac := ShieldFraction(s.ShieldRemainingMs, r.shieldDuration)
		vector.DrawFilledRect(screen, config.HUDMargin, float32(y), config.ShieldBarWidth, config.ShieldBarHeight, withAlpha(pal.Shield, 0.25), false)
		vector.DrawFilledRect(screen, config.HUDMargin, float32(y), float32(config.ShieldBarWidth*frac), config.ShieldBarHeight, pal.Shield, false)
		r.drawText(screen, hud.Shield, config.HUDMargin, y+config.ShieldBarHeight+2, pal.Shield, 1)
	}
}

// DrawOverlay 半透明遮罩 + 居中多行文字(暂停、结算、菜单共用)
func (r *Renderer) DrawOverlay(screen *ebiten.Image, lines []string, dim float64) {
	b := screen.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if dim > 0 {
		vector.DrawFilledRect(screen, 0, 0, float32(w), float32(h), color.RGBA{A: uint8(math.Min(1, dim) * 255)}, false)
	}
	DrawCenteredLines(screen, r.face, lines, w/2, h/2, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
}

// DrawCenteredLines 以 (cx, cy) 为中心绘制多行文字
func DrawCenteredLines(screen *ebiten.Image, face text.Face, lines []string, cx, cy float64, clr color.Color) {
	startY := cy - float64(len(lines))*config.HUDLineHeight/2
	for i, line := range lines {
		lw, _ := text.Measure(line, face, 0)
		op := &text.DrawOptions{}
		op.GeoM.Translate(cx-lw/2, startY+float64(i)*config.HUDLineHeight)
		op.ColorScale.ScaleWithColor(clr)
		text.Draw(screen, line, face, op)
	}
}

// drawText 在 (x, y) 绘制单行文字
func (r *Renderer) drawText(screen *ebiten.Image, s string, x, y float64, clr color.Color, alpha float64) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.ColorScale.ScaleAlpha(float32(alpha))
	text.Draw(screen, s, r.face, op)
}

// sprite 取精灵,资源管理器为空时返回 nil
func (r *Renderer) sprite(id string) *ebiten.Image {
	if r.resourceManager == nil {
		return nil
	}
	return r.resourceManager.Sprite(id)
}

// spriteForCategory 类别对应的精灵ID
func spriteForCategory(c components.ItemCategory) string {
	switch c {
	case components.CategoryBonus:
		return game.SpriteTeardropBonus
	case components.CategoryHazard:
		return game.SpriteTeardropHazard
	case components.CategoryHeal:
		return game.SpriteTeardropHeal
	case components.CategoryShield:
		return game.SpriteShield
	default:
		return game.SpriteTeardropBasic
	}
}

// drawSpriteInRect 把精灵缩放到指定矩形
func drawSpriteInRect(screen, img *ebiten.Image, x, y, w, h, alpha float64) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w/float64(b.Dx()), h/float64(b.Dy()))
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleAlpha(float32(alpha))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}
