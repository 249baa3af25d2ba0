// Package termui 在终端里显示 Tears of Aya 并把键盘鼠标转成引擎输入
package termui

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/gonewx/tears-of-aya/pkg/components"
	"github.com/gonewx/tears-of-aya/pkg/engine"
)

// statusRows 顶部状态栏占用的行数
const statusRows = 1

// View 实现 engine.RenderSink,每帧把快照画到 tcell 屏幕
//
// Render 在帧循环 goroutine 上调用,Size/ToPlayfieldX 可能在事件 goroutine 上调用,
// 共享状态由 mu 保护。
type View struct {
	screen tcell.Screen

	mu       sync.Mutex
	snapshot engine.Snapshot
	has      bool
	paused   bool
}

var _ engine.RenderSink = (*View)(nil)

// NewView 创建视图,screen 必须已经 Init
func NewView(screen tcell.Screen) *View {
	return &View{screen: screen}
}

// Render 保存快照并重绘
func (v *View) Render(s engine.Snapshot) {
	v.mu.Lock()
	v.snapshot = s
	v.has = true
	v.mu.Unlock()
	v.Redraw()
}

// SetPaused 设置暂停标记并重绘
func (v *View) SetPaused(paused bool) {
	v.mu.Lock()
	v.paused = paused
	v.mu.Unlock()
	v.Redraw()
}

// Redraw 用最近的快照重绘整个屏幕
func (v *View) Redraw() {
	v.mu.Lock()
	s, has, paused := v.snapshot, v.has, v.paused
	v.mu.Unlock()

	v.screen.Clear()
	if has {
		v.draw(s, paused)
	}
	v.screen.Show()
}

// ToPlayfieldX 把终端列映射到游戏区 X 坐标(格子中心)
func (v *View) ToPlayfieldX(col int) float64 {
	v.mu.Lock()
	width := v.snapshot.Playfield.Width
	v.mu.Unlock()

	cols, _ := v.screen.Size()
	if cols <= 0 {
		return 0
	}
	return (float64(col) + 0.5) / float64(cols) * width
}

// cellMapper 游戏区坐标 -> 终端格子
type cellMapper struct {
	cols, rows    int
	width, height float64
}

func (m cellMapper) col(x float64) int {
	c := int(x / m.width * float64(m.cols))
	return max(0, min(c, m.cols-1))
}

func (m cellMapper) row(y float64) int {
	r := int(y/m.height*float64(m.rows)) + statusRows
	return max(statusRows, min(r, statusRows+m.rows-1))
}

// draw 画一帧
func (v *View) draw(s engine.Snapshot, paused bool) {
	cols, rows := v.screen.Size()
	if cols <= 0 || rows <= statusRows || s.Playfield.Width <= 0 || s.Playfield.Height <= 0 {
		return
	}
	m := cellMapper{cols: cols, rows: rows - statusRows, width: s.Playfield.Width, height: s.Playfield.Height}

	// 顶部滑道
	ceiling := tcell.StyleDefault.Foreground(tcell.ColorGray)
	ceilingRow := m.row(s.Playfield.CeilingY)
	for c := 0; c < cols; c++ {
		v.screen.SetContent(c, ceilingRow, '─', nil, ceiling)
	}

	for _, sh := range s.Shields {
		v.screen.SetContent(m.col(sh.X+sh.Size/2), m.row(sh.Y+sh.Size/2), '◆', nil, styleOf(components.StyleShield.Color()))
	}

	for _, it := range s.Items {
		style := styleOf(itemColor(it.Category))
		glyph := ItemGlyph(it)
		if it.State == components.ItemFalling {
			v.screen.SetContent(m.col(it.X+it.Width/2), m.row(it.Y+it.Height), glyph, nil, style)
			continue
		}
		// 水洼横跨多个格子
		for c := m.col(it.X); c <= m.col(it.X+it.Width); c++ {
			v.screen.SetContent(c, m.row(it.Y), glyph, nil, style)
		}
	}

	catcherStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	if s.ShieldActive {
		catcherStyle = styleOf(components.StyleShield.Color())
	}
	catcherRow := m.row(s.Catcher.Y)
	for c := m.col(s.Catcher.X); c <= m.col(s.Catcher.X+s.Catcher.Width); c++ {
		v.screen.SetContent(c, catcherRow, '▀', nil, catcherStyle)
	}

	for _, fb := range s.Feedback {
		if fb.Opacity <= 0.1 {
			continue
		}
		style := styleOf(fb.Style.Color()).Dim(fb.Opacity < 0.5)
		for _, d := range fb.Droplets {
			v.screen.SetContent(m.col(fb.X+d.X), m.row(fb.Y+d.Y), '·', nil, style)
		}
		v.putString(m.col(fb.X)-len(fb.Text)/2, m.row(fb.Y)-1, fb.Text, style)
	}

	v.putString(0, 0, StatusLine(s), tcell.StyleDefault.Reverse(true))

	switch {
	case s.GameOver:
		v.centered(rows, []string{"GAME OVER", fmt.Sprintf("score %d", s.Score), "r: restart   q: quit"})
	case paused:
		v.centered(rows, []string{"PAUSED", "p: resume"})
	}
}

// centered 在屏幕中央显示多行文字
func (v *View) centered(rows int, lines []string) {
	cols, _ := v.screen.Size()
	style := tcell.StyleDefault.Bold(true)
	top := rows/2 - len(lines)/2
	for i, line := range lines {
		v.putString((cols-len(line))/2, top+i, line, style)
	}
}

// putString 从 (x, y) 写入一行文字,越界部分丢弃
func (v *View) putString(x, y int, s string, style tcell.Style) {
	cols, rows := v.screen.Size()
	if y < 0 || y >= rows {
		return
	}
	for _, r := range s {
		if x >= 0 && x < cols {
			v.screen.SetContent(x, y, r, nil, style)
		}
		x++
	}
}

// StatusLine 状态栏文字
func StatusLine(s engine.Snapshot) string {
	line := fmt.Sprintf(" %s  ♥ %d/%d  score %d  x%.2f", s.Title, s.Health, s.HealthCeiling, s.Score, s.SpeedMultiplier)
	if s.ShieldActive {
		line += fmt.Sprintf("  shield %.1fs", s.ShieldRemainingMs/1000)
	}
	return line + " "
}

// ItemGlyph 泪滴字符:水洼、成形中、下落中
func ItemGlyph(it engine.ItemView) rune {
	if it.State == components.ItemFalling {
		switch it.Category {
		case components.CategoryBonus:
			return '*'
		case components.CategoryHazard:
			return 'x'
		case components.CategoryHeal:
			return '+'
		default:
			return 'o'
		}
	}
	if it.FormationProgress >= 0.5 {
		return '°'
	}
	return '~'
}

func itemColor(c components.ItemCategory) color.RGBA {
	switch c {
	case components.CategoryBonus:
		return components.StyleBonus.Color()
	case components.CategoryHazard:
		return components.StyleHazard.Color()
	case components.CategoryHeal:
		return components.StyleHeal.Color()
	default:
		return components.StyleBasic.Color()
	}
}

func styleOf(c color.RGBA) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}
