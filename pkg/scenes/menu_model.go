package scenes

import (
	"github.com/gonewx/tears-of-aya/pkg/game"
	"github.com/gonewx/tears-of-aya/pkg/session"
)

// 菜单行
const (
	rowVariant = iota
	rowMode
	rowMusic
	rowStart
	rowCount
)

// menuModel 菜单状态,与输入设备无关
type menuModel struct {
	variants []string
	modes    []session.Mode
	variant  int
	mode     int
	music    bool
	cursor   int
}

func newMenuModel(variants []string, lastVariant, lastMode string, music bool) *menuModel {
	m := &menuModel{
		variants: variants,
		modes:    []session.Mode{session.ModeFree, session.ModePaid},
		music:    music,
		cursor:   rowStart,
	}
	for i, v := range variants {
		if v == lastVariant {
			m.variant = i
		}
	}
	for i, md := range m.modes {
		if string(md) == lastMode {
			m.mode = i
		}
	}
	return m
}

// Move 上下移动光标,循环
func (m *menuModel) Move(delta int) {
	m.cursor = ((m.cursor+delta)%rowCount + rowCount) % rowCount
}

// Change 修改光标所在行的值
// 返回 true 表示选择了开始
func (m *menuModel) Change(delta int) bool {
	switch m.cursor {
	case rowVariant:
		if n := len(m.variants); n > 0 {
			m.variant = ((m.variant+delta)%n + n) % n
		}
	case rowMode:
		n := len(m.modes)
		m.mode = ((m.mode+delta)%n + n) % n
	case rowMusic:
		m.music = !m.music
	case rowStart:
		return true
	}
	return false
}

// Variant 当前变体
func (m *menuModel) Variant() string {
	if len(m.variants) == 0 {
		return ""
	}
	return m.variants[m.variant]
}

// Mode 当前模式
func (m *menuModel) Mode() session.Mode {
	return m.modes[m.mode]
}

// Choice 开局选择
func (m *menuModel) Choice() game.PlayChoice {
	return game.PlayChoice{Variant: m.Variant(), Mode: string(m.Mode())}
}

// Lines 菜单文字,光标行前加 ">"
func (m *menuModel) Lines() []string {
	music := "OFF"
	if m.music {
		music = "ON"
	}
	rows := [rowCount]string{
		rowVariant: "VARIANT  < " + m.Variant() + " >",
		rowMode:    "MODE     < " + string(m.Mode()) + " >",
		rowMusic:   "MUSIC    < " + music + " >",
		rowStart:   "START",
	}
	lines := make([]string, rowCount)
	for i, r := range rows {
		prefix := "  "
		if i == m.cursor {
			prefix = "> "
		}
		lines[i] = prefix + r
	}
	return lines
}
