package termui

import (
	"github.com/gdamore/tcell/v2"
)

// Action 终端事件对应的操作
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionRestart
	ActionPause
	ActionPointer // 指针移动,X 有效
	ActionNudge   // 键盘移动,DX 有效
	ActionResize
)

// Input 解析后的输入
type Input struct {
	Action Action
	Col    int     // ActionPointer 的终端列
	DX     float64 // ActionNudge 的位移(像素)
}

// NudgeStep 方向键一次移动的像素
const NudgeStep = 24.0

// Translate 把 tcell 事件翻译成输入,与屏幕无关
func Translate(ev tcell.Event) Input {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return Input{Action: ActionQuit}
		case tcell.KeyLeft:
			return Input{Action: ActionNudge, DX: -NudgeStep}
		case tcell.KeyRight:
			return Input{Action: ActionNudge, DX: NudgeStep}
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return Input{Action: ActionQuit}
			case 'r', 'R':
				return Input{Action: ActionRestart}
			case 'p', 'P', ' ':
				return Input{Action: ActionPause}
			case 'a', 'h':
				return Input{Action: ActionNudge, DX: -NudgeStep}
			case 'd', 'l':
				return Input{Action: ActionNudge, DX: NudgeStep}
			}
		}
	case *tcell.EventMouse:
		x, _ := ev.Position()
		return Input{Action: ActionPointer, Col: x}
	case *tcell.EventResize:
		return Input{Action: ActionResize}
	}
	return Input{Action: ActionNone}
}
