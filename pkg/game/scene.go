package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a game scene (e.g., main menu, gameplay, game over).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Leaver 可选接口,场景被切换掉时调用 OnLeave
// 游戏场景在这里停止模拟并释放定时器
type Leaver interface {
	OnLeave()
}

// Saveable 可选接口,窗口关闭时调用 SaveOnExit
//
// 实现此接口的场景会在以下时机被调用 SaveOnExit()：
//   - 游戏窗口关闭
//   - 用户通过 OS 命令关闭程序
type Saveable interface {
	// SaveOnExit 在程序退出时保存状态
	// 返回 false 表示保存失败(程序仍会正常退出)
	SaveOnExit() bool
}
