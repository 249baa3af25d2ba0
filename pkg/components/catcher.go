package components

// CatcherComponent 标记玩家控制的接取器
// X 坐标只由输入控制器修改,Y 坐标固定
type CatcherComponent struct {
	PlayfieldWidth float64 // 用于钳制 X 坐标的游戏区域宽度
}
