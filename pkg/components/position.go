package components

// PositionComponent 存储实体在游戏区域(Playfield)中的位置
// 坐标原点为游戏区域左上角,X 向右,Y 向下
// 对于带 CollisionComponent 的实体,位置表示碰撞盒左上角
type PositionComponent struct {
	X float64
	Y float64
}

// VelocityComponent 存储实体每帧的位移量(像素/帧)
type VelocityComponent struct {
	VX float64
	VY float64
}
