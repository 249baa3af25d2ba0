package components

// CollisionComponent 定义实体的碰撞检测边界框
// 用于碰撞系统检测下落物体与接取器(Catcher)之间的重叠
//
// 边界框以 PositionComponent 为左上角,尺寸可以逐帧变化
// (泪滴在成形过程中宽高会在"水洼"形状和完整形状之间插值)
type CollisionComponent struct {
	Width  float64 // 碰撞盒宽度（像素）
	Height float64 // 碰撞盒高度（像素）
}
