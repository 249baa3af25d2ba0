package components

// ShieldPickupComponent 标记实体为护盾拾取物
// 护盾没有状态机,以固定速度下落(速度存放在 VelocityComponent)
type ShieldPickupComponent struct {
	DurationMs float64 // 被接住后护盾状态持续时间(毫秒)
}
