package components

import "fmt"

// ItemCategory 下落物体的类别,决定其得分与生命值效果
type ItemCategory int

const (
	CategoryBasic  ItemCategory = iota // 普通泪滴
	CategoryBonus                      // 奖励泪滴
	CategoryHazard                     // 危险泪滴(扣血)
	CategoryHeal                       // 治疗泪滴(回血)
	CategoryShield                     // 护盾拾取物(仅 blood 变体)
)

// FallingCategories 是所有使用泪滴状态机的类别(不含护盾)
var FallingCategories = []ItemCategory{CategoryBasic, CategoryBonus, CategoryHazard, CategoryHeal}

// String 返回类别的配置键名
func (c ItemCategory) String() string {
	switch c {
	case CategoryBasic:
		return "basic"
	case CategoryBonus:
		return "bonus"
	case CategoryHazard:
		return "hazard"
	case CategoryHeal:
		return "heal"
	case CategoryShield:
		return "shield"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// ParseItemCategory 将配置键名解析为类别
func ParseItemCategory(s string) (ItemCategory, error) {
	switch s {
	case "basic":
		return CategoryBasic, nil
	case "bonus":
		return CategoryBonus, nil
	case "hazard":
		return CategoryHazard, nil
	case "heal":
		return CategoryHeal, nil
	case "shield":
		return CategoryShield, nil
	}
	return 0, fmt.Errorf("unknown item category %q", s)
}

// ItemState 表示泪滴的状态
type ItemState int

const (
	ItemSliding ItemState = iota // 沿顶部滑动(初始状态)
	ItemForming                  // 正在成形
	ItemFaking                   // 假动作:回缩为水洼
	ItemFalling                  // 正在下落(终态)
)

// String 返回状态名
func (s ItemState) String() string {
	switch s {
	case ItemSliding:
		return "Sliding"
	case ItemForming:
		return "Forming"
	case ItemFaking:
		return "Faking"
	case ItemFalling:
		return "Falling"
	default:
		return fmt.Sprintf("ItemState(%d)", int(s))
	}
}

// FallingItemComponent 标记实体为泪滴,并存储泪滴状态机的数据
//
// 状态流转: Sliding → Forming → (Falling | Faking → Sliding)
// 只有在 Falling 状态下 VelocityComponent.VY 才会作用于位置
type FallingItemComponent struct {
	Category ItemCategory
	State    ItemState

	// FormationProgress 成形进度 [0,1],0 为水洼形状,1 为完整泪滴
	FormationProgress float64

	SlideDirection     float64 // -1 或 +1
	SlideElapsed       int     // 当前滑动阶段已经过的帧数
	SlideDurationLimit int     // 当前滑动阶段的帧数上限(每次进入滑动时随机)

	FakeOutCount int  // 已完成的假动作次数
	FakeOutLimit int  // 假动作次数上限(1-3 随机)
	WillFakeOut  bool // 生成时决定是否会做假动作

	// HasFormed 至少有一次成形进度达到 1
	HasFormed bool

	FallSpeed float64 // 进入 Falling 后的垂直速度(像素/帧)

	// 形状参数
	FullWidth    float64
	FullHeight   float64
	PuddleWidth  float64
	PuddleHeight float64
}
