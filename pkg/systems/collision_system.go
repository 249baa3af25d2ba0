package systems

import (
	"math"

	"github.com/gonewx/tears-of-aya/pkg/components"
	"github.com/gonewx/tears-of-aya/pkg/ecs"
)

// ItemEvent 接住或错过一个物体
type ItemEvent struct {
	Entity   ecs.EntityID
	Category components.ItemCategory
	// 物体中心点,用于放置反馈效果
	X, Y float64
}

// Rect 轴对齐矩形(左上角 + 尺寸)
type Rect struct {
	X, Y, Width, Height float64
}

// CenterX 返回水平中心
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }

// Overlaps 4 不等式 AABB 检测,边缘相接也算重叠
func (r Rect) Overlaps(o Rect) bool {
	return r.X <= o.X+o.Width &&
		r.X+r.Width >= o.X &&
		r.Y <= o.Y+o.Height &&
		r.Y+r.Height >= o.Y
}

// ShieldHit 护盾的宽松判定:中心水平距离小于接取器半宽,且垂直范围重叠
func ShieldHit(shield, catcher Rect) bool {
	if math.Abs(shield.CenterX()-catcher.CenterX()) >= catcher.Width/2 {
		return false
	}
	return shield.Y+shield.Height >= catcher.Y && shield.Y <= catcher.Y+catcher.Height
}

// CollisionSystem 检测下落物体与接取器的碰撞,以及掉出游戏区域的物体
//
// 命中或掉出的实体会被标记删除(DestroyEntity),结算交给调用方
type CollisionSystem struct {
	entityManager   *ecs.EntityManager
	playfieldHeight float64
}

// NewCollisionSystem 创建碰撞系统
func NewCollisionSystem(em *ecs.EntityManager, playfieldHeight float64) *CollisionSystem {
	return &CollisionSystem{
		entityManager:   em,
		playfieldHeight: playfieldHeight,
	}
}

// ResolveCatches 返回本帧被接住的物体(按创建顺序倒序处理)
func (s *CollisionSystem) ResolveCatches(catcher ecs.EntityID) []ItemEvent {
	catcherRect, ok := s.rectOf(catcher)
	if !ok {
		return nil
	}

	var caught []ItemEvent
	for _, id := range s.candidates() {
		rect, ok := s.rectOf(id)
		if !ok {
			continue
		}

		if ecs.HasComponent[*components.ShieldPickupComponent](s.entityManager, id) {
			if ShieldHit(rect, catcherRect) {
				caught = append(caught, s.consume(id, components.CategoryShield, rect))
			}
			continue
		}

		item, _ := ecs.GetComponent[*components.FallingItemComponent](s.entityManager, id)
		if rect.Overlaps(catcherRect) {
			caught = append(caught, s.consume(id, item.Category, rect))
		}
	}
	return caught
}

// CollectMisses 返回本帧顶边越过游戏区域底边的物体
func (s *CollisionSystem) CollectMisses() []ItemEvent {
	var missed []ItemEvent
	for _, id := range s.candidates() {
		rect, ok := s.rectOf(id)
		if !ok || rect.Y <= s.playfieldHeight {
			continue
		}

		category := components.CategoryShield
		if item, ok := ecs.GetComponent[*components.FallingItemComponent](s.entityManager, id); ok {
			category = item.Category
		}
		missed = append(missed, s.consume(id, category, rect))
	}
	return missed
}

// candidates 返回所有下落物体和护盾(倒序),跳过已标记删除的实体
func (s *CollisionSystem) candidates() []ecs.EntityID {
	items := ecs.GetEntitiesWith1[*components.FallingItemComponent](s.entityManager)
	shields := ecs.GetEntitiesWith1[*components.ShieldPickupComponent](s.entityManager)

	merged := mergeByID(items, shields)
	result := make([]ecs.EntityID, 0, len(merged))
	for i := len(merged) - 1; i >= 0; i-- {
		if !s.entityManager.IsMarkedForDestroy(merged[i]) {
			result = append(result, merged[i])
		}
	}
	return result
}

func (s *CollisionSystem) consume(id ecs.EntityID, category components.ItemCategory, rect Rect) ItemEvent {
	s.entityManager.DestroyEntity(id)
	return ItemEvent{
		Entity:   id,
		Category: category,
		X:        rect.CenterX(),
		Y:        rect.Y + rect.Height/2,
	}
}

func (s *CollisionSystem) rectOf(id ecs.EntityID) (Rect, bool) {
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
	if !ok {
		return Rect{}, false
	}
	col, ok := ecs.GetComponent[*components.CollisionComponent](s.entityManager, id)
	if !ok {
		return Rect{}, false
	}
	return Rect{X: pos.X, Y: pos.Y, Width: col.Width, Height: col.Height}, true
}

// mergeByID 合并两个按 ID 升序的列表(实体 ID 单调递增,即创建顺序)
func mergeByID(a, b []ecs.EntityID) []ecs.EntityID {
	out := make([]ecs.EntityID, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] < b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}
