package systems

import (
	"github.com/gonewx/tears-of-aya/pkg/components"
	"github.com/gonewx/tears-of-aya/pkg/ecs"
)

// FeedbackSystem 更新飘字与水花,透明度降到 0 时删除
type FeedbackSystem struct {
	entityManager *ecs.EntityManager
}

// NewFeedbackSystem 创建反馈系统
func NewFeedbackSystem(em *ecs.EntityManager) *FeedbackSystem {
	return &FeedbackSystem{entityManager: em}
}

// Update 推进一帧,返回本帧删除的反馈数量
func (s *FeedbackSystem) Update(deltaTime float64) int {
	entities := ecs.GetEntitiesWith2[
		*components.FeedbackComponent,
		*components.PositionComponent,
	](s.entityManager)

	pruned := 0
	for _, id := range entities {
		fb, _ := ecs.GetComponent[*components.FeedbackComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)

		fb.Opacity -= fb.Decay
		pos.Y -= fb.RiseSpeed
		for i := range fb.Droplets {
			d := &fb.Droplets[i]
			d.X += d.VX
			d.Y += d.VY
			d.VY += fb.Gravity
		}

		if fb.Opacity <= 0 {
			fb.Opacity = 0
			s.entityManager.DestroyEntity(id)
			pruned++
		}
	}
	return pruned
}
