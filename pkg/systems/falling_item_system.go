package systems

import (
	"math"

	"github.com/gonewx/tears-of-aya/pkg/components"
	"github.com/gonewx/tears-of-aya/pkg/config"
	"github.com/gonewx/tears-of-aya/pkg/ecs"
	"github.com/gonewx/tears-of-aya/pkg/utils"
)

// FallingItemSystem 推进泪滴状态机和护盾下落
//
// 状态流转: Sliding → Forming → (Falling | Faking → Sliding)
// 所有参数以"帧"为单位,每次 Update 推进一帧
type FallingItemSystem struct {
	entityManager *ecs.EntityManager
	playfield     config.PlayfieldConfig
	teardrop      config.TeardropConfig
	rng           utils.Random
}

// NewFallingItemSystem 创建泪滴系统
func NewFallingItemSystem(em *ecs.EntityManager, cfg *config.VariantConfig, rng utils.Random) *FallingItemSystem {
	return &FallingItemSystem{
		entityManager: em,
		playfield:     cfg.Playfield,
		teardrop:      cfg.Teardrop,
		rng:           rng,
	}
}

// Update 推进一帧
func (s *FallingItemSystem) Update(deltaTime float64) {
	entities := ecs.GetEntitiesWith3[
		*components.FallingItemComponent,
		*components.PositionComponent,
		*components.CollisionComponent,
	](s.entityManager)

	for _, id := range entities {
		item, _ := ecs.GetComponent[*components.FallingItemComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		col, _ := ecs.GetComponent[*components.CollisionComponent](s.entityManager, id)
		vel, ok := ecs.GetComponent[*components.VelocityComponent](s.entityManager, id)
		if !ok {
			vel = &components.VelocityComponent{}
			s.entityManager.AddComponent(id, vel)
		}

		s.step(item, pos, col, vel)
	}

	// 护盾没有状态机,直线下落
	shields := ecs.GetEntitiesWith3[
		*components.ShieldPickupComponent,
		*components.PositionComponent,
		*components.VelocityComponent,
	](s.entityManager)
	for _, id := range shields {
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		vel, _ := ecs.GetComponent[*components.VelocityComponent](s.entityManager, id)
		pos.Y += vel.VY
	}
}

// step 推进单个泪滴一帧
func (s *FallingItemSystem) step(item *components.FallingItemComponent, pos *components.PositionComponent, col *components.CollisionComponent, vel *components.VelocityComponent) {
	switch item.State {
	case components.ItemSliding:
		pos.X += item.SlideDirection * s.teardrop.SlideSpeed
		// 碰到边缘反弹
		if pos.X <= 0 {
			pos.X = 0
			item.SlideDirection = 1
		} else if right := s.playfield.Width - col.Width; pos.X >= right {
			pos.X = right
			item.SlideDirection = -1
		}

		item.SlideElapsed++
		if item.SlideElapsed >= item.SlideDurationLimit {
			item.State = components.ItemForming
		}

	case components.ItemForming:
		item.FormationProgress += s.teardrop.FormRate
		if item.FormationProgress >= 1 {
			item.FormationProgress = 1
			item.HasFormed = true
			if item.WillFakeOut && item.FakeOutCount < item.FakeOutLimit {
				item.State = components.ItemFaking
			} else {
				item.State = components.ItemFalling
				vel.VX = 0
				vel.VY = item.FallSpeed
			}
		}

	case components.ItemFaking:
		item.FormationProgress -= s.teardrop.FormRate * s.teardrop.FakeRateFactor
		if item.FormationProgress <= 0 {
			item.FormationProgress = 0
			item.FakeOutCount++
			item.SlideElapsed = 0
			item.SlideDurationLimit = utils.RandomIntRange(s.rng, s.teardrop.SlideMinFrames, s.teardrop.SlideMaxFrames)
			item.SlideDirection = utils.RandomSign(s.rng)
			item.State = components.ItemSliding
		}

	case components.ItemFalling:
		// 水平位置冻结,只有垂直速度生效
		pos.Y += vel.VY
	}

	s.applyShape(item, pos, col)
}

// applyShape 根据成形进度插值宽高,保持水平中心不变,顶边贴住天花板
func (s *FallingItemSystem) applyShape(item *components.FallingItemComponent, pos *components.PositionComponent, col *components.CollisionComponent) {
	t := item.FormationProgress
	if item.State == components.ItemFalling {
		t = 1
	}
	width := lerp(item.PuddleWidth, item.FullWidth, t)
	height := lerp(item.PuddleHeight, item.FullHeight, t)
	if width == col.Width && height == col.Height {
		return
	}

	centerX := pos.X + col.Width/2
	pos.X = math.Max(0, math.Min(centerX-width/2, s.playfield.Width-width))
	col.Width = width
	col.Height = height
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
