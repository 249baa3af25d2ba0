package entities

import (
	"fmt"
	"math"

	"github.com/gonewx/tears-of-aya/pkg/components"
	"github.com/gonewx/tears-of-aya/pkg/config"
	"github.com/gonewx/tears-of-aya/pkg/ecs"
	"github.com/gonewx/tears-of-aya/pkg/utils"
)

// NewTeardropEntity 创建一个泪滴实体
// 参数:
//   - em: EntityManager 实例
//   - cfg: 变体配置
//   - category: 泪滴类别(不能是护盾)
//   - x: 水洼形状左上角 X 坐标,会被钳制到游戏区域内
//   - speedMultiplier: 当前速度倍率,决定下落速度
//   - rng: 随机源,决定滑动方向、滑动时长与假动作
//
// 泪滴以水洼形状出现在顶部,初始状态为 Sliding
func NewTeardropEntity(em *ecs.EntityManager, cfg *config.VariantConfig, category components.ItemCategory, x, speedMultiplier float64, rng utils.Random) (ecs.EntityID, error) {
	item := cfg.Item(category)
	if item == nil {
		return 0, fmt.Errorf("category %s has no teardrop config", category)
	}
	if !isFinite(x) || !isFinite(speedMultiplier) {
		return 0, fmt.Errorf("teardrop x=%v multiplier=%v: %w", x, speedMultiplier, ErrInvalidCoordinates)
	}

	td := cfg.Teardrop
	x = clamp(x, 0, cfg.Playfield.Width-td.PuddleWidth)

	id := em.CreateEntity()

	em.AddComponent(id, &components.PositionComponent{
		X: x,
		Y: cfg.Playfield.CeilingY,
	})

	// 滑动和成形阶段不使用速度组件,进入 Falling 时写入 VY
	em.AddComponent(id, &components.VelocityComponent{})

	em.AddComponent(id, &components.CollisionComponent{
		Width:  td.PuddleWidth,
		Height: td.PuddleHeight,
	})

	em.AddComponent(id, &components.FallingItemComponent{
		Category:           category,
		State:              components.ItemSliding,
		FormationProgress:  0,
		SlideDirection:     utils.RandomSign(rng),
		SlideDurationLimit: utils.RandomIntRange(rng, td.SlideMinFrames, td.SlideMaxFrames),
		FakeOutLimit:       utils.RandomIntRange(rng, td.FakeOutMin, td.FakeOutMax),
		WillFakeOut:        rng.Float64() < td.FakeOutChance,
		FallSpeed:          item.FallSpeed * speedMultiplier,
		FullWidth:          td.Width,
		FullHeight:         td.Height,
		PuddleWidth:        td.PuddleWidth,
		PuddleHeight:       td.PuddleHeight,
	})

	return id, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}
