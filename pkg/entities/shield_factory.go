package entities

import (
	"fmt"

	"github.com/gonewx/tears-of-aya/pkg/components"
	"github.com/gonewx/tears-of-aya/pkg/config"
	"github.com/gonewx/tears-of-aya/pkg/ecs"
)

// NewShieldEntity 创建护盾拾取物
// 护盾从游戏区域上方以固定速度直线下落,不受速度倍率影响
func NewShieldEntity(em *ecs.EntityManager, cfg *config.VariantConfig, x float64) (ecs.EntityID, error) {
	if !cfg.Shield.Enabled {
		return 0, fmt.Errorf("variant %s has no shield pickup", cfg.Name)
	}
	if !isFinite(x) {
		return 0, fmt.Errorf("shield x=%v: %w", x, ErrInvalidCoordinates)
	}

	size := cfg.Shield.Size
	id := em.CreateEntity()

	em.AddComponent(id, &components.PositionComponent{
		X: clamp(x, 0, cfg.Playfield.Width-size),
		Y: -size, // 游戏区域顶部外
	})
	em.AddComponent(id, &components.VelocityComponent{
		VY: cfg.Shield.FallSpeed,
	})
	em.AddComponent(id, &components.CollisionComponent{
		Width:  size,
		Height: size,
	})
	em.AddComponent(id, &components.ShieldPickupComponent{
		DurationMs: cfg.Shield.DurationMs,
	})

	return id, nil
}
