package entities

import (
	"github.com/gonewx/tears-of-aya/pkg/components"
	"github.com/gonewx/tears-of-aya/pkg/config"
	"github.com/gonewx/tears-of-aya/pkg/ecs"
)

// NewCatcherEntity 创建接取器,水平居中,Y 坐标固定在底部
func NewCatcherEntity(em *ecs.EntityManager, cfg *config.VariantConfig) ecs.EntityID {
	id := em.CreateEntity()

	em.AddComponent(id, &components.PositionComponent{
		X: (cfg.Playfield.Width - cfg.Catcher.Width) / 2,
		Y: cfg.Catcher.Y(cfg.Playfield.Height),
	})
	em.AddComponent(id, &components.CollisionComponent{
		Width:  cfg.Catcher.Width,
		Height: cfg.Catcher.Height,
	})
	em.AddComponent(id, &components.CatcherComponent{
		PlayfieldWidth: cfg.Playfield.Width,
	})

	return id
}
