package entities

import (
	"fmt"
	"math"

	"github.com/gonewx/tears-of-aya/pkg/components"
	"github.com/gonewx/tears-of-aya/pkg/config"
	"github.com/gonewx/tears-of-aya/pkg/ecs"
	"github.com/gonewx/tears-of-aya/pkg/utils"
)

// NewFeedbackEntity 创建飘字 + 水花反馈
//
// (x, y) 为事件中心点。非有限坐标会被拒绝并返回 ErrInvalidCoordinates,
// 否则会在渲染时静默地画出错误的图形。
func NewFeedbackEntity(em *ecs.EntityManager, cfg config.FeedbackConfig, x, y float64, text string, style components.FeedbackStyle, rng utils.Random) (ecs.EntityID, error) {
	if !isFinite(x) || !isFinite(y) {
		return 0, fmt.Errorf("feedback at (%v, %v): %w", x, y, ErrInvalidCoordinates)
	}

	droplets := make([]components.Droplet, cfg.Droplets)
	for i := range droplets {
		// 向上半圆方向溅射(Y 轴向下,角度取 π..2π)
		angle := math.Pi + rng.Float64()*math.Pi
		speed := cfg.DropletSpeed * (0.5 + rng.Float64()*0.5)
		droplets[i] = components.Droplet{
			VX:     math.Cos(angle) * speed,
			VY:     math.Sin(angle) * speed,
			Radius: 1.5 + rng.Float64()*1.5,
		}
	}

	id := em.CreateEntity()
	em.AddComponent(id, &components.PositionComponent{X: x, Y: y})
	em.AddComponent(id, &components.FeedbackComponent{
		Text:      text,
		Style:     style,
		Opacity:   1.0,
		Decay:     cfg.Decay,
		RiseSpeed: cfg.RiseSpeed,
		Droplets:  droplets,
		Gravity:   cfg.Gravity,
	})

	return id, nil
}
