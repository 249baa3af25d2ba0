package simcheck

import (
	"math"

	"github.com/gonewx/tears-of-aya/pkg/components"
	"github.com/gonewx/tears-of-aya/pkg/engine"
	"github.com/gonewx/tears-of-aya/pkg/utils"
)

// Autopilot 无界面运行时代替玩家移动接取器
//
// 追踪最低的可接泪滴,护盾未激活时避开危险泪滴。
// skill < 1 时每帧有一定概率走神,保证对局最终会结束。
type Autopilot struct {
	rng     utils.Random
	skill   float64
	distrac int // 剩余走神帧数
	wander  float64
}

// NewAutopilot 创建自动驾驶,skill 取值 [0,1]
func NewAutopilot(rng utils.Random, skill float64) *Autopilot {
	return &Autopilot{rng: rng, skill: math.Max(0, math.Min(1, skill))}
}

// Steer 返回本帧的目标 X(接取器中心),没有目标时返回 false
func (a *Autopilot) Steer(s engine.Snapshot) (float64, bool) {
	if a.distrac > 0 {
		a.distrac--
		return a.wander, true
	}
	if a.rng.Float64() > a.skill {
		a.distrac = utils.RandomIntRange(a.rng, 20, 90)
		a.wander = utils.RandomRange(a.rng, 0, s.Playfield.Width)
		return a.wander, true
	}

	best, found := 0.0, false
	bestY := math.Inf(-1)
	for _, it := range s.Items {
		if it.State != components.ItemFalling {
			continue
		}
		if it.Category == components.CategoryHazard && !s.ShieldActive {
			continue
		}
		if it.Y > bestY {
			bestY = it.Y
			best = it.X + it.Width/2
			found = true
		}
	}
	for _, sh := range s.Shields {
		if sh.Y > bestY {
			bestY = sh.Y
			best = sh.X + sh.Size/2
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return a.dodge(s, best), true
}

// dodge 目标正上方有更低的危险泪滴时挪到一边
func (a *Autopilot) dodge(s engine.Snapshot, target float64) float64 {
	if s.ShieldActive {
		return target
	}
	half := s.Catcher.Width / 2
	for _, it := range s.Items {
		if it.Category != components.CategoryHazard || it.State != components.ItemFalling {
			continue
		}
		center := it.X + it.Width/2
		if math.Abs(center-target) < half+it.Width/2 && it.Y+it.Height > s.Catcher.Y-120 {
			if center < target {
				return math.Min(s.Playfield.Width-half, center+half+it.Width)
			}
			return math.Max(half, center-half-it.Width)
		}
	}
	return target
}
