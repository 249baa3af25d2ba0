package render

import (
	"fmt"
	"math"

	"github.com/gonewx/tears-of-aya/pkg/engine"
)

// HUDText HUD 上显示的文字
type HUDText struct {
	Score  string
	Speed  string
	Shield string // 护盾未激活时为空
}

// FormatHUD 从快照生成 HUD 文字
func FormatHUD(s engine.Snapshot) HUDText {
	hud := HUDText{
		Score: fmt.Sprintf("SCORE %d", s.Score),
		Speed: fmt.Sprintf("SPEED x%.2f", s.SpeedMultiplier),
	}
	if s.ShieldActive {
		hud.Shield = fmt.Sprintf("SHIELD %.1fs", s.ShieldRemainingMs/1000)
	}
	return hud
}

// HeartSlots 生命值图标:true 为满心
// 上限超过 maxSlots 时按比例缩放
func HeartSlots(health, ceiling, maxSlots int) []bool {
	if ceiling <= 0 || maxSlots <= 0 {
		return nil
	}
	slots := ceiling
	filled := health
	if slots > maxSlots {
		filled = int(math.Ceil(float64(health) * float64(maxSlots) / float64(ceiling)))
		slots = maxSlots
	}
	filled = max(0, min(filled, slots))

	out := make([]bool, slots)
	for i := 0; i < filled; i++ {
		out[i] = true
	}
	return out
}

// ShieldFraction 护盾剩余比例 [0,1]
func ShieldFraction(remainingMs, durationMs float64) float64 {
	if durationMs <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, remainingMs/durationMs))
}
