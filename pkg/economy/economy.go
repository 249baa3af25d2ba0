package economy

import (
	"fmt"

	"github.com/gonewx/tears-of-aya/pkg/components"
	"github.com/gonewx/tears-of-aya/pkg/config"
)

// Outcome 一次接住或错过事件的结算结果
type Outcome struct {
	Category    components.ItemCategory
	ScoreDelta  int
	HealthDelta int

	// ShieldMs 大于 0 时激活护盾状态
	ShieldMs float64

	// Blocked 危险泪滴被护盾抵挡
	Blocked bool

	// CheckpointCrossed 由 Apply 填充:本次加分是否触发提速
	CheckpointCrossed bool

	// 反馈与音效
	Text  string
	Style components.FeedbackStyle
	Sound string
}

// Economy 根据 (类别, 当前生命值) 计算得分与生命值变化
//
// 不持有状态,所有数值来自变体配置,两个变体的奖励表可以不同
type Economy struct {
	cfg *config.VariantConfig
}

// NewEconomy 创建结算器
func NewEconomy(cfg *config.VariantConfig) *Economy {
	return &Economy{cfg: cfg}
}

// ResolveCatch 计算接住物体的结果(不修改状态)
func (e *Economy) ResolveCatch(category components.ItemCategory, gs *GameState) Outcome {
	atMax := gs.IsAtMaxHealth()

	switch category {
	case components.CategoryBasic, components.CategoryBonus:
		return e.scoreOutcome(category, atMax)

	case components.CategoryHazard:
		if gs.ShieldActive() {
			// 护盾生效时危险泪滴按普通泪滴结算
			o := e.scoreOutcome(components.CategoryBasic, atMax)
			o.Category = components.CategoryHazard
			o.Blocked = true
			o.Text = "BLOCKED " + o.Text
			o.Style = components.StyleBlock
			o.Sound = e.cfg.Audio.Block
			return o
		}
		item := e.cfg.Items.Hazard
		return Outcome{
			Category:    category,
			HealthDelta: item.Health,
			Text:        fmt.Sprintf("%d HP", item.Health),
			Style:       components.StyleHazard,
			Sound:       item.Sound,
		}

	case components.CategoryHeal:
		item := e.cfg.Items.Heal
		if atMax {
			// 满血时治疗转换为加分,生命值不会溢出
			return Outcome{
				Category:   category,
				ScoreDelta: item.ScoreAtMax,
				Text:       fmt.Sprintf("+%d", item.ScoreAtMax),
				Style:      components.StyleHeal,
				Sound:      item.Sound,
			}
		}
		return Outcome{
			Category:    category,
			HealthDelta: item.Health,
			Text:        fmt.Sprintf("+%d HP", item.Health),
			Style:       components.StyleHeal,
			Sound:       item.Sound,
		}

	case components.CategoryShield:
		return Outcome{
			Category: category,
			ShieldMs: e.cfg.Shield.DurationMs,
			Text:     "SHIELD",
			Style:    components.StyleShield,
			Sound:    e.cfg.Shield.Sound,
		}
	}
	return Outcome{Category: category}
}

func (e *Economy) scoreOutcome(category components.ItemCategory, atMax bool) Outcome {
	item := e.cfg.Item(category)
	score := item.Score
	if atMax {
		score = item.ScoreAtMax
	}
	style := components.StyleBasic
	if category == components.CategoryBonus {
		style = components.StyleBonus
	}
	return Outcome{
		Category:   category,
		ScoreDelta: score,
		Text:       fmt.Sprintf("+%d", score),
		Style:      style,
		Sound:      item.Sound,
	}
}

// ResolveMiss 计算物体掉出游戏区域的结果
//
// 错过危险泪滴没有惩罚,错过普通/奖励/治疗泪滴扣 1 点生命值。
// 护盾掉出去不产生任何结果,返回 ok=false。
func (e *Economy) ResolveMiss(category components.ItemCategory) (Outcome, bool) {
	switch category {
	case components.CategoryShield:
		return Outcome{}, false
	case components.CategoryHazard:
		return Outcome{
			Category: category,
			Text:     "DODGED",
			Style:    components.StyleMiss,
		}, true
	}
	return Outcome{
		Category:    category,
		HealthDelta: -1,
		Text:        "MISS",
		Style:       components.StyleMiss,
		Sound:       e.cfg.Audio.Miss,
	}, true
}

// Apply 将结算结果写入游戏状态
// 返回修正后的结果:HealthDelta 为实际生效值,CheckpointCrossed 已填充
func (e *Economy) Apply(gs *GameState, o Outcome, nowMs float64) Outcome {
	if o.ScoreDelta > 0 {
		o.CheckpointCrossed = gs.AddScore(o.ScoreDelta)
	}
	if o.HealthDelta != 0 {
		o.HealthDelta = gs.AdjustHealth(o.HealthDelta)
	}
	if o.ShieldMs > 0 {
		gs.ActivateShield(nowMs, o.ShieldMs)
	}
	return o
}
