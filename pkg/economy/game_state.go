package economy

import "github.com/gonewx/tears-of-aya/pkg/config"

// GameState 存储一局游戏的状态
//
// 不再是全局单例:每个引擎实例拥有自己的 GameState。
// 字段不导出,所有修改都经过方法,以保证以下不变量:
//   - score >= 0
//   - 0 <= health <= healthCeiling
//   - speedMultiplier 只增不减
type GameState struct {
	score  int
	health int

	initialHealth int
	healthCeiling int

	baseMultiplier      float64
	speedMultiplier     float64
	checkpointInterval  int
	checkpointFactor    float64
	lastScoreCheckpoint int
	checkpointsCrossed  int

	isActive bool

	shieldActive    bool
	shieldExpiresAt float64 // 模拟时钟(毫秒)
}

// NewGameState 根据变体配置创建游戏状态
func NewGameState(health config.HealthConfig, speed config.SpeedConfig) *GameState {
	gs := &GameState{
		initialHealth:      health.Initial,
		healthCeiling:      health.Ceiling,
		baseMultiplier:     speed.BaseMultiplier,
		checkpointInterval: speed.CheckpointInterval,
		checkpointFactor:   speed.CheckpointFactor,
	}
	gs.Reset()
	return gs
}

// Reset 恢复到开局状态(不激活)
func (gs *GameState) Reset() {
	gs.score = 0
	gs.health = gs.initialHealth
	gs.speedMultiplier = gs.baseMultiplier
	gs.lastScoreCheckpoint = 0
	gs.checkpointsCrossed = 0
	gs.isActive = false
	gs.shieldActive = false
	gs.shieldExpiresAt = 0
}

// Score 返回当前分数
func (gs *GameState) Score() int { return gs.score }

// Health 返回当前生命值
func (gs *GameState) Health() int { return gs.health }

// HealthCeiling 返回生命值上限
func (gs *GameState) HealthCeiling() int { return gs.healthCeiling }

// IsAtMaxHealth 是否满血
func (gs *GameState) IsAtMaxHealth() bool { return gs.health >= gs.healthCeiling }

// SpeedMultiplier 返回当前速度倍率
func (gs *GameState) SpeedMultiplier() float64 { return gs.speedMultiplier }

// LastScoreCheckpoint 返回上一次提速时的分数
func (gs *GameState) LastScoreCheckpoint() int { return gs.lastScoreCheckpoint }

// CheckpointsCrossed 返回本局提速次数
func (gs *GameState) CheckpointsCrossed() int { return gs.checkpointsCrossed }

// IsActive 本局是否进行中
func (gs *GameState) IsActive() bool { return gs.isActive }

// Activate 开始本局
func (gs *GameState) Activate() { gs.isActive = true }

// Deactivate 结束本局
func (gs *GameState) Deactivate() { gs.isActive = false }

// ShieldActive 护盾状态是否生效
func (gs *GameState) ShieldActive() bool { return gs.shieldActive }

// ShieldExpiresAt 护盾到期时间(模拟时钟毫秒)
func (gs *GameState) ShieldExpiresAt() float64 { return gs.shieldExpiresAt }

// AddScore 增加分数,并检查提速检查点
//
// 分数达到 lastScoreCheckpoint + checkpointInterval 时,速度倍率乘以 checkpointFactor,
// 检查点移动到当前分数(而不是下一个整百),因此一次大额加分后检查点会"漂移"。
// 返回本次是否触发了提速。
func (gs *GameState) AddScore(amount int) bool {
	if amount <= 0 {
		return false
	}
	gs.score += amount
	if gs.score-gs.lastScoreCheckpoint >= gs.checkpointInterval {
		gs.speedMultiplier *= gs.checkpointFactor
		gs.lastScoreCheckpoint = gs.score
		gs.checkpointsCrossed++
		return true
	}
	return false
}

// AdjustHealth 修改生命值,结果限制在 [0, healthCeiling]
// 返回实际生效的变化量
func (gs *GameState) AdjustHealth(delta int) int {
	before := gs.health
	gs.health += delta
	if gs.health > gs.healthCeiling {
		gs.health = gs.healthCeiling
	}
	if gs.health < 0 {
		gs.health = 0
	}
	return gs.health - before
}

// ActivateShield 激活护盾状态,重复拾取会刷新到期时间
func (gs *GameState) ActivateShield(nowMs, durationMs float64) {
	gs.shieldActive = true
	gs.shieldExpiresAt = nowMs + durationMs
}

// UpdateShield 检查护盾是否到期,返回本次是否刚刚失效
func (gs *GameState) UpdateShield(nowMs float64) bool {
	if gs.shieldActive && nowMs >= gs.shieldExpiresAt {
		gs.shieldActive = false
		return true
	}
	return false
}

// ShieldRemainingMs 护盾剩余时间
func (gs *GameState) ShieldRemainingMs(nowMs float64) float64 {
	if !gs.shieldActive {
		return 0
	}
	remaining := gs.shieldExpiresAt - nowMs
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsDepleted 生命值是否耗尽
func (gs *GameState) IsDepleted() bool { return gs.health <= 0 }
