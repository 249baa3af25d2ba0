package economy

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/gonewx/tears-of-aya/pkg/config"
)

func newTestState() *GameState {
	return NewGameState(
		config.HealthConfig{Initial: 10, Ceiling: 10},
		config.SpeedConfig{BaseMultiplier: 1.0, CheckpointInterval: 100, CheckpointFactor: 1.1},
	)
}

// TestNewGameStateInitialValues 测试开局状态
func TestNewGameStateInitialValues(t *testing.T) {
	gs := newTestState()

	if gs.Score() != 0 {
		t.Errorf("Score: got %d, want 0", gs.Score())
	}
	if gs.Health() != 10 {
		t.Errorf("Health: got %d, want 10", gs.Health())
	}
	if gs.SpeedMultiplier() != 1.0 {
		t.Errorf("SpeedMultiplier: got %v, want 1.0", gs.SpeedMultiplier())
	}
	if gs.IsActive() {
		t.Error("new state should not be active")
	}
	if gs.ShieldActive() {
		t.Error("new state should not have shield")
	}
}

// TestAddScoreCheckpoint 测试提速检查点
func TestAddScoreCheckpoint(t *testing.T) {
	tests := []struct {
		name           string
		increments     []int
		wantCrossed    int
		wantCheckpoint int
	}{
		{"below interval", []int{50, 49}, 0, 0},
		{"exactly interval", []int{100}, 1, 100},
		{"small steps", []int{60, 60}, 1, 120},
		// 检查点移动到当前分数,而不是下一个整百
		{"drift after big jump", []int{150, 60, 40}, 1, 150},
		{"drift then cross", []int{150, 100}, 2, 250},
		{"single huge jump counts once", []int{350}, 1, 350},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := newTestState()
			for _, inc := range tt.increments {
				gs.AddScore(inc)
			}
			if gs.CheckpointsCrossed() != tt.wantCrossed {
				t.Errorf("crossed: got %d, want %d", gs.CheckpointsCrossed(), tt.wantCrossed)
			}
			if gs.LastScoreCheckpoint() != tt.wantCheckpoint {
				t.Errorf("checkpoint: got %d, want %d", gs.LastScoreCheckpoint(), tt.wantCheckpoint)
			}
			want := math.Pow(1.1, float64(tt.wantCrossed))
			if math.Abs(gs.SpeedMultiplier()-want) > 1e-9 {
				t.Errorf("multiplier: got %v, want %v", gs.SpeedMultiplier(), want)
			}
		})
	}
}

// TestAddScoreIgnoresNonPositive 测试非正数加分被忽略
func TestAddScoreIgnoresNonPositive(t *testing.T) {
	gs := newTestState()
	gs.AddScore(0)
	gs.AddScore(-5)
	if gs.Score() != 0 {
		t.Errorf("Score: got %d, want 0", gs.Score())
	}
}

// TestAdjustHealthClamp 测试生命值被限制在 [0, ceiling]
func TestAdjustHealthClamp(t *testing.T) {
	gs := newTestState()

	if applied := gs.AdjustHealth(+1); applied != 0 {
		t.Errorf("heal at ceiling applied %d, want 0", applied)
	}
	if gs.Health() != 10 {
		t.Errorf("Health: got %d, want 10", gs.Health())
	}

	if applied := gs.AdjustHealth(-25); applied != -10 {
		t.Errorf("applied: got %d, want -10", applied)
	}
	if gs.Health() != 0 || !gs.IsDepleted() {
		t.Errorf("Health: got %d, want 0 and depleted", gs.Health())
	}
}

// TestShieldExpiry 测试护盾按模拟时钟到期
func TestShieldExpiry(t *testing.T) {
	gs := newTestState()
	gs.ActivateShield(1000, 5000)

	if gs.UpdateShield(5999) {
		t.Error("shield should still be active at 5999ms")
	}
	if got := gs.ShieldRemainingMs(5000); got != 1000 {
		t.Errorf("remaining: got %v, want 1000", got)
	}
	if !gs.UpdateShield(6000) {
		t.Error("shield should expire at 6000ms")
	}
	if gs.ShieldActive() {
		t.Error("shield still active after expiry")
	}
	if gs.UpdateShield(7000) {
		t.Error("expiry should be reported once")
	}
}

// TestResetRestoresFreshState 测试 Reset
func TestResetRestoresFreshState(t *testing.T) {
	gs := newTestState()
	gs.Activate()
	gs.AddScore(230)
	gs.AdjustHealth(-4)
	gs.ActivateShield(0, 100)

	gs.Reset()

	if gs.Score() != 0 || gs.Health() != 10 || gs.SpeedMultiplier() != 1.0 ||
		gs.LastScoreCheckpoint() != 0 || gs.IsActive() || gs.ShieldActive() {
		t.Errorf("state not reset: score=%d health=%d mult=%v", gs.Score(), gs.Health(), gs.SpeedMultiplier())
	}
}

// TestGameStateProperties 属性测试:任意加分/扣血序列下的不变量
func TestGameStateProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ceiling := rapid.IntRange(1, 20).Draw(t, "ceiling")
		initial := rapid.IntRange(1, ceiling).Draw(t, "initial")
		base := rapid.Float64Range(1, 2).Draw(t, "base")
		gs := NewGameState(
			config.HealthConfig{Initial: initial, Ceiling: ceiling},
			config.SpeedConfig{BaseMultiplier: base, CheckpointInterval: 100, CheckpointFactor: 1.1},
		)

		ops := rapid.SliceOfN(rapid.IntRange(-30, 300), 1, 100).Draw(t, "ops")
		prevMult := gs.SpeedMultiplier()
		for _, op := range ops {
			if op < 0 {
				gs.AdjustHealth(op / 10)
			} else if op%7 == 0 {
				gs.AdjustHealth(1)
			} else {
				gs.AddScore(op)
			}

			if gs.Health() < 0 || gs.Health() > ceiling {
				t.Fatalf("health %d out of [0,%d]", gs.Health(), ceiling)
			}
			if gs.Score() < 0 {
				t.Fatalf("negative score %d", gs.Score())
			}
			if gs.SpeedMultiplier() < prevMult {
				t.Fatalf("multiplier decreased: %v -> %v", prevMult, gs.SpeedMultiplier())
			}
			prevMult = gs.SpeedMultiplier()
		}

		want := base * math.Pow(1.1, float64(gs.CheckpointsCrossed()))
		if math.Abs(gs.SpeedMultiplier()-want) > 1e-9*want {
			t.Fatalf("multiplier %v, want base*1.1^%d = %v", gs.SpeedMultiplier(), gs.CheckpointsCrossed(), want)
		}
	})
}
