package entities

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/gonewx/tears-of-aya/pkg/components"
	"github.com/gonewx/tears-of-aya/pkg/config"
	"github.com/gonewx/tears-of-aya/pkg/ecs"
)

// TestNewTeardropEntity 测试泪滴初始状态
func TestNewTeardropEntity(t *testing.T) {
	cfg := config.MustLoadVariant("tears")
	em := ecs.NewEntityManager()
	rng := rand.New(rand.NewSource(1))

	id, err := NewTeardropEntity(em, cfg, components.CategoryBonus, 100, 1.5, rng)
	if err != nil {
		t.Fatalf("NewTeardropEntity failed: %v", err)
	}

	item, ok := ecs.GetComponent[*components.FallingItemComponent](em, id)
	if !ok {
		t.Fatal("missing FallingItemComponent")
	}
	if item.State != components.ItemSliding {
		t.Errorf("State: got %s, want Sliding", item.State)
	}
	if item.FormationProgress != 0 {
		t.Errorf("FormationProgress: got %v, want 0", item.FormationProgress)
	}
	if item.SlideDirection != -1 && item.SlideDirection != 1 {
		t.Errorf("SlideDirection: got %v", item.SlideDirection)
	}
	td := cfg.Teardrop
	if item.SlideDurationLimit < td.SlideMinFrames || item.SlideDurationLimit > td.SlideMaxFrames {
		t.Errorf("SlideDurationLimit %d outside [%d,%d]", item.SlideDurationLimit, td.SlideMinFrames, td.SlideMaxFrames)
	}
	if item.FakeOutLimit < td.FakeOutMin || item.FakeOutLimit > td.FakeOutMax {
		t.Errorf("FakeOutLimit %d outside [%d,%d]", item.FakeOutLimit, td.FakeOutMin, td.FakeOutMax)
	}
	if want := cfg.Items.Bonus.FallSpeed * 1.5; item.FallSpeed != want {
		t.Errorf("FallSpeed: got %v, want %v", item.FallSpeed, want)
	}

	pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
	if pos.Y != cfg.Playfield.CeilingY {
		t.Errorf("Y: got %v, want ceiling %v", pos.Y, cfg.Playfield.CeilingY)
	}
	col, _ := ecs.GetComponent[*components.CollisionComponent](em, id)
	if col.Width != td.PuddleWidth || col.Height != td.PuddleHeight {
		t.Errorf("size: got %vx%v, want puddle %vx%v", col.Width, col.Height, td.PuddleWidth, td.PuddleHeight)
	}
}

// TestNewTeardropEntityClampsX 测试起始位置被钳制到游戏区域内
func TestNewTeardropEntityClampsX(t *testing.T) {
	cfg := config.MustLoadVariant("tears")
	em := ecs.NewEntityManager()
	rng := rand.New(rand.NewSource(1))

	id, err := NewTeardropEntity(em, cfg, components.CategoryBasic, cfg.Playfield.Width+50, 1, rng)
	if err != nil {
		t.Fatalf("NewTeardropEntity failed: %v", err)
	}
	pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
	if want := cfg.Playfield.Width - cfg.Teardrop.PuddleWidth; pos.X != want {
		t.Errorf("X: got %v, want %v", pos.X, want)
	}
}

// TestNewTeardropEntityRejectsInvalid 测试非法参数
func TestNewTeardropEntityRejectsInvalid(t *testing.T) {
	cfg := config.MustLoadVariant("blood")
	em := ecs.NewEntityManager()
	rng := rand.New(rand.NewSource(1))

	if _, err := NewTeardropEntity(em, cfg, components.CategoryBasic, math.NaN(), 1, rng); !errors.Is(err, ErrInvalidCoordinates) {
		t.Errorf("NaN x: got %v, want ErrInvalidCoordinates", err)
	}
	if _, err := NewTeardropEntity(em, cfg, components.CategoryShield, 10, 1, rng); err == nil {
		t.Error("shield category should be rejected")
	}
	if em.Count() != 0 {
		t.Errorf("no entity should be created on error, got %d", em.Count())
	}
}

// TestWillFakeOutRate 测试假动作概率大致为配置值
func TestWillFakeOutRate(t *testing.T) {
	cfg := config.MustLoadVariant("tears")
	em := ecs.NewEntityManager()
	rng := rand.New(rand.NewSource(99))

	const n = 2000
	fakes := 0
	for i := 0; i < n; i++ {
		id, err := NewTeardropEntity(em, cfg, components.CategoryBasic, 10, 1, rng)
		if err != nil {
			t.Fatal(err)
		}
		item, _ := ecs.GetComponent[*components.FallingItemComponent](em, id)
		if item.WillFakeOut {
			fakes++
		}
	}
	rate := float64(fakes) / n
	if math.Abs(rate-cfg.Teardrop.FakeOutChance) > 0.05 {
		t.Errorf("fake-out rate %.3f too far from %.2f", rate, cfg.Teardrop.FakeOutChance)
	}
}

// TestNewShieldEntity 测试护盾拾取物
func TestNewShieldEntity(t *testing.T) {
	em := ecs.NewEntityManager()

	if _, err := NewShieldEntity(em, config.MustLoadVariant("tears"), 10); err == nil {
		t.Error("tears variant should reject shield")
	}

	cfg := config.MustLoadVariant("blood")
	id, err := NewShieldEntity(em, cfg, 200)
	if err != nil {
		t.Fatalf("NewShieldEntity failed: %v", err)
	}
	vel, _ := ecs.GetComponent[*components.VelocityComponent](em, id)
	if vel.VY != cfg.Shield.FallSpeed {
		t.Errorf("VY: got %v, want %v", vel.VY, cfg.Shield.FallSpeed)
	}
	shield, ok := ecs.GetComponent[*components.ShieldPickupComponent](em, id)
	if !ok || shield.DurationMs != cfg.Shield.DurationMs {
		t.Errorf("shield component missing or wrong duration")
	}
}

// TestNewCatcherEntity 测试接取器居中
func TestNewCatcherEntity(t *testing.T) {
	cfg := config.MustLoadVariant("tears")
	em := ecs.NewEntityManager()

	id := NewCatcherEntity(em, cfg)
	pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
	if want := (cfg.Playfield.Width - cfg.Catcher.Width) / 2; pos.X != want {
		t.Errorf("X: got %v, want %v", pos.X, want)
	}
	if want := cfg.Catcher.Y(cfg.Playfield.Height); pos.Y != want {
		t.Errorf("Y: got %v, want %v", pos.Y, want)
	}
}

// TestNewFeedbackEntity 测试反馈事件与坐标校验
func TestNewFeedbackEntity(t *testing.T) {
	cfg := config.MustLoadVariant("blood")
	em := ecs.NewEntityManager()
	rng := rand.New(rand.NewSource(3))

	id, err := NewFeedbackEntity(em, cfg.Feedback, 100, 600, "+3", components.StyleBasic, rng)
	if err != nil {
		t.Fatalf("NewFeedbackEntity failed: %v", err)
	}
	fb, _ := ecs.GetComponent[*components.FeedbackComponent](em, id)
	if fb.Opacity != 1 {
		t.Errorf("Opacity: got %v, want 1", fb.Opacity)
	}
	if len(fb.Droplets) != cfg.Feedback.Droplets {
		t.Errorf("Droplets: got %d, want %d", len(fb.Droplets), cfg.Feedback.Droplets)
	}
	for _, d := range fb.Droplets {
		if d.VY > 1e-9 {
			t.Errorf("droplet should splash upward, VY=%v", d.VY)
		}
	}

	for _, bad := range [][2]float64{{math.NaN(), 0}, {0, math.Inf(1)}, {math.Inf(-1), math.NaN()}} {
		if _, err := NewFeedbackEntity(em, cfg.Feedback, bad[0], bad[1], "x", components.StyleMiss, rng); !errors.Is(err, ErrInvalidCoordinates) {
			t.Errorf("(%v,%v): got %v, want ErrInvalidCoordinates", bad[0], bad[1], err)
		}
	}
	if em.Count() != 1 {
		t.Errorf("Count: got %d, want 1", em.Count())
	}
}
