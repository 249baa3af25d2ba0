package systems

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/gonewx/tears-of-aya/pkg/components"
	"github.com/gonewx/tears-of-aya/pkg/config"
	"github.com/gonewx/tears-of-aya/pkg/ecs"
	"github.com/gonewx/tears-of-aya/pkg/entities"
)

func newTeardrop(t *testing.T, em *ecs.EntityManager, cfg *config.VariantConfig, x float64) (ecs.EntityID, *components.FallingItemComponent) {
	t.Helper()
	id, err := entities.NewTeardropEntity(em, cfg, components.CategoryBasic, x, 1, newTestRand(5))
	if err != nil {
		t.Fatalf("NewTeardropEntity failed: %v", err)
	}
	item, _ := ecs.GetComponent[*components.FallingItemComponent](em, id)
	return id, item
}

// TestFallingItemSlidesAndBounces 测试滑动与边缘反弹
func TestFallingItemSlidesAndBounces(t *testing.T) {
	cfg := config.MustLoadVariant("tears")
	em := ecs.NewEntityManager()
	sys := NewFallingItemSystem(em, cfg, newTestRand(1))

	id, item := newTeardrop(t, em, cfg, 1)
	item.SlideDirection = -1
	item.SlideDurationLimit = 1000
	pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
	startY := pos.Y

	sys.Update(1.0 / 60)
	if pos.X != 0 || item.SlideDirection != 1 {
		t.Errorf("expected bounce at left edge: x=%v dir=%v", pos.X, item.SlideDirection)
	}

	sys.Update(1.0 / 60)
	if pos.X != cfg.Teardrop.SlideSpeed {
		t.Errorf("X after bounce: got %v, want %v", pos.X, cfg.Teardrop.SlideSpeed)
	}
	if pos.Y != startY {
		t.Errorf("Y must stay frozen while sliding: %v -> %v", startY, pos.Y)
	}
	if item.SlideElapsed != 2 {
		t.Errorf("SlideElapsed: got %d, want 2", item.SlideElapsed)
	}
}

// TestFallingItemFormsAndFalls 测试没有假动作时成形后下落
func TestFallingItemFormsAndFalls(t *testing.T) {
	cfg := config.MustLoadVariant("tears")
	em := ecs.NewEntityManager()
	sys := NewFallingItemSystem(em, cfg, newTestRand(1))

	id, item := newTeardrop(t, em, cfg, 200)
	item.WillFakeOut = false
	item.SlideDurationLimit = 3
	pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
	col, _ := ecs.GetComponent[*components.CollisionComponent](em, id)

	for i := 0; i < 3; i++ {
		sys.Update(1.0 / 60)
	}
	if item.State != components.ItemForming {
		t.Fatalf("State after slide: got %s, want Forming", item.State)
	}

	frames := 0
	centre := pos.X + col.Width/2
	for item.State == components.ItemForming {
		sys.Update(1.0 / 60)
		frames++
		if frames > 1000 {
			t.Fatal("teardrop never finished forming")
		}
		if c := pos.X + col.Width/2; c-centre > 1e-9 || centre-c > 1e-9 {
			t.Fatalf("horizontal centre moved while forming: %v -> %v", centre, c)
		}
	}
	if item.State != components.ItemFalling || !item.HasFormed {
		t.Fatalf("State: got %s (formed=%v), want Falling", item.State, item.HasFormed)
	}
	if col.Width != cfg.Teardrop.Width || col.Height != cfg.Teardrop.Height {
		t.Errorf("falling shape: got %vx%v, want full %vx%v", col.Width, col.Height, cfg.Teardrop.Width, cfg.Teardrop.Height)
	}

	x, y := pos.X, pos.Y
	sys.Update(1.0 / 60)
	if pos.X != x {
		t.Errorf("X must be frozen while falling: %v -> %v", x, pos.X)
	}
	if pos.Y != y+item.FallSpeed {
		t.Errorf("Y: got %v, want %v", pos.Y, y+item.FallSpeed)
	}
}

// TestFallingItemFakeOutCycle 测试假动作循环与次数上限
func TestFallingItemFakeOutCycle(t *testing.T) {
	cfg := config.MustLoadVariant("tears")
	em := ecs.NewEntityManager()
	sys := NewFallingItemSystem(em, cfg, newTestRand(1))

	_, item := newTeardrop(t, em, cfg, 200)
	item.WillFakeOut = true
	item.FakeOutLimit = 2
	item.SlideDurationLimit = 1

	seen := map[components.ItemState]bool{}
	for i := 0; i < 5000 && item.State != components.ItemFalling; i++ {
		prev := item.State
		sys.Update(1.0 / 60)
		seen[item.State] = true

		if prev == components.ItemFaking && item.State == components.ItemSliding {
			if item.SlideElapsed != 0 {
				t.Errorf("SlideElapsed not reset after fake-out")
			}
			if item.SlideDurationLimit < cfg.Teardrop.SlideMinFrames || item.SlideDurationLimit > cfg.Teardrop.SlideMaxFrames {
				t.Errorf("SlideDurationLimit %d not re-randomized into range", item.SlideDurationLimit)
			}
		}
	}

	if item.State != components.ItemFalling {
		t.Fatalf("teardrop never fell, state %s", item.State)
	}
	if !seen[components.ItemFaking] {
		t.Error("teardrop never faked out")
	}
	if item.FakeOutCount != 2 {
		t.Errorf("FakeOutCount: got %d, want 2", item.FakeOutCount)
	}
}

// TestShieldFallsStraight 测试护盾直线下落
func TestShieldFallsStraight(t *testing.T) {
	cfg := config.MustLoadVariant("blood")
	em := ecs.NewEntityManager()
	sys := NewFallingItemSystem(em, cfg, newTestRand(1))

	id, _ := entities.NewShieldEntity(em, cfg, 100)
	pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
	x, y := pos.X, pos.Y

	sys.Update(1.0 / 60)
	if pos.X != x || pos.Y != y+cfg.Shield.FallSpeed {
		t.Errorf("shield moved to (%v,%v), want (%v,%v)", pos.X, pos.Y, x, y+cfg.Shield.FallSpeed)
	}
}

// TestFallingItemProperties 属性测试:任意帧数下成形进度在 [0,1],
// 且 Falling 之前必然完整成形过一次
func TestFallingItemProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		variant := rapid.SampledFrom([]string{"tears", "blood"}).Draw(t, "variant")
		cfg := config.MustLoadVariant(variant)
		seed := rapid.Int64().Draw(t, "seed")
		rng := newTestRand(seed)
		em := ecs.NewEntityManager()
		sys := NewFallingItemSystem(em, cfg, rng)

		count := rapid.IntRange(1, 8).Draw(t, "count")
		for i := 0; i < count; i++ {
			x := rapid.Float64Range(-50, cfg.Playfield.Width+50).Draw(t, "x")
			cat := rapid.SampledFrom(components.FallingCategories).Draw(t, "category")
			if _, err := entities.NewTeardropEntity(em, cfg, cat, x, 1, rng); err != nil {
				t.Fatalf("NewTeardropEntity: %v", err)
			}
		}

		frames := rapid.IntRange(1, 1500).Draw(t, "frames")
		for f := 0; f < frames; f++ {
			sys.Update(1.0 / 60)
			for _, id := range ecs.GetEntitiesWith1[*components.FallingItemComponent](em) {
				item, _ := ecs.GetComponent[*components.FallingItemComponent](em, id)
				pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
				col, _ := ecs.GetComponent[*components.CollisionComponent](em, id)

				if item.FormationProgress < 0 || item.FormationProgress > 1 {
					t.Fatalf("frame %d: progress %v out of [0,1]", f, item.FormationProgress)
				}
				if item.State == components.ItemFalling && !item.HasFormed {
					t.Fatalf("frame %d: falling without having formed", f)
				}
				if item.FakeOutCount > item.FakeOutLimit {
					t.Fatalf("frame %d: fake-outs %d exceed limit %d", f, item.FakeOutCount, item.FakeOutLimit)
				}
				if item.State != components.ItemFalling && pos.Y != cfg.Playfield.CeilingY {
					t.Fatalf("frame %d: %s item left the ceiling (y=%v)", f, item.State, pos.Y)
				}
				if pos.X < 0 || pos.X+col.Width > cfg.Playfield.Width+1e-9 {
					t.Fatalf("frame %d: item outside playfield x=%v w=%v", f, pos.X, col.Width)
				}
			}
		}
	})
}
