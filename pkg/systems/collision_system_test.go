package systems

import (
	"testing"

	"github.com/gonewx/tears-of-aya/pkg/components"
	"github.com/gonewx/tears-of-aya/pkg/config"
	"github.com/gonewx/tears-of-aya/pkg/ecs"
	"github.com/gonewx/tears-of-aya/pkg/entities"
)

// TestRectOverlaps 测试 AABB 判定
func TestRectOverlaps(t *testing.T) {
	catcher := Rect{X: 100, Y: 100, Width: 100, Height: 20}
	tests := []struct {
		name string
		item Rect
		want bool
	}{
		{"完全包含", Rect{X: 140, Y: 105, Width: 10, Height: 10}, true},
		{"部分重叠", Rect{X: 90, Y: 90, Width: 20, Height: 20}, true},
		{"左边相接", Rect{X: 80, Y: 105, Width: 20, Height: 10}, true},
		{"上边相接", Rect{X: 140, Y: 80, Width: 10, Height: 20}, true},
		{"左侧分离", Rect{X: 70, Y: 105, Width: 20, Height: 10}, false},
		{"右侧分离", Rect{X: 201, Y: 105, Width: 20, Height: 10}, false},
		{"上方分离", Rect{X: 140, Y: 60, Width: 10, Height: 30}, false},
		{"下方分离", Rect{X: 140, Y: 121, Width: 10, Height: 10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.Overlaps(catcher); got != tt.want {
				t.Errorf("Overlaps: got %v, want %v", got, tt.want)
			}
			if got := catcher.Overlaps(tt.item); got != tt.want {
				t.Errorf("Overlaps should be symmetric")
			}
		})
	}
}

// TestShieldHit 测试护盾的中心点判定
func TestShieldHit(t *testing.T) {
	catcher := Rect{X: 100, Y: 100, Width: 100, Height: 20}
	tests := []struct {
		name   string
		shield Rect
		want   bool
	}{
		{"正中", Rect{X: 136, Y: 90, Width: 28, Height: 28}, true},
		{"中心在半宽内", Rect{X: 185, Y: 90, Width: 28, Height: 28}, true},
		// 盒子重叠但中心在接取器外:AABB 会命中,护盾判定不命中
		{"盒子重叠但中心在外", Rect{X: 190, Y: 90, Width: 28, Height: 28}, false},
		{"垂直未到", Rect{X: 136, Y: 50, Width: 28, Height: 28}, false},
		{"垂直已过", Rect{X: 136, Y: 121, Width: 28, Height: 28}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShieldHit(tt.shield, catcher); got != tt.want {
				t.Errorf("ShieldHit: got %v, want %v", got, tt.want)
			}
		})
	}
}

// placeItem 把实体放到指定位置并设置为下落状态
func placeItem(t *testing.T, em *ecs.EntityManager, id ecs.EntityID, x, y float64) {
	t.Helper()
	pos, ok := ecs.GetComponent[*components.PositionComponent](em, id)
	if !ok {
		t.Fatalf("entity %d has no position", id)
	}
	pos.X, pos.Y = x, y
	if item, ok := ecs.GetComponent[*components.FallingItemComponent](em, id); ok {
		item.State = components.ItemFalling
	}
}

// TestCollisionSystemCatchesAndMisses 测试接住与错过
func TestCollisionSystemCatchesAndMisses(t *testing.T) {
	cfg := config.MustLoadVariant("blood")
	em := ecs.NewEntityManager()
	rng := newTestRand(1)
	catcher := entities.NewCatcherEntity(em, cfg)
	cpos, _ := ecs.GetComponent[*components.PositionComponent](em, catcher)

	caughtID, _ := entities.NewTeardropEntity(em, cfg, components.CategoryBasic, 0, 1, rng)
	placeItem(t, em, caughtID, cpos.X+10, cpos.Y-5)

	missedID, _ := entities.NewTeardropEntity(em, cfg, components.CategoryHazard, 0, 1, rng)
	placeItem(t, em, missedID, 5, cfg.Playfield.Height+1)

	idleID, _ := entities.NewTeardropEntity(em, cfg, components.CategoryHeal, 0, 1, rng)

	shieldID, _ := entities.NewShieldEntity(em, cfg, 0)
	placeItem(t, em, shieldID, cpos.X+cfg.Catcher.Width/2-cfg.Shield.Size/2, cpos.Y-10)

	cs := NewCollisionSystem(em, cfg.Playfield.Height)
	caught := cs.ResolveCatches(catcher)
	if len(caught) != 2 {
		t.Fatalf("caught: got %d, want 2", len(caught))
	}
	// 倒序处理:后创建的护盾先被处理
	if caught[0].Entity != shieldID || caught[0].Category != components.CategoryShield {
		t.Errorf("first caught: got %+v, want shield %d", caught[0], shieldID)
	}
	if caught[1].Entity != caughtID || caught[1].Category != components.CategoryBasic {
		t.Errorf("second caught: got %+v, want basic %d", caught[1], caughtID)
	}

	missed := cs.CollectMisses()
	if len(missed) != 1 || missed[0].Entity != missedID || missed[0].Category != components.CategoryHazard {
		t.Fatalf("missed: got %+v, want hazard %d", missed, missedID)
	}

	// 同一帧内再次检测不会重复结算
	if again := cs.ResolveCatches(catcher); len(again) != 0 {
		t.Errorf("second resolve returned %d events", len(again))
	}

	em.RemoveMarkedEntities()
	if !em.Exists(idleID) || em.Exists(caughtID) || em.Exists(missedID) || em.Exists(shieldID) {
		t.Error("only the idle teardrop should survive")
	}
}

// TestCollisionSystemShieldMiss 测试护盾掉出游戏区域
func TestCollisionSystemShieldMiss(t *testing.T) {
	cfg := config.MustLoadVariant("blood")
	em := ecs.NewEntityManager()
	shieldID, _ := entities.NewShieldEntity(em, cfg, 10)
	placeItem(t, em, shieldID, 10, cfg.Playfield.Height+0.5)

	missed := NewCollisionSystem(em, cfg.Playfield.Height).CollectMisses()
	if len(missed) != 1 || missed[0].Category != components.CategoryShield {
		t.Fatalf("missed: got %+v, want one shield", missed)
	}
}
