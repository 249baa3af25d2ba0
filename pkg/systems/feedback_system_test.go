package systems

import (
	"testing"

	"github.com/gonewx/tears-of-aya/pkg/components"
	"github.com/gonewx/tears-of-aya/pkg/config"
	"github.com/gonewx/tears-of-aya/pkg/ecs"
	"github.com/gonewx/tears-of-aya/pkg/entities"
)

// TestFeedbackSystemDecayAndPrune 测试透明度衰减与删除
func TestFeedbackSystemDecayAndPrune(t *testing.T) {
	cfg := config.MustLoadVariant("tears")
	em := ecs.NewEntityManager()
	sys := NewFeedbackSystem(em)

	id, err := entities.NewFeedbackEntity(em, cfg.Feedback, 100, 500, "+2", components.StyleBasic, newTestRand(1))
	if err != nil {
		t.Fatal(err)
	}
	fb, _ := ecs.GetComponent[*components.FeedbackComponent](em, id)
	pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)

	sys.Update(1.0 / 60)
	if fb.Opacity >= 1 {
		t.Errorf("Opacity should decay, got %v", fb.Opacity)
	}
	if pos.Y >= 500 {
		t.Errorf("text should rise, y=%v", pos.Y)
	}

	frames := 1
	pruned := 0
	for em.Exists(id) && frames < 1000 {
		pruned += sys.Update(1.0 / 60)
		em.RemoveMarkedEntities()
		frames++
	}
	if em.Exists(id) {
		t.Fatal("feedback never pruned")
	}
	if pruned != 1 {
		t.Errorf("pruned: got %d, want 1", pruned)
	}
	// decay 0.02 → 50 帧
	if want := int(1/cfg.Feedback.Decay + 0.5); frames < want-1 || frames > want+1 {
		t.Errorf("lifetime: got %d frames, want about %d", frames, want)
	}
}

// TestFeedbackDropletsFallBack 测试水花粒子受重力影响
func TestFeedbackDropletsFallBack(t *testing.T) {
	cfg := config.MustLoadVariant("blood")
	em := ecs.NewEntityManager()
	sys := NewFeedbackSystem(em)

	id, _ := entities.NewFeedbackEntity(em, cfg.Feedback, 100, 500, "", components.StyleHazard, newTestRand(2))
	fb, _ := ecs.GetComponent[*components.FeedbackComponent](em, id)
	before := make([]float64, len(fb.Droplets))
	for i, d := range fb.Droplets {
		before[i] = d.VY
	}

	sys.Update(1.0 / 60)
	for i, d := range fb.Droplets {
		if d.VY <= before[i] {
			t.Errorf("droplet %d VY should increase with gravity: %v -> %v", i, before[i], d.VY)
		}
	}
}
