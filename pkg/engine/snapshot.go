package engine

import (
	"github.com/gonewx/tears-of-aya/pkg/components"
	"github.com/gonewx/tears-of-aya/pkg/config"
	"github.com/gonewx/tears-of-aya/pkg/ecs"
)

// RenderSink 每帧接收一次只读快照,不能影响模拟状态
type RenderSink interface {
	Render(snapshot Snapshot)
}

// RenderFunc 让普通函数实现 RenderSink
type RenderFunc func(Snapshot)

// Render 实现 RenderSink
func (f RenderFunc) Render(s Snapshot) { f(s) }

// CatcherView 接取器
type CatcherView struct {
	X, Y, Width, Height float64
}

// ItemView 泪滴
type ItemView struct {
	ID                ecs.EntityID
	Category          components.ItemCategory
	State             components.ItemState
	X, Y              float64
	Width, Height     float64
	FormationProgress float64
}

// ShieldView 护盾拾取物
type ShieldView struct {
	ID   ecs.EntityID
	X, Y float64
	Size float64
}

// FeedbackView 飘字 + 水花
type FeedbackView struct {
	X, Y     float64
	Text     string
	Style    components.FeedbackStyle
	Opacity  float64
	Droplets []components.Droplet // 副本,相对 (X, Y) 的偏移
}

// Snapshot 一帧结束时的完整可渲染状态
// 所有切片都是副本,渲染端可以随意持有
type Snapshot struct {
	Frame     uint64
	ClockMs   float64
	Variant   string
	Title     string
	Playfield config.PlayfieldConfig

	Catcher  CatcherView
	Items    []ItemView // 按创建顺序
	Shields  []ShieldView
	Feedback []FeedbackView

	Score             int
	Health            int
	HealthCeiling     int
	SpeedMultiplier   float64
	ShieldActive      bool
	ShieldRemainingMs float64
	Active            bool
	GameOver          bool
}

// ItemsOf 返回指定类别的泪滴
func (s Snapshot) ItemsOf(category components.ItemCategory) []ItemView {
	var out []ItemView
	for _, it := range s.Items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

// buildSnapshot 从实体管理器收集快照
func (g *GameManager) buildSnapshot() Snapshot {
	snap := Snapshot{
		Frame:             g.frame,
		ClockMs:           g.clockMs,
		Variant:           g.cfg.Name,
		Title:             g.cfg.Title,
		Playfield:         g.cfg.Playfield,
		Score:             g.state.Score(),
		Health:            g.state.Health(),
		HealthCeiling:     g.state.HealthCeiling(),
		SpeedMultiplier:   g.state.SpeedMultiplier(),
		ShieldActive:      g.state.ShieldActive(),
		ShieldRemainingMs: g.state.ShieldRemainingMs(g.clockMs),
		Active:            g.state.IsActive(),
		GameOver:          g.gameOverFired,
	}

	em := g.entityManager
	if pos, ok := ecs.GetComponent[*components.PositionComponent](em, g.catcher); ok {
		if col, ok := ecs.GetComponent[*components.CollisionComponent](em, g.catcher); ok {
			snap.Catcher = CatcherView{X: pos.X, Y: pos.Y, Width: col.Width, Height: col.Height}
		}
	}

	for _, id := range ecs.GetEntitiesWith3[*components.FallingItemComponent, *components.PositionComponent, *components.CollisionComponent](em) {
		item, _ := ecs.GetComponent[*components.FallingItemComponent](em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		col, _ := ecs.GetComponent[*components.CollisionComponent](em, id)
		snap.Items = append(snap.Items, ItemView{
			ID:                id,
			Category:          item.Category,
			State:             item.State,
			X:                 pos.X,
			Y:                 pos.Y,
			Width:             col.Width,
			Height:            col.Height,
			FormationProgress: item.FormationProgress,
		})
	}

	for _, id := range ecs.GetEntitiesWith3[*components.ShieldPickupComponent, *components.PositionComponent, *components.CollisionComponent](em) {
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		col, _ := ecs.GetComponent[*components.CollisionComponent](em, id)
		snap.Shields = append(snap.Shields, ShieldView{ID: id, X: pos.X, Y: pos.Y, Size: col.Width})
	}

	for _, id := range ecs.GetEntitiesWith2[*components.FeedbackComponent, *components.PositionComponent](em) {
		fb, _ := ecs.GetComponent[*components.FeedbackComponent](em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		snap.Feedback = append(snap.Feedback, FeedbackView{
			X:        pos.X,
			Y:        pos.Y,
			Text:     fb.Text,
			Style:    fb.Style,
			Opacity:  fb.Opacity,
			Droplets: append([]components.Droplet(nil), fb.Droplets...),
		})
	}

	return snap
}
