package scenes

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/gonewx/tears-of-aya/pkg/config"
	"github.com/gonewx/tears-of-aya/pkg/game"
	"github.com/gonewx/tears-of-aya/pkg/render"
	"github.com/gonewx/tears-of-aya/pkg/session"
)

// GameOverScene 结算:分数、最高分、上报结果,可以再来一局
type GameOverScene struct {
	deps   *Deps
	choice game.PlayChoice
	lines  []string
	face   text.Face
}

// NewGameOverScene 创建结算场景
func NewGameOverScene(deps *Deps, choice game.PlayChoice, res session.Result) *GameOverScene {
	best := res.Score
	if deps.Settings != nil {
		best = deps.Settings.BestScore(choice.Variant)
	}

	scene := &GameOverScene{
		deps:   deps,
		choice: choice,
		lines:  resultLines(res, best),
	}
	if deps.Resources != nil {
		scene.face = deps.Resources.HUDFace()
	} else {
		scene.face = text.NewGoXFace(basicfont.Face7x13)
	}
	return scene
}

// resultLines 结算文字
func resultLines(res session.Result, best int) []string {
	lines := []string{"GAME OVER", "", fmt.Sprintf("score: %d", res.Score)}
	if res.NewBest {
		lines = append(lines, "new best!")
	} else {
		lines = append(lines, fmt.Sprintf("best: %d", best))
	}
	switch {
	case res.Submitted:
		lines = append(lines, "score submitted")
	case res.SubmitErr != nil:
		lines = append(lines, "score not submitted")
	}
	return append(lines, "", "enter: play again   esc: menu")
}

// Update 处理再来一局 / 返回菜单
func (s *GameOverScene) Update(deltaTime float64) {
	switch {
	case backPressed():
		s.deps.Scenes.SwitchTo(NewMenuScene(s.deps))
	case confirmPressed():
		if !s.deps.Scenes.StartPlay(s.choice) {
			s.deps.Scenes.SwitchTo(NewMenuScene(s.deps))
		}
	}
}

// Draw 绘制结算信息
func (s *GameOverScene) Draw(screen *ebiten.Image) {
	pal := render.PaletteFor(s.choice.Variant)
	screen.Fill(pal.SkyBottom)
	render.DrawCenteredLines(screen, s.face, s.lines,
		float64(config.GameWindowWidth)/2, float64(config.GameWindowHeight)/2, pal.Text)
}
