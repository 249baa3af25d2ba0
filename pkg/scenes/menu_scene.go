package scenes

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/gonewx/tears-of-aya/pkg/config"
	"github.com/gonewx/tears-of-aya/pkg/render"
	"github.com/gonewx/tears-of-aya/pkg/session"
	"github.com/gonewx/tears-of-aya/pkg/utils"
)

// MenuScene 主菜单:选择变体、模式,开始游戏
type MenuScene struct {
	deps   *Deps
	model  *menuModel
	face   text.Face
	titles map[string]string

	// 付费模式下异步查询的剩余次数
	attempts      chan attemptsResult
	attemptsText  string
	attemptsDirty bool
}

type attemptsResult struct {
	remaining int
	err       error
}

// NewMenuScene 创建主菜单,默认选中上次的变体和模式
func NewMenuScene(deps *Deps) *MenuScene {
	lastVariant, lastMode, music := "tears", string(session.ModeFree), true
	if deps.Settings != nil {
		s := deps.Settings.GetSettings()
		if s.LastVariant != "" {
			lastVariant = s.LastVariant
		}
		if s.LastMode != "" {
			lastMode = s.LastMode
		}
		music = s.MusicEnabled
	}

	scene := &MenuScene{
		deps:          deps,
		model:         newMenuModel(config.VariantNames(), lastVariant, lastMode, music),
		attempts:      make(chan attemptsResult, 1),
		attemptsDirty: true,
		titles:        make(map[string]string),
	}
	for _, name := range scene.model.variants {
		if cfg, err := config.LoadVariant(name); err == nil {
			scene.titles[name] = cfg.Title
		}
	}
	if deps.Resources != nil {
		scene.face = deps.Resources.HUDFace()
	} else {
		scene.face = text.NewGoXFace(basicfont.Face7x13)
	}
	return scene
}

// Update 处理菜单输入
func (s *MenuScene) Update(deltaTime float64) {
	s.pollAttempts()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) || inpututil.IsKeyJustPressed(ebiten.KeyW):
		s.model.Move(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) || inpututil.IsKeyJustPressed(ebiten.KeyS):
		s.model.Move(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) || inpututil.IsKeyJustPressed(ebiten.KeyA):
		s.change(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) || inpututil.IsKeyJustPressed(ebiten.KeyD):
		s.change(1)
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		_, y := ebiten.CursorPosition()
		if row, ok := s.rowAt(float64(y)); ok {
			s.model.cursor = row
			s.change(1)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace):
		s.change(1)
	}
}

// change 修改当前行,处理音乐开关和开始
func (s *MenuScene) change(delta int) {
	prevMode := s.model.Mode()
	start := s.model.Change(delta)

	if s.model.cursor == rowMusic && s.deps.Settings != nil {
		s.deps.Settings.SetMusicEnabled(s.model.music)
		s.deps.saveSettings()
	}
	if s.model.Mode() != prevMode {
		s.attemptsDirty = true
	}
	if start {
		s.start()
	}
}

// start 保存选择并进入游戏场景
func (s *MenuScene) start() {
	choice := s.model.Choice()
	if s.deps.Settings != nil {
		s.deps.Settings.SetLastChoice(choice.Variant, choice.Mode)
		s.deps.saveSettings()
	}
	if s.deps.Audio != nil {
		s.deps.Audio.PlaySound("catch_basic")
	}
	s.deps.Scenes.StartPlay(choice)
}

// pollAttempts 付费模式时查询剩余次数,不阻塞帧循环
func (s *MenuScene) pollAttempts() {
	select {
	case res := <-s.attempts:
		switch {
		case errors.Is(res.err, session.ErrWalletRequired):
			s.attemptsText = "paid mode needs a wallet (--wallet)"
		case res.err != nil:
			s.attemptsText = "attempts unavailable"
			logger.Warn().Err(res.err).Msg("failed to query attempts")
		default:
			s.attemptsText = fmt.Sprintf("attempts left: %d", res.remaining)
		}
	default:
	}

	if !s.attemptsDirty {
		return
	}
	s.attemptsDirty = false
	if s.model.Mode() != session.ModePaid {
		s.attemptsText = ""
		return
	}

	sess := session.NewPlaySession(session.Options{
		Mode:   session.ModePaid,
		Wallet: s.deps.wallet(),
		Gate:   s.deps.Gate,
	})
	s.attemptsText = "checking attempts..."
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		n, err := sess.Remaining(ctx)
		s.attempts <- attemptsResult{remaining: n, err: err}
	}()
}

// menuTop 第一行菜单的 Y 坐标
func menuTop() float64 {
	return float64(config.GameWindowHeight)/2 - config.MenuItemSpacing
}

// rowAt 屏幕 Y 坐标对应的菜单行
func (s *MenuScene) rowAt(y float64) (int, bool) {
	row := int((y - menuTop() + config.MenuItemSpacing/2) / config.MenuItemSpacing)
	if y < menuTop()-config.MenuItemSpacing/2 || row < 0 || row >= rowCount {
		return 0, false
	}
	return row, true
}

// Draw 绘制菜单
func (s *MenuScene) Draw(screen *ebiten.Image) {
	pal := render.PaletteFor(s.model.Variant())
	screen.Fill(pal.SkyTop)

	cx := float64(config.GameWindowWidth) / 2
	title, ok := s.titles[s.model.Variant()]
	if !ok {
		title = "Tears of Aya"
	}
	render.DrawCenteredLines(screen, s.face, []string{title}, cx, menuTop()-3*config.MenuItemSpacing, pal.Text)

	for i, line := range s.model.Lines() {
		clr := color.Color(pal.Text)
		if i == s.model.cursor {
			clr = pal.Heart
		}
		render.DrawCenteredLines(screen, s.face, []string{line}, cx, menuTop()+float64(i)*config.MenuItemSpacing, clr)
	}

	var footer []string
	if s.deps.Settings != nil {
		footer = append(footer, fmt.Sprintf("best: %d", s.deps.Settings.BestScore(s.model.Variant())))
	}
	if s.attemptsText != "" {
		footer = append(footer, s.attemptsText)
	}
	footer = append(footer, "", controlsHint())
	render.DrawCenteredLines(screen, s.face, footer, cx, menuTop()+float64(rowCount+2)*config.MenuItemSpacing, pal.Text)
}

// controlsHint 底部操作提示,移动端只有触屏
func controlsHint() string {
	if utils.IsMobile() {
		return "tap a row to choose"
	}
	return "arrows: choose   enter: select   F11: fullscreen"
}
