package scenes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gonewx/tears-of-aya/pkg/config"
	"github.com/gonewx/tears-of-aya/pkg/engine"
	"github.com/gonewx/tears-of-aya/pkg/game"
	"github.com/gonewx/tears-of-aya/pkg/render"
	"github.com/gonewx/tears-of-aya/pkg/session"
)

// submitTimeout 结算时上报分数的超时
const submitTimeout = 5 * time.Second

// PlayScene 游戏场景:驱动一个 GameManager 并把快照画出来
//
// 开局前通过 PlaySession 检查付费次数;游戏结束后异步上报分数,
// 结果返回后切到结算场景。离开场景时一定会执行 Cleanup。
type PlayScene struct {
	deps     *Deps
	choice   game.PlayChoice
	cfg      *config.VariantConfig
	gm       *engine.GameManager
	renderer *render.Renderer
	session  *session.PlaySession
	pointer  pointerTracker

	paused   bool
	blocked  error // 开局被拒绝的原因
	finished bool
	results  chan session.Result
}

// NewPlayScene 创建游戏场景并立即开局
// 变体不存在时返回错误;付费次数不足时场景仍然创建,只显示提示
func NewPlayScene(deps *Deps, choice game.PlayChoice) (*PlayScene, error) {
	cfg, err := config.LoadVariant(choice.Variant)
	if err != nil {
		return nil, err
	}
	mode, err := session.ParseMode(choice.Mode)
	if err != nil {
		return nil, err
	}

	scene := &PlayScene{
		deps:     deps,
		choice:   choice,
		cfg:      cfg,
		renderer: render.New(deps.Resources, cfg),
		results:  make(chan session.Result, 1),
	}
	scene.session = session.NewPlaySession(session.Options{
		Mode:      mode,
		Wallet:    deps.wallet(),
		Variant:   cfg.Name,
		Gate:      deps.Gate,
		Submitter: deps.Submitter,
	})

	scene.gm = engine.NewGameManager(cfg,
		engine.WithSeed(deps.seed()),
		engine.WithAudio(deps.audioSink()),
	)
	if err := scene.gm.Initialize(scene.renderer); err != nil {
		return nil, err
	}
	scene.gm.OnGameOver(scene.onGameOver)

	scene.begin()
	return scene, nil
}

// begin 通过付费闸门后开局
func (s *PlayScene) begin() {
	ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
	defer cancel()

	if err := s.session.BeginRun(ctx); err != nil {
		s.blocked = err
		logger.Warn().Err(err).Str("variant", s.cfg.Name).Str("mode", s.choice.Mode).Msg("run rejected")
		return
	}
	if err := s.gm.StartGame(); err != nil {
		s.session.Abort()
		s.blocked = err
		logger.Error().Err(err).Msg("failed to start game")
	}
}

// onGameOver 引擎回调,每局一次;上报分数放到后台,结果在 Update 中处理
func (s *PlayScene) onGameOver(finalScore int) {
	s.finished = true
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		s.results <- s.session.FinishRun(ctx, finalScore)
	}()
}

// Update 处理输入并推进一帧
func (s *PlayScene) Update(deltaTime float64) {
	if backPressed() {
		s.deps.Scenes.SwitchTo(NewMenuScene(s.deps))
		return
	}

	if s.blocked != nil {
		if confirmPressed() {
			s.deps.Scenes.SwitchTo(NewMenuScene(s.deps))
		}
		return
	}

	if s.finished {
		select {
		case res := <-s.results:
			// 后台只负责上报,最高分在这里写入
			res.NewBest = s.deps.recordBest(s.cfg.Name, res.Score)
			s.deps.Scenes.SwitchTo(NewGameOverScene(s.deps, s.choice, res))
		default:
		}
		return
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		s.togglePause()
	}
	if s.paused {
		return
	}

	input := s.gm.Input()
	if x, ok := s.pointer.poll(); ok {
		input.SetPointerX(x)
	}
	if axis := horizontalAxis(); axis != 0 {
		input.Nudge(axis * keyboardNudge)
	}

	if err := s.gm.Tick(deltaTime); err != nil {
		logger.Error().Err(err).Msg("tick failed")
	}
}

// togglePause 暂停时不推进时钟,音乐一起暂停
func (s *PlayScene) togglePause() {
	s.paused = !s.paused
	if s.deps.Audio == nil {
		return
	}
	if s.paused {
		s.deps.Audio.PauseMusic()
	} else {
		s.deps.Audio.ResumeMusic()
	}
}

// OnLeave 离开场景:结束模拟,未完成的付费局不上报
func (s *PlayScene) OnLeave() {
	if !s.finished {
		s.session.Abort()
	}
	s.gm.Cleanup()
}

// SaveOnExit 窗口关闭时清理并保存设置
func (s *PlayScene) SaveOnExit() bool {
	s.OnLeave()
	s.deps.saveSettings()
	return true
}

// Draw 绘制快照和覆盖层
func (s *PlayScene) Draw(screen *ebiten.Image) {
	s.renderer.Draw(screen)

	switch {
	case s.blocked != nil:
		s.renderer.DrawOverlay(screen, blockedLines(s.blocked), 0.7)
	case s.finished:
		s.renderer.DrawOverlay(screen, []string{"GAME OVER"}, 0.4)
	case s.paused:
		s.renderer.DrawOverlay(screen, []string{"PAUSED", "", "P: resume   Esc: menu"}, 0.5)
	}
}

// blockedLines 开局被拒绝时的提示
func blockedLines(err error) []string {
	var reason string
	switch {
	case errors.Is(err, session.ErrNoAttempts):
		reason = "no paid attempts left"
	case errors.Is(err, session.ErrWalletRequired):
		reason = "paid mode needs a wallet"
	default:
		reason = fmt.Sprintf("cannot start: %v", err)
	}
	return []string{reason, "", "press enter to return"}
}

// Engine 返回场景持有的引擎
func (s *PlayScene) Engine() *engine.GameManager {
	return s.gm
}

// Paused 是否暂停
func (s *PlayScene) Paused() bool {
	return s.paused
}
