// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"image/color"
	"io/fs"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
	"github.com/rs/zerolog/log"

	"github.com/gonewx/tears-of-aya/internal/synth"
	"github.com/gonewx/tears-of-aya/pkg/apiclient"
	"github.com/gonewx/tears-of-aya/pkg/attempts"
	"github.com/gonewx/tears-of-aya/pkg/config"
	"github.com/gonewx/tears-of-aya/pkg/game"
	"github.com/gonewx/tears-of-aya/pkg/scenes"
	"github.com/gonewx/tears-of-aya/pkg/session"
	"github.com/gonewx/tears-of-aya/pkg/utils"
)

// AppName gdata 存档目录名
const AppName = "tears_of_aya"

// Config 定义应用启动配置
type Config struct {
	// Assets 资源文件系统(包含 assets/ 目录),为空时只使用矢量图形
	Assets fs.FS
	// ServerURL 排行榜后端地址,为空时分数只保存在本地,付费次数使用本地账本
	ServerURL string
	// Wallet 钱包地址,为空时使用设置中保存的地址
	Wallet string
	// Variant 指定变体时跳过菜单直接开局
	Variant string
	// Mode 直接开局时的模式,默认 free
	Mode string
	// Seed 固定随机种子,0 表示随机
	Seed int64
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	settingsManager          *game.SettingsManager
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
func NewApp(cfg Config) (*App, error) {
	// 初始化音频上下文
	audioContext := audio.NewContext(int(synth.SampleRate))

	// 创建资源管理器,缺失的精灵不影响启动
	resourceManager := game.NewResourceManager(cfg.Assets, audioContext)
	if err := resourceManager.LoadSprites(game.DefaultSprites); err != nil {
		log.Warn().Err(err).Str("component", "App").Msg("some sprites failed to load, using vector fallback")
	}

	// 设置存档
	settingsManager := openSettings()
	if cfg.Wallet != "" && settingsManager != nil {
		settingsManager.SetWallet(cfg.Wallet)
	}

	audioManager := game.NewAudioManager(resourceManager, settingsManager)
	audioManager.Preload(synth.IDsOf(synth.KindEffect), nil)

	sceneManager := game.NewSceneManager()
	deps := &scenes.Deps{
		Resources: resourceManager,
		Audio:     audioManager,
		Settings:  settingsManager,
		Scenes:    sceneManager,
		Wallet:    cfg.Wallet,
		Seed:      cfg.Seed,
	}
	wireBackend(deps, cfg.ServerURL)

	sceneManager.SetSceneFactory(func(choice game.PlayChoice) game.Scene {
		scene, err := scenes.NewPlayScene(deps, choice)
		if err != nil {
			log.Error().Err(err).Str("component", "App").Str("variant", choice.Variant).Msg("failed to create play scene")
			return nil
		}
		return scene
	})

	// 根据配置决定启动场景
	if cfg.Variant != "" {
		mode := cfg.Mode
		if mode == "" {
			mode = string(session.ModeFree)
		}
		log.Info().Str("component", "App").Str("variant", cfg.Variant).Str("mode", mode).Msg("skipping menu")
		if !sceneManager.StartPlay(game.PlayChoice{Variant: cfg.Variant, Mode: mode}) {
			sceneManager.SwitchTo(scenes.NewMenuScene(deps))
		}
	} else {
		sceneManager.SwitchTo(scenes.NewMenuScene(deps))
	}

	if settingsManager != nil && settingsManager.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	return &App{
		sceneManager:    sceneManager,
		settingsManager: settingsManager,
	}, nil
}

// openSettings 打开 gdata 设置,失败时返回 nil(不保存设置)
func openSettings() *game.SettingsManager {
	if err := utils.EnsureStorageDir(); err != nil {
		log.Warn().Err(err).Str("component", "App").Msg("failed to prepare storage directory")
	}
	gdataManager, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Warn().Err(err).Str("component", "App").Msg("settings storage unavailable")
		return nil
	}
	settingsManager, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		log.Warn().Err(err).Str("component", "App").Msg("failed to load settings")
		return nil
	}
	return settingsManager
}

// wireBackend 有后端地址时使用 API,否则使用本地账本(离线付费模式永远没有次数)
func wireBackend(deps *scenes.Deps, serverURL string) {
	if serverURL == "" {
		deps.Gate = attempts.NewMemoryLedger()
		log.Info().Str("component", "App").Msg("offline mode, scores kept locally")
		return
	}
	client := apiclient.New(serverURL)
	deps.Gate = client
	deps.Submitter = client
	log.Info().Str("component", "App").Str("server", serverURL).Msg("using leaderboard backend")
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 需要 main 中调用 ebiten.SetWindowClosingHandled(true)
	if ebiten.IsWindowBeingClosed() {
		a.Close()
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

// toggleFullscreen 切换全屏并记住选择
func (a *App) toggleFullscreen() {
	fullscreen := !ebiten.IsFullscreen()
	ebiten.SetFullscreen(fullscreen)
	if !fullscreen {
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
	}
	if a.settingsManager != nil {
		a.settingsManager.SetFullscreen(fullscreen)
		if err := a.settingsManager.Save(); err != nil {
			log.Warn().Err(err).Str("component", "App").Msg("failed to save settings")
		}
	}
	log.Debug().Str("component", "App").Bool("fullscreen", fullscreen).Msg("toggled fullscreen")
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	// 先填充黑色背景（全屏时左右两边为黑色）
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// GetSceneManager 返回场景管理器
// 用于在游戏关闭时清理当前对局
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// Close 窗口关闭时调用:结束当前对局并保存设置
func (a *App) Close() {
	a.sceneManager.SaveOnExit()
	if a.settingsManager != nil {
		if err := a.settingsManager.Save(); err != nil {
			log.Warn().Err(err).Str("component", "App").Msg("failed to save settings on exit")
		}
	}
}
