package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"
)

// PlayChoice 开局选择:变体与模式
type PlayChoice struct {
	Variant string
	Mode    string
}

// SceneFactory 场景工厂函数类型
// 用于根据开局选择创建游戏场景,避免 game 与 scenes 循环依赖
type SceneFactory func(choice PlayChoice) Scene

// SceneManager manages the game's high-level state by controlling which scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time.
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory
	lastChoice   PlayChoice
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo to set the initial scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置游戏场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo changes the active scene to the provided scene.
// The previous scene receives OnLeave if it implements Leaver.
func (sm *SceneManager) SwitchTo(scene Scene) {
	if scene == sm.currentScene {
		return
	}
	if leaver, ok := sm.currentScene.(Leaver); ok {
		leaver.OnLeave()
	}
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景,没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// LastChoice 最近一次开局选择,用于"再来一局"
func (sm *SceneManager) LastChoice() PlayChoice {
	return sm.lastChoice
}

// StartPlay 通过工厂创建游戏场景并切换过去
// 返回 false 表示工厂未设置或创建失败,当前场景保持不变
func (sm *SceneManager) StartPlay(choice PlayChoice) bool {
	logger := log.With().Str("component", "SceneManager").Str("variant", choice.Variant).Str("mode", choice.Mode).Logger()

	if sm.sceneFactory == nil {
		logger.Error().Msg("scene factory not set")
		return false
	}

	newScene := sm.sceneFactory(choice)
	if newScene == nil {
		logger.Error().Msg("failed to create play scene")
		return false
	}

	sm.lastChoice = choice
	sm.SwitchTo(newScene)
	logger.Info().Msg("switched to play scene")
	return true
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}

// SaveOnExit 通知当前场景程序即将退出
func (sm *SceneManager) SaveOnExit() bool {
	if saveable, ok := sm.currentScene.(Saveable); ok {
		return saveable.SaveOnExit()
	}
	return true
}
