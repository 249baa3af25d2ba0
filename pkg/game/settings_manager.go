package game

import (
	"fmt"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/gonewx/tears-of-aya/pkg/utils"
)

// GameSettings 玩家设置与本地记录
type GameSettings struct {
	// 音频设置
	MusicVolume  float64 `yaml:"musicVolume"`  // 音乐音量 0.0 ~ 1.0
	SoundVolume  float64 `yaml:"soundVolume"`  // 音效音量 0.0 ~ 1.0
	MusicEnabled bool    `yaml:"musicEnabled"` // 音乐开关
	SoundEnabled bool    `yaml:"soundEnabled"` // 音效开关

	// 显示设置
	Fullscreen bool `yaml:"fullscreen"` // 启动时是否全屏

	// 上次选择
	LastVariant string `yaml:"lastVariant"`
	LastMode    string `yaml:"lastMode"`
	Wallet      string `yaml:"wallet"` // 付费模式使用的钱包地址

	// 每个变体的本地最高分
	BestScores map[string]int `yaml:"bestScores"`
}

// DefaultSettings 返回默认设置
func DefaultSettings() *GameSettings {
	return &GameSettings{
		MusicVolume:  0.7,
		SoundVolume:  0.8,
		MusicEnabled: true,
		SoundEnabled: true,
		Fullscreen:   false,
		LastVariant:  "tears",
		LastMode:     "free",
		BestScores:   map[string]int{},
	}
}

// SettingsManager 设置管理器
// 负责设置的加载、保存和内存管理
// 方法可以在多个 goroutine 中调用(分数上报在后台完成)
type SettingsManager struct {
	mu           sync.Mutex
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *GameSettings  // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 加载失败不影响创建，使用默认设置
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		log.Warn().Err(err).Str("component", "SettingsManager").Msg("failed to load settings, using defaults")
	}

	return sm, nil
}

// Load 从 gdata 加载设置
// gdataManager 为 nil 或文件不存在时使用默认设置
func (sm *SettingsManager) Load() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 在默认值之上反序列化，旧版本文件缺少的字段保持默认
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if loaded.BestScores == nil {
		loaded.BestScores = map[string]int{}
	}
	loaded.MusicVolume = utils.Clamp01(loaded.MusicVolume)
	loaded.SoundVolume = utils.Clamp01(loaded.SoundVolume)

	sm.settings = loaded
	log.Debug().Str("component", "SettingsManager").Msg("settings loaded")
	return nil
}

// Save 保存设置到 gdata
// gdataManager 为 nil 时返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.save()
}

// save 调用方持有 mu
func (sm *SettingsManager) save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Debug().Str("component", "SettingsManager").Msg("settings saved")
	return nil
}

// GetSettings 获取当前设置
// 返回的指针只应在游戏主循环中读写
func (sm *SettingsManager) GetSettings() *GameSettings {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.settings
}

// SetMusicVolume 设置音乐音量，限制在 0.0 ~ 1.0
// 仅修改内存中的设置，需调用 Save() 持久化
func (sm *SettingsManager) SetMusicVolume(volume float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.settings.MusicVolume = utils.Clamp01(volume)
}

// SetSoundVolume 设置音效音量，限制在 0.0 ~ 1.0
func (sm *SettingsManager) SetSoundVolume(volume float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.settings.SoundVolume = utils.Clamp01(volume)
}

// SetMusicEnabled 设置音乐开关
func (sm *SettingsManager) SetMusicEnabled(enabled bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.settings.MusicEnabled = enabled
}

// SetSoundEnabled 设置音效开关
func (sm *SettingsManager) SetSoundEnabled(enabled bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.settings.SoundEnabled = enabled
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.settings.Fullscreen = enabled
}

// SetLastChoice 记住上次选择的变体和模式
func (sm *SettingsManager) SetLastChoice(variant, mode string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.settings.LastVariant = variant
	sm.settings.LastMode = mode
}

// SetWallet 设置钱包地址
func (sm *SettingsManager) SetWallet(wallet string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.settings.Wallet = wallet
}

// BestScore 返回变体的本地最高分
func (sm *SettingsManager) BestScore(variant string) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.settings.BestScores[variant]
}

// RecordBestScore 记录分数，刷新最高分时立即保存并返回 true
func (sm *SettingsManager) RecordBestScore(variant string, score int) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if score <= sm.settings.BestScores[variant] {
		return false
	}
	sm.settings.BestScores[variant] = score
	if err := sm.save(); err != nil {
		log.Warn().Err(err).Str("component", "SettingsManager").Msg("failed to persist best score")
	}
	return true
}
