package game

import (
	"bytes"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/rs/zerolog/log"

	"github.com/gonewx/tears-of-aya/pkg/engine"
)

// AudioManager 音频管理器,实现 engine.AudioSink
// 职责：
//   - 通过 ResourceManager 取得合成好的 PCM 并创建播放器
//   - 应用 SettingsManager 中的音量与开关
//   - 背景音乐与环境音各占一个循环通道
type AudioManager struct {
	resourceManager *ResourceManager
	settingsManager *SettingsManager         // 可为 nil
	soundPlayers    map[string]*audio.Player // 音效播放器缓存
	loopPlayers     map[string]*audio.Player // 循环播放器缓存(音乐与环境音)
	currentMusic    *audio.Player
	currentMusicID  string
	currentAmbient  *audio.Player
}

var _ engine.AudioSink = (*AudioManager)(nil)

// NewAudioManager 创建新的音频管理器
func NewAudioManager(rm *ResourceManager, sm *SettingsManager) *AudioManager {
	return &AudioManager{
		resourceManager: rm,
		settingsManager: sm,
		soundPlayers:    make(map[string]*audio.Player),
		loopPlayers:     make(map[string]*audio.Player),
	}
}

// PlaySound 播放一次性音效
func (am *AudioManager) PlaySound(soundID string) bool {
	if am.settingsManager != nil && !am.settingsManager.GetSettings().SoundEnabled {
		return false
	}

	player := am.getSoundPlayer(soundID)
	if player == nil {
		return false
	}

	player.SetVolume(am.getSoundVolume())
	if err := player.Rewind(); err != nil {
		log.Warn().Err(err).Str("component", "AudioManager").Str("id", soundID).Msg("failed to rewind sound")
	}
	player.Play()
	return true
}

// PlayMusic 循环播放背景音乐,同一时间只有一首
func (am *AudioManager) PlayMusic(musicID string) bool {
	if am.settingsManager != nil && !am.settingsManager.GetSettings().MusicEnabled {
		return false
	}

	if am.currentMusicID == musicID && am.currentMusic != nil && am.currentMusic.IsPlaying() {
		return true
	}
	am.StopMusic()

	player := am.getLoopPlayer(musicID)
	if player == nil {
		return false
	}

	volume := am.getMusicVolume()
	player.SetVolume(volume)
	if err := player.Rewind(); err != nil {
		log.Warn().Err(err).Str("component", "AudioManager").Str("id", musicID).Msg("failed to rewind music")
	}
	player.Play()

	am.currentMusic = player
	am.currentMusicID = musicID
	log.Debug().Str("component", "AudioManager").Str("id", musicID).Float64("volume", volume).Msg("playing music")
	return true
}

// StopMusic 停止当前背景音乐
func (am *AudioManager) StopMusic() {
	if am.currentMusic != nil {
		am.currentMusic.Pause()
		am.currentMusic = nil
		am.currentMusicID = ""
	}
}

// PauseMusic 暂停背景音乐与环境音(游戏暂停时)
func (am *AudioManager) PauseMusic() {
	if am.currentMusic != nil {
		am.currentMusic.Pause()
	}
	if am.currentAmbient != nil {
		am.currentAmbient.Pause()
	}
}

// ResumeMusic 恢复暂停的背景音乐与环境音
func (am *AudioManager) ResumeMusic() {
	if am.settingsManager != nil && !am.settingsManager.GetSettings().MusicEnabled {
		return
	}
	if am.currentMusic != nil {
		am.currentMusic.Play()
	}
	if am.currentAmbient != nil {
		am.currentAmbient.Play()
	}
}

// PlayAmbient 循环播放环境音,音量跟随音乐设置
func (am *AudioManager) PlayAmbient(ambientID string) bool {
	if am.settingsManager != nil && !am.settingsManager.GetSettings().MusicEnabled {
		return false
	}
	am.StopAmbient()

	player := am.getLoopPlayer(ambientID)
	if player == nil {
		return false
	}
	player.SetVolume(am.getMusicVolume())
	if err := player.Rewind(); err != nil {
		log.Warn().Err(err).Str("component", "AudioManager").Str("id", ambientID).Msg("failed to rewind ambient")
	}
	player.Play()
	am.currentAmbient = player
	return true
}

// StopAmbient 停止环境音
func (am *AudioManager) StopAmbient() {
	if am.currentAmbient != nil {
		am.currentAmbient.Pause()
		am.currentAmbient = nil
	}
}

// SetMusicVolume 设置音乐音量并立即应用
func (am *AudioManager) SetMusicVolume(volume float64) {
	if am.settingsManager != nil {
		am.settingsManager.SetMusicVolume(volume)
		volume = am.settingsManager.GetSettings().MusicVolume
	}
	for _, player := range am.loopPlayers {
		player.SetVolume(volume)
	}
}

// SetSoundVolume 设置音效音量,影响后续播放
func (am *AudioManager) SetSoundVolume(volume float64) {
	if am.settingsManager != nil {
		am.settingsManager.SetSoundVolume(volume)
		volume = am.settingsManager.GetSettings().SoundVolume
	}
	for _, player := range am.soundPlayers {
		player.SetVolume(volume)
	}
}

// GetMusicVolume 获取当前音乐音量
func (am *AudioManager) GetMusicVolume() float64 {
	return am.getMusicVolume()
}

// GetSoundVolume 获取当前音效音量
func (am *AudioManager) GetSoundVolume() float64 {
	return am.getSoundVolume()
}

// CurrentMusicID 当前背景音乐ID,没有时为空
func (am *AudioManager) CurrentMusicID() string {
	return am.currentMusicID
}

// Preload 预先合成并创建播放器,避免首次播放时卡顿
func (am *AudioManager) Preload(soundIDs, loopIDs []string) {
	for _, id := range soundIDs {
		am.getSoundPlayer(id)
	}
	for _, id := range loopIDs {
		am.getLoopPlayer(id)
	}
	log.Debug().Str("component", "AudioManager").Int("sounds", len(soundIDs)).Int("loops", len(loopIDs)).Msg("preloaded audio")
}

// getSoundPlayer 获取或创建一次性音效播放器
func (am *AudioManager) getSoundPlayer(soundID string) *audio.Player {
	if player, exists := am.soundPlayers[soundID]; exists {
		return player
	}
	ctx := am.resourceManager.AudioContext()
	if ctx == nil || soundID == "" {
		return nil
	}

	pcm, _, err := am.resourceManager.LoadSoundPCM(soundID)
	if err != nil {
		log.Warn().Err(err).Str("component", "AudioManager").Msg("sound not found")
		return nil
	}
	player := ctx.NewPlayerFromBytes(pcm)
	am.soundPlayers[soundID] = player
	return player
}

// getLoopPlayer 获取或创建无限循环播放器
func (am *AudioManager) getLoopPlayer(id string) *audio.Player {
	if player, exists := am.loopPlayers[id]; exists {
		return player
	}
	ctx := am.resourceManager.AudioContext()
	if ctx == nil || id == "" {
		return nil
	}

	pcm, _, err := am.resourceManager.LoadSoundPCM(id)
	if err != nil {
		log.Warn().Err(err).Str("component", "AudioManager").Msg("loop not found")
		return nil
	}
	loop := audio.NewInfiniteLoop(bytes.NewReader(pcm), int64(len(pcm)))
	player, err := ctx.NewPlayer(loop)
	if err != nil {
		log.Warn().Err(err).Str("component", "AudioManager").Str("id", id).Msg("failed to create loop player")
		return nil
	}
	am.loopPlayers[id] = player
	return player
}

// getMusicVolume 获取音乐音量设置
func (am *AudioManager) getMusicVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().MusicVolume
	}
	return 0.7
}

// getSoundVolume 获取音效音量设置
func (am *AudioManager) getSoundVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().SoundVolume
	}
	return 0.8
}
