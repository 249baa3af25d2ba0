package scenes

import (
	"time"

	"github.com/gonewx/tears-of-aya/pkg/engine"
	"github.com/gonewx/tears-of-aya/pkg/game"
	"github.com/gonewx/tears-of-aya/pkg/session"
)

// Deps 场景共享的依赖
// 除 Scenes 外都可以为空,为空时对应功能关闭
type Deps struct {
	Resources *game.ResourceManager
	Audio     *game.AudioManager
	Settings  *game.SettingsManager
	Scenes    *game.SceneManager

	// Gate 付费次数来源(后端 API 或本地账本),为空时付费模式不可用
	Gate session.AttemptGate
	// Submitter 分数上报,为空时只记录本地最高分
	Submitter session.ScoreSubmitter
	// Wallet 钱包地址,为空时使用设置中保存的地址
	Wallet string
	// Seed 固定随机种子,0 表示每局使用时间种子
	Seed int64
}

// wallet 当前钱包地址
func (d *Deps) wallet() string {
	if d.Wallet != "" {
		return d.Wallet
	}
	if d.Settings != nil {
		return d.Settings.GetSettings().Wallet
	}
	return ""
}

// audioSink 引擎使用的音频输出
func (d *Deps) audioSink() engine.AudioSink {
	if d.Audio == nil {
		return engine.NopAudio{}
	}
	return d.Audio
}

// recordBest 在游戏主循环中记录本地最高分,没有设置存储时返回 false
func (d *Deps) recordBest(variant string, score int) bool {
	if d.Settings == nil {
		return false
	}
	return d.Settings.RecordBestScore(variant, score)
}

// seed 本局随机种子
func (d *Deps) seed() int64 {
	if d.Seed != 0 {
		return d.Seed
	}
	return time.Now().UnixNano()
}

// saveSettings 保存设置,失败只记录日志
func (d *Deps) saveSettings() {
	if d.Settings == nil {
		return
	}
	if err := d.Settings.Save(); err != nil {
		logger.Warn().Err(err).Msg("failed to save settings")
	}
}
