package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// Command 在两帧之间、帧循环所在的 goroutine 上执行
type Command func(g *GameManager)

// Runner 以固定频率驱动 GameManager(终端和无界面前端使用)
//
// 输入与控制命令通过 channel 送达,只在两帧之间执行,
// 因此帧内看到的状态始终一致,GameManager 本身无需加锁。
type Runner struct {
	game     *GameManager
	tps      int
	commands chan Command
	paused   atomic.Bool
}

// NewRunner 创建驱动器,tps 为每秒帧数
func NewRunner(g *GameManager, tps int) *Runner {
	if tps <= 0 {
		tps = 60
	}
	return &Runner{
		game:     g,
		tps:      tps,
		commands: make(chan Command, 64),
	}
}

// Send 投递命令,队列已满时丢弃并返回 false
// 可以在任意 goroutine 上调用
func (r *Runner) Send(cmd Command) bool {
	select {
	case r.commands <- cmd:
		return true
	default:
		return false
	}
}

// TogglePause 切换暂停并返回新状态
// 暂停期间命令照常执行,时钟不走
func (r *Runner) TogglePause() bool {
	for {
		old := r.paused.Load()
		if r.paused.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Paused 是否暂停
func (r *Runner) Paused() bool {
	return r.paused.Load()
}

// Run 运行帧循环直到 ctx 结束
// 帧内 panic 已由 Tick 转换为错误并结束本局,Runner 记录后继续运行
func (r *Runner) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(r.tps)
	dt := interval.Seconds()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.game.Cleanup()
			return ctx.Err()
		case cmd := <-r.commands:
			cmd(r.game)
		case <-ticker.C:
			r.drain()
			if r.paused.Load() {
				continue
			}
			if err := r.game.Tick(dt); err != nil {
				if !errors.Is(err, ErrTickPanic) {
					return err
				}
				log.Error().Err(err).Str("component", "Runner").Msg("run aborted")
			}
		}
	}
}

// drain 执行所有已到达的命令
func (r *Runner) drain() {
	for {
		select {
		case cmd := <-r.commands:
			cmd(r.game)
		default:
			return
		}
	}
}
