// Package simcheck 无界面地批量运行对局并检查运行期不变量
package simcheck

import (
	"errors"
	"fmt"
	"math"

	"github.com/gonewx/tears-of-aya/pkg/components"
	"github.com/gonewx/tears-of-aya/pkg/config"
	"github.com/gonewx/tears-of-aya/pkg/engine"
	"github.com/gonewx/tears-of-aya/pkg/utils"
)

// FrameSeconds 每帧时长
const FrameSeconds = 1.0 / 60.0

// maxViolations 每局最多记录的违规条数
const maxViolations = 20

// Options 单局参数
type Options struct {
	Seed      int64
	Skill     float64 // 自动驾驶水平 [0,1]
	MaxFrames int     // 超过后强制结束,0 表示 10 分钟
}

// Report 单局结果
type Report struct {
	Seed        int64
	Frames      uint64
	Score       int
	Speed       float64
	Checkpoints int
	GameOvers   int
	Ended       bool // 因生命耗尽结束
	Violations  []string
}

// OK 没有违规
func (r Report) OK() bool {
	return len(r.Violations) == 0
}

// Run 运行一局
func Run(cfg *config.VariantConfig, opts Options) Report {
	if opts.MaxFrames <= 0 {
		opts.MaxFrames = 60 * 60 * 10
	}
	rep := Report{Seed: opts.Seed}
	checker := newChecker(cfg, &rep)

	gm := engine.NewGameManager(cfg, engine.WithSeed(opts.Seed))
	var last engine.Snapshot
	if err := gm.Initialize(engine.RenderFunc(func(s engine.Snapshot) { last = s })); err != nil {
		checker.fail("initialize: %v", err)
		return rep
	}
	gm.OnGameOver(func(score int) {
		rep.GameOvers++
		if score != gm.Score() {
			checker.fail("onGameOver score %d != state score %d", score, gm.Score())
		}
	})
	if err := gm.StartGame(); err != nil {
		checker.fail("start: %v", err)
		return rep
	}

	pilot := NewAutopilot(utils.NewRandom(opts.Seed^0x5eed), opts.Skill)
	for frame := 0; frame < opts.MaxFrames && gm.IsRunning(); frame++ {
		if x, ok := pilot.Steer(last); ok {
			gm.Input().SetPointerX(x)
		}
		if err := gm.Tick(FrameSeconds); err != nil {
			if errors.Is(err, engine.ErrTickPanic) {
				checker.fail("frame %d: %v", last.Frame, err)
				break
			}
			checker.fail("frame %d: tick error %v", last.Frame, err)
		}
		checker.frame(last)
	}

	rep.Frames = last.Frame
	rep.Score = last.Score
	rep.Speed = last.SpeedMultiplier
	rep.Checkpoints = checkpoints(cfg, last.SpeedMultiplier)
	rep.Ended = !gm.IsRunning() && last.Health == 0

	switch {
	case rep.Ended && rep.GameOvers != 1:
		checker.fail("run ended but onGameOver fired %d times", rep.GameOvers)
	case !rep.Ended && rep.GameOvers != 0:
		checker.fail("onGameOver fired %d times while health is %d", rep.GameOvers, last.Health)
	}
	if rep.Ended && gm.PendingTimers() != 0 {
		checker.fail("%d spawn timers still pending after game over", gm.PendingTimers())
	}

	gm.Cleanup()
	if gm.PendingTimers() != 0 || gm.EntityCount() != 0 {
		checker.fail("cleanup left %d timers, %d entities", gm.PendingTimers(), gm.EntityCount())
	}
	return rep
}

// checkpoints 由速度倍率反推提速次数
func checkpoints(cfg *config.VariantConfig, speed float64) int {
	if cfg.Speed.CheckpointFactor <= 1 || speed <= cfg.Speed.BaseMultiplier {
		return 0
	}
	return int(math.Round(math.Log(speed/cfg.Speed.BaseMultiplier) / math.Log(cfg.Speed.CheckpointFactor)))
}

// checker 逐帧检查不变量
type checker struct {
	cfg       *config.VariantConfig
	rep       *Report
	lastScore int
	lastSpeed float64
}

func newChecker(cfg *config.VariantConfig, rep *Report) *checker {
	return &checker{cfg: cfg, rep: rep, lastSpeed: cfg.Speed.BaseMultiplier}
}

func (c *checker) fail(format string, args ...any) {
	if len(c.rep.Violations) < maxViolations {
		c.rep.Violations = append(c.rep.Violations, fmt.Sprintf(format, args...))
	}
}

// frame 检查一帧快照
func (c *checker) frame(s engine.Snapshot) {
	if s.Health < 0 || s.Health > s.HealthCeiling {
		c.fail("frame %d: health %d outside [0, %d]", s.Frame, s.Health, s.HealthCeiling)
	}
	if s.Score < 0 {
		c.fail("frame %d: negative score %d", s.Frame, s.Score)
	}
	if s.Score < c.lastScore {
		c.fail("frame %d: score decreased %d -> %d", s.Frame, c.lastScore, s.Score)
	}
	if s.SpeedMultiplier < c.lastSpeed {
		c.fail("frame %d: speed decreased %.4f -> %.4f", s.Frame, c.lastSpeed, s.SpeedMultiplier)
	}
	if s.Health == 0 && s.Active {
		c.fail("frame %d: run still active at zero health", s.Frame)
	}
	c.lastScore, c.lastSpeed = s.Score, s.SpeedMultiplier

	right := s.Playfield.Width - s.Catcher.Width
	if s.Active && (s.Catcher.X < 0 || s.Catcher.X > right+1e-9) {
		c.fail("frame %d: catcher x %.2f outside [0, %.2f]", s.Frame, s.Catcher.X, right)
	}

	for _, it := range s.Items {
		if it.FormationProgress < 0 || it.FormationProgress > 1 {
			c.fail("frame %d: item %d formation progress %.3f", s.Frame, it.ID, it.FormationProgress)
		}
		if it.State != components.ItemFalling && it.Y != s.Playfield.CeilingY {
			c.fail("frame %d: %s item %d left the ceiling (y=%.2f)", s.Frame, it.State, it.ID, it.Y)
		}
	}
	for _, fb := range s.Feedback {
		if fb.Opacity <= 0 {
			c.fail("frame %d: expired feedback still present", s.Frame)
		}
	}
}
