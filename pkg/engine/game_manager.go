package engine

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/gonewx/tears-of-aya/pkg/components"
	"github.com/gonewx/tears-of-aya/pkg/config"
	"github.com/gonewx/tears-of-aya/pkg/economy"
	"github.com/gonewx/tears-of-aya/pkg/ecs"
	"github.com/gonewx/tears-of-aya/pkg/entities"
	"github.com/gonewx/tears-of-aya/pkg/systems"
	"github.com/gonewx/tears-of-aya/pkg/utils"
)

// Option 配置 GameManager
type Option func(*GameManager)

// WithSeed 使用固定种子的随机源
func WithSeed(seed int64) Option {
	return func(g *GameManager) { g.rng = utils.NewRandom(seed) }
}

// WithRand 注入随机源
func WithRand(r utils.Random) Option {
	return func(g *GameManager) { g.rng = r }
}

// WithAudio 注入音频输出
func WithAudio(a AudioSink) Option {
	return func(g *GameManager) {
		if a != nil {
			g.audio = a
		}
	}
}

// GameManager 游戏模拟引擎
//
// 两个变体共用这一个实现,差异全部来自 VariantConfig。
// 每个实例拥有自己的实体、状态和调度器,可以同时存在多个。
// 非并发安全:所有方法必须在同一个 goroutine 上调用(Ebitengine 的 Update 或 Runner)。
type GameManager struct {
	cfg   *config.VariantConfig
	rng   utils.Random
	audio AudioSink
	sink  RenderSink

	entityManager   *ecs.EntityManager
	state           *economy.GameState
	economy         *economy.Economy
	scheduler       *systems.SpawnScheduler
	fallingSystem   *systems.FallingItemSystem
	collisionSystem *systems.CollisionSystem
	feedbackSystem  *systems.FeedbackSystem
	input           *systems.InputController

	initialized   bool
	running       bool // 时钟是否在走
	catcher       ecs.EntityID
	clockMs       float64
	frame         uint64
	runs          int
	gameOverFired bool
	onGameOver    func(finalScore int)
	snapshot      Snapshot
}

// NewGameManager 创建引擎实例
func NewGameManager(cfg *config.VariantConfig, opts ...Option) *GameManager {
	g := &GameManager{
		cfg:   cfg,
		audio: NopAudio{},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = utils.NewRandom(0)
	}

	g.entityManager = ecs.NewEntityManager()
	g.state = economy.NewGameState(cfg.Health, cfg.Speed)
	g.economy = economy.NewEconomy(cfg)
	g.scheduler = systems.NewSpawnScheduler(cfg, g.rng, g.spawn)
	g.fallingSystem = systems.NewFallingItemSystem(g.entityManager, cfg, g.rng)
	g.collisionSystem = systems.NewCollisionSystem(g.entityManager, cfg.Playfield.Height)
	g.feedbackSystem = systems.NewFeedbackSystem(g.entityManager)
	g.input = systems.NewInputController(g.entityManager)
	g.snapshot = g.buildSnapshot()

	return g
}

// Initialize 绑定渲染目标,没有渲染目标时立即失败
func (g *GameManager) Initialize(sink RenderSink) error {
	if sink == nil {
		return ErrNoRenderTarget
	}
	g.sink = sink
	g.initialized = true
	return nil
}

// OnGameOver 设置游戏结束回调,每局最多调用一次
func (g *GameManager) OnGameOver(fn func(finalScore int)) {
	g.onGameOver = fn
}

// StartGame 开始新的一局
//
// 总是先完整执行 Cleanup,连续调用两次也只会留下一组定时器。
func (g *GameManager) StartGame() error {
	if !g.initialized {
		return ErrNotInitialized
	}
	g.Cleanup()

	g.state.Reset()
	g.state.Activate()
	g.clockMs = 0
	g.frame = 0
	g.gameOverFired = false
	g.runs++

	g.catcher = entities.NewCatcherEntity(g.entityManager, g.cfg)
	g.input.Attach(g.catcher)
	g.scheduler.Arm(g.clockMs)

	g.audio.PlayMusic(g.cfg.Audio.Music)
	g.audio.PlayAmbient(g.cfg.Audio.Ambient)

	g.running = true

	log.Info().
		Str("component", "GameManager").
		Str("variant", g.cfg.Name).
		Int("run", g.runs).
		Msg("game started")

	g.publish()
	return nil
}

// Cleanup 停止时钟、取消定时器、清空实体、解绑输入、停止音乐
// 幂等,未开始过也可以安全调用
func (g *GameManager) Cleanup() {
	g.running = false
	g.state.Deactivate()
	g.scheduler.Disarm()
	g.input.Detach()
	g.entityManager.Clear()
	g.catcher = 0

	g.audio.StopMusic()
	g.audio.StopAmbient()

	g.snapshot = g.buildSnapshot()
}

// Tick 推进一帧
//
// 顺序: 输入 → 定时器 → 护盾到期 → 移动 → 碰撞 → 错过 → 反馈 → 结束判定 → 渲染
// 帧内的 panic 会被捕获:本局强制结束,onGameOver 仍然会被调用,返回 ErrTickPanic
func (g *GameManager) Tick(deltaTime float64) (err error) {
	if !g.running {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("component", "GameManager").
				Interface("panic", r).
				Uint64("frame", g.frame).
				Msg("tick panicked, ending run")
			err = fmt.Errorf("%w: %v", ErrTickPanic, r)
			g.endRun()
		}
	}()

	g.frame++
	g.clockMs += deltaTime * 1000

	// (0) 输入、生成、护盾状态
	g.input.Apply()
	g.scheduler.Update(g.clockMs)
	if g.state.UpdateShield(g.clockMs) {
		log.Debug().Str("component", "GameManager").Msg("shield expired")
	}

	// (1) 推进所有泪滴和护盾
	g.fallingSystem.Update(deltaTime)

	// (2) 接住
	// 生命值归零的那一刻本局就结束,同一帧后续的结算全部跳过
	for _, ev := range g.collisionSystem.ResolveCatches(g.catcher) {
		outcome := g.economy.ResolveCatch(ev.Category, g.state)
		g.settle(ev, outcome)
		if g.endIfDepleted() {
			break
		}
	}

	// (3) 错过
	if g.running {
		for _, ev := range g.collisionSystem.CollectMisses() {
			if outcome, ok := g.economy.ResolveMiss(ev.Category); ok {
				ev.Y = g.cfg.Playfield.Height
				g.settle(ev, outcome)
				if g.endIfDepleted() {
					break
				}
			}
		}
	}
	g.entityManager.RemoveMarkedEntities()

	// (4) 反馈
	g.feedbackSystem.Update(deltaTime)
	g.entityManager.RemoveMarkedEntities()

	// (5) 结束判定
	g.endIfDepleted()

	// (6) 渲染
	g.publish()
	return nil
}

// settle 写入结算结果、创建反馈、播放音效
func (g *GameManager) settle(ev systems.ItemEvent, outcome economy.Outcome) {
	outcome = g.economy.Apply(g.state, outcome, g.clockMs)

	if outcome.CheckpointCrossed {
		log.Debug().
			Str("component", "GameManager").
			Int("score", g.state.Score()).
			Float64("speed", g.state.SpeedMultiplier()).
			Msg("checkpoint crossed")
	}

	if _, err := entities.NewFeedbackEntity(g.entityManager, g.cfg.Feedback, ev.X, ev.Y, outcome.Text, outcome.Style, g.rng); err != nil {
		log.Warn().Err(err).Str("component", "GameManager").Msg("feedback rejected")
	}

	if outcome.Sound != "" {
		g.audio.PlaySound(outcome.Sound)
	}
}

// endIfDepleted 生命值归零时立即结束本局
func (g *GameManager) endIfDepleted() bool {
	if g.state.IsActive() && g.state.IsDepleted() {
		g.endRun()
		return true
	}
	return false
}

// endRun 结束本局并触发一次 onGameOver
func (g *GameManager) endRun() {
	g.running = false
	g.state.Deactivate()
	g.scheduler.Disarm()
	g.input.Detach()

	g.audio.StopMusic()
	g.audio.StopAmbient()

	if g.gameOverFired {
		return
	}
	g.gameOverFired = true

	if g.cfg.Audio.GameOver != "" {
		g.audio.PlaySound(g.cfg.Audio.GameOver)
	}

	score := g.state.Score()
	log.Info().
		Str("component", "GameManager").
		Int("score", score).
		Uint64("frames", g.frame).
		Int("checkpoints", g.state.CheckpointsCrossed()).
		Msg("game over")

	if g.onGameOver != nil {
		g.onGameOver(score)
	}
}

// publish 生成快照并交给渲染端
func (g *GameManager) publish() {
	g.snapshot = g.buildSnapshot()
	if g.sink != nil {
		g.sink.Render(g.snapshot)
	}
}

// spawn 生成调度器的回调
func (g *GameManager) spawn(category components.ItemCategory) {
	var err error
	if category == components.CategoryShield {
		x := utils.RandomRange(g.rng, 0, g.cfg.Playfield.Width-g.cfg.Shield.Size)
		_, err = entities.NewShieldEntity(g.entityManager, g.cfg, x)
	} else {
		x := utils.RandomRange(g.rng, 0, g.cfg.Playfield.Width-g.cfg.Teardrop.PuddleWidth)
		_, err = entities.NewTeardropEntity(g.entityManager, g.cfg, category, x, g.state.SpeedMultiplier(), g.rng)
	}
	if err != nil {
		log.Error().Err(err).Str("component", "GameManager").Stringer("category", category).Msg("spawn failed")
	}
}

// Snapshot 返回最近一次发布的快照
func (g *GameManager) Snapshot() Snapshot { return g.snapshot }

// Input 返回输入控制器,输入在下一帧开头生效
func (g *GameManager) Input() *systems.InputController { return g.input }

// Config 返回变体配置
func (g *GameManager) Config() *config.VariantConfig { return g.cfg }

// IsRunning 时钟是否在走
func (g *GameManager) IsRunning() bool { return g.running }

// IsActive 本局是否进行中
func (g *GameManager) IsActive() bool { return g.state.IsActive() }

// Score 当前分数
func (g *GameManager) Score() int { return g.state.Score() }

// Health 当前生命值
func (g *GameManager) Health() int { return g.state.Health() }

// PendingTimers 待触发的生成定时器数量
func (g *GameManager) PendingTimers() int { return g.scheduler.Pending() }

// EntityCount 当前实体数量
func (g *GameManager) EntityCount() int { return g.entityManager.Count() }
