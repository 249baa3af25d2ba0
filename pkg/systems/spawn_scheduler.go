package systems

import (
	"container/heap"

	"github.com/rs/zerolog/log"

	"github.com/gonewx/tears-of-aya/pkg/components"
	"github.com/gonewx/tears-of-aya/pkg/config"
	"github.com/gonewx/tears-of-aya/pkg/utils"
)

// SpawnFunc 定时器触发时调用,由调用方创建对应类别的实体
type SpawnFunc func(category components.ItemCategory)

// spawnTimer 单个类别的下一次触发时间
type spawnTimer struct {
	category components.ItemCategory
	fireAt   float64 // 模拟时钟(毫秒)
	seq      uint64  // 同一时刻触发时按装填顺序
	index    int
}

// timerQueue 按 fireAt 排序的最小堆
type timerQueue []*spawnTimer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].fireAt == q[j].fireAt {
		return q[i].seq < q[j].seq
	}
	return q[i].fireAt < q[j].fireAt
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*spawnTimer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}

// SpawnScheduler 生成调度器
//
// 每个类别一个独立的定时器,触发后在 [minMs, maxMs] 内随机下一次间隔并重新装填。
// 定时器由模拟时钟驱动(Update 传入当前时间),不依赖真实时间,因此完全可复现。
type SpawnScheduler struct {
	cfg   *config.VariantConfig
	rng   utils.Random
	spawn SpawnFunc

	queue timerQueue
	armed bool
	seq   uint64
	gen   uint64 // 每次 Arm/Disarm 递增

	fired map[components.ItemCategory]int
}

// NewSpawnScheduler 创建生成调度器(未装填)
func NewSpawnScheduler(cfg *config.VariantConfig, rng utils.Random, spawn SpawnFunc) *SpawnScheduler {
	return &SpawnScheduler{
		cfg:   cfg,
		rng:   rng,
		spawn: spawn,
		fired: make(map[components.ItemCategory]int),
	}
}

// Arm 为变体的每个类别装填一个定时器
// 已装填的定时器会先被全部取消,重复调用不会产生第二组定时器
func (s *SpawnScheduler) Arm(nowMs float64) {
	s.Disarm()

	for _, cat := range s.cfg.SpawnCategories() {
		s.schedule(cat, nowMs)
	}
	s.armed = true

	log.Debug().
		Str("component", "SpawnScheduler").
		Int("timers", s.queue.Len()).
		Float64("now_ms", nowMs).
		Msg("armed")
}

// Disarm 取消所有待触发的定时器,可重复调用
func (s *SpawnScheduler) Disarm() {
	s.gen++
	s.queue = s.queue[:0]
	s.armed = false
	for k := range s.fired {
		delete(s.fired, k)
	}
}

// IsArmed 是否已装填
func (s *SpawnScheduler) IsArmed() bool { return s.armed }

// Pending 返回待触发的定时器数量
func (s *SpawnScheduler) Pending() int { return s.queue.Len() }

// NextFire 返回类别的下一次触发时间
func (s *SpawnScheduler) NextFire(category components.ItemCategory) (float64, bool) {
	for _, t := range s.queue {
		if t.category == category {
			return t.fireAt, true
		}
	}
	return 0, false
}

// Fired 返回本次装填以来类别触发的次数
func (s *SpawnScheduler) Fired(category components.ItemCategory) int {
	return s.fired[category]
}

// Update 触发所有到期的定时器,返回本次触发次数
//
// 下一次触发时间从本次的计划时间起算,长帧不会让生成节奏漂移。
// 回调中调用 Disarm 或 Arm 会立即停止本轮触发。
func (s *SpawnScheduler) Update(nowMs float64) int {
	count := 0
	for s.armed && s.queue.Len() > 0 && s.queue[0].fireAt <= nowMs {
		t := heap.Pop(&s.queue).(*spawnTimer)
		s.fired[t.category]++
		count++

		if s.spawn != nil {
			gen := s.gen
			s.spawn(t.category)
			if gen != s.gen {
				break
			}
		}
		s.schedule(t.category, t.fireAt)
	}
	return count
}

func (s *SpawnScheduler) schedule(category components.ItemCategory, fromMs float64) {
	r := s.cfg.SpawnRangeFor(category)
	s.seq++
	heap.Push(&s.queue, &spawnTimer{
		category: category,
		fireAt:   fromMs + utils.RandomRange(s.rng, r.MinMs, r.MaxMs),
		seq:      s.seq,
	})
}
