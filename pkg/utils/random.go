package utils

import (
	"math/rand"
	"time"
)

// Random 游戏逻辑使用的随机源
//
// 所有影响玩法的随机决策(生成间隔、假动作概率、初始位置)都通过它获取,
// 测试中注入固定种子即可得到确定的序列。*rand.Rand 满足此接口。
type Random interface {
	Float64() float64
	Intn(n int) int
}

// NewRandom 创建随机源,seed 为 0 时使用当前时间
func NewRandom(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// RandomRange 返回 [min, max) 内均匀分布的随机数,max <= min 时返回 min
func RandomRange(r Random, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + r.Float64()*(max-min)
}

// RandomIntRange 返回 [min, max] 内均匀分布的随机整数(包含两端)
func RandomIntRange(r Random, min, max int) int {
	if max <= min {
		return min
	}
	return min + r.Intn(max-min+1)
}

// RandomSign 随机返回 -1 或 +1
func RandomSign(r Random) float64 {
	if r.Intn(2) == 0 {
		return -1
	}
	return 1
}
