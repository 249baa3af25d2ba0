package attempts

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// MemoryLedger 内存账本,未配置数据库时使用,也可直接作为本地的 session.AttemptGate
type MemoryLedger struct {
	mu        sync.Mutex
	remaining map[string]int
}

// NewMemoryLedger 创建内存账本
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{remaining: make(map[string]int)}
}

// Available 剩余次数
func (l *MemoryLedger) Available(ctx context.Context, wallet string) (int, error) {
	wallet, err := NormalizeWallet(wallet)
	if err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.remaining[wallet], nil
}

// Consume 扣除一次
func (l *MemoryLedger) Consume(ctx context.Context, wallet string) (int, error) {
	wallet, err := NormalizeWallet(wallet)
	if err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.remaining[wallet] <= 0 {
		return 0, ErrNoAttempts
	}
	l.remaining[wallet]--
	return l.remaining[wallet], nil
}

// Grant 增加次数
func (l *MemoryLedger) Grant(ctx context.Context, wallet string, count int) (int, error) {
	wallet, err := NormalizeWallet(wallet)
	if err != nil {
		return 0, err
	}
	if count <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.remaining[wallet] += count
	log.Info().
		Str("component", "Attempts").
		Str("wallet", wallet).
		Int("granted", count).
		Int("remaining", l.remaining[wallet]).
		Msg("Attempts granted")
	return l.remaining[wallet], nil
}
