package leaderboard

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository 内存实现,未配置数据库时使用
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []*Entry
	nextID  int64
	now     func() time.Time
}

// NewMemoryRepository 创建内存仓库
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, now: time.Now}
}

// Insert 保存一次提交
func (r *MemoryRepository) Insert(ctx context.Context, wallet string, score int, mode string) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := &Entry{
		ID:        r.nextID,
		Wallet:    wallet,
		Score:     score,
		Mode:      mode,
		CreatedAt: r.now().UTC(),
	}
	r.nextID++
	r.entries = append(r.entries, e)

	copied := *e
	return &copied, nil
}

// Top 每个钱包的最好成绩
func (r *MemoryRepository) Top(ctx context.Context, mode string, limit int) ([]*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ranked := bestPerWallet(r.entries, mode)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	result := make([]*Entry, len(ranked))
	for i, e := range ranked {
		copied := *e
		result[i] = &copied
	}
	return result, nil
}

// Best 钱包的最好成绩
func (r *MemoryRepository) Best(ctx context.Context, wallet, mode string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *Entry
	for _, e := range r.entries {
		if e.Wallet != wallet || (mode != "" && e.Mode != mode) {
			continue
		}
		if best == nil || better(e, best) {
			best = e
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}

	copied := *best
	return &copied, nil
}
