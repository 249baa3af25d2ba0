// Package leaderboard 保存分数提交并计算排行榜
package leaderboard

import (
	"context"
	"errors"
	"sort"
	"time"
)

var (
	// ErrNotFound 没有找到分数记录
	ErrNotFound = errors.New("score not found")
	// ErrInvalidWallet 钱包地址为空或过长
	ErrInvalidWallet = errors.New("invalid wallet")
	// ErrInvalidScore 分数为负
	ErrInvalidScore = errors.New("invalid score")
	// ErrInvalidMode 模式不是 free/paid
	ErrInvalidMode = errors.New("invalid mode")
)

// Entry 一条分数记录
type Entry struct {
	ID        int64     `json:"id"`
	Wallet    string    `json:"wallet"`
	Score     int       `json:"score"`
	Mode      string    `json:"mode"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository 分数存储
//
// mode 为空字符串表示不区分模式。
type Repository interface {
	Insert(ctx context.Context, wallet string, score int, mode string) (*Entry, error)
	// Top 返回每个钱包的最好成绩,分数降序,同分按提交时间先后
	Top(ctx context.Context, mode string, limit int) ([]*Entry, error)
	// Best 返回钱包的最好成绩,没有记录时返回 ErrNotFound
	Best(ctx context.Context, wallet, mode string) (*Entry, error)
}

// better 判断 a 是否排在 b 之前
func better(a, b *Entry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// bestPerWallet 从全部提交中取出每个钱包的最好成绩并排序
func bestPerWallet(entries []*Entry, mode string) []*Entry {
	best := make(map[string]*Entry)
	for _, e := range entries {
		if mode != "" && e.Mode != mode {
			continue
		}
		if cur, ok := best[e.Wallet]; !ok || better(e, cur) {
			best[e.Wallet] = e
		}
	}

	result := make([]*Entry, 0, len(best))
	for _, e := range best {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return better(result[i], result[j]) })
	return result
}
