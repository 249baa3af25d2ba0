package leaderboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gonewx/tears-of-aya/pkg/session"
)

const (
	// MaxWalletLength 钱包地址最大长度
	MaxWalletLength = 128
	// DefaultLimit 排行榜默认条数
	DefaultLimit = 10
	// MaxLimit 排行榜最大条数
	MaxLimit = 100
)

// Service 校验输入后读写 Repository
type Service struct {
	repo Repository
}

// NewService 创建排行榜服务
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Submit 校验并保存一次分数提交
func (s *Service) Submit(ctx context.Context, wallet string, score int, mode string) (*Entry, error) {
	wallet, err := normalizeWallet(wallet)
	if err != nil {
		return nil, err
	}
	if score < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidScore, score)
	}
	if _, err := session.ParseMode(mode); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	entry, err := s.repo.Insert(ctx, wallet, score, mode)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("component", "Leaderboard").
		Str("wallet", wallet).
		Int("score", score).
		Str("mode", mode).
		Msg("Score submitted")
	return entry, nil
}

// Top 返回排行榜;limit 非正数时取默认值,超过上限时截断
func (s *Service) Top(ctx context.Context, mode string, limit int) ([]*Entry, error) {
	if err := checkOptionalMode(mode); err != nil {
		return nil, err
	}
	return s.repo.Top(ctx, mode, ClampLimit(limit))
}

// Best 返回钱包的最好成绩
func (s *Service) Best(ctx context.Context, wallet, mode string) (*Entry, error) {
	wallet, err := normalizeWallet(wallet)
	if err != nil {
		return nil, err
	}
	if err := checkOptionalMode(mode); err != nil {
		return nil, err
	}
	return s.repo.Best(ctx, wallet, mode)
}

// ClampLimit 把请求条数限制在 [1, MaxLimit]
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

func normalizeWallet(wallet string) (string, error) {
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidWallet)
	}
	if len(wallet) > MaxWalletLength {
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidWallet, MaxWalletLength)
	}
	return wallet, nil
}

func checkOptionalMode(mode string) error {
	if mode == "" {
		return nil
	}
	if _, err := session.ParseMode(mode); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	return nil
}
