package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Mode 游戏模式
type Mode string

const (
	ModeFree Mode = "free"
	ModePaid Mode = "paid"
)

// ParseMode 解析模式字符串
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFree, ModePaid:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

var (
	// ErrNoAttempts 付费模式下没有剩余次数
	ErrNoAttempts = errors.New("no play attempts left")
	// ErrWalletRequired 付费模式需要钱包地址
	ErrWalletRequired = errors.New("wallet required for paid mode")
	// ErrRunInProgress 上一局还没有结束
	ErrRunInProgress = errors.New("run already in progress")
)

// AttemptGate 付费次数闸门("支付已确认 / 剩余次数" 信号)
type AttemptGate interface {
	Available(ctx context.Context, wallet string) (int, error)
	Consume(ctx context.Context, wallet string) (int, error)
}

// ScoreSubmitter 分数上报
type ScoreSubmitter interface {
	SubmitScore(ctx context.Context, wallet string, score int, mode string) error
}

// BestScoreStore 本地最高分记录
type BestScoreStore interface {
	RecordBestScore(variant string, score int) bool
}

// Options PlaySession 的依赖,除 Mode 外都可以为空
type Options struct {
	Mode      Mode
	Wallet    string
	Variant   string
	Gate      AttemptGate
	Submitter ScoreSubmitter
	Best      BestScoreStore
}

// Result 一局结束后的结果
type Result struct {
	Score     int
	NewBest   bool
	Submitted bool
	SubmitErr error
}

// PlaySession 游戏引擎之外的一局生命周期:付费闸门、分数上报、最高分
//
// 引擎不知道钱包和支付,它只需要在开局前问一次 BeginRun,结束时调用 FinishRun。
// 不做重试,失败原样返回给界面层。FinishRun 可以在后台 goroutine 上调用。
type PlaySession struct {
	opts    Options
	mu      sync.Mutex
	running bool
}

// NewPlaySession 创建会话
func NewPlaySession(opts Options) *PlaySession {
	if opts.Mode == "" {
		opts.Mode = ModeFree
	}
	return &PlaySession{opts: opts}
}

// Mode 返回模式
func (s *PlaySession) Mode() Mode { return s.opts.Mode }

// Wallet 返回钱包地址
func (s *PlaySession) Wallet() string { return s.opts.Wallet }

// Remaining 查询剩余次数,免费模式返回 -1
func (s *PlaySession) Remaining(ctx context.Context) (int, error) {
	if s.opts.Mode != ModePaid {
		return -1, nil
	}
	if s.opts.Gate == nil || s.opts.Wallet == "" {
		return 0, ErrWalletRequired
	}
	return s.opts.Gate.Available(ctx, s.opts.Wallet)
}

// BeginRun 检查是否允许开局
// 付费模式:要求钱包、剩余次数 > 0,并消耗一次
func (s *PlaySession) BeginRun(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrRunInProgress
	}
	s.running = true
	s.mu.Unlock()

	if err := s.checkGate(ctx); err != nil {
		s.Abort()
		return err
	}
	return nil
}

// checkGate 付费模式下检查并消耗一次
func (s *PlaySession) checkGate(ctx context.Context) error {
	if s.opts.Mode == ModePaid {
		if s.opts.Wallet == "" || s.opts.Gate == nil {
			return ErrWalletRequired
		}
		left, err := s.opts.Gate.Available(ctx, s.opts.Wallet)
		if err != nil {
			return fmt.Errorf("check attempts: %w", err)
		}
		if left <= 0 {
			return ErrNoAttempts
		}
		left, err = s.opts.Gate.Consume(ctx, s.opts.Wallet)
		if err != nil {
			return fmt.Errorf("consume attempt: %w", err)
		}
		log.Info().
			Str("component", "PlaySession").
			Str("wallet", s.opts.Wallet).
			Int("remaining", left).
			Msg("paid attempt consumed")
	}
	return nil
}

// FinishRun 记录结果:更新本地最高分,有钱包时上报分数
// 上报失败不会影响本地结果,错误放在 Result.SubmitErr
func (s *PlaySession) FinishRun(ctx context.Context, score int) Result {
	s.Abort()
	res := Result{Score: score}

	if s.opts.Best != nil {
		res.NewBest = s.opts.Best.RecordBestScore(s.opts.Variant, score)
	}

	if s.opts.Submitter != nil && s.opts.Wallet != "" {
		err := s.opts.Submitter.SubmitScore(ctx, s.opts.Wallet, score, string(s.opts.Mode))
		if err != nil {
			res.SubmitErr = fmt.Errorf("submit score: %w", err)
			log.Warn().Err(err).Str("component", "PlaySession").Int("score", score).Msg("score submission failed")
		} else {
			res.Submitted = true
		}
	}

	return res
}

// Abort 放弃本局(例如玩家返回菜单),不上报分数
func (s *PlaySession) Abort() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}
