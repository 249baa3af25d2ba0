// Package server 提供排行榜与付费次数的 HTTP API
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gonewx/tears-of-aya/pkg/attempts"
	"github.com/gonewx/tears-of-aya/pkg/config"
	"github.com/gonewx/tears-of-aya/pkg/leaderboard"
)

// Option 服务器可选项
type Option func(*Server)

// WithHealthCheck 设置 /healthz 使用的存储检查
func WithHealthCheck(check func(context.Context) error) Option {
	return func(s *Server) { s.healthCheck = check }
}

// Server HTTP API 服务
type Server struct {
	cfg         config.HTTPConfig
	adminToken  string
	scores      *leaderboard.Service
	ledger      attempts.Ledger
	healthCheck func(context.Context) error
	handler     http.Handler
}

// New 创建服务并注册路由
func New(cfg *config.ServerConfig, scores *leaderboard.Service, ledger attempts.Ledger, opts ...Option) *Server {
	s := &Server{
		cfg:        cfg.HTTP,
		adminToken: cfg.Admin.Token,
		scores:     scores,
		ledger:     ledger,
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/scores", s.handleSubmitScore)
	mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET /api/scores/{wallet}/best", s.handleBestScore)
	mux.HandleFunc("GET /api/attempts/{wallet}", s.handleAttempts)
	mux.HandleFunc("POST /api/attempts/{wallet}/consume", s.handleConsume)
	mux.HandleFunc("POST /api/attempts/{wallet}/grant", s.handleGrant)

	// wasm 构建产物
	if s.cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.cfg.StaticDir)))
		log.Info().Str("component", "Server").Str("dir", s.cfg.StaticDir).Msg("Serving static files")
	}

	s.handler = chain(mux,
		recoveryMiddleware,
		loggingMiddleware,
		corsMiddleware(s.cfg.AllowedOrigins),
	)
	return s
}

// Handler 返回带中间件的根处理器
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run 监听 cfg.Addr,ctx 取消后优雅退出
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve 在给定 listener 上提供服务
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("component", "Server").Str("addr", ln.Addr().String()).Msg("HTTP server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Str("component", "Server").Msg("HTTP server stopped")
	return nil
}
