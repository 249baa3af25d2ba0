// aya-server 提供排行榜与付费次数 API,可选地托管 wasm 前端
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gonewx/tears-of-aya/pkg/attempts"
	"github.com/gonewx/tears-of-aya/pkg/config"
	"github.com/gonewx/tears-of-aya/pkg/db"
	"github.com/gonewx/tears-of-aya/pkg/leaderboard"
	"github.com/gonewx/tears-of-aya/pkg/server"
)

var (
	configDir = flag.String("config", "", "config.yaml 所在目录")
	verbose   = flag.Bool("verbose", false, "显示详细调试信息")
)

func main() {
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.LoadServerConfig(*configDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		repo   leaderboard.Repository
		ledger attempts.Ledger
		opts   []server.Option
	)

	if cfg.Database.Enabled() {
		pool, err := db.NewPool(ctx, &cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer pool.Close()

		if err := db.Migrate(ctx, pool.Pool); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}

		repo = leaderboard.NewPostgresRepository(pool.Pool)
		ledger = attempts.NewPostgresLedger(pool.Pool)
		opts = append(opts, server.WithHealthCheck(pool.HealthCheck))
	} else {
		log.Warn().Msg("No database configured, scores and attempts are kept in memory")
		repo = leaderboard.NewMemoryRepository()
		ledger = attempts.NewMemoryLedger()
	}

	if cfg.Admin.Token == "" {
		log.Warn().Msg("admin.token is empty, the grant endpoint is disabled")
	}

	srv := server.New(cfg, leaderboard.NewService(repo), ledger, opts...)
	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server stopped with error")
	}
}
