// aya-bot 是 Telegram 机器人,通过排行榜 API 查询数据
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gonewx/tears-of-aya/pkg/apiclient"
	"github.com/gonewx/tears-of-aya/pkg/bot"
	"github.com/gonewx/tears-of-aya/pkg/config"
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

	client := apiclient.New(cfg.Bot.APIBaseURL, apiclient.WithAdminToken(cfg.Admin.Token))

	telegramBot, err := bot.New(cfg, client)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go telegramBot.Start()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	telegramBot.Stop()
}
