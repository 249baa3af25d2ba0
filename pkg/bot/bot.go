// Package bot 是 Tears of Aya 的 Telegram 机器人:游戏入口、排行榜查询与管理员发放次数
package bot

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"github.com/gonewx/tears-of-aya/pkg/config"
)

// ErrMissingToken 未配置机器人令牌
var ErrMissingToken = errors.New("bot token is required")

// Bot 包装 telebot 实例
type Bot struct {
	bot      *tele.Bot
	cfg      *config.ServerConfig
	handlers *Handlers
}

// New 创建机器人并注册命令
func New(cfg *config.ServerConfig, backend Backend) (*Bot, error) {
	if cfg.Bot.Token == "" {
		return nil, ErrMissingToken
	}

	teleBot, err := tele.NewBot(tele.Settings{
		Token:  cfg.Bot.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.Error().Err(err).Str("component", "Bot").Msg("Handler error")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		bot:      teleBot,
		cfg:      cfg,
		handlers: NewHandlers(backend, cfg.Game.URL),
	}
	b.register()
	return b, nil
}

func (b *Bot) register() {
	b.bot.Use(RecoveryMiddleware())
	b.bot.Use(LoggingMiddleware())

	b.bot.Handle("/start", b.handlers.HandleStart)
	b.bot.Handle("/play", b.handlers.HandleStart)
	b.bot.Handle("/top", b.handlers.HandleTop)
	b.bot.Handle("/best", b.handlers.HandleBest)
	b.bot.Handle("/attempts", b.handlers.HandleAttempts)

	admin := b.bot.Group()
	admin.Use(AdminMiddleware(b.cfg))
	admin.Handle("/grant", b.handlers.HandleGrant)
}

// Start 开始长轮询,阻塞直到 Stop
func (b *Bot) Start() {
	log.Info().Str("component", "Bot").Str("username", b.bot.Me.Username).Msg("Bot is starting")
	b.bot.Start()
}

// Stop 停止轮询
func (b *Bot) Stop() {
	log.Info().Str("component", "Bot").Msg("Stopping bot")
	b.bot.Stop()
}
