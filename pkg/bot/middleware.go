package bot

import (
	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"github.com/gonewx/tears-of-aya/pkg/config"
)

// AdminMiddleware 只允许配置中的管理员执行
func AdminMiddleware(cfg *config.ServerConfig) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return nil
			}
			if !cfg.IsAdmin(sender.ID) {
				log.Warn().
					Str("component", "Bot").
					Int64("user_id", sender.ID).
					Str("command", c.Text()).
					Msg("Non-admin attempted admin command")
				return c.Reply("❌ 权限不足:需要管理员权限")
			}
			return next(c)
		}
	}
}

// LoggingMiddleware 记录所有收到的消息
func LoggingMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			event := log.Debug().Str("component", "Bot")
			if sender := c.Sender(); sender != nil {
				event = event.Int64("user_id", sender.ID).Str("username", sender.Username)
			}
			if chat := c.Chat(); chat != nil {
				event = event.Int64("chat_id", chat.ID).Str("chat_type", string(chat.Type))
			}
			event.Str("text", c.Text()).Msg("Received message")
			return next(c)
		}
	}
}

// RecoveryMiddleware 捕获处理器中的 panic
func RecoveryMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error().Str("component", "Bot").Interface("panic", r).Msg("Recovered from panic in handler")
					err = c.Reply("❌ 发生内部错误,请稍后重试")
				}
			}()
			return next(c)
		}
	}
}
