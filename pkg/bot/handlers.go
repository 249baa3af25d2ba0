package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"github.com/gonewx/tears-of-aya/pkg/apiclient"
	"github.com/gonewx/tears-of-aya/pkg/leaderboard"
	"github.com/gonewx/tears-of-aya/pkg/session"
)

// Backend 机器人需要的排行榜与次数接口,由 apiclient.Client 实现
type Backend interface {
	Leaderboard(ctx context.Context, mode string, limit int) ([]*leaderboard.Entry, error)
	Best(ctx context.Context, wallet, mode string) (*leaderboard.Entry, error)
	Available(ctx context.Context, wallet string) (int, error)
	Grant(ctx context.Context, wallet string, count int) (int, error)
}

// requestTimeout 单条命令访问后端的超时
const requestTimeout = 5 * time.Second

// topSize /top 展示的条数
const topSize = 10

// Handlers 命令处理器
type Handlers struct {
	backend Backend
	gameURL string
}

// NewHandlers 创建命令处理器
func NewHandlers(backend Backend, gameURL string) *Handlers {
	return &Handlers{backend: backend, gameURL: gameURL}
}

// HandleStart /start:发送游戏入口
func (h *Handlers) HandleStart(c tele.Context) error {
	markup := &tele.ReplyMarkup{}
	if h.gameURL != "" {
		markup.Inline(markup.Row(markup.URL("▶️ 开始游戏", h.gameURL)))
	}
	return c.Send(h.startText(), markup)
}

// HandleTop /top [free|paid]
func (h *Handlers) HandleTop(c tele.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	return c.Send(h.topText(ctx, c.Args()))
}

// HandleBest /best <wallet>
func (h *Handlers) HandleBest(c tele.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	return c.Reply(h.bestText(ctx, c.Args()))
}

// HandleAttempts /attempts <wallet>
func (h *Handlers) HandleAttempts(c tele.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	return c.Reply(h.attemptsText(ctx, c.Args()))
}

// HandleGrant /grant <wallet> <n>,仅管理员
func (h *Handlers) HandleGrant(c tele.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	return c.Reply(h.grantText(ctx, c.Args()))
}

func (h *Handlers) startText() string {
	var sb strings.Builder
	sb.WriteString("💧 Tears of Aya\n")
	sb.WriteString("接住落下的泪滴,躲开危险,收集护盾。\n\n")
	sb.WriteString("/top [free|paid] 排行榜\n")
	sb.WriteString("/best <钱包> 最好成绩\n")
	sb.WriteString("/attempts <钱包> 剩余付费次数")
	if h.gameURL == "" {
		sb.WriteString("\n\n⚠️ 游戏地址未配置")
	}
	return sb.String()
}

func (h *Handlers) topText(ctx context.Context, args []string) string {
	mode := ""
	if len(args) > 0 {
		m, err := session.ParseMode(strings.ToLower(args[0]))
		if err != nil {
			return "❌ 模式只能是 free 或 paid"
		}
		mode = string(m)
	}

	entries, err := h.backend.Leaderboard(ctx, mode, topSize)
	if err != nil {
		log.Error().Err(err).Str("component", "Bot").Msg("Failed to fetch leaderboard")
		return "❌ 获取排行榜失败,请稍后重试"
	}

	title := "🏆 排行榜"
	if mode != "" {
		title += " (" + mode + ")"
	}

	var sb strings.Builder
	sb.WriteString(title + "\n━━━━━━━━━━━━━━━\n")
	if len(entries) == 0 {
		sb.WriteString("暂无数据")
		return sb.String()
	}

	medals := []string{"🥇", "🥈", "🥉"}
	for i, e := range entries {
		rank := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			rank = medals[i]
		}
		fmt.Fprintf(&sb, "%s %s: %d\n", rank, shortWallet(e.Wallet), e.Score)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (h *Handlers) bestText(ctx context.Context, args []string) string {
	if len(args) < 1 {
		return "用法: /best <钱包> [free|paid]"
	}
	wallet := args[0]
	mode := ""
	if len(args) > 1 {
		m, err := session.ParseMode(strings.ToLower(args[1]))
		if err != nil {
			return "❌ 模式只能是 free 或 paid"
		}
		mode = string(m)
	}

	entry, err := h.backend.Best(ctx, wallet, mode)
	if err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			return "📭 " + shortWallet(wallet) + " 还没有成绩"
		}
		log.Error().Err(err).Str("component", "Bot").Str("wallet", wallet).Msg("Failed to fetch best score")
		return "❌ 查询失败,请稍后重试"
	}
	return fmt.Sprintf("⭐ %s 最好成绩: %d (%s)", shortWallet(entry.Wallet), entry.Score, entry.Mode)
}

func (h *Handlers) attemptsText(ctx context.Context, args []string) string {
	if len(args) < 1 {
		return "用法: /attempts <钱包>"
	}
	n, err := h.backend.Available(ctx, args[0])
	if err != nil {
		log.Error().Err(err).Str("component", "Bot").Str("wallet", args[0]).Msg("Failed to fetch attempts")
		return "❌ 查询失败,请稍后重试"
	}
	return fmt.Sprintf("🎟 %s 剩余付费次数: %d", shortWallet(args[0]), n)
}

func (h *Handlers) grantText(ctx context.Context, args []string) string {
	if len(args) < 2 {
		return "用法: /grant <钱包> <次数>"
	}
	count, err := strconv.Atoi(args[1])
	if err != nil || count <= 0 {
		return "❌ 次数必须是正整数"
	}

	n, err := h.backend.Grant(ctx, args[0], count)
	if err != nil {
		log.Error().Err(err).Str("component", "Bot").Str("wallet", args[0]).Msg("Failed to grant attempts")
		return "❌ 发放失败: " + err.Error()
	}

	log.Info().Str("component", "Bot").Str("wallet", args[0]).Int("count", count).Msg("Attempts granted via bot")
	return fmt.Sprintf("✅ 已为 %s 发放 %d 次,剩余 %d 次", shortWallet(args[0]), count, n)
}

// shortWallet 长地址只保留首尾
func shortWallet(w string) string {
	if len(w) <= 14 {
		return w
	}
	return w[:6] + "…" + w[len(w)-4:]
}
