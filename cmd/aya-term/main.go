// aya-term 在终端里玩 Tears of Aya
//
// 鼠标或方向键移动接取器,p 暂停,r 重开,q / Esc 退出。
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gonewx/tears-of-aya/internal/synth"
	"github.com/gonewx/tears-of-aya/internal/termui"
	"github.com/gonewx/tears-of-aya/pkg/apiclient"
	"github.com/gonewx/tears-of-aya/pkg/config"
	"github.com/gonewx/tears-of-aya/pkg/engine"
	"github.com/gonewx/tears-of-aya/pkg/session"
)

var (
	variant   = flag.String("variant", "tears", "变体(tears 或 blood)")
	seed      = flag.Int64("seed", 0, "固定随机种子,0 表示随机")
	sound     = flag.Bool("sound", false, "通过声卡播放合成音效")
	serverURL = flag.String("server", "", "排行榜后端地址,为空时不上报")
	wallet    = flag.String("wallet", "", "钱包地址,上报分数需要")
	logFile   = flag.String("log", "", "日志文件(终端被界面占用,默认不输出日志)")
	verbose   = flag.Bool("verbose", false, "显示详细调试信息")
)

func main() {
	flag.Parse()

	if err := setupLogging(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.LoadVariant(*variant)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging 日志写到文件,否则关闭
func setupLogging() error {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if *logFile == "" {
		zerolog.SetGlobalLevel(zerolog.Disabled)
		return nil
	}
	f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: f, NoColor: true, TimeFormat: time.RFC3339})
	return nil
}

func run(cfg *config.VariantConfig) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	view := termui.NewView(screen)

	opts := []engine.Option{engine.WithSeed(runSeed())}
	if *sound {
		sink := synth.NewSpeakerSink(0.6)
		if err := sink.Start(); err != nil {
			log.Warn().Err(err).Msg("audio unavailable")
		} else {
			defer sink.Close()
			opts = append(opts, engine.WithAudio(sink))
		}
	}

	gm := engine.NewGameManager(cfg, opts...)
	if err := gm.Initialize(view); err != nil {
		return err
	}

	sess := newSession(cfg)
	gm.OnGameOver(func(score int) {
		// 在帧循环 goroutine 上调用,上报放到后台
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			res := sess.FinishRun(ctx, score)
			log.Info().Int("score", res.Score).Bool("submitted", res.Submitted).Msg("run finished")
		}()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := engine.NewRunner(gm, 60)
	start := func(g *engine.GameManager) {
		if err := sess.BeginRun(ctx); err != nil {
			log.Warn().Err(err).Msg("run rejected")
			return
		}
		if err := g.StartGame(); err != nil {
			sess.Abort()
			log.Error().Err(err).Msg("failed to start game")
		}
	}
	runner.Send(start)

	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	events := make(chan tcell.Event, 32)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case err := <-done:
			return err
		case ev := <-events:
			in := termui.Translate(ev)
			switch in.Action {
			case termui.ActionQuit:
				cancel()
				<-done
				return nil
			case termui.ActionRestart:
				runner.Send(func(g *engine.GameManager) {
					sess.Abort()
					start(g)
				})
				if runner.Paused() {
					view.SetPaused(runner.TogglePause())
				}
			case termui.ActionPause:
				view.SetPaused(runner.TogglePause())
			case termui.ActionPointer:
				x := view.ToPlayfieldX(in.Col)
				runner.Send(func(g *engine.GameManager) { g.Input().SetPointerX(x) })
			case termui.ActionNudge:
				dx := in.DX
				runner.Send(func(g *engine.GameManager) { g.Input().Nudge(dx) })
			case termui.ActionResize:
				screen.Sync()
				view.Redraw()
			}
		}
	}
}

// newSession 终端只支持免费模式,有钱包和后端时上报分数
func newSession(cfg *config.VariantConfig) *session.PlaySession {
	opts := session.Options{Mode: session.ModeFree, Variant: cfg.Name, Wallet: *wallet}
	if *serverURL != "" {
		opts.Submitter = apiclient.New(*serverURL)
	}
	return session.NewPlaySession(opts)
}

func runSeed() int64 {
	if *seed != 0 {
		return *seed
	}
	return time.Now().UnixNano()
}
