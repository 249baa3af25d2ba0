// Tears of Aya 桌面端入口
package main

import (
	"errors"
	"flag"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gonewx/tears-of-aya/pkg/app"
	"github.com/gonewx/tears-of-aya/pkg/config"
	"github.com/gonewx/tears-of-aya/pkg/embedded"
)

var (
	verbose   = flag.Bool("verbose", false, "显示详细调试信息")
	variant   = flag.String("variant", "", "直接开始指定变体(tears 或 blood),跳过菜单")
	mode      = flag.String("mode", "free", "直接开局时的模式(free 或 paid)")
	serverURL = flag.String("server", "", "排行榜后端地址,为空时离线运行")
	wallet    = flag.String("wallet", "", "钱包地址,付费模式和分数上报需要")
	seed      = flag.Int64("seed", 0, "固定随机种子,0 表示随机")
)

func main() {
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// 初始化嵌入资源(assetsFS 在 embed.go 中声明)
	embedded.Init(assetsFS)
	assets, err := embedded.FS()
	if err != nil {
		log.Fatal().Err(err).Msg("embedded assets unavailable")
	}

	gameApp, err := app.NewApp(app.Config{
		Assets:    assets,
		ServerURL: *serverURL,
		Wallet:    *wallet,
		Variant:   *variant,
		Mode:      *mode,
		Seed:      *seed,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("游戏初始化失败")
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("Tears of Aya")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(gameApp); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal().Err(err).Msg("game loop failed")
	}
}
