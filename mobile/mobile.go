//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包。
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数。
//
// 此文件仅在使用 -tags mobile 构建时编译:
//
//	# Android
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.gonewx.aya -o build/android/aya.aar -v ./mobile
//
//	# iOS (仅 macOS)
//	ebitenmobile bind -target ios -tags mobile -o build/ios/Aya.xcframework -v ./mobile
package mobile

import (
	"github.com/hajimehoshi/ebiten/v2/mobile"
	"github.com/rs/zerolog/log"

	"github.com/gonewx/tears-of-aya/pkg/app"
	"github.com/gonewx/tears-of-aya/pkg/embedded"
)

func init() {
	embedded.Init(assetsFS)
	assets, err := embedded.FS()
	if err != nil {
		log.Fatal().Err(err).Msg("资源初始化失败")
	}

	// 移动端离线运行,分数只保存在本地
	gameApp, err := app.NewApp(app.Config{Assets: assets})
	if err != nil {
		log.Fatal().Err(err).Msg("游戏初始化失败")
	}

	// 注册游戏到 ebitenmobile
	mobile.SetGame(gameApp)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
