// Package scenes 提供 Ebitengine 前端的三个场景:菜单、游戏、结算
package scenes

import (
	"github.com/gonewx/tears-of-aya/pkg/game"
)

// Scene is a type alias for game.Scene.
type Scene = game.Scene
