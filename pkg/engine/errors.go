package engine

import "errors"

var (
	// ErrNoRenderTarget Initialize 没有拿到渲染目标
	ErrNoRenderTarget = errors.New("no render target")
	// ErrNotInitialized 在 Initialize 成功之前调用 StartGame
	ErrNotInitialized = errors.New("game manager not initialized")
	// ErrTickPanic 帧内发生 panic,本局已被强制结束
	ErrTickPanic = errors.New("panic during tick")
)
