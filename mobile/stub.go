//go:build !mobile

// Package mobile 是 ebitenmobile 绑定入口,只在 -tags mobile 时包含游戏代码
package mobile

// Dummy 让包在桌面构建时也有导出符号
func Dummy() {}
