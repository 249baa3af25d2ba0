//go:build !mobile

package utils

import "os"

// IsMobile 是否按移动端处理输入提示
// 桌面编译时默认 false,设置 AYA_MOBILE_EMULATE=1 可在本地模拟移动端
func IsMobile() bool {
	return os.Getenv("AYA_MOBILE_EMULATE") == "1"
}
