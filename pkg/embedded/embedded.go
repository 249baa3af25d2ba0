// Package embedded 提供嵌入资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量声明在项目根目录(embed.go)与 mobile/embed.go,
// 本包保存它并让其他包按 "assets/..." 路径访问。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// ErrNotInitialized 未调用 Init
var ErrNotInitialized = errors.New("embedded package not initialized, call Init() first")

var (
	assetsFS    fs.FS
	initialized bool
)

// Init 设置资源文件系统,根目录下应包含 assets/
// 必须在 main() 开始时、任何资源加载之前调用
func Init(assets fs.FS) {
	assetsFS = assets
	initialized = assets != nil
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// FS 返回资源文件系统
func FS() (fs.FS, error) {
	if !initialized {
		return nil, ErrNotInitialized
	}
	return assetsFS, nil
}

// clean 标准化路径并检查前缀
func clean(path string) (string, error) {
	if !initialized {
		return "", ErrNotInitialized
	}
	// embed.FS 使用正斜杠
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")
	if !strings.HasPrefix(path, "assets/") && path != "assets" {
		return "", fmt.Errorf("unknown resource path prefix: %s (must start with 'assets/')", path)
	}
	return path, nil
}

// Open 打开资源文件
func Open(path string) (fs.File, error) {
	path, err := clean(path)
	if err != nil {
		return nil, err
	}
	return assetsFS.Open(path)
}

// ReadFile 读取资源文件内容
func ReadFile(path string) ([]byte, error) {
	path, err := clean(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(assetsFS, path)
}

// Exists 检查资源文件是否存在
func Exists(path string) bool {
	file, err := Open(path)
	if err != nil {
		return false
	}
	file.Close()
	return true
}

// Glob 匹配资源文件
func Glob(pattern string) ([]string, error) {
	pattern, err := clean(pattern)
	if err != nil {
		return nil, err
	}
	return fs.Glob(assetsFS, pattern)
}

// ReadDir 读取目录内容
func ReadDir(path string) ([]fs.DirEntry, error) {
	path, err := clean(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadDir(assetsFS, path)
}

// Sub 返回指定目录的子文件系统
func Sub(dir string) (fs.FS, error) {
	dir, err := clean(dir)
	if err != nil {
		return nil, err
	}
	return fs.Sub(assetsFS, dir)
}

// Stat 获取文件信息
func Stat(path string) (fs.FileInfo, error) {
	file, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return file.Stat()
}
