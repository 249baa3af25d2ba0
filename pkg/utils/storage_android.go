//go:build android

package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// EnsureStorageDir 确保 Android 上的设置目录存在并可写
// gdata 使用 /data/data/{package}/ 但不会预先创建子目录,需要在打开设置存储前调用
func EnsureStorageDir() error {
	dir := GetStoragePath()
	if dir == "" {
		return fmt.Errorf("failed to detect Android package name")
	}
	settingsDir := filepath.Join(dir, "settings")
	if err := os.MkdirAll(settingsDir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory %s: %w", settingsDir, err)
	}

	probe := filepath.Join(settingsDir, ".write_test")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return fmt.Errorf("settings directory %s is not writable: %w", settingsDir, err)
	}
	_ = os.Remove(probe)
	return nil
}

// GetStoragePath 返回应用私有目录,包名取自 /proc/self/cmdline
func GetStoragePath() string {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return ""
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	app := string(bytes.TrimSpace(data))
	if app == "" {
		return ""
	}
	return filepath.Join("/data/data", app)
}
