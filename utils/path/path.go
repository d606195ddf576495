package path

import (
	"os"
	"path/filepath"
	"runtime"
)

// RootPath 傳回專案根目錄的絕對路徑（此檔案往上兩層）
func RootPath() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		panic("無法取得 caller 位置")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
}

// Resolve 相對路徑依序接在 RootPath 與 dirs 之後；絕對路徑原樣回傳
func Resolve(p string, dirs ...string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	parts := append([]string{RootPath()}, dirs...)
	return filepath.Join(append(parts, p)...)
}

// Exists 路徑是否存在
func Exists(p string) (bool, error) {
	_, err := os.Stat(p)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
