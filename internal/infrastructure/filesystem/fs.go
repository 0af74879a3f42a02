// Package filesystem はファイルシステム操作を提供します
package filesystem

import (
	"io"
	"io/fs"
	"os"
)

// File は Store が読み書きに使うファイルハンドルです
type File interface {
	io.Reader
	io.Writer
	Sync() error
	Close() error
}

// FS は Store が使用するファイルシステム操作を抽象化します。
// 本番では OSFS、テストではスパイ実装を使います。
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	Open(name string) (File, error)
	// Create はファイルを作成または切り詰めて書き込み用に開きます
	Create(name string) (File, error)
	MkdirAll(path string, perm fs.FileMode) error
	Rename(oldpath, newpath string) error
}

// OSFS は os パッケージに委譲する FS 実装です
type OSFS struct{}

// Stat は os.Stat に委譲します
func (OSFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// Open は os.Open に委譲します
func (OSFS) Open(name string) (File, error) {
	return os.Open(name)
}

// Create は 0644 でファイルを作成または切り詰めます
func (OSFS) Create(name string) (File, error) {
	return os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
}

// MkdirAll は os.MkdirAll に委譲します
func (OSFS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Rename は os.Rename に委譲します
func (OSFS) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}
