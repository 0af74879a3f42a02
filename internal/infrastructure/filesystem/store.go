package filesystem

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"unicode/utf8"

	"FasText/internal/domain/model"
	"FasText/internal/infrastructure/logging"
)

// readSlack はメタデータのサイズに加えて確保するバッファの余裕です
const readSlack = 1024

// DefaultDirPerm は自動作成するディレクトリのパーミッションです
const DefaultDirPerm fs.FileMode = 0o755

// Store はテキストファイル全体の読み書きを提供します
type Store struct {
	fs          FS
	logger      logging.Logger
	maxFileSize int64
}

// Option は Store の設定を変更します
type Option func(*Store)

// WithFS は使用するファイルシステムを差し替えます
func WithFS(fsys FS) Option {
	return func(s *Store) { s.fs = fsys }
}

// WithMaxFileSize は読み込み可能な最大バイト数を設定します
func WithMaxFileSize(n int64) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxFileSize = n
		}
	}
}

// NewStore は新しい Store インスタンスを作成します
func NewStore(logger logging.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Store{
		fs:          OSFS{},
		logger:      logger,
		maxFileSize: model.DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxFileSize は読み込み上限を返します
func (s *Store) MaxFileSize() int64 {
	return s.maxFileSize
}

// ReadFile はファイル全体をテキストとして読み込みます。
// サイズ上限の確認はファイルを開く前に行います。
func (s *Store) ReadFile(path string) (model.FileContent, error) {
	info, err := s.fs.Stat(path)
	if err != nil {
		return model.FileContent{}, model.NewError(model.KindIO, "failed to read file metadata", path, err)
	}

	size := info.Size()
	if size > s.maxFileSize {
		s.logger.Log(logging.LevelWarn, "サイズ上限を超えるファイルの読み込みを拒否", nil,
			logging.F("path", path), logging.F("size", size))
		return model.FileContent{}, model.NewError(model.KindSizeLimit,
			fmt.Sprintf("file is too large (maximum %s)", formatLimit(s.maxFileSize)), path, nil)
	}

	f, err := s.fs.Open(path)
	if err != nil {
		return model.FileContent{}, model.NewError(model.KindIO, "failed to open file", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	buf.Grow(int(size) + readSlack)
	if _, err := buf.ReadFrom(f); err != nil {
		return model.FileContent{}, model.NewError(model.KindIO, "failed to read file", path, err)
	}

	if !utf8.Valid(buf.Bytes()) {
		return model.FileContent{}, model.NewError(model.KindDecode, "", path, nil)
	}

	s.logger.Log(logging.LevelDebug, "ファイルを読み込みました", nil,
		logging.F("path", path), logging.F("size", size))
	return model.FileContent{Text: buf.String(), Size: size}, nil
}

// WriteFile は内容をファイルに書き込み、ディスクへ同期してから戻ります。
// 親ディレクトリが存在しない場合は作成します。
// 途中で失敗した場合、ファイルが切り詰められたまま残ることがあります。
func (s *Store) WriteFile(path, content string) (err error) {
	if parent := filepath.Dir(path); !s.DirExists(parent) {
		if err := s.fs.MkdirAll(parent, DefaultDirPerm); err != nil {
			return model.NewError(model.KindIO, "failed to create directory", parent, err)
		}
	}

	f, err := s.fs.Create(path)
	if err != nil {
		return model.NewError(model.KindIO, "failed to create file", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = model.NewError(model.KindIO, "failed to close file", path, cerr)
		}
	}()

	if _, err := f.Write([]byte(content)); err != nil {
		return model.NewError(model.KindIO, "failed to write file", path, err)
	}

	if err := f.Sync(); err != nil {
		return model.NewError(model.KindIO, "failed to sync file", path, err)
	}

	s.logger.Log(logging.LevelDebug, "ファイルを保存しました", nil,
		logging.F("path", path), logging.F("bytes", len(content)))
	return nil
}

// formatLimit は上限を MB 単位で表します。MiB で割り切れない場合はバイト数で表します。
func formatLimit(n int64) string {
	const mib = 1024 * 1024
	if n%mib == 0 {
		return fmt.Sprintf("%dMB", n/mib)
	}
	return fmt.Sprintf("%d bytes", n)
}

// RenameFile はファイルを移動します。移動先の存在確認は呼び出し側の責任です。
func (s *Store) RenameFile(oldPath, newPath string) error {
	if err := s.fs.Rename(oldPath, newPath); err != nil {
		return model.NewError(model.KindIO, "failed to rename file", oldPath, err)
	}
	return nil
}

// Exists はパスに何かが存在するかを返します
func (s *Store) Exists(path string) (bool, error) {
	_, err := s.fs.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, model.NewError(model.KindIO, "failed to read file metadata", path, err)
	}
}

// DirExists はパスが既存のディレクトリであるかを返します
func (s *Store) DirExists(path string) bool {
	info, err := s.fs.Stat(path)
	return err == nil && info.IsDir()
}
