// Package editor はエディタのコマンド（開く・保存・名前変更・確認）を提供します
package editor

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"FasText/internal/domain/model"
	"FasText/internal/infrastructure/logging"
)

// Files はコマンドが使うファイル入出力です
type Files interface {
	ReadFile(path string) (model.FileContent, error)
	WriteFile(path, content string) error
	RenameFile(oldPath, newPath string) error
	Exists(path string) (bool, error)
	DirExists(path string) bool
}

// Dialogs はコマンドが使う同期化されたダイアログです
type Dialogs interface {
	PickOpenPath() (model.DialogResult[string], error)
	PickSavePath(suggested string) (model.DialogResult[string], error)
	Confirm(title, message string) (bool, error)
}

// OpenResult は開いたファイルの内容とパスです
type OpenResult struct {
	Content string
	Path    string
}

// Service はファイル操作とダイアログを組み合わせたコマンドを提供します。
// 呼び出しごとに独立しており、共有する可変状態はありません。
type Service struct {
	files   Files
	dialogs Dialogs
	updater Updater
	opener  URLOpener
	logger  logging.Logger
	newID   func() string
}

// Option は Service の設定を変更します
type Option func(*Service)

// WithUpdater はアップデートサービスを設定します
func WithUpdater(u Updater) Option {
	return func(s *Service) { s.updater = u }
}

// WithURLOpener はURLを開く実装を設定します
func WithURLOpener(o URLOpener) Option {
	return func(s *Service) { s.opener = o }
}

// NewService は新しい Service インスタンスを作成します
func NewService(files Files, dialogs Dialogs, logger logging.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Service{
		files:   files,
		dialogs: dialogs,
		updater: DisabledUpdater{},
		logger:  logger,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// trace はコマンドの開始を記録し、終了時に呼ぶ関数を返します
func (s *Service) trace(op string, fields ...logging.Field) func(error) {
	fields = append(fields, logging.F("op", op), logging.F("call_id", s.newID()))
	s.logger.Log(logging.LevelDebug, "コマンド開始", nil, fields...)
	return func(err error) {
		switch {
		case err == nil:
			s.logger.Log(logging.LevelInfo, "コマンド完了", nil, fields...)
		case model.KindOf(err) == model.KindCancelled:
			s.logger.Log(logging.LevelInfo, "コマンドがキャンセルされました", nil, fields...)
		default:
			s.logger.Log(logging.LevelError, "コマンド失敗", err, fields...)
		}
	}
}

func noSelection() error {
	return model.NewError(model.KindCancelled, "", "", nil)
}

// Open はファイル選択ダイアログを表示し、選択されたファイルを読み込みます
func (s *Service) Open() (res OpenResult, err error) {
	done := s.trace("open")
	defer func() { done(err) }()

	choice, err := s.dialogs.PickOpenPath()
	if err != nil {
		return OpenResult{}, err
	}
	if !choice.Selected {
		return OpenResult{}, noSelection()
	}

	content, err := s.files.ReadFile(choice.Value)
	if err != nil {
		return OpenResult{}, err
	}
	return OpenResult{Content: content.Text, Path: choice.Value}, nil
}

// SaveDirect は指定されたパスへ内容を保存し、保存先のパスを返します。
// 親ディレクトリは存在している必要があります。
func (s *Service) SaveDirect(path, content string) (saved string, err error) {
	done := s.trace("save_direct", logging.F("path", path))
	defer func() { done(err) }()

	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", model.Validationf("path must not be empty")
	}

	if parent := filepath.Dir(trimmed); !s.files.DirExists(parent) {
		return "", model.NewError(model.KindValidation, "parent directory does not exist", parent, nil)
	}

	if err := s.files.WriteFile(trimmed, content); err != nil {
		return "", err
	}
	return trimmed, nil
}

// SaveAs は保存ダイアログで選ばれたパスへ内容を保存します。
// defaultPath があればそのファイル名を初期値として表示します。
func (s *Service) SaveAs(content string, defaultPath *string) (saved string, err error) {
	done := s.trace("save_as")
	defer func() { done(err) }()

	choice, err := s.dialogs.PickSavePath(SuggestedFileName(defaultPath))
	if err != nil {
		return "", err
	}
	if !choice.Selected {
		return "", noSelection()
	}

	if err := s.files.WriteFile(choice.Value, content); err != nil {
		return "", err
	}
	return choice.Value, nil
}

// Rename はファイルを同じディレクトリ内で newName に変更し、新しいパスを返します
func (s *Service) Rename(oldPath, newName string) (renamed string, err error) {
	done := s.trace("rename", logging.F("path", oldPath), logging.F("new_name", newName))
	defer func() { done(err) }()

	parent, ok := parentDir(oldPath)
	if !ok {
		return "", model.NewError(model.KindValidation, "could not resolve parent directory", oldPath, nil)
	}
	if !validFileName(newName) {
		return "", model.NewError(model.KindValidation, "invalid file name", newName, nil)
	}

	newPath := filepath.Join(parent, newName)
	exists, err := s.files.Exists(newPath)
	if err != nil {
		return "", err
	}
	if exists {
		return "", model.NewError(model.KindValidation, "a file with that name already exists", newPath, nil)
	}

	if err := s.files.RenameFile(oldPath, newPath); err != nil {
		return "", err
	}
	return newPath, nil
}

// Confirm ははい/いいえの確認ダイアログを表示します
func (s *Service) Confirm(message, title string) (answer bool, err error) {
	done := s.trace("confirm")
	defer func() { done(err) }()

	return s.dialogs.Confirm(title, message)
}

// SuggestedFileName は既定パスから保存ダイアログのファイル名を求めます。
// nil や空白のみの場合は空文字を返します。
func SuggestedFileName(defaultPath *string) string {
	if defaultPath == nil {
		return ""
	}
	trimmed := strings.TrimSpace(*defaultPath)
	if trimmed == "" {
		return ""
	}
	name := filepath.Base(trimmed)
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return name
}

func parentDir(path string) (string, bool) {
	if strings.TrimSpace(path) == "" {
		return "", false
	}
	clean := filepath.Clean(path)
	parent := filepath.Dir(clean)
	if parent == clean {
		// ルートには親がない
		return "", false
	}
	return parent, true
}

func validFileName(name string) bool {
	if strings.TrimSpace(name) == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}
