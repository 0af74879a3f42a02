package model

import (
	"errors"
	"fmt"
)

// Kind はエラーの分類です
type Kind int

const (
	// KindValidation は入力検証エラーです
	KindValidation Kind = iota + 1
	// KindIO はファイルシステム操作の失敗です
	KindIO
	// KindSizeLimit はファイルサイズ上限超過です
	KindSizeLimit
	// KindDecode はテキストとして解釈できない内容です
	KindDecode
	// KindCancelled はユーザーがダイアログをキャンセルしたことを表します
	KindCancelled
	// KindCommunication はダイアログが結果を返さずに終了したことを表します
	KindCommunication
)

// 各分類のセンチネルエラー。errors.Is で判定できます。
var (
	ErrValidation    = errors.New("invalid request")
	ErrIO            = errors.New("i/o failure")
	ErrSizeLimit     = errors.New("file too large")
	ErrDecode        = errors.New("content is not valid text")
	ErrNoSelection   = errors.New("no file selected")
	ErrCommunication = errors.New("failed to receive the dialog response")
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindIO:
		return "io"
	case KindSizeLimit:
		return "size_limit"
	case KindDecode:
		return "decode"
	case KindCancelled:
		return "cancelled"
	case KindCommunication:
		return "communication"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindIO:
		return ErrIO
	case KindSizeLimit:
		return ErrSizeLimit
	case KindDecode:
		return ErrDecode
	case KindCancelled:
		return ErrNoSelection
	case KindCommunication:
		return ErrCommunication
	default:
		return nil
	}
}

// Error は操作の失敗を分類付きで表します
type Error struct {
	Kind Kind
	// Op は失敗した手順の説明です（例: "open file"）
	Op string
	// Path は対象のパスです（ない場合は空）
	Path string
	// Err は下位のエラーです
	Err error
}

// NewError は新しい Error を作成します
func NewError(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Validationf は入力検証エラーを作成します
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Op: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Op
	if msg == "" {
		if s := e.Kind.sentinel(); s != nil {
			msg = s.Error()
		}
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is は同じ分類のセンチネルに一致します
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	return e.Kind.sentinel() == target
}

// KindOf はエラーチェーンから分類を取り出します。見つからない場合は 0 です。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
