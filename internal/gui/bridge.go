// Package gui はGUIとダイアログ連携を提供します
package gui

import (
	"sync"

	"FasText/internal/domain/model"
)

// DialogMode はファイルダイアログの種類です
type DialogMode int

const (
	// ModeOpen は既存ファイルを開くダイアログです
	ModeOpen DialogMode = iota
	// ModeSave は保存先を選ぶダイアログです
	ModeSave
)

func (m DialogMode) String() string {
	if m == ModeSave {
		return "save"
	}
	return "open"
}

// FileDialogOptions はファイルダイアログの表示設定です
type FileDialogOptions struct {
	Mode    DialogMode
	Title   string
	Filters []model.FileFilter
	// FileName は保存ダイアログのファイル名欄の初期値です
	FileName string
}

// Provider はコールバックで結果を返すモーダルダイアログの実装です。
// 結果は reply に一度だけ送られます。結果を返せない場合は reply を閉じるか、
// エラーを返します。
type Provider interface {
	ShowFileDialog(opts FileDialogOptions, reply *Reply[model.DialogResult[string]]) error
	ShowConfirm(title, message string, reply *Reply[bool]) error
}

// Reply はダイアログの結果を一度だけ受け渡すメールボックスです。
// Send と Close はどのゴルーチンからでも呼び出せ、最初の呼び出しだけが有効です。
type Reply[T any] struct {
	ch   chan T
	once sync.Once
}

func newReply[T any]() *Reply[T] {
	return &Reply[T]{ch: make(chan T, 1)}
}

// Send は結果を送ります。二回目以降の呼び出しは無視されます。
func (r *Reply[T]) Send(v T) {
	r.once.Do(func() {
		r.ch <- v
		close(r.ch)
	})
}

// Close は結果を送らずにメールボックスを閉じます
func (r *Reply[T]) Close() {
	r.once.Do(func() {
		close(r.ch)
	})
}

// Await はダイアログを表示し、結果が届くまで呼び出し元をブロックします。
// タイムアウトはありません。結果が届かずにメールボックスが閉じられた場合は
// 通信エラーになります。
func Await[T any](show func(*Reply[T]) error) (T, error) {
	reply := newReply[T]()

	showErr := show(reply)
	if showErr != nil {
		reply.Close()
	}

	v, ok := <-reply.ch
	if !ok {
		var zero T
		return zero, model.NewError(model.KindCommunication, "", "", showErr)
	}
	return v, nil
}

// Bridge はダイアログを同期呼び出しとして提供します
type Bridge struct {
	provider Provider
	filters  []model.FileFilter
}

// NewBridge は新しい Bridge インスタンスを作成します
func NewBridge(provider Provider, filters []model.FileFilter) *Bridge {
	return &Bridge{provider: provider, filters: filters}
}

// PickOpenPath は開くファイルを選択させます
func (b *Bridge) PickOpenPath() (model.DialogResult[string], error) {
	opts := FileDialogOptions{Mode: ModeOpen, Title: "Open", Filters: b.filters}
	return Await(func(r *Reply[model.DialogResult[string]]) error {
		return b.provider.ShowFileDialog(opts, r)
	})
}

// PickSavePath は保存先を選択させます。suggested が空でなければファイル名欄の初期値になります。
func (b *Bridge) PickSavePath(suggested string) (model.DialogResult[string], error) {
	opts := FileDialogOptions{Mode: ModeSave, Title: "Save as", Filters: b.filters, FileName: suggested}
	return Await(func(r *Reply[model.DialogResult[string]]) error {
		return b.provider.ShowFileDialog(opts, r)
	})
}

// Confirm ははい/いいえの確認ダイアログを表示します
func (b *Bridge) Confirm(title, message string) (bool, error) {
	return Await(func(r *Reply[bool]) error {
		return b.provider.ShowConfirm(title, message, r)
	})
}
