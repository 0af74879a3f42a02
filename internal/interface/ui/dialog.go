// Package ui はOSネイティブのダイアログを提供します
package ui

import (
	"errors"

	"github.com/sqweek/dialog"

	"FasText/internal/domain/model"
	"FasText/internal/gui"
	"FasText/internal/infrastructure/logging"
)

// NativeProvider は sqweek/dialog を使って gui.Provider を実装します。
// ネイティブダイアログはブロッキングのため、専用のゴルーチンで表示して
// 結果をメールボックスへ送ります。
type NativeProvider struct {
	logger logging.Logger
}

// NewNativeProvider は新しい NativeProvider インスタンスを作成します
func NewNativeProvider(logger logging.Logger) *NativeProvider {
	if logger == nil {
		logger = logging.Nop()
	}
	return &NativeProvider{logger: logger}
}

// ShowFileDialog はネイティブのファイル選択ダイアログを表示します
func (p *NativeProvider) ShowFileDialog(opts gui.FileDialogOptions, reply *gui.Reply[model.DialogResult[string]]) error {
	b := dialog.File().Title(opts.Title)
	for _, f := range opts.Filters {
		b = b.Filter(f.Label, f.Extensions...)
	}
	if opts.FileName != "" {
		b = b.SetStartFile(opts.FileName)
	}

	go func() {
		var (
			path string
			err  error
		)
		if opts.Mode == gui.ModeSave {
			path, err = b.Save()
		} else {
			path, err = b.Load()
		}
		deliverPath(reply, path, err, p.logger)
	}()
	return nil
}

// ShowConfirm ははい/いいえのネイティブダイアログを表示します
func (p *NativeProvider) ShowConfirm(title, message string, reply *gui.Reply[bool]) error {
	go func() {
		reply.Send(dialog.Message("%s", message).Title(title).YesNo())
	}()
	return nil
}

// deliverPath はネイティブダイアログの戻り値を結果に変換して送ります。
// キャンセルは未選択、それ以外のエラーは結果なしで閉じます。
func deliverPath(reply *gui.Reply[model.DialogResult[string]], path string, err error, logger logging.Logger) {
	switch {
	case errors.Is(err, dialog.ErrCancelled):
		reply.Send(model.NoSelection[string]())
	case err != nil:
		logger.Log(logging.LevelError, "ネイティブダイアログでエラー", err)
		reply.Close()
	default:
		reply.Send(model.Chosen(path))
	}
}
