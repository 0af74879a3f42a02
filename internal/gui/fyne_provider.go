package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"FasText/internal/domain/model"
	"FasText/internal/infrastructure/logging"
)

// FyneProvider は Fyne のダイアログで Provider を実装します。
// コールバックは Fyne のイベントループ上で呼ばれるため、
// Await はイベントループ以外のゴルーチンから呼び出す必要があります。
type FyneProvider struct {
	window   fyne.Window
	logger   logging.Logger
	allFiles bool
}

// FyneOption は FyneProvider の設定を変更します
type FyneOption func(*FyneProvider)

// WithAllFiles が true の場合、ファイルダイアログで拡張子による絞り込みを行いません
func WithAllFiles(all bool) FyneOption {
	return func(p *FyneProvider) { p.allFiles = all }
}

// NewFyneProvider は新しい FyneProvider インスタンスを作成します
func NewFyneProvider(window fyne.Window, logger logging.Logger, opts ...FyneOption) *FyneProvider {
	if logger == nil {
		logger = logging.Nop()
	}
	p := &FyneProvider{window: window, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ShowFileDialog はファイル選択ダイアログを表示します
func (p *FyneProvider) ShowFileDialog(opts FileDialogOptions, reply *Reply[model.DialogResult[string]]) error {
	if p.window == nil {
		return fmt.Errorf("no parent window for %s dialog", opts.Mode)
	}

	var d *dialog.FileDialog
	switch opts.Mode {
	case ModeOpen:
		d = dialog.NewFileOpen(p.onOpenChosen(reply), p.window)
	case ModeSave:
		d = dialog.NewFileSave(p.onSaveChosen(reply), p.window)
		if opts.FileName != "" {
			d.SetFileName(opts.FileName)
		}
	default:
		return fmt.Errorf("unsupported dialog mode %d", opts.Mode)
	}

	if exts := fyneExtensions(opts.Filters, p.allFiles); len(exts) > 0 {
		d.SetFilter(storage.NewExtensionFileFilter(exts))
	}
	d.Show()
	return nil
}

// ShowConfirm ははい/いいえの確認ダイアログを表示します
func (p *FyneProvider) ShowConfirm(title, message string, reply *Reply[bool]) error {
	if p.window == nil {
		return fmt.Errorf("no parent window for confirm dialog")
	}
	dialog.NewConfirm(title, message, reply.Send, p.window).Show()
	return nil
}

// onOpenChosen は開くダイアログの結果を reply へ送るコールバックを返します。
// nil のリーダーはキャンセル、エラーは結果なしで閉じます。
func (p *FyneProvider) onOpenChosen(reply *Reply[model.DialogResult[string]]) func(fyne.URIReadCloser, error) {
	return func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			p.logger.Log(logging.LevelError, "ファイル選択ダイアログでエラー", err)
			reply.Close()
			return
		}
		if reader == nil {
			reply.Send(model.NoSelection[string]())
			return
		}
		defer reader.Close()
		reply.Send(model.Chosen(reader.URI().Path()))
	}
}

// onSaveChosen は保存ダイアログの結果を reply へ送るコールバックを返します。
// Fyne が開いたライターはすぐに閉じ、書き込みは Store が行います。
func (p *FyneProvider) onSaveChosen(reply *Reply[model.DialogResult[string]]) func(fyne.URIWriteCloser, error) {
	return func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			p.logger.Log(logging.LevelError, "保存ダイアログでエラー", err)
			reply.Close()
			return
		}
		if writer == nil {
			reply.Send(model.NoSelection[string]())
			return
		}
		defer writer.Close()
		reply.Send(model.Chosen(writer.URI().Path()))
	}
}

// fyneExtensions はフィルタを Fyne の拡張子リストに変換します。
// Fyne のダイアログはフィルタを一つしか持てないため、全ファイルフィルタは
// 無視して拡張子付きのフィルタを適用します。all が true の場合は絞り込みません。
func fyneExtensions(filters []model.FileFilter, all bool) []string {
	if all {
		return nil
	}
	var exts []string
	for _, f := range filters {
		if f.MatchesAll() {
			continue
		}
		for _, ext := range f.Extensions {
			exts = append(exts, "."+ext)
		}
	}
	return exts
}
