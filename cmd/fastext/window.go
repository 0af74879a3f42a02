package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"FasText/internal/domain/model"
	"FasText/internal/infrastructure/logging"
	"FasText/internal/interface/shell"
)

const websiteURL = "https://github.com/fastext/fastext"

// invoker はウィンドウからコマンドを呼び出すためのインターフェースです
type invoker interface {
	Invoke(ctx context.Context, name string, args map[string]any) shell.Response
}

// editorWindow はエディタのメインウィンドウです。
// コマンドはダイアログの応答を待ってブロックするため、必ず別のゴルーチンで実行します。
type editorWindow struct {
	window  fyne.Window
	invoker invoker
	logger  logging.Logger

	entry  *widget.Entry
	status *widget.Label

	mu       sync.Mutex
	path     string
	modified bool
}

func newEditorWindow(w fyne.Window, inv invoker, logger logging.Logger) *editorWindow {
	e := &editorWindow{
		window:  w,
		invoker: inv,
		logger:  logger,
		entry:   widget.NewMultiLineEntry(),
		status:  widget.NewLabel(""),
	}
	e.entry.OnChanged = func(string) { e.setModified(true) }

	w.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("File",
			fyne.NewMenuItem("Open...", func() { go e.open() }),
			fyne.NewMenuItem("Save", func() { go e.save() }),
			fyne.NewMenuItem("Save As...", func() { go e.saveAs() }),
			fyne.NewMenuItem("Rename...", e.promptRename),
		),
		fyne.NewMenu("Help",
			fyne.NewMenuItem("Check for Updates", func() { go e.checkUpdate() }),
			fyne.NewMenuItem("Website", func() { go e.run(shell.CmdOpenURL, map[string]any{"url": websiteURL}) }),
		),
	))
	w.SetContent(container.NewBorder(nil, e.status, nil, nil, e.entry))
	w.SetCloseIntercept(func() {
		go func() {
			if e.confirmDiscard() {
				e.window.Close()
			}
		}()
	})
	return e
}

func (e *editorWindow) show(width, height float32) {
	e.window.Resize(fyne.NewSize(width, height))
	e.refreshTitle()
	e.window.Show()
}

// run はコマンドを実行し、失敗した場合はステータスバーに表示します
func (e *editorWindow) run(name string, args map[string]any) (shell.Response, bool) {
	resp := e.invoker.Invoke(context.Background(), name, args)
	if !resp.OK {
		e.logger.Log(logging.LevelDebug, "コマンドの失敗を表示", nil,
			logging.F("command", name), logging.F("message", resp.Error))
		e.status.SetText(resp.Error)
	}
	return resp, resp.OK
}

func (e *editorWindow) open() {
	if !e.confirmDiscard() {
		return
	}
	resp, ok := e.run(shell.CmdOpenFile, nil)
	if !ok {
		return
	}
	data := resp.Data.(shell.OpenFileResponse)
	e.entry.SetText(data.Content)
	e.setDocument(data.Path)
	e.status.SetText(fmt.Sprintf("Opened %s", data.Path))
}

func (e *editorWindow) save() {
	path := e.currentPath()
	if path == "" {
		e.saveAs()
		return
	}
	if resp, ok := e.run(shell.CmdSaveFileDirect, map[string]any{"path": path, "content": e.entry.Text}); ok {
		e.setDocument(resp.Data.(string))
		e.status.SetText("Saved")
	}
}

func (e *editorWindow) saveAs() {
	args := map[string]any{"content": e.entry.Text}
	if path := e.currentPath(); path != "" {
		args["default_path"] = path
	}
	if resp, ok := e.run(shell.CmdSaveFileAs, args); ok {
		e.setDocument(resp.Data.(string))
		e.status.SetText(fmt.Sprintf("Saved as %s", resp.Data))
	}
}

// promptRename は新しいファイル名を入力させます。メニューのイベントループ上で呼ばれます。
func (e *editorWindow) promptRename() {
	path := e.currentPath()
	if path == "" {
		e.status.SetText("Save the file before renaming it")
		return
	}

	name := widget.NewEntry()
	name.SetText(filepath.Base(path))
	dialog.ShowForm("Rename", "Rename", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("New name", name)},
		func(ok bool) {
			if !ok {
				return
			}
			go func() {
				resp, ok := e.run(shell.CmdRenameFile, map[string]any{"old_path": path, "new_filename": name.Text})
				if !ok {
					return
				}
				e.mu.Lock()
				e.path = resp.Data.(string)
				e.mu.Unlock()
				e.refreshTitle()
				e.status.SetText(fmt.Sprintf("Renamed to %s", resp.Data))
			}()
		}, e.window)
}

func (e *editorWindow) checkUpdate() {
	resp, ok := e.run(shell.CmdCheckUpdate, nil)
	if !ok {
		return
	}
	info := resp.Data.(model.UpdateInfo)
	if !info.Available {
		e.status.SetText("FasText is up to date")
		return
	}
	e.status.SetText(fmt.Sprintf("Version %s is available (%s)", info.Version, info.Date))
}

// confirmDiscard は未保存の変更がある場合に破棄してよいか確認します
func (e *editorWindow) confirmDiscard() bool {
	e.mu.Lock()
	modified := e.modified
	e.mu.Unlock()
	if !modified {
		return true
	}

	resp, ok := e.run(shell.CmdShowConfirmDialog, map[string]any{
		"message": "Discard unsaved changes?",
		"title":   "Unsaved changes",
	})
	if !ok {
		return false
	}
	discard, _ := resp.Data.(bool)
	return discard
}

func (e *editorWindow) currentPath() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.path
}

func (e *editorWindow) setDocument(path string) {
	e.mu.Lock()
	e.path = path
	e.modified = false
	e.mu.Unlock()
	e.refreshTitle()
}

func (e *editorWindow) setModified(modified bool) {
	e.mu.Lock()
	changed := e.modified != modified
	e.modified = modified
	e.mu.Unlock()
	if changed {
		e.refreshTitle()
	}
}

func (e *editorWindow) refreshTitle() {
	e.mu.Lock()
	name, modified := "Untitled", e.modified
	if e.path != "" {
		name = filepath.Base(e.path)
	}
	e.mu.Unlock()

	title := "FasText - " + name
	if modified {
		title += " *"
	}
	e.window.SetTitle(title)
}
