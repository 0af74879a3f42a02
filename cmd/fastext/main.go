// Package main はアプリケーションのエントリーポイントを提供します
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2/app"

	"FasText/internal/gui"
	"FasText/internal/infrastructure/config"
	"FasText/internal/infrastructure/filesystem"
	"FasText/internal/infrastructure/logging"
	"FasText/internal/interface/shell"
	"FasText/internal/interface/ui"
	"FasText/internal/usecase/editor"
)

const appID = "io.fastext.editor"

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "fastext", "config.toml")
}

func main() {
	configPath := flag.String("config", defaultConfigPath(), "TOML設定ファイルのパス")
	flag.Parse()

	// 設定の読み込み
	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.NewJSONLogger(os.Stderr, logging.LevelError).Log(logging.LevelError, "設定の読み込みに失敗", err)
		log.Fatalf("エラー: %v", err)
	}

	// ロガーの初期化
	logger := logging.NewJSONLogger(os.Stdout, cfg.Log.Level)

	a := app.NewWithID(appID)
	w := a.NewWindow("FasText")

	// ダイアログ実装の選択
	var provider gui.Provider
	switch cfg.Dialog.Backend {
	case config.BackendNative:
		provider = ui.NewNativeProvider(logger)
	default:
		provider = gui.NewFyneProvider(w, logger, gui.WithAllFiles(cfg.Dialog.FyneAllFiles))
	}

	store := filesystem.NewStore(logger, filesystem.WithMaxFileSize(cfg.MaxFileSize()))
	bridge := gui.NewBridge(provider, cfg.Filters())
	svc := editor.NewService(store, bridge, logger, editor.WithURLOpener(a))
	dispatcher := shell.NewDispatcher(svc, logger)

	logger.Log(logging.LevelInfo, "エディタを起動します", nil,
		logging.F("config", *configPath), logging.F("dialog_backend", cfg.Dialog.Backend))

	newEditorWindow(w, dispatcher, logger).show(float32(cfg.Window.Width), float32(cfg.Window.Height))
	a.Run()
}
