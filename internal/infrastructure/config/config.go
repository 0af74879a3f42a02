// Package config はアプリケーション設定の読み込みを提供します。
//
// 設定は既定値、TOMLファイル、環境変数（FASTEXT_ 接頭辞）の順に適用されます。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"FasText/internal/domain/model"
	"FasText/internal/infrastructure/logging"
)

// ダイアログの実装
const (
	BackendFyne   = "fyne"
	BackendNative = "native"
)

// MaxSizeMBLimit は files.max_size_mb の上限です。バイト数への換算が int64 に収まります。
const MaxSizeMBLimit int64 = math.MaxInt64 >> 20

// EnvPrefix は環境変数の接頭辞です
const EnvPrefix = "FASTEXT_"

// Config はアプリケーション設定です
type Config struct {
	Files  FilesConfig  `toml:"files"`
	Dialog DialogConfig `toml:"dialog"`
	Log    LogConfig    `toml:"log"`
	Window WindowConfig `toml:"window"`
}

// FilesConfig はファイル入出力の設定です
type FilesConfig struct {
	MaxSizeMB      int64    `toml:"max_size_mb"`
	TextExtensions []string `toml:"text_extensions"`
}

// DialogConfig はダイアログの設定です
type DialogConfig struct {
	Backend         string `toml:"backend"`
	TextFilterLabel string `toml:"text_filter_label"`
	AllFilterLabel  string `toml:"all_filter_label"`
	FyneAllFiles    bool   `toml:"fyne_all_files"`
}

// LogConfig はログ出力の設定です
type LogConfig struct {
	Level string `toml:"level"`
}

// WindowConfig はエディタウィンドウの設定です
type WindowConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Default は既定の設定を返します
func Default() Config {
	return Config{
		Files: FilesConfig{
			MaxSizeMB: model.DefaultMaxFileSize / 1024 / 1024,
			TextExtensions: []string{
				"txt", "md", "log", "json", "xml", "yaml", "yml",
				"toml", "ini", "cfg", "conf", "csv",
			},
		},
		Dialog: DialogConfig{
			Backend:         BackendFyne,
			TextFilterLabel: "Text files",
			AllFilterLabel:  "All files",
		},
		Log: LogConfig{Level: logging.LevelInfo},
		Window: WindowConfig{
			Width:  800,
			Height: 600,
		},
	}
}

// Load は既定値にファイルと環境変数を重ねた設定を返します。
// path が空、またはファイルが存在しない場合は既定値から始めます。
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config %q: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config %q: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvPrefix + "DIALOG_BACKEND"); ok {
		c.Dialog.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvPrefix + "MAX_FILE_SIZE_MB"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %sMAX_FILE_SIZE_MB %q: %w", EnvPrefix, v, err)
		}
		c.Files.MaxSizeMB = n
	}
	if v, ok := lookup(EnvPrefix + "TEXT_EXTENSIONS"); ok {
		var exts []string
		for _, ext := range strings.Split(v, ",") {
			if ext = strings.TrimSpace(ext); ext != "" {
				exts = append(exts, ext)
			}
		}
		c.Files.TextExtensions = exts
	}
	return nil
}

// Validate は設定値を検証し、正規化します
func (c *Config) Validate() error {
	if c.Files.MaxSizeMB <= 0 {
		return fmt.Errorf("files.max_size_mb must be positive, got %d", c.Files.MaxSizeMB)
	}
	if c.Files.MaxSizeMB > MaxSizeMBLimit {
		return fmt.Errorf("files.max_size_mb must be at most %d, got %d", MaxSizeMBLimit, c.Files.MaxSizeMB)
	}
	if len(c.Files.TextExtensions) == 0 {
		return fmt.Errorf("files.text_extensions must not be empty")
	}
	for i, ext := range c.Files.TextExtensions {
		c.Files.TextExtensions[i] = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	}

	switch c.Dialog.Backend {
	case BackendFyne, BackendNative:
	default:
		return fmt.Errorf("dialog.backend must be %q or %q, got %q", BackendFyne, BackendNative, c.Dialog.Backend)
	}

	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	c.Log.Level = level

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	return nil
}

// MaxFileSize は読み込み上限をバイト数で返します
func (c Config) MaxFileSize() int64 {
	return c.Files.MaxSizeMB * 1024 * 1024
}

// Filters はファイルダイアログ用のフィルタ（テキストと全ファイル）を返します
func (c Config) Filters() []model.FileFilter {
	exts := make([]string, len(c.Files.TextExtensions))
	copy(exts, c.Files.TextExtensions)
	return []model.FileFilter{
		{Label: c.Dialog.TextFilterLabel, Extensions: exts},
		{Label: c.Dialog.AllFilterLabel, Extensions: []string{model.AllFilesPattern}},
	}
}
