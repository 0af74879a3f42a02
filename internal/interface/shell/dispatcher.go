// Package shell はUIシェルから名前付きコマンドを呼び出す境界を提供します。
//
// 引数はマップで受け取り、型付きのリクエストに変換してからコマンドを実行します。
// エラーはすべて単一のメッセージ文字列として返されます。
package shell

import (
	"context"
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"

	"FasText/internal/domain/model"
	"FasText/internal/infrastructure/logging"
	"FasText/internal/usecase/editor"
)

// コマンド名
const (
	CmdOpenFile          = "open_file"
	CmdSaveFileDirect    = "save_file_direct"
	CmdSaveFileAs        = "save_file_as"
	CmdRenameFile        = "rename_file"
	CmdShowConfirmDialog = "show_confirm_dialog"
	CmdCheckUpdate       = "check_update"
	CmdInstallUpdate     = "install_update"
	CmdOpenURL           = "open_url_in_browser"
)

// Commands はシェルから呼び出せる操作です。editor.Service が実装します。
type Commands interface {
	Open() (editor.OpenResult, error)
	SaveDirect(path, content string) (string, error)
	SaveAs(content string, defaultPath *string) (string, error)
	Rename(oldPath, newName string) (string, error)
	Confirm(message, title string) (bool, error)
	CheckUpdate(ctx context.Context) (model.UpdateInfo, error)
	InstallUpdate(ctx context.Context) error
	OpenURL(raw string) error
}

// Response はコマンドの結果です。失敗時は Error にメッセージが入ります。
type Response struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// OpenFileResponse は open_file の結果です
type OpenFileResponse struct {
	Content string `json:"content"`
	Path    string `json:"path"`
}

type saveDirectRequest struct {
	Path    string `mapstructure:"path"`
	Content string `mapstructure:"content"`
}

type saveAsRequest struct {
	Content     string  `mapstructure:"content"`
	DefaultPath *string `mapstructure:"default_path"`
}

type renameRequest struct {
	OldPath     string `mapstructure:"old_path"`
	NewFilename string `mapstructure:"new_filename"`
}

type confirmRequest struct {
	Message string `mapstructure:"message"`
	Title   string `mapstructure:"title"`
}

type openURLRequest struct {
	URL string `mapstructure:"url"`
}

// Handler は引数マップを受け取って結果を返します
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Dispatcher はコマンド名からハンドラを呼び出します
type Dispatcher struct {
	handlers map[string]Handler
	logger   logging.Logger
}

// NewDispatcher は cmds の全操作を登録した Dispatcher を作成します
func NewDispatcher(cmds Commands, logger logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Nop()
	}
	d := &Dispatcher{handlers: make(map[string]Handler), logger: logger}

	d.Register(CmdOpenFile, func(ctx context.Context, args map[string]any) (any, error) {
		res, err := cmds.Open()
		if err != nil {
			return nil, err
		}
		return OpenFileResponse{Content: res.Content, Path: res.Path}, nil
	})
	d.Register(CmdSaveFileDirect, func(ctx context.Context, args map[string]any) (any, error) {
		var req saveDirectRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}
		return cmds.SaveDirect(req.Path, req.Content)
	})
	d.Register(CmdSaveFileAs, func(ctx context.Context, args map[string]any) (any, error) {
		var req saveAsRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}
		return cmds.SaveAs(req.Content, req.DefaultPath)
	})
	d.Register(CmdRenameFile, func(ctx context.Context, args map[string]any) (any, error) {
		var req renameRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}
		return cmds.Rename(req.OldPath, req.NewFilename)
	})
	d.Register(CmdShowConfirmDialog, func(ctx context.Context, args map[string]any) (any, error) {
		var req confirmRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}
		return cmds.Confirm(req.Message, req.Title)
	})
	d.Register(CmdCheckUpdate, func(ctx context.Context, args map[string]any) (any, error) {
		return cmds.CheckUpdate(ctx)
	})
	d.Register(CmdInstallUpdate, func(ctx context.Context, args map[string]any) (any, error) {
		return nil, cmds.InstallUpdate(ctx)
	})
	d.Register(CmdOpenURL, func(ctx context.Context, args map[string]any) (any, error) {
		var req openURLRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}
		return nil, cmds.OpenURL(req.URL)
	})

	return d
}

// Register はハンドラを登録します。同名のハンドラは置き換えられます。
func (d *Dispatcher) Register(name string, h Handler) {
	d.handlers[name] = h
}

// Names は登録済みのコマンド名を昇順で返します
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke はコマンドを実行し、結果またはエラーメッセージを返します
func (d *Dispatcher) Invoke(ctx context.Context, name string, args map[string]any) Response {
	h, ok := d.handlers[name]
	if !ok {
		d.logger.Log(logging.LevelWarn, "未知のコマンド", nil, logging.F("command", name))
		return Response{Error: fmt.Sprintf("unknown command %q", name)}
	}

	data, err := h(ctx, args)
	if err != nil {
		return Response{Error: Render(err)}
	}
	return Response{OK: true, Data: data}
}

// Render はエラーをユーザー向けの一行のメッセージに変換します
func Render(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func decode(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return model.NewError(model.KindValidation, "invalid arguments", "", err)
	}
	return nil
}
