package editor

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"FasText/internal/domain/model"
	"FasText/internal/infrastructure/logging"
)

// ErrNoUpdate はインストール可能なアップデートがないことを表します
var ErrNoUpdate = errors.New("no update available")

// Updater は外部のアップデートサービスです
type Updater interface {
	Check(ctx context.Context) (model.UpdateInfo, error)
	DownloadAndInstall(ctx context.Context) error
}

// URLOpener はURLを既定のブラウザで開きます。fyne.App はこれを満たします。
type URLOpener interface {
	OpenURL(u *url.URL) error
}

// DisabledUpdater はアップデート配信が設定されていない場合の Updater です
type DisabledUpdater struct{}

// Check は常にアップデートなしを返します
func (DisabledUpdater) Check(context.Context) (model.UpdateInfo, error) {
	return model.UpdateInfo{Available: false}, nil
}

// DownloadAndInstall は常に ErrNoUpdate を返します
func (DisabledUpdater) DownloadAndInstall(context.Context) error {
	return ErrNoUpdate
}

// CheckUpdate はアップデートの有無を確認します
func (s *Service) CheckUpdate(ctx context.Context) (info model.UpdateInfo, err error) {
	done := s.trace("check_update")
	defer func() { done(err) }()

	info, err = s.updater.Check(ctx)
	if err != nil {
		return model.UpdateInfo{}, fmt.Errorf("failed to check for updates: %w", err)
	}
	if !info.Available {
		return model.UpdateInfo{Available: false}, nil
	}
	return info, nil
}

// InstallUpdate はアップデートがある場合にダウンロードしてインストールします
func (s *Service) InstallUpdate(ctx context.Context) (err error) {
	done := s.trace("install_update")
	defer func() { done(err) }()

	info, err := s.updater.Check(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !info.Available {
		return ErrNoUpdate
	}

	s.logger.Log(logging.LevelInfo, "アップデートをインストールします", nil, logging.F("version", info.Version))
	if err := s.updater.DownloadAndInstall(ctx); err != nil {
		return fmt.Errorf("failed to download and install: %w", err)
	}
	return nil
}

// OpenURL はURLを既定のブラウザで開きます
func (s *Service) OpenURL(raw string) (err error) {
	done := s.trace("open_url", logging.F("url", raw))
	defer func() { done(err) }()

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return model.Validationf("URL is empty")
	}
	u, err := url.Parse(trimmed)
	if err != nil || u.Scheme == "" {
		return model.NewError(model.KindValidation, "invalid URL", trimmed, err)
	}
	if s.opener == nil {
		return errors.New("no URL opener configured")
	}
	return s.opener.OpenURL(u)
}
