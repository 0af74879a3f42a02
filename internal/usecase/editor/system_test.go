package editor

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FasText/internal/domain/model"
)

type fakeUpdater struct {
	info       model.UpdateInfo
	checkErr   error
	installErr error
	installed  int
}

func (f *fakeUpdater) Check(context.Context) (model.UpdateInfo, error) {
	return f.info, f.checkErr
}

func (f *fakeUpdater) DownloadAndInstall(context.Context) error {
	f.installed++
	return f.installErr
}

type fakeOpener struct {
	opened []string
	err    error
}

func (f *fakeOpener) OpenURL(u *url.URL) error {
	f.opened = append(f.opened, u.String())
	return f.err
}

func TestService_CheckUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("既定ではアップデートなし", func(t *testing.T) {
		info, err := NewService(newSpyFiles(), &fakeDialogs{}, nil).CheckUpdate(ctx)
		require.NoError(t, err)
		assert.False(t, info.Available)
	})

	t.Run("利用可能", func(t *testing.T) {
		want := model.UpdateInfo{Available: true, Version: "1.2.0", Date: "2026-10-01", Body: "fixes"}
		svc := NewService(newSpyFiles(), &fakeDialogs{}, nil, WithUpdater(&fakeUpdater{info: want}))

		info, err := svc.CheckUpdate(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, info)
	})

	t.Run("利用不可の場合は詳細を返さない", func(t *testing.T) {
		u := &fakeUpdater{info: model.UpdateInfo{Available: false, Version: "0.9.0"}}
		info, err := NewService(newSpyFiles(), &fakeDialogs{}, nil, WithUpdater(u)).CheckUpdate(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.UpdateInfo{}, info)
	})

	t.Run("確認失敗", func(t *testing.T) {
		cause := errors.New("offline")
		svc := NewService(newSpyFiles(), &fakeDialogs{}, nil, WithUpdater(&fakeUpdater{checkErr: cause}))

		_, err := svc.CheckUpdate(ctx)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "failed to check for updates")
	})
}

func TestService_InstallUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("インストール", func(t *testing.T) {
		u := &fakeUpdater{info: model.UpdateInfo{Available: true, Version: "2.0.0"}}
		require.NoError(t, NewService(newSpyFiles(), &fakeDialogs{}, nil, WithUpdater(u)).InstallUpdate(ctx))
		assert.Equal(t, 1, u.installed)
	})

	t.Run("アップデートなし", func(t *testing.T) {
		u := &fakeUpdater{}
		err := NewService(newSpyFiles(), &fakeDialogs{}, nil, WithUpdater(u)).InstallUpdate(ctx)
		assert.ErrorIs(t, err, ErrNoUpdate)
		assert.Zero(t, u.installed)
	})

	t.Run("インストール失敗", func(t *testing.T) {
		cause := errors.New("disk full")
		u := &fakeUpdater{info: model.UpdateInfo{Available: true}, installErr: cause}
		err := NewService(newSpyFiles(), &fakeDialogs{}, nil, WithUpdater(u)).InstallUpdate(ctx)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "failed to download and install")
	})
}

func TestService_OpenURL(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantErr    bool
		wantOpened []string
	}{
		{name: "正常", raw: " https://example.com/docs ", wantOpened: []string{"https://example.com/docs"}},
		{name: "空", raw: "  ", wantErr: true},
		{name: "スキームなし", raw: "example.com", wantErr: true},
		{name: "構文エラー", raw: "http://[::1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opener := &fakeOpener{}
			svc := NewService(newSpyFiles(), &fakeDialogs{}, nil, WithURLOpener(opener))

			err := svc.OpenURL(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrValidation)
				assert.Empty(t, opener.opened)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOpened, opener.opened)
		})
	}

	t.Run("オープナー未設定", func(t *testing.T) {
		err := NewService(newSpyFiles(), &fakeDialogs{}, nil).OpenURL("https://example.com")
		assert.Error(t, err)
	})
}
