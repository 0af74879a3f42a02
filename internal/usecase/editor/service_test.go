package editor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FasText/internal/domain/model"
	"FasText/internal/infrastructure/filesystem"
	"FasText/internal/infrastructure/logging"
)

// spyFiles は Store に委譲しつつファイルシステムへのアクセスを数えます
type spyFiles struct {
	*filesystem.Store
	calls int
}

func newSpyFiles() *spyFiles {
	return &spyFiles{Store: filesystem.NewStore(logging.Nop())}
}

func (s *spyFiles) ReadFile(path string) (model.FileContent, error) {
	s.calls++
	return s.Store.ReadFile(path)
}

func (s *spyFiles) WriteFile(path, content string) error {
	s.calls++
	return s.Store.WriteFile(path, content)
}

func (s *spyFiles) RenameFile(oldPath, newPath string) error {
	s.calls++
	return s.Store.RenameFile(oldPath, newPath)
}

func (s *spyFiles) Exists(path string) (bool, error) {
	s.calls++
	return s.Store.Exists(path)
}

func (s *spyFiles) DirExists(path string) bool {
	s.calls++
	return s.Store.DirExists(path)
}

type fakeDialogs struct {
	open      model.DialogResult[string]
	save      model.DialogResult[string]
	confirm   bool
	err       error
	suggested string
}

func (f *fakeDialogs) PickOpenPath() (model.DialogResult[string], error) {
	return f.open, f.err
}

func (f *fakeDialogs) PickSavePath(suggested string) (model.DialogResult[string], error) {
	f.suggested = suggested
	return f.save, f.err
}

func (f *fakeDialogs) Confirm(title, message string) (bool, error) {
	return f.confirm, f.err
}

type mockLogger struct {
	levels []string
}

func (m *mockLogger) Log(level, _ string, _ error, _ ...logging.Field) {
	m.levels = append(m.levels, level)
}

func writeFixture(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestService_Open(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.txt")
	writeFixture(t, path, "hello")

	t.Run("選択されたファイルを読み込む", func(t *testing.T) {
		svc := NewService(newSpyFiles(), &fakeDialogs{open: model.Chosen(path)}, nil)

		got, err := svc.Open()
		require.NoError(t, err)
		assert.Equal(t, OpenResult{Content: "hello", Path: path}, got)
	})

	t.Run("キャンセル", func(t *testing.T) {
		files := newSpyFiles()
		svc := NewService(files, &fakeDialogs{}, nil)

		_, err := svc.Open()
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNoSelection)
		assert.Equal(t, "no file selected", err.Error())
		assert.Zero(t, files.calls)
	})

	t.Run("読み込み失敗は伝播する", func(t *testing.T) {
		svc := NewService(newSpyFiles(), &fakeDialogs{open: model.Chosen(filepath.Join(dir, "missing.txt"))}, nil)

		_, err := svc.Open()
		assert.ErrorIs(t, err, model.ErrIO)
	})

	t.Run("通信エラー", func(t *testing.T) {
		commErr := model.NewError(model.KindCommunication, "", "", nil)
		svc := NewService(newSpyFiles(), &fakeDialogs{err: commErr}, nil)

		_, err := svc.Open()
		assert.ErrorIs(t, err, model.ErrCommunication)
	})
}

func TestService_SaveDirect(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name      string
		path      string
		wantPath  string
		wantErr   error
		wantCalls int
	}{
		{
			name:      "保存",
			path:      filepath.Join(dir, "a.txt"),
			wantPath:  filepath.Join(dir, "a.txt"),
			wantCalls: 2,
		},
		{
			name:      "前後の空白を取り除く",
			path:      "  " + filepath.Join(dir, "b.txt") + "\t",
			wantPath:  filepath.Join(dir, "b.txt"),
			wantCalls: 2,
		},
		{
			name:      "空白のみのパス",
			path:      "   ",
			wantErr:   model.ErrValidation,
			wantCalls: 0,
		},
		{
			name:      "親ディレクトリがない",
			path:      filepath.Join(dir, "missing", "c.txt"),
			wantErr:   model.ErrValidation,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := newSpyFiles()
			svc := NewService(files, &fakeDialogs{}, nil)

			got, err := svc.SaveDirect(tt.path, "content")
			assert.Equal(t, tt.wantCalls, files.calls)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, got)

			data, err := os.ReadFile(tt.wantPath)
			require.NoError(t, err)
			assert.Equal(t, "content", string(data))
		})
	}
}

func TestService_SaveAs(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "sub", "notes.txt")

	t.Run("既定パスのファイル名を提案する", func(t *testing.T) {
		dialogs := &fakeDialogs{save: model.Chosen(target)}
		svc := NewService(newSpyFiles(), dialogs, nil)
		defaultPath := "/somewhere/else/draft.md"

		got, err := svc.SaveAs("body", &defaultPath)
		require.NoError(t, err)
		assert.Equal(t, target, got)
		assert.Equal(t, "draft.md", dialogs.suggested)

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "body", string(data))
	})

	t.Run("キャンセル", func(t *testing.T) {
		files := newSpyFiles()
		svc := NewService(files, &fakeDialogs{}, nil)

		_, err := svc.SaveAs("body", nil)
		assert.ErrorIs(t, err, model.ErrNoSelection)
		assert.Zero(t, files.calls)
	})

	t.Run("書き込み失敗", func(t *testing.T) {
		svc := NewService(newSpyFiles(), &fakeDialogs{save: model.Chosen(dir)}, nil)

		_, err := svc.SaveAs("body", nil)
		assert.ErrorIs(t, err, model.ErrIO)
	})
}

func TestSuggestedFileName(t *testing.T) {
	ptr := func(s string) *string { return &s }

	tests := []struct {
		name string
		in   *string
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "空", in: ptr(""), want: ""},
		{name: "空白のみ", in: ptr("   "), want: ""},
		{name: "絶対パス", in: ptr("/a/b/old.txt"), want: "old.txt"},
		{name: "ファイル名のみ", in: ptr(" notes.md "), want: "notes.md"},
		{name: "ルート", in: ptr("/"), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestedFileName(tt.in))
		})
	}
}

func TestService_Rename(t *testing.T) {
	t.Run("同じディレクトリ内で名前を変更", func(t *testing.T) {
		dir := t.TempDir()
		oldPath := filepath.Join(dir, "old.txt")
		writeFixture(t, oldPath, "original")
		svc := NewService(newSpyFiles(), &fakeDialogs{}, nil)

		got, err := svc.Rename(oldPath, "new.txt")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "new.txt"), got)

		_, err = os.Stat(oldPath)
		assert.True(t, errors.Is(err, os.ErrNotExist))
		data, err := os.ReadFile(got)
		require.NoError(t, err)
		assert.Equal(t, "original", string(data))
	})

	t.Run("移動先が存在する場合は両方を変更しない", func(t *testing.T) {
		dir := t.TempDir()
		oldPath := filepath.Join(dir, "old.txt")
		newPath := filepath.Join(dir, "new.txt")
		writeFixture(t, oldPath, "source")
		writeFixture(t, newPath, "destination")
		svc := NewService(newSpyFiles(), &fakeDialogs{}, nil)

		_, err := svc.Rename(oldPath, "new.txt")
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrValidation)
		assert.Contains(t, err.Error(), "already exists")

		src, err := os.ReadFile(oldPath)
		require.NoError(t, err)
		assert.Equal(t, "source", string(src))
		dst, err := os.ReadFile(newPath)
		require.NoError(t, err)
		assert.Equal(t, "destination", string(dst))
	})

	t.Run("入力の検証", func(t *testing.T) {
		tests := []struct {
			name    string
			oldPath string
			newName string
			wantMsg string
		}{
			{name: "空のパス", oldPath: "", newName: "a.txt", wantMsg: "could not resolve parent directory"},
			{name: "ルート", oldPath: "/", newName: "a.txt", wantMsg: "could not resolve parent directory"},
			{name: "空のファイル名", oldPath: "/tmp/a.txt", newName: " ", wantMsg: "invalid file name"},
			{name: "区切り文字を含む", oldPath: "/tmp/a.txt", newName: "../b.txt", wantMsg: "invalid file name"},
			{name: "親ディレクトリ参照", oldPath: "/tmp/a.txt", newName: "..", wantMsg: "invalid file name"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				files := newSpyFiles()
				svc := NewService(files, &fakeDialogs{}, nil)

				_, err := svc.Rename(tt.oldPath, tt.newName)
				assert.ErrorIs(t, err, model.ErrValidation)
				assert.Contains(t, err.Error(), tt.wantMsg)
				assert.Zero(t, files.calls)
			})
		}
	})

	t.Run("移動元がない", func(t *testing.T) {
		dir := t.TempDir()
		svc := NewService(newSpyFiles(), &fakeDialogs{}, nil)

		_, err := svc.Rename(filepath.Join(dir, "ghost.txt"), "new.txt")
		assert.ErrorIs(t, err, model.ErrIO)
	})
}

func TestService_Confirm(t *testing.T) {
	got, err := NewService(newSpyFiles(), &fakeDialogs{confirm: false}, nil).Confirm("Discard?", "Close")
	require.NoError(t, err)
	assert.False(t, got)

	got, err = NewService(newSpyFiles(), &fakeDialogs{confirm: true}, nil).Confirm("Discard?", "Close")
	require.NoError(t, err)
	assert.True(t, got)

	commErr := model.NewError(model.KindCommunication, "", "", nil)
	_, err = NewService(newSpyFiles(), &fakeDialogs{err: commErr}, nil).Confirm("m", "t")
	assert.ErrorIs(t, err, model.ErrCommunication)
}

func TestService_LogsEachCall(t *testing.T) {
	logger := &mockLogger{}
	svc := NewService(newSpyFiles(), &fakeDialogs{}, logger)
	ids := []string{"id-1", "id-2"}
	svc.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	_, _ = svc.Open()
	_, _ = svc.SaveDirect("   ", "")

	assert.Equal(t, []string{
		logging.LevelDebug, logging.LevelInfo,
		logging.LevelDebug, logging.LevelError,
	}, logger.levels)
	assert.Empty(t, ids)
}
