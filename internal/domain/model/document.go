// Package model はドメインモデルを定義します
package model

// DefaultMaxFileSize は読み込み可能なファイルサイズの上限（100MiB）です
const DefaultMaxFileSize int64 = 100 * 1024 * 1024

// AllFilesPattern は全ファイルフィルタの拡張子パターンです
const AllFilesPattern = "*"

// FileContent はファイルから読み込んだテキストを表します
type FileContent struct {
	// Text はファイルの内容です
	Text string
	// Size は読み込み前にメタデータから取得したバイト数です
	Size int64
}

// FileFilter はファイルダイアログのフィルタを表します
type FileFilter struct {
	// Label はダイアログに表示される説明です
	Label string
	// Extensions はドットなしの拡張子一覧です（"*" は全ファイル）
	Extensions []string
}

// MatchesAll は全ファイルフィルタかどうかを返します
func (f FileFilter) MatchesAll() bool {
	for _, ext := range f.Extensions {
		if ext == AllFilesPattern {
			return true
		}
	}
	return false
}

// DialogResult はモーダルダイアログの結果を表します。
// Selected が false の場合はユーザーがキャンセルしたことを示します。
type DialogResult[T any] struct {
	Value    T
	Selected bool
}

// Chosen は選択済みの結果を作成します
func Chosen[T any](v T) DialogResult[T] {
	return DialogResult[T]{Value: v, Selected: true}
}

// NoSelection はキャンセルを表す結果を作成します
func NoSelection[T any]() DialogResult[T] {
	return DialogResult[T]{}
}

// UpdateInfo はアップデート確認の結果を表します
type UpdateInfo struct {
	Available bool   `json:"available" mapstructure:"available"`
	Version   string `json:"version,omitempty" mapstructure:"version"`
	Date      string `json:"date,omitempty" mapstructure:"date"`
	Body      string `json:"body,omitempty" mapstructure:"body"`
}
