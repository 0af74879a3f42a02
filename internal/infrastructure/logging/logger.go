// Package logging はロギング機能を提供します
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ログレベル
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

var levelRank = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// Field はログエントリに付与するキーと値の組です
type Field struct {
	Key   string
	Value string
}

// F は Field を作成します
func F(key string, value any) Field {
	return Field{Key: key, Value: fmt.Sprint(value)}
}

// LogEntry はログエントリを表す構造体です
type LogEntry struct {
	// Timestamp はログが記録された時刻をRFC3339形式で表します
	Timestamp string `json:"timestamp"`
	// Level はログレベル（INFO, WARN, ERROR等）を表します
	Level string `json:"level"`
	// Message はログメッセージの内容を表します
	Message string `json:"message"`
	// Error はエラーが発生した場合のエラーメッセージを表します
	Error string `json:"error,omitempty"`
	// Fields は付加情報（パスや呼び出しIDなど）を表します
	Fields map[string]string `json:"fields,omitempty"`
}

// Logger は構造化ログを出力するためのインターフェースです
type Logger interface {
	Log(level, message string, err error, fields ...Field)
}

// ParseLevel はレベル文字列を正規化します。未知のレベルはエラーになります。
func ParseLevel(level string) (string, error) {
	l := strings.ToUpper(strings.TrimSpace(level))
	if _, ok := levelRank[l]; !ok {
		return "", fmt.Errorf("unknown log level %q", level)
	}
	return l, nil
}

// JSONLogger はJSONフォーマットでログを出力するロガーです
type JSONLogger struct {
	mu       sync.Mutex
	writer   io.Writer
	minLevel int
	now      func() time.Time
}

// NewJSONLogger は新しいJSONLoggerインスタンスを作成します。
// minLevel より低いレベルのログは出力されません。
func NewJSONLogger(writer io.Writer, minLevel string) *JSONLogger {
	if writer == nil {
		writer = os.Stdout
	}
	rank, ok := levelRank[strings.ToUpper(minLevel)]
	if !ok {
		rank = levelRank[LevelInfo]
	}
	return &JSONLogger{writer: writer, minLevel: rank, now: time.Now}
}

// Log はメッセージをJSONフォーマットでログ出力します
func (l *JSONLogger) Log(level, message string, err error, fields ...Field) {
	if rank, ok := levelRank[level]; ok && rank < l.minLevel {
		return
	}

	entry := LogEntry{
		Timestamp: l.now().Format(time.RFC3339),
		Level:     level,
		Message:   message,
	}

	if err != nil {
		entry.Error = err.Error()
	}

	if len(fields) > 0 {
		entry.Fields = make(map[string]string, len(fields))
		for _, f := range fields {
			entry.Fields[f.Key] = f.Value
		}
	}

	jsonData, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ログのJSONエンコードに失敗: %v\n", err)
		return
	}

	// 複数の呼び出しが並行して書き込むため行単位で排他する
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.writer, string(jsonData))
}

type nopLogger struct{}

func (nopLogger) Log(string, string, error, ...Field) {}

// Nop は何も出力しないロガーを返します
func Nop() Logger {
	return nopLogger{}
}
