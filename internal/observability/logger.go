package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger пишет структурированные JSON-строки в stderr и, если задан путь, в ротируемый файл
type Logger struct {
	internal *slog.Logger
	file     *lumberjack.Logger
}

func NewLogger(logPath, logLevel string) *Logger {
	var w io.Writer = os.Stderr
	var file *lumberjack.Logger

	if logPath != "" {
		file = &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		}
		w = io.MultiWriter(os.Stderr, file)
	}

	l := NewLoggerWithWriter(w, logLevel)
	l.file = file
	return l
}

// NewLoggerWithWriter используется в тестах и там, где файл не нужен
func NewLoggerWithWriter(w io.Writer, logLevel string) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(logLevel),
	})
	return &Logger{internal: slog.New(handler)}
}

// NewNopLogger отбрасывает все записи
func NewNopLogger() *Logger {
	return NewLoggerWithWriter(io.Discard, "error")
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) Debug(msg string, fields ...any) {
	l.internal.Debug(msg, fields...)
}

func (l *Logger) Info(msg string, fields ...any) {
	l.internal.Info(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...any) {
	l.internal.Warn(msg, fields...)
}

func (l *Logger) Error(msg string, fields ...any) {
	l.internal.Error(msg, fields...)
}

// With возвращает логгер с предзаполненными полями
func (l *Logger) With(fields ...any) *Logger {
	return &Logger{internal: l.internal.With(fields...), file: l.file}
}

// Close закрывает файл логов, если он открыт
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
