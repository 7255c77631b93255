package runlog

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"tether-news-scraper/internal/scraper"
)

type Entry struct {
	Timestamp     string            `json:"timestamp"`
	Success       bool              `json:"success"`
	ArticlesCount *int              `json:"articlesCount,omitempty"`
	Articles      []scraper.Article `json:"articles,omitempty"`
	Error         string            `json:"error,omitempty"`
}

// SuccessEntry заполняет счётчик и статьи; для неуспешного прогона они не пишутся
func SuccessEntry(at time.Time, articles []scraper.Article) Entry {
	count := len(articles)
	return Entry{
		Timestamp:     at.UTC().Format(time.RFC3339Nano),
		Success:       true,
		ArticlesCount: &count,
		Articles:      articles,
	}
}

func FailureEntry(at time.Time, err error) Entry {
	e := Entry{Timestamp: at.UTC().Format(time.RFC3339Nano)}
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

type Writer struct {
	mu  sync.Mutex
	out io.WriteCloser
}

// NewFileWriter пишет в файл с ротацией по размеру
func NewFileWriter(path string) *Writer {
	return NewWriter(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    20, // MB
		MaxBackups: 3,
	})
}

func NewWriter(out io.WriteCloser) *Writer {
	return &Writer{out: out}
}

func (w *Writer) Record(entry Entry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal run log entry: %w", err)
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.out.Write(line); err != nil {
		return fmt.Errorf("write run log entry: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	return w.out.Close()
}
