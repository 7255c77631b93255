package runlog

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tether-news-scraper/internal/scraper"
)

var at = time.Date(2025, 7, 24, 8, 0, 0, 0, time.UTC)

func TestRecordAppendsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scraper.log")
	w := NewFileWriter(path)

	articles := []scraper.Article{{Title: "a", Date: "2025-07-24"}, {Title: "b"}}
	require.NoError(t, w.Record(SuccessEntry(at, articles)))
	require.NoError(t, w.Record(FailureEntry(at, errors.New("no articles found"))))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		lines = append(lines, m)
	}
	require.Len(t, lines, 2)

	assert.Equal(t, true, lines[0]["success"])
	assert.Equal(t, float64(2), lines[0]["articlesCount"])
	assert.Len(t, lines[0]["articles"], 2)
	assert.NotContains(t, lines[0], "error")

	assert.Equal(t, false, lines[1]["success"])
	assert.Equal(t, "no articles found", lines[1]["error"])
	assert.NotContains(t, lines[1], "articlesCount")
	assert.NotContains(t, lines[1], "articles")
}

func TestSuccessEntryZeroCountIsKept(t *testing.T) {
	line, err := json.Marshal(SuccessEntry(at, nil))
	require.NoError(t, err)
	assert.Contains(t, string(line), `"articlesCount":0`)
}
