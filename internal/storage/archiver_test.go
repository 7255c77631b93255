package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tether-news-scraper/internal/observability"
	"tether-news-scraper/internal/scraper"
)

type memoryRepo struct {
	rows map[string]*ArchivedArticle
	err  error
}

func (m *memoryRepo) UpsertArticle(ctx context.Context, a *ArchivedArticle) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.rows[a.CheckSum]; ok {
		return false, nil
	}
	m.rows[a.CheckSum] = a
	return true, nil
}

func (m *memoryRepo) GetArticleCount(ctx context.Context) (int, error) { return len(m.rows), nil }
func (m *memoryRepo) Close() error                                     { return nil }

func TestArchiverDeduplicatesByChecksum(t *testing.T) {
	repo := &memoryRepo{rows: map[string]*ArchivedArticle{}}
	arch := NewArchiver(repo, observability.NewNopLogger())
	at := time.Date(2025, 7, 24, 0, 0, 0, 0, time.UTC)

	articles := []scraper.Article{
		{Title: "One", Content: "a", Date: "2025-07-24"},
		{Title: "Two", Content: "b", Date: "2025-07-24"},
	}

	require.True(t, arch.Archive(context.Background(), articles, at).IsOK())
	require.True(t, arch.Archive(context.Background(), articles, at).IsOK())

	count, err := repo.GetArticleCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	for sum, row := range repo.rows {
		assert.Len(t, sum, 64)
		assert.Equal(t, at, row.ScrapedAt)
	}
}

func TestArchiverReportsFailure(t *testing.T) {
	repo := &memoryRepo{err: errors.New("login failed")}
	res := NewArchiver(repo, observability.NewNopLogger()).Archive(context.Background(), []scraper.Article{{Title: "x"}}, time.Now())

	assert.True(t, res.IsFailed())
	assert.Contains(t, res.Err.Error(), "login failed")
}
