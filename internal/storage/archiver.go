package storage

import (
	"context"
	"fmt"
	"time"

	"tether-news-scraper/internal/checksum"
	"tether-news-scraper/internal/observability"
	"tether-news-scraper/internal/outcome"
	"tether-news-scraper/internal/scraper"
)

// Archiver складывает статьи прогона в Repository. Повторные статьи отсекаются по checksum
type Archiver struct {
	repo   Repository
	gen    *checksum.Generator
	logger *observability.Logger
}

func NewArchiver(repo Repository, logger *observability.Logger) *Archiver {
	return &Archiver{
		repo:   repo,
		gen:    checksum.NewGenerator(),
		logger: logger,
	}
}

func (a *Archiver) Archive(ctx context.Context, articles []scraper.Article, scrapedAt time.Time) outcome.Result {
	inserted := 0
	for i, article := range articles {
		isNew, err := a.repo.UpsertArticle(ctx, &ArchivedArticle{
			Title:     article.Title,
			Content:   article.Content,
			ImageURL:  article.ImageURL,
			URL:       article.URL,
			DateRaw:   article.Date,
			ScrapedAt: scrapedAt.UTC(),
			CheckSum:  a.gen.GenerateContentHash(article),
		})
		if err != nil {
			return outcome.Failed(fmt.Errorf("archive article %d: %w", i, err))
		}
		if isNew {
			inserted++
		}
	}

	fields := []any{"total", len(articles), "new", inserted}
	if stored, err := a.repo.GetArticleCount(ctx); err == nil {
		fields = append(fields, "archive_size", stored)
	} else {
		a.logger.Warn("Failed to count archived articles", "error", err.Error())
	}

	a.logger.Info("Articles archived", fields...)
	return outcome.OK()
}

func (a *Archiver) Close() error {
	return a.repo.Close()
}
