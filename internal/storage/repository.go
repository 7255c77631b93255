package storage

import (
	"context"
	"time"
)

// ArchivedArticle представляет статью для долговременного архива в БД
type ArchivedArticle struct {
	Title     string
	Content   string
	ImageURL  string
	URL       string
	DateRaw   string // как в снапшоте: ISO дата или фрагмент текста
	ScrapedAt time.Time
	CheckSum  string // SHA256 контента
}

// Repository интерфейс архива статей
type Repository interface {
	// UpsertArticle сохраняет статью, если её checksum ещё не встречался. Возвращает isNew
	UpsertArticle(ctx context.Context, article *ArchivedArticle) (isNew bool, err error)

	// GetArticleCount получает количество статей в архиве
	GetArticleCount(ctx context.Context) (int, error)

	Close() error
}
