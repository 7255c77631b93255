package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/microsoft/go-mssqldb"

	"tether-news-scraper/internal/observability"
	"tether-news-scraper/internal/storage"
)

type Repository struct {
	db             *sql.DB
	commandTimeout time.Duration
	logger         *observability.Logger
}

func NewRepository(ctx context.Context, dsn string, commandTimeout time.Duration, logger *observability.Logger) (*Repository, error) {
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Тестируем соединение
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{
		db:             db,
		commandTimeout: commandTimeout,
		logger:         logger,
	}, nil
}

// UpsertArticle вставляет статью, если такой checksum ещё нет. Существующие строки не меняются
func (r *Repository) UpsertArticle(ctx context.Context, article *storage.ArchivedArticle) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	// MERGE statement для MS SQL
	query := `
		MERGE INTO TblTetherArticles AS target
		USING (SELECT @CheckSum AS CheckSum) AS source
		ON target.[CheckSum] = source.CheckSum
		WHEN NOT MATCHED THEN
			INSERT ([Title], [Content], [ImageURL], [URL], [DateRaw], [ScrapedAt], [CheckSum])
			VALUES (@Title, @Content, @ImageURL, @URL, @DateRaw, @ScrapedAt, @CheckSum);
	`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return false, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			r.logger.Error("Failed to close statement", "error", err.Error())
		}
	}()

	result, err := stmt.ExecContext(ctx,
		sql.Named("Title", article.Title),
		sql.Named("Content", article.Content),
		sql.Named("ImageURL", article.ImageURL),
		sql.Named("URL", article.URL),
		sql.Named("DateRaw", article.DateRaw),
		sql.Named("ScrapedAt", article.ScrapedAt),
		sql.Named("CheckSum", article.CheckSum),
	)
	if err != nil {
		return false, fmt.Errorf("failed to execute upsert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// GetArticleCount получает количество статей в архиве
func (r *Repository) GetArticleCount(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM TblTetherArticles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to query database: %w", err)
	}

	return count, nil
}

// Close закрывает соединение с БД
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

var _ storage.Repository = (*Repository)(nil)
