package checksum

import (
	"crypto/sha256"
	"fmt"

	"tether-news-scraper/internal/scraper"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateContentHash генерирует SHA256 хеш статьи
// Формула: SHA256(url|title|content|date)
func (g *Generator) GenerateContentHash(a scraper.Article) string {
	content := fmt.Sprintf("%s|%s|%s|%s", a.URL, a.Title, a.Content, a.Date)
	hash := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x", hash)
}

// DocumentHash возвращает короткий отпечаток документа для сообщений коммитов и логов
func (g *Generator) DocumentHash(document []byte) string {
	hash := sha256.Sum256(document)
	return fmt.Sprintf("%x", hash[:6])
}
