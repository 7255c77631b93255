package checksum

import (
	"testing"

	"tether-news-scraper/internal/scraper"
)

func testArticle() scraper.Article {
	return scraper.Article{
		URL:     "https://tether.io/news/123",
		Title:   "Test article",
		Content: "Article body",
		Date:    "2025-10-18",
	}
}

func TestGenerateContentHash(t *testing.T) {
	gen := NewGenerator()
	a := testArticle()

	hash1 := gen.GenerateContentHash(a)
	hash2 := gen.GenerateContentHash(a)

	// Хеш должен быть детерминированным
	if hash1 != hash2 {
		t.Errorf("Hash not deterministic: %s != %s", hash1, hash2)
	}

	// Хеш должен быть 64 символа (SHA256 hex)
	if len(hash1) != 64 {
		t.Errorf("Hash wrong length: %d, expected 64", len(hash1))
	}

	// Изменение контента должно изменить хеш
	b := a
	b.Title = "Another title"
	if hash1 == gen.GenerateContentHash(b) {
		t.Errorf("Hash should change when title changes")
	}
}

func TestDocumentHash(t *testing.T) {
	gen := NewGenerator()

	h := gen.DocumentHash([]byte(`[]`))
	if len(h) != 12 {
		t.Errorf("DocumentHash length = %d, want 12", len(h))
	}
	if h == gen.DocumentHash([]byte(`[{}]`)) {
		t.Errorf("DocumentHash should differ for different documents")
	}
}
