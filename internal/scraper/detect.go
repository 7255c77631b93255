package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// inspectPatterns: паттерны, для которых логируется число совпадений
var inspectPatterns = []string{
	"article", ".post", ".news-item", ".article", ".entry", ".blog-post",
	`[class*="post"]`, `[class*="article"]`, `[class*="news"]`,
}

// ChooseContainerSelector возвращает первый кандидат с ненулевым числом совпадений,
// иначе fallback. Чистая функция от разметки
func ChooseContainerSelector(html string, candidates []string, fallback string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fallback
	}
	return chooseContainer(doc, candidates, fallback)
}

func chooseContainer(doc *goquery.Document, candidates []string, fallback string) string {
	for _, candidate := range candidates {
		if doc.Find(candidate).Length() > 0 {
			return candidate
		}
	}
	return fallback
}

// Resolve выбирает контейнер для страницы, остальные селекторы берутся как есть
func (s *Selectors) Resolve(doc *goquery.Document) Resolved {
	return Resolved{
		Article:   chooseContainer(doc, s.ContainerCandidates, s.ContainerFallback),
		Title:     s.Title,
		Image:     s.Image,
		ImageAttr: s.ImageAttr,
		Content:   s.Content,
		Link:      s.Link,
		LinkAttr:  s.LinkAttr,
	}
}

// ResolveSelectors парсит разметку и выбирает селекторы
func ResolveSelectors(html string, selectors *Selectors) (Resolved, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Resolved{}, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return selectors.Resolve(doc), nil
}

// InspectPatterns считает совпадения диагностических паттернов. Нулевые не возвращаются
func InspectPatterns(html string) ([]PatternCount, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return inspectDocument(doc), nil
}

func inspectDocument(doc *goquery.Document) []PatternCount {
	var counts []PatternCount
	for _, pattern := range inspectPatterns {
		if n := doc.Find(pattern).Length(); n > 0 {
			counts = append(counts, PatternCount{Pattern: pattern, Count: n})
		}
	}
	return counts
}
