package scraper

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"tether-news-scraper/internal/normalize"
)

type Scraper struct {
	selectors  *Selectors
	dateMode   DateMode
	normalizer *normalize.Normalizer
	baseURL    string
}

type Option func(*Scraper)

// WithBaseURL включает разрешение относительных ссылок относительно страницы листинга.
// Без него url и image_url берутся из атрибута как есть
func WithBaseURL(baseURL string) Option {
	return func(s *Scraper) { s.baseURL = baseURL }
}

func WithNormalizer(n *normalize.Normalizer) Option {
	return func(s *Scraper) { s.normalizer = n }
}

func NewScraper(selectors *Selectors, dateMode DateMode, opts ...Option) *Scraper {
	if selectors == nil {
		selectors = DefaultSelectors()
	}
	if !dateMode.Valid() {
		dateMode = DateModeScrapeDate
	}

	s := &Scraper{
		selectors:  selectors.WithDefaults(),
		dateMode:   dateMode,
		normalizer: normalize.NewNormalizer(normalize.Options{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Listing: результат разбора страницы
type Listing struct {
	Resolved Resolved
	Patterns []PatternCount
	Articles []Article
}

// ParseListing разбирает страницу листинга: выбирает селекторы и извлекает статьи.
// Пустой список статей не ошибка
func (s *Scraper) ParseListing(html string, now time.Time) (*Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	resolved := s.selectors.Resolve(doc)

	return &Listing{
		Resolved: resolved,
		Patterns: inspectDocument(doc),
		Articles: s.extract(doc, resolved, now),
	}, nil
}

// Extract извлекает статьи с уже выбранными селекторами
func (s *Scraper) Extract(html string, resolved Resolved, now time.Time) ([]Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return s.extract(doc, resolved, now), nil
}

func (s *Scraper) extract(doc *goquery.Document, r Resolved, now time.Time) []Article {
	articles := make([]Article, 0, MaxArticles)

	// Рассматриваем только первые MaxArticles контейнеров
	containers := doc.Find(r.Article)
	if containers.Length() > MaxArticles {
		containers = containers.Slice(0, MaxArticles)
	}

	containers.Each(func(i int, sel *goquery.Selection) {
		title := s.normalizer.CleanText(sel.Find(r.Title).First().Text())
		if title == "" {
			return // Пропуск если нет title
		}

		imageURL, _ := sel.Find(r.Image).First().Attr(r.ImageAttr)
		link, _ := sel.Find(r.Link).First().Attr(r.LinkAttr)
		content := s.normalizer.CleanText(sel.Find(r.Content).First().Text())

		article := Article{
			Title:    title,
			Content:  content,
			ImageURL: s.resolve(imageURL),
			URL:      s.resolve(link),
		}

		switch s.dateMode {
		case DateModeContentPrefix:
			article.Date, article.Content = SplitDatePrefix(content)
		default:
			article.Date = now.UTC().Format("2006-01-02")
		}

		articles = append(articles, article)
	})

	return articles
}

func (s *Scraper) resolve(attr string) string {
	if s.baseURL == "" {
		return attr
	}
	return normalize.ResolveURL(s.baseURL, attr)
}
