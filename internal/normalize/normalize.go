package normalize

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

var spacesRe = regexp.MustCompile(`\s+`)

type Options struct {
	TrimNBSP        bool
	CollapseSpaces  bool
	MaxPreviewChars int
}

type Normalizer struct {
	opts Options
}

func NewNormalizer(opts Options) *Normalizer {
	return &Normalizer{opts: opts}
}

// CleanText приводит извлечённый текст к одной строке без лишних пробелов
func (n *Normalizer) CleanText(text string) string {
	if n.opts.TrimNBSP {
		// Заменяем NBSP (\u00A0) на обычный пробел
		text = strings.ReplaceAll(text, "\u00A0", " ")
	}

	if n.opts.CollapseSpaces {
		text = spacesRe.ReplaceAllString(text, " ")
	}

	return strings.TrimSpace(text)
}

// TruncatePreview обрезает текст до maxPreviewChars символов (рун)
func (n *Normalizer) TruncatePreview(text string) string {
	return Truncate(text, n.opts.MaxPreviewChars)
}

// Truncate обрезает по последнему пробелу перед лимитом и добавляет многоточие.
// Лимит <= 0 означает "без обрезки"
func Truncate(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}

	// Оставляем место под "…"
	runes := []rune(text)
	truncated := string(runes[:limit-1])
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > 0 {
		return strings.TrimSpace(truncated[:lastSpace]) + "…"
	}

	return truncated + "…"
}

// NormalizeURL нормализует URL (убирает якори)
func NormalizeURL(urlStr string) string {
	urlStr = strings.TrimSpace(urlStr)
	if idx := strings.Index(urlStr, "#"); idx > -1 {
		urlStr = urlStr[:idx]
	}
	return urlStr
}

// ResolveURL превращает относительную ссылку в абсолютную относительно base.
// Если base пустой или ссылка не парсится, возвращается нормализованная ссылка
func ResolveURL(base, ref string) string {
	ref = NormalizeURL(ref)
	if ref == "" || base == "" {
		return ref
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}

	return baseURL.ResolveReference(refURL).String()
}
