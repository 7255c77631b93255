package scraper

import "strings"

// Разделители в порядке поиска: em dash, en dash, дефис
var dateSeparators = []string{"—", "–", "-"}

// SplitDatePrefix отделяет дату-префикс от текста по первому тире.
// "24 July 2025 — Something happened" → ("24 July 2025 —", "Something happened").
// Без разделителя дата пустая, текст не меняется
func SplitDatePrefix(text string) (date, content string) {
	text = strings.TrimSpace(text)

	idx, sepLen := -1, 0
	for _, sep := range dateSeparators {
		if i := strings.Index(text, sep); i >= 0 && (idx < 0 || i < idx) {
			idx, sepLen = i, len(sep)
		}
	}

	if idx < 0 {
		return "", text
	}

	return strings.TrimSpace(text[:idx+sepLen]), strings.TrimSpace(text[idx+sepLen:])
}
