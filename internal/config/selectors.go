package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tether-news-scraper/internal/scraper"
)

// LoadSelectors загружает селекторы из YAML файла. Незаполненные поля берутся по умолчанию
func LoadSelectors(filePath string) (*scraper.Selectors, error) {
	if filePath == "" {
		return nil, fmt.Errorf("selectors file path is empty")
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open selectors file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close selectors file: %v\n", closeErr)
		}
	}()

	var selectors scraper.Selectors
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&selectors); err != nil {
		return nil, fmt.Errorf("failed to parse selectors YAML: %w", err)
	}

	if err := validateSelectors(&selectors); err != nil {
		return nil, err
	}

	return selectors.WithDefaults(), nil
}

// Selectors возвращает селекторы из extract.selectors_file либо встроенные
func (c *Config) Selectors() (*scraper.Selectors, error) {
	if c.Extract.SelectorsFile == "" {
		return scraper.DefaultSelectors(), nil
	}
	return LoadSelectors(c.Extract.SelectorsFile)
}

// validateSelectors проверяет, что в файле задан хотя бы способ найти контейнер
func validateSelectors(s *scraper.Selectors) error {
	if len(s.ContainerCandidates) == 0 && s.ContainerFallback == "" {
		return fmt.Errorf("container_candidates or container_fallback is required")
	}
	for i, c := range s.ContainerCandidates {
		if c == "" {
			return fmt.Errorf("container_candidates[%d] is empty", i)
		}
	}
	return nil
}
