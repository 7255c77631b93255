package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadConfig читает YAML поверх значений по умолчанию, затем .env и переменные окружения.
// Пустой путь означает только окружение (Lambda)
func LoadConfig(filePath string) (*Config, error) {
	cfg := Default()

	if filePath != "" {
		if err := decodeFile(filePath, cfg); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	ApplyEnv(cfg, os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return cfg, nil
}

func decodeFile(filePath string, cfg *Config) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			// Логируем ошибку, но не возвращаем, иначе перезапишем основную ошибку
			log.Printf("Warning: failed to close config file: %v", closeErr)
		}
	}()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// LookupFunc совпадает с os.LookupEnv
type LookupFunc func(key string) (string, bool)

// ApplyEnv переопределяет секреты и адреса из окружения. Пустые значения игнорируются
func ApplyEnv(cfg *Config, lookup LookupFunc) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("SOURCE_URL", &cfg.Source.URL)
	str("AWS_REGION", &cfg.Storage.Region)
	str("S3_BUCKET_NAME", &cfg.Storage.Bucket)
	str("S3_ENDPOINT", &cfg.Storage.Endpoint)
	str("GITHUB_REPO", &cfg.Mirrors.Primary.Repo)
	str("GITHUB_TOKEN", &cfg.Mirrors.Primary.Token)
	str("GITHUB_REPO_SECONDARY", &cfg.Mirrors.Secondary.Repo)
	str("GITHUB_TOKEN_SECONDARY", &cfg.Mirrors.Secondary.Token)
	str("ARCHIVE_DSN", &cfg.Archive.DSN)
	str("DISCORD_WEBHOOK_URL", &cfg.Discord.WebhookURL)
	str("DISCORD_BOT_TOKEN", &cfg.Discord.BotToken)
	str("DISCORD_CHANNEL_ID", &cfg.Discord.ChannelID)
	str("LOG_LEVEL", &cfg.Observability.LogLevel)
	str("LOG_PATH", &cfg.Observability.LogPath)
	str("RUN_LOG_PATH", &cfg.Observability.RunLogPath)
	str("METRICS_PATH", &cfg.Observability.MetricsPath)
	str("DATE_MODE", &cfg.Extract.DateMode)

	if v, ok := lookup("DISCORD_DELETE_AFTER_DAYS"); ok && v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			cfg.Discord.DeleteAfterDays = days
		} else {
			log.Printf("Warning: ignoring DISCORD_DELETE_AFTER_DAYS=%q: %v", v, err)
		}
	}
}
