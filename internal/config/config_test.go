package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func envMap(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestDefaultIsValidWithoutSecrets(t *testing.T) {
	cfg := Default()
	// Бакет необязателен: без него прогон падает на стадии store, а не при загрузке
	require.NoError(t, cfg.Validate())
	assert.Empty(t, cfg.Storage.Bucket)

	assert.Equal(t, "tether_news_scraper/latest-articles.json", cfg.LatestObjectKey())
	assert.Equal(t, "tether_news_scraper/backup-articles.json", cfg.BackupObjectKey())
	assert.Equal(t, int64(30000), cfg.GetFetchTimeout().Milliseconds())

	// robots.txt, разрешение ссылок и схлопывание пробелов включаются явно
	assert.False(t, cfg.Source.RespectRobots)
	assert.False(t, cfg.Extract.ResolveURLs)
	assert.False(t, cfg.Normalize.CollapseSpaces)
	assert.False(t, cfg.Normalize.TrimNBSP)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	ApplyEnv(cfg, envMap(map[string]string{
		"S3_BUCKET_NAME":            "bucket-from-env",
		"AWS_REGION":                "eu-west-1",
		"GITHUB_REPO":               "acme/news-data",
		"GITHUB_TOKEN":              "ghp_primary",
		"GITHUB_REPO_SECONDARY":     "acme/news-mirror",
		"DISCORD_WEBHOOK_URL":       "https://discord.com/api/webhooks/1/abc",
		"DISCORD_DELETE_AFTER_DAYS": "7",
		"DISCORD_CHANNEL_ID":        "",
	}))

	assert.Equal(t, "bucket-from-env", cfg.Storage.Bucket)
	assert.Equal(t, "eu-west-1", cfg.Storage.Region)
	assert.Equal(t, "acme/news-data", cfg.Mirrors.Primary.Repo)
	assert.Equal(t, "ghp_primary", cfg.Mirrors.Primary.Token)
	assert.Equal(t, "acme/news-mirror", cfg.Mirrors.Secondary.Repo)
	assert.Empty(t, cfg.Mirrors.Secondary.Token)
	assert.Equal(t, 7, cfg.Discord.DeleteAfterDays)
	assert.Empty(t, cfg.Discord.ChannelID)
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
source:
  url: https://example.com/news/
  user_agent: test-agent
  timeout_ms: 5000
storage:
  bucket: yaml-bucket
extract:
  date_mode: content_prefix
scheduler:
  mode: interval
  interval_s: 3600
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/news/", cfg.Source.URL)
	assert.Equal(t, "test-agent", cfg.Source.UserAgent)
	assert.Equal(t, "content_prefix", cfg.Extract.DateMode)
	assert.Equal(t, 3600, cfg.Scheduler.IntervalS)
	// значения по умолчанию сохраняются
	assert.Equal(t, "tether_news_scraper", cfg.Storage.Prefix)
	assert.Equal(t, 15, cfg.Discord.DeleteAfterDays)
}

func TestLoadConfigRejectsUnknownField(t *testing.T) {
	path := writeFile(t, "config.yaml", "storage:\n  bucket: b\n  buckt: typo\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad date mode", func(c *Config) { c.Extract.DateMode = "iso" }, true},
		{"bad repo", func(c *Config) { c.Mirrors.Primary.Repo = "no-slash" }, true},
		{"repo with nested path", func(c *Config) { c.Mirrors.Secondary.Repo = "a/b/c" }, true},
		{"repo without path", func(c *Config) {
			c.Mirrors.Primary.Repo = "acme/data"
			c.Mirrors.Primary.Path = ""
		}, true},
		{"same keys", func(c *Config) { c.Storage.BackupKey = c.Storage.LatestKey }, true},
		{"interval without seconds", func(c *Config) { c.Scheduler.Mode = "interval" }, true},
		{"cron unsupported", func(c *Config) { c.Scheduler.Mode = "cron" }, true},
		{"rod without chrome", func(c *Config) { c.Rod.Enabled = true }, true},
		{"archive wrong driver", func(c *Config) {
			c.Archive.DSN = "sqlserver://localhost"
			c.Archive.Driver = "postgres"
		}, true},
		{"zero timeout", func(c *Config) { c.Source.TimeoutMS = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Storage.Bucket = "bucket"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadSelectors(t *testing.T) {
	path := writeFile(t, "selectors.yaml", `
container_candidates:
  - ".news-card"
  - "article"
title: "h4"
`)

	sel, err := LoadSelectors(path)
	require.NoError(t, err)

	assert.Equal(t, []string{".news-card", "article"}, sel.ContainerCandidates)
	assert.Equal(t, "h4", sel.Title)
	assert.Equal(t, "img", sel.Image)
	assert.Equal(t, "href", sel.LinkAttr)
}

func TestLoadSelectorsValidation(t *testing.T) {
	path := writeFile(t, "selectors.yaml", "title: h2\n")

	_, err := LoadSelectors(path)
	require.Error(t, err)

	_, err = LoadSelectors("")
	require.Error(t, err)
}

func TestConfigSelectorsDefault(t *testing.T) {
	sel, err := Default().Selectors()
	require.NoError(t, err)
	assert.Equal(t, "article", sel.ContainerFallback)
}

func TestLoadConfigWithoutBucket(t *testing.T) {
	t.Setenv("S3_BUCKET_NAME", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Storage.Bucket)
}
