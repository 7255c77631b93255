package config

import (
	"fmt"
	"strings"
	"time"

	"tether-news-scraper/internal/normalize"
	"tether-news-scraper/internal/scraper"
)

type Config struct {
	Source              SourceConfig        `yaml:"source"`
	Rod                 RodConfig           `yaml:"rod"`
	RobotsCacheTTLHours int                 `yaml:"robots_cache_ttl_hours"`
	RateLimit           RateLimitConfig     `yaml:"rate_limit"`
	Extract             ExtractConfig       `yaml:"extract"`
	Normalize           NormalizeConfig     `yaml:"normalize"`
	Storage             StorageConfig       `yaml:"storage"`
	Mirrors             MirrorsConfig       `yaml:"mirrors"`
	Archive             ArchiveConfig       `yaml:"archive"`
	Discord             DiscordConfig       `yaml:"discord"`
	Scheduler           SchedulerConfig     `yaml:"scheduler"`
	Observability       ObservabilityConfig `yaml:"observability"`
}

type SourceConfig struct {
	URL            string `yaml:"url"`
	UserAgent      string `yaml:"user_agent"`
	TimeoutMS      int    `yaml:"timeout_ms"`
	RespectRobots  bool   `yaml:"respect_robots"`
	AcceptLanguage string `yaml:"accept_language"`
}

type RodConfig struct {
	Enabled          bool   `yaml:"enabled"`
	ChromePath       string `yaml:"chrome_path"`
	PageTimeoutS     int    `yaml:"page_timeout_s"`
	WaitLoadTimeoutS int    `yaml:"wait_load_timeout_s"`
	LazyLoadDelayS   int    `yaml:"lazy_load_delay_s"`
}

type RateLimitConfig struct {
	RPM int `yaml:"rpm"`
}

type ExtractConfig struct {
	DateMode      string `yaml:"date_mode"`
	SelectorsFile string `yaml:"selectors_file"`
	// ResolveURLs делает url/image_url абсолютными и убирает якорь
	ResolveURLs bool `yaml:"resolve_urls"`
}

type NormalizeConfig struct {
	TrimNBSP        bool `yaml:"trim_nbsp"`
	CollapseSpaces  bool `yaml:"collapse_spaces"`
	MaxPreviewChars int  `yaml:"max_preview_chars"`
}

type StorageConfig struct {
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	LatestKey string `yaml:"latest_key"`
	BackupKey string `yaml:"backup_key"`
	// Endpoint нужен для S3-совместимых хранилищ (MinIO, localstack)
	Endpoint string `yaml:"endpoint"`
}

type MirrorsConfig struct {
	Primary   MirrorConfig `yaml:"primary"`
	Secondary MirrorConfig `yaml:"secondary"`
}

type MirrorConfig struct {
	Repo       string `yaml:"repo"` // owner/name
	Token      string `yaml:"token"`
	Path       string `yaml:"path"`
	Branch     string `yaml:"branch"`
	ArchiveDir string `yaml:"archive_dir"`
	APIURL     string `yaml:"api_url"`
}

type ArchiveConfig struct {
	Driver           string `yaml:"driver"`
	DSN              string `yaml:"dsn"`
	CommandTimeoutMS int    `yaml:"command_timeout_ms"`
}

type DiscordConfig struct {
	WebhookURL      string `yaml:"webhook_url"`
	Username        string `yaml:"username"`
	BotToken        string `yaml:"bot_token"`
	ChannelID       string `yaml:"channel_id"`
	DeleteAfterDays int    `yaml:"delete_after_days"`
	DeleteDelayMS   int    `yaml:"delete_delay_ms"`
}

type SchedulerConfig struct {
	Mode      string `yaml:"mode"`
	IntervalS int    `yaml:"interval_s"`
}

type ObservabilityConfig struct {
	LogPath     string `yaml:"log_path"`
	LogLevel    string `yaml:"log_level"`
	MetricsPath string `yaml:"metrics_path"`
	RunLogPath  string `yaml:"run_log_path"`
}

// Default возвращает конфиг со значениями по умолчанию. Секреты остаются пустыми
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			URL:           "https://tether.io/news/",
			UserAgent:     "Mozilla/5.0 (compatible; TetherNewsScraper/1.0)",
			TimeoutMS:     30000,
			RespectRobots: false,
		},
		Rod: RodConfig{
			PageTimeoutS:     30,
			WaitLoadTimeoutS: 15,
		},
		RobotsCacheTTLHours: 12,
		RateLimit:           RateLimitConfig{RPM: 30},
		Extract:             ExtractConfig{DateMode: string(scraper.DateModeScrapeDate)},
		Normalize: NormalizeConfig{
			MaxPreviewChars: 1024,
		},
		Storage: StorageConfig{
			Region:    "us-east-1",
			Prefix:    "tether_news_scraper",
			LatestKey: "latest-articles.json",
			BackupKey: "backup-articles.json",
		},
		Mirrors: MirrorsConfig{
			Primary:   MirrorConfig{Path: "data/latest-articles.json", ArchiveDir: "data/archive"},
			Secondary: MirrorConfig{Path: "data/latest-articles.json"},
		},
		Archive: ArchiveConfig{
			Driver:           "mssql",
			CommandTimeoutMS: 5000,
		},
		Discord: DiscordConfig{
			Username:        "Tether News Scraper",
			DeleteAfterDays: 15,
			DeleteDelayMS:   200,
		},
		Scheduler:     SchedulerConfig{Mode: "oneshot"},
		Observability: ObservabilityConfig{LogLevel: "info", RunLogPath: "scraper.log"},
	}
}

// Validation
func (c *Config) Validate() error {
	if c.Source.URL == "" {
		return fmt.Errorf("source.url is required")
	}
	if c.Source.UserAgent == "" {
		return fmt.Errorf("source.user_agent is required")
	}
	if c.Source.TimeoutMS <= 0 {
		return fmt.Errorf("source.timeout_ms must be > 0")
	}
	if c.RateLimit.RPM <= 0 {
		return fmt.Errorf("rate_limit.rpm must be > 0")
	}
	if c.RobotsCacheTTLHours <= 0 {
		return fmt.Errorf("robots_cache_ttl_hours must be > 0")
	}
	if !scraper.DateMode(c.Extract.DateMode).Valid() {
		return fmt.Errorf("extract.date_mode must be 'scrape_date' or 'content_prefix'")
	}
	if c.Normalize.MaxPreviewChars < 0 {
		return fmt.Errorf("normalize.max_preview_chars must be >= 0")
	}
	if c.Storage.Region == "" {
		return fmt.Errorf("storage.region is required")
	}
	if c.Storage.LatestKey == "" || c.Storage.BackupKey == "" {
		return fmt.Errorf("storage.latest_key and storage.backup_key are required")
	}
	if c.Storage.LatestKey == c.Storage.BackupKey {
		return fmt.Errorf("storage.backup_key must differ from storage.latest_key")
	}
	for name, m := range map[string]MirrorConfig{"primary": c.Mirrors.Primary, "secondary": c.Mirrors.Secondary} {
		if m.Repo != "" && !validRepo(m.Repo) {
			return fmt.Errorf("mirrors.%s.repo must be in 'owner/name' form", name)
		}
		if m.Repo != "" && m.Path == "" {
			return fmt.Errorf("mirrors.%s.path is required when repo is set", name)
		}
	}
	if c.Archive.DSN != "" {
		if c.Archive.Driver != "mssql" {
			return fmt.Errorf("archive.driver must be 'mssql'")
		}
		if c.Archive.CommandTimeoutMS <= 0 {
			return fmt.Errorf("archive.command_timeout_ms must be > 0")
		}
	}
	if c.Discord.DeleteAfterDays <= 0 {
		return fmt.Errorf("discord.delete_after_days must be > 0")
	}
	if c.Discord.DeleteDelayMS < 0 {
		return fmt.Errorf("discord.delete_delay_ms must be >= 0")
	}
	if c.Scheduler.Mode != "interval" && c.Scheduler.Mode != "oneshot" {
		return fmt.Errorf("scheduler.mode must be 'interval' or 'oneshot'")
	}
	if c.Scheduler.Mode == "interval" && c.Scheduler.IntervalS <= 0 {
		return fmt.Errorf("scheduler.interval_s must be > 0 when mode is 'interval'")
	}
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("observability.log_level is required")
	}
	if c.Rod.Enabled {
		if c.Rod.ChromePath == "" {
			return fmt.Errorf("rod.chrome_path is required when rod.enabled is true")
		}
		if c.Rod.PageTimeoutS <= 0 {
			return fmt.Errorf("rod.page_timeout_s must be > 0")
		}
		if c.Rod.WaitLoadTimeoutS <= 0 {
			return fmt.Errorf("rod.wait_load_timeout_s must be > 0")
		}
		if c.Rod.LazyLoadDelayS < 0 {
			return fmt.Errorf("rod.lazy_load_delay_s must be >= 0")
		}
	}
	return nil
}

// Getters
func (c *Config) GetFetchTimeout() time.Duration {
	return time.Duration(c.Source.TimeoutMS) * time.Millisecond
}

func (c *Config) GetRobotsCacheTTL() time.Duration {
	return time.Duration(c.RobotsCacheTTLHours) * time.Hour
}

func (c *Config) GetArchiveCommandTimeout() time.Duration {
	return time.Duration(c.Archive.CommandTimeoutMS) * time.Millisecond
}

func (c *Config) GetDeleteAfter() time.Duration {
	return time.Duration(c.Discord.DeleteAfterDays) * 24 * time.Hour
}

func (c *Config) GetDeleteDelay() time.Duration {
	return time.Duration(c.Discord.DeleteDelayMS) * time.Millisecond
}

func (c *Config) GetSchedulerInterval() time.Duration {
	return time.Duration(c.Scheduler.IntervalS) * time.Second
}

func (c *Config) GetRodPageTimeout() time.Duration {
	return time.Duration(c.Rod.PageTimeoutS) * time.Second
}

func (c *Config) GetRodWaitLoadTimeout() time.Duration {
	return time.Duration(c.Rod.WaitLoadTimeoutS) * time.Second
}

func (c *Config) GetRodLazyLoadDelay() time.Duration {
	return time.Duration(c.Rod.LazyLoadDelayS) * time.Second
}

// LatestObjectKey возвращает полный ключ снапшота с префиксом
func (c *Config) LatestObjectKey() string {
	return joinKey(c.Storage.Prefix, c.Storage.LatestKey)
}

func (c *Config) BackupObjectKey() string {
	return joinKey(c.Storage.Prefix, c.Storage.BackupKey)
}

func (c *Config) NormalizeOptions() normalize.Options {
	return normalize.Options{
		TrimNBSP:        c.Normalize.TrimNBSP,
		CollapseSpaces:  c.Normalize.CollapseSpaces,
		MaxPreviewChars: c.Normalize.MaxPreviewChars,
	}
}

func validRepo(repo string) bool {
	owner, name, ok := strings.Cut(repo, "/")
	return ok && owner != "" && name != "" && !strings.Contains(name, "/")
}

func joinKey(prefix, key string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}
