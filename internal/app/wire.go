package app

import (
	"context"
	"errors"
	"fmt"

	"tether-news-scraper/internal/cleanup"
	"tether-news-scraper/internal/config"
	"tether-news-scraper/internal/fetcher"
	"tether-news-scraper/internal/mirror"
	"tether-news-scraper/internal/normalize"
	"tether-news-scraper/internal/notify"
	"tether-news-scraper/internal/observability"
	"tether-news-scraper/internal/runlog"
	"tether-news-scraper/internal/scraper"
	"tether-news-scraper/internal/snapshot"
	"tether-news-scraper/internal/storage"
	"tether-news-scraper/internal/storage/mssql"
)

// Service держит собранные из конфига компоненты
type Service struct {
	Handler      *Handler
	Orchestrator *Orchestrator
	Pruner       *cleanup.Pruner

	PruneSkipReason string

	closers []func() error
}

// NewScraper собирает экстрактор по секции extract/normalize
func NewScraper(cfg *config.Config) (*scraper.Scraper, error) {
	selectors, err := cfg.Selectors()
	if err != nil {
		return nil, err
	}

	opts := []scraper.Option{
		scraper.WithNormalizer(normalize.NewNormalizer(cfg.NormalizeOptions())),
	}
	if cfg.Extract.ResolveURLs {
		opts = append(opts, scraper.WithBaseURL(cfg.Source.URL))
	}

	return scraper.NewScraper(selectors, scraper.DateMode(cfg.Extract.DateMode), opts...), nil
}

// NewPruner возвращает nil и причину, если нет токена бота.
// Без channel id канал ищется по имени
func NewPruner(cfg *config.Config, logger *observability.Logger) (*cleanup.Pruner, string, error) {
	if cfg.Discord.BotToken == "" {
		return nil, "discord bot token not configured", nil
	}

	p, err := cleanup.NewBotPruner(cfg.Discord.BotToken, cfg.Discord.ChannelID,
		cfg.GetDeleteAfter(), cfg.GetDeleteDelay(), logger.With("component", "cleanup"))
	if err != nil {
		return nil, "", err
	}
	return p, "", nil
}

// NewSnapshotStore не возвращает ошибку: без бакета или AWS конфига прогон
// дойдёт до стадии store и завершится уведомлением о сбое
func NewSnapshotStore(ctx context.Context, cfg *config.Config, logger *observability.Logger) SnapshotStore {
	if cfg.Storage.Bucket == "" {
		logger.Warn("Snapshot store unavailable", "error", snapshot.ErrBucketNotConfigured.Error())
		return snapshot.Unavailable{Err: snapshot.ErrBucketNotConfigured}
	}

	store, err := snapshot.NewS3Store(ctx, cfg, logger.With("component", "snapshot"))
	if err != nil {
		logger.Warn("Snapshot store unavailable", "error", err.Error())
		return snapshot.Unavailable{Err: err}
	}
	return store
}

// Build создаёт все компоненты. Необязательные без учётных данных отключаются с причиной
func Build(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Service, error) {
	svc := &Service{}

	scr, err := NewScraper(cfg)
	if err != nil {
		return nil, err
	}

	deps := Dependencies{
		Fetcher: fetcher.NewFetcher(cfg, logger.With("component", "fetcher")),
		Scraper: scr,
		Store:   NewSnapshotStore(ctx, cfg, logger),
		Metrics: observability.NewMetrics(cfg.Observability.MetricsPath),
	}

	mirrors := []struct {
		name string
		cfg  config.MirrorConfig
	}{
		{"primary", cfg.Mirrors.Primary},
		{"secondary", cfg.Mirrors.Secondary},
	}
	for _, mc := range mirrors {
		m, reason, err := mirror.New(mc.name, mc.cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("mirror %s: %w", mc.name, err)
		}
		slot := MirrorSlot{Name: mc.name, SkipReason: reason}
		if m != nil {
			slot.Mirror = m
		}
		deps.Mirrors = append(deps.Mirrors, slot)
	}

	switch {
	case cfg.Archive.DSN == "":
		deps.ArchiveSkipReason = "archive dsn not configured"
	default:
		repo, err := mssql.NewRepository(ctx, cfg.Archive.DSN, cfg.GetArchiveCommandTimeout(), logger)
		if err != nil {
			// Архив вспомогательный: недоступная БД не мешает прогону
			logger.Warn("Article archive disabled", "error", err.Error())
			deps.ArchiveSkipReason = "archive unavailable: " + err.Error()
			break
		}
		archiver := storage.NewArchiver(repo, logger.With("component", "archive"))
		deps.Archiver = archiver
		svc.closers = append(svc.closers, archiver.Close)
	}

	switch {
	case cfg.Discord.WebhookURL == "":
		deps.NotifierSkipReason = "discord webhook not configured"
	default:
		n, err := notify.NewFromURL(cfg.Discord.WebhookURL, cfg.Discord.Username)
		if err != nil {
			logger.Warn("Notifier disabled", "error", err.Error())
			deps.NotifierSkipReason = "invalid discord webhook: " + err.Error()
			break
		}
		deps.Notifier = n
	}

	if cfg.Observability.RunLogPath != "" {
		w := runlog.NewFileWriter(cfg.Observability.RunLogPath)
		deps.RunLog = w
		svc.closers = append(svc.closers, w.Close)
	}

	svc.Orchestrator = NewOrchestrator(cfg, logger, deps)

	svc.Pruner, svc.PruneSkipReason, err = NewPruner(cfg, logger)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("cleanup: %w", err), svc.Close())
	}

	var pruner Pruner
	if svc.Pruner != nil {
		pruner = svc.Pruner
	}
	svc.Handler = NewHandler(svc.Orchestrator, pruner, svc.PruneSkipReason, logger)

	return svc, nil
}

func (s *Service) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
