package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tether-news-scraper/internal/config"
	"tether-news-scraper/internal/fetcher"
	"tether-news-scraper/internal/mirror"
	"tether-news-scraper/internal/notify"
	"tether-news-scraper/internal/observability"
	"tether-news-scraper/internal/outcome"
	"tether-news-scraper/internal/runlog"
	"tether-news-scraper/internal/scraper"
)

// ErrNoArticles: страница разобрана, но статей нет. Снапшот не трогаем
var ErrNoArticles = errors.New("no articles found - keeping existing data")

const (
	StageFetch    = "fetch"
	StageExtract  = "extract"
	StageValidate = "validate"
	StageBackup   = "backup"
	StageStore    = "store"
	StageArchive  = "archive"
	StageNotify   = "notify"
	StageLog      = "log"
)

type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.FetchResponse, error)
}

type SnapshotStore interface {
	Backup(ctx context.Context) outcome.Result
	Put(ctx context.Context, document []byte) error
}

type RepositoryMirror interface {
	Name() string
	Mirror(ctx context.Context, document []byte, count int) mirror.Report
}

type Notifier interface {
	Notify(ctx context.Context, report notify.Report) outcome.Result
}

type RunLog interface {
	Record(entry runlog.Entry) error
}

type ArticleArchiver interface {
	Archive(ctx context.Context, articles []scraper.Article, scrapedAt time.Time) outcome.Result
}

// MirrorSlot: зеркало или причина, по которой оно отключено
type MirrorSlot struct {
	Name       string
	Mirror     RepositoryMirror
	SkipReason string
}

// Dependencies собирает коллабораторов. Nil у необязательных означает "отключено"
type Dependencies struct {
	Fetcher  PageFetcher
	Scraper  *scraper.Scraper
	Store    SnapshotStore
	Mirrors  []MirrorSlot
	Archiver ArticleArchiver
	Notifier Notifier
	RunLog   RunLog
	Metrics  *observability.Metrics

	ArchiveSkipReason  string
	NotifierSkipReason string
}

type Orchestrator struct {
	cfg    *config.Config
	logger *observability.Logger
	deps   Dependencies
	now    func() time.Time
}

func NewOrchestrator(cfg *config.Config, logger *observability.Logger, deps Dependencies) *Orchestrator {
	if deps.Metrics == nil {
		deps.Metrics = observability.NewMetrics("")
	}
	return &Orchestrator{
		cfg:    cfg,
		logger: logger,
		deps:   deps,
		now:    time.Now,
	}
}

type StageResult struct {
	Stage  string
	Result outcome.Result
}

// RunReport описывает итог прогона с результатом каждой стадии
type RunReport struct {
	Success    bool
	Articles   []scraper.Article
	Stages     []StageResult
	StartedAt  time.Time
	FinishedAt time.Time
	Err        error
}

// Stage возвращает результат стадии, если она выполнялась
func (r *RunReport) Stage(name string) (outcome.Result, bool) {
	for _, s := range r.Stages {
		if s.Stage == name {
			return s.Result, true
		}
	}
	return outcome.Result{}, false
}

func (r *RunReport) record(stage string, res outcome.Result) {
	r.Stages = append(r.Stages, StageResult{Stage: stage, Result: res})
}

// Run выполняет FETCH → EXTRACT → VALIDATE → BACKUP → STORE → MIRROR → ARCHIVE → NOTIFY → LOG.
// Ошибка возвращается только для fetch/extract/validate/store
func (o *Orchestrator) Run(ctx context.Context) (*RunReport, error) {
	report := &RunReport{StartedAt: o.now()}

	o.logger.Info("Starting news scraper", "source_url", o.cfg.Source.URL)

	articles, document, err := o.collect(ctx, report)
	if err == nil {
		err = o.persist(ctx, report, document)
	}
	if err != nil {
		return o.finish(ctx, report, err)
	}

	report.Articles = articles

	for _, slot := range o.deps.Mirrors {
		o.mirror(ctx, report, slot, document, len(articles))
	}

	if o.deps.Archiver != nil {
		o.side(report, StageArchive, o.deps.Archiver.Archive(ctx, articles, report.StartedAt))
	} else {
		o.side(report, StageArchive, outcome.Skipped(o.deps.ArchiveSkipReason))
	}

	return o.finish(ctx, report, nil)
}

// collect загружает страницу, извлекает статьи и сериализует снапшот
func (o *Orchestrator) collect(ctx context.Context, report *RunReport) ([]scraper.Article, []byte, error) {
	resp, err := o.deps.Fetcher.Fetch(ctx, o.cfg.Source.URL)
	if err != nil {
		err = fmt.Errorf("fetch %s: %w", o.cfg.Source.URL, err)
		report.record(StageFetch, outcome.Failed(err))
		return nil, nil, err
	}
	report.record(StageFetch, outcome.OK())
	o.logger.Info("Page fetched", "url", resp.URL, "bytes", len(resp.Body))

	listing, err := o.deps.Scraper.ParseListing(string(resp.Body), report.StartedAt)
	if err != nil {
		err = fmt.Errorf("extract: %w", err)
		report.record(StageExtract, outcome.Failed(err))
		return nil, nil, err
	}

	for _, p := range listing.Patterns {
		o.logger.Debug("Pattern matches", "pattern", p.Pattern, "count", p.Count)
	}
	o.logger.Info("Articles extracted",
		"container", listing.Resolved.Article,
		"count", len(listing.Articles),
	)

	document, err := json.MarshalIndent(listing.Articles, "", "  ")
	if err != nil {
		err = fmt.Errorf("extract: encode snapshot: %w", err)
		report.record(StageExtract, outcome.Failed(err))
		return nil, nil, err
	}
	report.record(StageExtract, outcome.OK())

	if len(listing.Articles) == 0 {
		report.record(StageValidate, outcome.Failed(ErrNoArticles))
		return nil, nil, ErrNoArticles
	}
	report.record(StageValidate, outcome.OK())

	return listing.Articles, document, nil
}

// persist делает резервную копию и перезаписывает снапшот. Ошибка backup не фатальна
func (o *Orchestrator) persist(ctx context.Context, report *RunReport, document []byte) error {
	o.side(report, StageBackup, o.deps.Store.Backup(ctx))

	if err := o.deps.Store.Put(ctx, document); err != nil {
		err = fmt.Errorf("store: %w", err)
		report.record(StageStore, outcome.Failed(err))
		return err
	}
	report.record(StageStore, outcome.OK())
	return nil
}

func (o *Orchestrator) mirror(ctx context.Context, report *RunReport, slot MirrorSlot, document []byte, count int) {
	stage := "mirror_" + slot.Name
	if slot.Mirror == nil {
		o.side(report, stage, outcome.Skipped(slot.SkipReason))
		return
	}

	res := slot.Mirror.Mirror(ctx, document, count)
	o.side(report, stage, res.Latest)
	o.side(report, stage+"_archive", res.Archive)
}

// side записывает результат вспомогательной стадии: лог, метрика, отчёт
func (o *Orchestrator) side(report *RunReport, stage string, res outcome.Result) {
	report.record(stage, res)
	res.Log(o.logger, stage)
	o.deps.Metrics.ObserveStage(stage, res.Kind.String())
}

func (o *Orchestrator) finish(ctx context.Context, report *RunReport, runErr error) (*RunReport, error) {
	report.FinishedAt = o.now()
	report.Success = runErr == nil
	report.Err = runErr

	count := len(report.Articles)

	if runErr != nil {
		o.logger.Error("Scraping failed", "error", runErr.Error())
	} else {
		o.logger.Info("Scraping completed", "articles", count)
	}

	notifyReport := notify.Report{
		Success:   report.Success,
		Count:     count,
		Timestamp: report.FinishedAt,
	}
	if runErr != nil {
		notifyReport.ErrorMessage = runErr.Error()
	}

	if o.deps.Notifier != nil {
		o.side(report, StageNotify, o.deps.Notifier.Notify(ctx, notifyReport))
	} else {
		o.side(report, StageNotify, outcome.Skipped(o.deps.NotifierSkipReason))
	}

	o.side(report, StageLog, o.writeRunLog(report))

	o.deps.Metrics.ObserveRun(report.Success, count)
	if err := o.deps.Metrics.Flush(); err != nil {
		o.logger.Warn("Failed to write metrics", "error", err.Error())
	}

	return report, runErr
}

func (o *Orchestrator) writeRunLog(report *RunReport) outcome.Result {
	if o.deps.RunLog == nil {
		return outcome.Skipped("run log path not configured")
	}

	entry := runlog.FailureEntry(report.FinishedAt, report.Err)
	if report.Success {
		entry = runlog.SuccessEntry(report.FinishedAt, report.Articles)
	}

	if err := o.deps.RunLog.Record(entry); err != nil {
		return outcome.Failed(err)
	}
	return outcome.OK()
}
