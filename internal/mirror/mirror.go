package mirror

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"

	"tether-news-scraper/internal/checksum"
	"tether-news-scraper/internal/config"
	"tether-news-scraper/internal/observability"
	"tether-news-scraper/internal/outcome"
)

// Mirror пишет снапшот в GitHub-репозиторий через contents API
type Mirror struct {
	name       string
	client     *github.Client
	owner      string
	repo       string
	path       string
	branch     string
	archiveDir string
	logger     *observability.Logger
	now        func() time.Time
	httpClient *http.Client
}

// Report: результат записи основного файла и архивной копии
type Report struct {
	Latest  outcome.Result
	Archive outcome.Result
}

type Option func(*Mirror)

// WithClock подменяет часы для имени архивного файла
func WithClock(now func() time.Time) Option {
	return func(m *Mirror) { m.now = now }
}

func WithHTTPClient(c *http.Client) Option {
	return func(m *Mirror) { m.httpClient = c }
}

// New создаёт зеркало. Без репозитория или токена возвращает nil и причину пропуска
func New(name string, cfg config.MirrorConfig, logger *observability.Logger, opts ...Option) (*Mirror, string, error) {
	if cfg.Repo == "" {
		return nil, "repository not configured", nil
	}
	if cfg.Token == "" {
		return nil, "repository token not configured", nil
	}

	owner, repo, ok := strings.Cut(cfg.Repo, "/")
	if !ok || owner == "" || repo == "" {
		return nil, "", fmt.Errorf("invalid repository %q, want owner/name", cfg.Repo)
	}

	m := &Mirror{
		name:       name,
		owner:      owner,
		repo:       repo,
		path:       strings.TrimPrefix(cfg.Path, "/"),
		branch:     cfg.Branch,
		archiveDir: strings.Trim(cfg.ArchiveDir, "/"),
		logger:     logger.With("mirror", name, "repo", cfg.Repo),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.client = github.NewClient(m.httpClient).WithAuthToken(cfg.Token)

	if cfg.APIURL != "" {
		base, err := url.Parse(strings.TrimSuffix(cfg.APIURL, "/") + "/")
		if err != nil {
			return nil, "", fmt.Errorf("invalid api_url: %w", err)
		}
		m.client.BaseURL = base
	}

	return m, "", nil
}

func (m *Mirror) Name() string { return m.name }

// Mirror создаёт или обновляет файл. Ревизия передаётся только если файл уже есть,
// поэтому повторный вызов с тем же документом не конфликтует
func (m *Mirror) Mirror(ctx context.Context, document []byte, count int) Report {
	report := Report{Archive: outcome.Skipped("archive directory not configured")}
	now := m.now().UTC()

	digest := checksum.NewGenerator().DocumentHash(document)
	message := fmt.Sprintf("Update latest articles (%d articles, %s, %s)", count, now.Format(time.RFC3339), digest)
	if err := m.write(ctx, m.path, document, message, true); err != nil {
		report.Latest = outcome.Failed(err)
	} else {
		report.Latest = outcome.OK()
	}

	if m.archiveDir != "" {
		archivePath := path.Join(m.archiveDir, "articles-"+now.Format("2006-01-02")+".json")
		message := fmt.Sprintf("Archive articles for %s", now.Format("2006-01-02"))

		// Путь уникален на день, ревизию не запрашиваем
		if err := m.write(ctx, archivePath, document, message, false); err != nil {
			report.Archive = outcome.Failed(err)
		} else {
			report.Archive = outcome.OK()
		}
	}

	return report
}

func (m *Mirror) write(ctx context.Context, filePath string, document []byte, message string, conditional bool) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: document,
	}
	if m.branch != "" {
		opts.Branch = github.String(m.branch)
	}

	if conditional {
		sha, err := m.currentSHA(ctx, filePath)
		if err != nil {
			return err
		}
		if sha != "" {
			opts.SHA = github.String(sha)
			if _, _, err := m.client.Repositories.UpdateFile(ctx, m.owner, m.repo, filePath, opts); err != nil {
				return fmt.Errorf("update %s: %w", filePath, err)
			}
			m.logger.Info("Mirror file updated", "path", filePath, "previous_sha", sha)
			return nil
		}
	}

	if _, _, err := m.client.Repositories.CreateFile(ctx, m.owner, m.repo, filePath, opts); err != nil {
		return fmt.Errorf("create %s: %w", filePath, err)
	}
	m.logger.Info("Mirror file created", "path", filePath)
	return nil
}

// currentSHA возвращает ревизию файла или "" если файла нет
func (m *Mirror) currentSHA(ctx context.Context, filePath string) (string, error) {
	var getOpts *github.RepositoryContentGetOptions
	if m.branch != "" {
		getOpts = &github.RepositoryContentGetOptions{Ref: m.branch}
	}

	file, _, resp, err := m.client.Repositories.GetContents(ctx, m.owner, m.repo, filePath, getOpts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", fmt.Errorf("get %s: %w", filePath, err)
	}
	if file == nil {
		return "", fmt.Errorf("get %s: path is a directory", filePath)
	}

	return file.GetSHA(), nil
}
