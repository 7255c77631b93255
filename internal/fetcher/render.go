package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"tether-news-scraper/internal/config"
)

// Renderer загружает страницу через headless Chrome, когда листинг собирается скриптами
type Renderer struct {
	chromePath      string
	userAgent       string
	pageTimeout     time.Duration
	waitLoadTimeout time.Duration
	lazyLoadDelay   time.Duration
}

func NewRenderer(cfg *config.Config) *Renderer {
	return &Renderer{
		chromePath:      cfg.Rod.ChromePath,
		userAgent:       cfg.Source.UserAgent,
		pageTimeout:     cfg.GetRodPageTimeout(),
		waitLoadTimeout: cfg.GetRodWaitLoadTimeout(),
		lazyLoadDelay:   cfg.GetRodLazyLoadDelay(),
	}
}

func (r *Renderer) Render(ctx context.Context, urlStr string) (string, error) {
	l := launcher.New().Bin(r.chromePath).Headless(true).Context(ctx)
	defer l.Kill()

	controlURL, err := l.Launch()
	if err != nil {
		return "", fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return "", fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("failed to open page: %w", err)
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: r.userAgent}); err != nil {
		return "", fmt.Errorf("failed to set user agent: %w", err)
	}

	if err := page.Timeout(r.pageTimeout).Navigate(urlStr); err != nil {
		return "", fmt.Errorf("failed to navigate: %w", err)
	}

	if err := page.Timeout(r.waitLoadTimeout).WaitLoad(); err != nil {
		return "", fmt.Errorf("failed to wait for load: %w", err)
	}

	// Даём ленивой подгрузке дорисовать карточки
	if r.lazyLoadDelay > 0 {
		select {
		case <-time.After(r.lazyLoadDelay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read page HTML: %w", err)
	}
	return html, nil
}
