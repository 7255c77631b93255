package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

type RobotsCache struct {
	cache map[string]*robotsEntry
	ttl   time.Duration
	mu    sync.RWMutex
}

type robotsEntry struct {
	data      *robotstxt.RobotsData
	expiresAt time.Time
}

func NewRobotsCache(ttl time.Duration) *RobotsCache {
	return &RobotsCache{
		cache: make(map[string]*robotsEntry),
		ttl:   ttl,
	}
}

// IsAllowed проверяет robots.txt хоста. Если файл недоступен, считаем, что можно
func (rc *RobotsCache) IsAllowed(ctx context.Context, target *url.URL, userAgent string, client *http.Client) bool {
	host := target.Host

	rc.mu.RLock()
	cached, exists := rc.cache[host]
	rc.mu.RUnlock()

	if exists && time.Now().Before(cached.expiresAt) {
		return cached.data.TestAgent(target.EscapedPath(), userAgent)
	}

	data := rc.fetch(ctx, target, client)
	if data == nil {
		return true
	}

	rc.mu.Lock()
	rc.cache[host] = &robotsEntry{
		data:      data,
		expiresAt: time.Now().Add(rc.ttl),
	}
	rc.mu.Unlock()

	return data.TestAgent(target.EscapedPath(), userAgent)
}

func (rc *RobotsCache) fetch(ctx context.Context, target *url.URL, client *http.Client) *robotstxt.RobotsData {
	robotsURL := url.URL{Scheme: target.Scheme, Host: target.Host, Path: "/robots.txt"}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL.String(), nil)
	if err != nil {
		return nil
	}

	resp, err := client.Do(req)
	if err != nil {
		// Сетевая ошибка: считаем, что можно
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	// 5xx не кэшируем и не блокируем загрузку
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil
	}
	return data
}
