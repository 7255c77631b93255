package fetcher

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter ограничивает частоту запросов к одному хосту (RPM)
type RateLimiter struct {
	limit    rate.Limit
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
}

func NewRateLimiter(rpm int) *RateLimiter {
	if rpm <= 0 {
		rpm = 1
	}
	return &RateLimiter{
		limit:    rate.Every(time.Minute / time.Duration(rpm)),
		limiters: make(map[string]*rate.Limiter),
	}
}

func (rl *RateLimiter) Wait(ctx context.Context, host string) error {
	return rl.limiter(host).Wait(ctx)
}

func (rl *RateLimiter) limiter(host string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, exists := rl.limiters[host]
	if !exists {
		l = rate.NewLimiter(rl.limit, 1)
		rl.limiters[host] = l
	}
	return l
}
