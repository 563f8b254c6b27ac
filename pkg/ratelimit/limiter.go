package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// MultiLimiter manages one rate limiter per platform so that concurrent
// fetches stay polite toward each source independently.
type MultiLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex

	// Fallback rate for platforms without an explicit limiter.
	defaultRate  rate.Limit
	defaultBurst int
}

// NewMultiLimiter creates a new multi-limiter. Platforms without an
// explicit limiter get defaultPerSecond/defaultBurst on first use.
func NewMultiLimiter(defaultPerSecond float64, defaultBurst int) *MultiLimiter {
	return &MultiLimiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(defaultPerSecond),
		defaultBurst: defaultBurst,
	}
}

// AddLimiter adds a rate limiter for a platform
// requestsPerSecond: the rate limit (e.g., 10 means 10 requests per second)
// burst: maximum burst size
func (m *MultiLimiter) AddLimiter(platform string, requestsPerSecond float64, burst int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limiters[platform] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// Wait blocks until the platform's limiter allows an event, registering
// the default limiter for platforms not seen before.
func (m *MultiLimiter) Wait(ctx context.Context, platform string) error {
	return m.limiter(platform).Wait(ctx)
}

// Allow reports whether an event may happen now for the platform
func (m *MultiLimiter) Allow(platform string) bool {
	return m.limiter(platform).Allow()
}

func (m *MultiLimiter) limiter(platform string) *rate.Limiter {
	m.mu.RLock()
	limiter, ok := m.limiters[platform]
	m.mu.RUnlock()
	if ok {
		return limiter
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if limiter, ok = m.limiters[platform]; ok {
		return limiter
	}
	limiter = rate.NewLimiter(m.defaultRate, m.defaultBurst)
	m.limiters[platform] = limiter
	return limiter
}

// Known platform names
const (
	PlatformWeibo  = "weibo"
	PlatformDouyin = "douyin"
	PlatformRSS    = "rss"
)

// NewDefaultLimiter creates a limiter with default per-platform rates
func NewDefaultLimiter() *MultiLimiter {
	m := NewMultiLimiter(1, 5)

	// Weibo mobile API: stay well under anti-abuse thresholds
	m.AddLimiter(PlatformWeibo, 0.5, 3)

	// Douyin: same posture as weibo
	m.AddLimiter(PlatformDouyin, 0.5, 3)

	// RSS: no strict limit, but be polite - 1 per second, burst 10
	m.AddLimiter(PlatformRSS, 1, 10)

	return m
}
