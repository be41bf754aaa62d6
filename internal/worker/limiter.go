package worker

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter rate-limits outbound evidence fetches per host, so a batch
// of claims against the same site never hammers it. Limiters are
// created lazily, one per host, all with the same fill rate.
type Limiter struct {
	mu    sync.Mutex
	hosts map[string]*rate.Limiter
	fill  rate.Limit
	burst int
}

// NewLimiter creates a per-host limiter
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	return &Limiter{
		hosts: make(map[string]*rate.Limiter),
		fill:  rate.Limit(requestsPerSecond),
		burst: burst,
	}
}

// Wait blocks until the URL's host has a token, then sleeps any extra
// delay the host requested (robots.txt crawl-delay).
func (l *Limiter) Wait(ctx context.Context, rawURL string, extraDelay time.Duration) error {
	host, err := hostOf(rawURL)
	if err != nil {
		return err
	}

	if err := l.forHost(host).Wait(ctx); err != nil {
		return err
	}

	if extraDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(extraDelay):
		}
	}
	return nil
}

// Allow reports whether a request to the URL's host could proceed
// right now, without consuming time
func (l *Limiter) Allow(rawURL string) bool {
	host, err := hostOf(rawURL)
	if err != nil {
		return false
	}
	return l.forHost(host).Allow()
}

func (l *Limiter) forHost(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.hosts[host]
	if !ok {
		limiter = rate.NewLimiter(l.fill, l.burst)
		l.hosts[host] = limiter
	}
	return limiter
}

func hostOf(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("no host in URL: %s", rawURL)
	}
	return parsed.Host, nil
}
