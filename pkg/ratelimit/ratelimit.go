package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// PerIP is a best-effort per-client token bucket. It is injected into the
// HTTP layer as a dependency so nothing in the core touches global state.
type PerIP struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	lastGC  time.Time
}

type client struct {
	limiter *rate.Limiter
	seen    time.Time
}

// NewPerIP builds a limiter allowing perMinute requests sustained with the
// given burst per client key.
func NewPerIP(perMinute, burst int) *PerIP {
	if perMinute <= 0 {
		perMinute = 60
	}
	if burst <= 0 {
		burst = perMinute
	}
	return &PerIP{
		clients: make(map[string]*client),
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   burst,
		ttl:     10 * time.Minute,
		lastGC:  time.Now(),
	}
}

// Allow reports whether the client identified by key may proceed. Stale
// clients are pruned opportunistically to keep the map bounded.
func (p *PerIP) Allow(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if now.Sub(p.lastGC) > p.ttl {
		for k, c := range p.clients {
			if now.Sub(c.seen) > p.ttl {
				delete(p.clients, k)
			}
		}
		p.lastGC = now
	}

	c, ok := p.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(p.limit, p.burst)}
		p.clients[key] = c
	}
	c.seen = now
	return c.limiter.Allow()
}
