package api

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// IPLimiter keeps a token bucket per client IP. A nil *IPLimiter allows
// everything.
type IPLimiter struct {
	rps   rate.Limit
	burst int
	idle  time.Duration

	mu        sync.Mutex
	clients   map[string]*client
	lastSweep time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPLimiter creates a limiter allowing rps requests per second per IP with
// the given burst. A non-positive rps disables limiting.
func NewIPLimiter(rps float64, burst int) *IPLimiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &IPLimiter{
		rps:       rate.Limit(rps),
		burst:     burst,
		idle:      10 * time.Minute,
		clients:   make(map[string]*client),
		lastSweep: time.Now(),
	}
}

// Allow reports whether ip may make another request now
func (l *IPLimiter) Allow(ip string) bool {
	if l == nil {
		return true
	}

	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > l.idle {
		for key, c := range l.clients {
			if now.Sub(c.lastSeen) > l.idle {
				delete(l.clients, key)
			}
		}
		l.lastSweep = now
	}

	c, ok := l.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}
