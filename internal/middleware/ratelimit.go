package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client key (tenant + IP).
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int
	idle    time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

func NewRateLimiter(requestsPerSecond float64, burst int, logger *zap.Logger) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		clients: make(map[string]*client),
		limit:   rate.Limit(requestsPerSecond),
		burst:   burst,
		idle:    10 * time.Minute,
		logger:  logger,
		now:     time.Now,
	}
}

// Allow reports whether key may make another request now.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	c, ok := rl.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// Sweep drops buckets idle for longer than the idle window.
func (rl *RateLimiter) Sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for key, c := range rl.clients {
		if now.Sub(c.lastSeen) > rl.idle {
			delete(rl.clients, key)
		}
	}
}

// Len jumlah bucket aktif
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Limit rejects requests over the budget with 429. Health and metrics probes are exempt.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health", "/healthz", "/metrics":
			next.ServeHTTP(w, r)
			return
		}

		key := GetTenantFromContext(r.Context()) + ":" + clientIP(r)
		if !rl.Allow(key) {
			rl.logger.Warn("rate limit exceeded",
				zap.String("key", key),
				zap.String("path", r.URL.Path),
				zap.String("request_id", GetRequestID(r.Context())),
			)
			w.Header().Set("Retry-After", "1")
			WriteError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
