package httputil

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds per-client rate limiter settings.
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// ClientRateLimiter applies a token bucket per client IP. Idle buckets are
// evicted so the map does not grow unbounded.
type ClientRateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientBucket
	limit    rate.Limit
	burst    int
	lastSeen time.Duration
}

type clientBucket struct {
	limiter *rate.Limiter
	seen    time.Time
}

// NewClientRateLimiter creates a per-IP rate limiter.
func NewClientRateLimiter(cfg RateLimitConfig) *ClientRateLimiter {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 100
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = rpm
	}
	return &ClientRateLimiter{
		clients:  make(map[string]*clientBucket),
		limit:    rate.Limit(float64(rpm) / 60.0),
		burst:    burst,
		lastSeen: 3 * time.Minute,
	}
}

// Middleware rejects requests over the limit with 429.
func (l *ClientRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			Error(w, http.StatusTooManyRequests, "too many requests, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *ClientRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	bucket, ok := l.clients[ip]
	if !ok {
		bucket = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = bucket
	}
	bucket.seen = now

	// Opportunistic eviction of idle clients.
	if len(l.clients) > 1024 {
		for key, b := range l.clients {
			if now.Sub(b.seen) > l.lastSeen {
				delete(l.clients, key)
			}
		}
	}

	return bucket.limiter.Allow()
}

func clientIP(r *http.Request) string {
	// RealIP middleware rewrites RemoteAddr from X-Forwarded-For when present.
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
