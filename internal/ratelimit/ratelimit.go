// Package ratelimit throttles unauthenticated traffic per client IP with token buckets.
package ratelimit

import (
	"cloud-drive/internal/logging"
	"cloud-drive/internal/util"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// idleAfter : buckets untouched this long are dropped by Sweep
const idleAfter = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// PerIP : one token bucket per remote address. Safe for concurrent use.
type PerIP struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	clock    func() time.Time
}

func NewPerIP(requestsPerSecond float64, burst int) *PerIP {
	return &PerIP{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(requestsPerSecond),
		burst:    burst,
		clock:    time.Now,
	}
}

// Allow : consumes one token of ip's bucket
func (p *PerIP) Allow(ip string) bool {
	now := p.clock()

	p.mu.Lock()
	v, ok := p.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(p.limit, p.burst)}
		p.visitors[ip] = v
	}
	v.lastSeen = now
	p.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

// Sweep : forgets idle clients, returns how many were dropped
func (p *PerIP) Sweep() int {
	cutoff := p.clock().Add(-idleAfter)

	p.mu.Lock()
	defer p.mu.Unlock()
	dropped := 0
	for ip, v := range p.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(p.visitors, ip)
			dropped++
		}
	}
	return dropped
}

func (p *PerIP) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.visitors)
}

func (p *PerIP) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !p.Allow(ip) {
			logging.Debug("[RateLimit] request throttled", zap.String("ip", ip), zap.String("path", r.URL.Path))
			w.Header().Set("Retry-After", strconv.Itoa(p.retryAfterSeconds()))
			util.HandleError(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (p *PerIP) retryAfterSeconds() int {
	if p.limit <= 0 {
		return 60
	}
	seconds := int(1 / float64(p.limit))
	if seconds < 1 {
		return 1
	}
	return seconds
}

// clientIP : RemoteAddr without the port; chi's RealIP middleware rewrites it behind proxies
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
