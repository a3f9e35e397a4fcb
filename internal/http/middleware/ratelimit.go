package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/IgorAcender/AIGenda-sub001/internal/tenancy"
)

// tenantLimiter throttles booking traffic per tenant with token buckets.
// One noisy tenant hammering the slot endpoints must not starve the rest,
// so the bucket key is the tenant id, not the client address.
type tenantLimiter struct {
	mu      sync.Mutex
	buckets map[string]*tokenBucket
	rate    float64 // tokens refilled per second
	burst   int
}

type tokenBucket struct {
	tokens float64
	seen   time.Time
}

func newTenantLimiter(rate float64, burst int) *tenantLimiter {
	tl := &tenantLimiter{
		buckets: make(map[string]*tokenBucket),
		rate:    rate,
		burst:   burst,
	}
	go tl.evictIdle()
	return tl
}

func (tl *tenantLimiter) allow(key string) bool {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	now := time.Now()
	b, ok := tl.buckets[key]
	if !ok {
		b = &tokenBucket{tokens: float64(tl.burst), seen: now}
		tl.buckets[key] = b
	}

	b.tokens += now.Sub(b.seen).Seconds() * tl.rate
	if b.tokens > float64(tl.burst) {
		b.tokens = float64(tl.burst)
	}
	b.seen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// evictIdle drops buckets for tenants that went quiet so the map does not
// grow with every tenant ever seen.
func (tl *tenantLimiter) evictIdle() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		tl.mu.Lock()
		cutoff := time.Now().Add(-10 * time.Minute)
		for key, b := range tl.buckets {
			if b.seen.Before(cutoff) {
				delete(tl.buckets, key)
			}
		}
		tl.mu.Unlock()
	}
}

// limitKey identifies the caller: the tenant id when the request carries
// one, otherwise the client address. The fallback covers requests
// rejected before tenant resolution.
func limitKey(r *http.Request) string {
	if tenantID, ok := tenancy.TenantIDFromContext(r.Context()); ok {
		return tenantID
	}
	if xri := r.Header.Get("X-Real-Ip"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// TenantRateLimit returns a middleware that rejects a tenant's requests
// beyond rate req/s (with the given burst) with 429 Too Many Requests.
func TenantRateLimit(rate float64, burst int) func(http.Handler) http.Handler {
	limiter := newTenantLimiter(rate, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.allow(limitKey(r)) {
				retry := 1
				if rate > 0 && rate < 1 {
					retry = int(1 / rate)
				}
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
