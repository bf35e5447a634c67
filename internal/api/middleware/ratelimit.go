package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter is a per-client sliding-window limiter keyed by IP.
type RateLimiter struct {
	requests int
	window   time.Duration

	mu      sync.Mutex
	clients map[string][]time.Time
}

func NewRateLimiter(requests, windowSeconds int) *RateLimiter {
	if requests <= 0 {
		requests = 100
	}
	if windowSeconds <= 0 {
		windowSeconds = 60
	}

	rl := &RateLimiter{
		requests: requests,
		window:   time.Duration(windowSeconds) * time.Second,
		clients:  make(map[string][]time.Time),
	}

	go rl.cleanup()
	return rl
}

// cleanup drops clients with no activity in two windows.
func (rl *RateLimiter) cleanup() {
	for range time.Tick(time.Minute) {
		rl.mu.Lock()
		cutoff := time.Now().Add(-2 * rl.window)
		for ip, stamps := range rl.clients {
			if len(stamps) == 0 || stamps[len(stamps)-1].Before(cutoff) {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow records a request for ip and reports whether it fits the window,
// along with the remaining budget and the window reset time.
func (rl *RateLimiter) Allow(ip string) (bool, int, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.window)

	stamps := rl.clients[ip]
	kept := stamps[:0]
	for _, ts := range stamps {
		if ts.After(windowStart) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= rl.requests {
		rl.clients[ip] = kept
		return false, 0, kept[0].Add(rl.window)
	}

	kept = append(kept, now)
	rl.clients[ip] = kept
	return true, rl.requests - len(kept), now.Add(rl.window)
}

// RateLimit applies the limiter to every request.
func RateLimit(requests, windowSeconds int) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(requests, windowSeconds)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			allowed, remaining, reset := limiter.Allow(ip)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.requests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

			if !allowed {
				w.Header().Set("Retry-After", strconv.FormatInt(int64(time.Until(reset).Seconds())+1, 10))
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return xff
	}
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return rip
	}
	host := r.RemoteAddr
	if i := strings.LastIndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return host
}
