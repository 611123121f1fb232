package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Rate limit tiers: credential endpoints get a strict budget, everything
// else the general one.
const (
	limitStrict = rate.Limit(2)
	burstStrict = 5

	limitGeneral = rate.Limit(10)
	burstGeneral = 20
)

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
}

func NewRateLimiter() *RateLimiter {
	rl := &RateLimiter{visitors: make(map[string]*visitor)}
	go rl.cleanupVisitors()
	return rl
}

func (rl *RateLimiter) getVisitor(key string, r rate.Limit, b int) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(r, b)
		rl.visitors[key] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// cleanupVisitors removes stale entries so the map does not grow unbounded.
func (rl *RateLimiter) cleanupVisitors() {
	for {
		time.Sleep(time.Minute)

		rl.mu.Lock()
		for key, v := range rl.visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(rl.visitors, key)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit, burst, tier := resolveRateTier(r)

		var identity string
		if userID, ok := GetUserID(r.Context()); ok {
			identity = fmt.Sprintf("user:%d", userID)
		} else {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			identity = "ip:" + ip
		}

		// Same identity gets separate quotas for strict vs general actions.
		key := fmt.Sprintf("%s:%s", identity, tier)

		limiter := rl.getVisitor(key, limit, burst)
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func resolveRateTier(r *http.Request) (rate.Limit, int, string) {
	if strings.HasPrefix(r.URL.Path, "/users/register") || strings.HasPrefix(r.URL.Path, "/users/login") {
		return limitStrict, burstStrict, "strict"
	}
	return limitGeneral, burstGeneral, "general"
}
