package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter allows max requests per window for each client IP, refilling evenly.
type RateLimiter struct {
	limit      rate.Limit
	burst      int
	ttl        time.Duration
	trustProxy bool
	mu         sync.Mutex
	clients    map[string]*client
	now        func() time.Time
}

// NewRateLimiter keys clients by the connection's remote address. With
// trustProxy set, the last X-Forwarded-For hop is used instead; only enable it
// when a reverse proxy that appends that header sits in front of the server.
func NewRateLimiter(max int, window time.Duration, trustProxy bool) *RateLimiter {
	return &RateLimiter{
		limit:      rate.Every(window / time.Duration(max)),
		burst:      max,
		ttl:        window,
		trustProxy: trustProxy,
		clients:    make(map[string]*client),
		now:        time.Now,
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Idle clients have a full bucket again, so dropping them loses nothing.
	for key, c := range rl.clients {
		if now.Sub(c.lastSeen) > rl.ttl {
			delete(rl.clients, key)
		}
	}

	c, found := rl.clients[ip]
	if !found {
		c = &client{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = now

	return c.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(rl.clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) clientIP(r *http.Request) string {
	if rl.trustProxy {
		if hops := r.Header.Values("X-Forwarded-For"); len(hops) > 0 {
			last := hops[len(hops)-1]
			if i := strings.LastIndex(last, ","); i >= 0 {
				last = last[i+1:]
			}
			if ip := strings.TrimSpace(last); ip != "" {
				return ip
			}
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
