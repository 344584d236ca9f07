package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

const maxTrackedClients = 10000

// RateLimiter hands out one token bucket per client. Clients are keyed by
// principal, falling back to the remote IP.
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	clients map[string]*rate.Limiter
}

// NewRateLimiter allows rps requests per second per client with the given burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		clients: make(map[string]*rate.Limiter),
	}
}

func (l *RateLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.clients[key]
	if !ok {
		if len(l.clients) >= maxTrackedClients {
			// Full buckets carry no state worth keeping.
			for k, v := range l.clients {
				if v.Tokens() >= float64(l.burst) {
					delete(l.clients, k)
				}
			}
			// Every client is mid-refill: drop arbitrary ones to stay under the cap.
			for k := range l.clients {
				if len(l.clients) < maxTrackedClients {
					break
				}
				delete(l.clients, k)
			}
		}
		lim = rate.NewLimiter(l.limit, l.burst)
		l.clients[key] = lim
	}
	return lim
}

// Handler rejects requests over the limit with 429 and a Retry-After header.
func (l *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if l.limit <= 0 {
			return c.Next()
		}
		key := PrincipalFrom(c)
		if key == "" {
			key = c.IP()
		}

		r := l.limiter(key).Reserve()
		if delay := r.Delay(); delay > 0 {
			r.Cancel()
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfterSeconds(delay)))
			return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded")
		}
		return c.Next()
	}
}

func retryAfterSeconds(d time.Duration) int {
	return int(math.Max(1, math.Ceil(d.Seconds())))
}
