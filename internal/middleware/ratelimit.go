package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/coursehub-backend/pkg/logger"
	"golang.org/x/time/rate"
)

// Limit is a per-client allowance of PerMinute requests with Burst headroom.
type Limit struct {
	PerMinute float64
	Burst     int
}

const clientTTL = 3 * time.Minute

// ClientRateLimiter keeps one token bucket per client. Clients are keyed by user id once
// authenticated, by IP otherwise, so learners behind one NAT do not share a bucket.
type ClientRateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientBucket
	limit     rate.Limit
	burst     int
	lastSweep time.Time
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewClientRateLimiter(l Limit) *ClientRateLimiter {
	return newClientRateLimiter(rate.Limit(l.PerMinute/60.0), l.Burst)
}

func newClientRateLimiter(r rate.Limit, burst int) *ClientRateLimiter {
	return &ClientRateLimiter{
		clients:   make(map[string]*clientBucket),
		limit:     r,
		burst:     burst,
		lastSweep: time.Now(),
	}
}

// bucket returns the limiter for key, dropping idle clients at most once a minute.
func (rl *ClientRateLimiter) bucket(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) > time.Minute {
		for k, b := range rl.clients {
			if now.Sub(b.lastSeen) > clientTTL {
				delete(rl.clients, k)
			}
		}
		rl.lastSweep = now
	}

	b, ok := rl.clients[key]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = b
	}
	b.lastSeen = now
	return b.limiter
}

// retryAfter is the time one token takes to refill, in whole seconds.
func (rl *ClientRateLimiter) retryAfter() string {
	if rl.limit <= 0 {
		return "60"
	}
	return strconv.Itoa(int(math.Ceil(1 / float64(rl.limit))))
}

func clientKey(c *gin.Context) string {
	if id := c.GetString(ContextUserID); id != "" {
		return "user:" + id
	}
	return "ip:" + c.ClientIP()
}

// Middleware rejects requests over the allowance with 429 and a Retry-After header.
func (rl *ClientRateLimiter) Middleware(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := clientKey(c)
		if rl.bucket(key, time.Now()).Allow() {
			c.Next()
			return
		}

		logger.Warn().
			Str("scope", scope).
			Str("client", key).
			Str("path", c.Request.URL.Path).
			Msg("Rate limit exceeded")

		c.Header("Retry-After", rl.retryAfter())
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":   "Too many requests",
			"message": "Rate limit exceeded. Please slow down.",
		})
	}
}

var (
	// Login and registration: 20 per minute
	authLimiter = NewClientRateLimiter(Limit{PerMinute: 20, Burst: 10})
	// Media uploads are large, 30 per minute
	uploadLimiter = NewClientRateLimiter(Limit{PerMinute: 30, Burst: 5})
	// Checkout: 20 per minute
	paymentLimiter = NewClientRateLimiter(Limit{PerMinute: 20, Burst: 5})
	// Everything else: 600 per minute
	generalLimiter = NewClientRateLimiter(Limit{PerMinute: 600, Burst: 50})
)

func AuthRateLimit() gin.HandlerFunc {
	return authLimiter.Middleware("auth")
}

func UploadRateLimit() gin.HandlerFunc {
	return uploadLimiter.Middleware("upload")
}

func PaymentRateLimit() gin.HandlerFunc {
	return paymentLimiter.Middleware("payment")
}

func GeneralRateLimit() gin.HandlerFunc {
	return generalLimiter.Middleware("general")
}
