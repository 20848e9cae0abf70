package http

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	// throttlePruneInterval bounds how often idle buckets are swept. Pruning
	// happens inline on the next attempt, admitted or not, so no goroutine is
	// needed.
	throttlePruneInterval = 10 * time.Minute

	// throttleBucketIdleTTL is how long a bucket may sit unused before it is
	// dropped. Long enough that a dropped-and-recreated bucket has refilled
	// anyway, so pruning never grants extra attempts.
	throttleBucketIdleTTL = 30 * time.Minute
)

// loginThrottle bounds attempts against the unauthenticated account
// endpoints. Every attempt costs a full PBKDF2 derivation before it can be
// rejected, so the budget is as much CPU protection as brute-force
// protection. Attempts are counted per (source IP, route): a burst of
// create_account probes must not consume the login budget of the same
// front-end, and vice versa.
type loginThrottle struct {
	mu        sync.Mutex
	buckets   map[string]*throttleBucket
	rps       rate.Limit
	burst     int
	lastPrune time.Time
}

// throttleBucket is one token bucket plus the bookkeeping to prune it.
type throttleBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginRateLimitMiddleware enforces the attempt budget on login and
// create_account. Rejections carry a Retry-After header with the wait until
// the bucket next admits an attempt.
func LoginRateLimitMiddleware(rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	throttle := &loginThrottle{
		buckets:   make(map[string]*throttleBucket),
		rps:       rate.Limit(rps),
		burst:     burst,
		lastPrune: time.Now(),
	}

	return func(c *gin.Context) {
		key := c.ClientIP() + " " + c.FullPath()

		delay := throttle.take(key)
		if delay > 0 {
			retryAfter := int(math.Ceil(delay.Seconds()))

			logger.Debug("login attempt throttled",
				slog.String("client_ip", c.ClientIP()),
				slog.String("path", c.FullPath()),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": "Too many attempts. Please retry after the specified delay.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// take consumes one attempt from the bucket for key. It returns zero when the
// attempt is admitted, or the wait until the bucket next admits one. A denied
// attempt consumes nothing.
func (t *loginThrottle) take(key string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	if now.Sub(t.lastPrune) > throttlePruneInterval {
		t.prune(now)
	}

	bucket := t.buckets[key]
	if bucket == nil {
		bucket = &throttleBucket{limiter: rate.NewLimiter(t.rps, t.burst)}
		t.buckets[key] = bucket
	}
	bucket.lastSeen = now

	reservation := bucket.limiter.Reserve()
	if delay := reservation.Delay(); delay > 0 {
		reservation.Cancel()
		return delay
	}
	return 0
}

// prune drops buckets idle past the TTL. Callers must hold the mutex.
func (t *loginThrottle) prune(now time.Time) {
	t.lastPrune = now
	for key, bucket := range t.buckets {
		if now.Sub(bucket.lastSeen) > throttleBucketIdleTTL {
			delete(t.buckets, key)
		}
	}
}
