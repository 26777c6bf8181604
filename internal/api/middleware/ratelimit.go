package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sahil-lab/realEstate/internal/logger"
)

// clientLimiter stores the rate limiter for a specific client.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterMiddleware applies a token bucket per client IP.
type RateLimiterMiddleware struct {
	clients    map[string]*clientLimiter
	mu         sync.Mutex
	refillRate rate.Limit
	bucketSize int
	idleTTL    time.Duration
	now        func() time.Time
}

// NewRateLimiterMiddleware creates a limiter allowing bucketSize requests in
// a burst, refilled at refillRate tokens per second.
func NewRateLimiterMiddleware(bucketSize, refillRate int) *RateLimiterMiddleware {
	return &RateLimiterMiddleware{
		clients:    make(map[string]*clientLimiter),
		refillRate: rate.Limit(refillRate),
		bucketSize: bucketSize,
		idleTTL:    30 * time.Minute,
		now:        time.Now,
	}
}

func (rm *RateLimiterMiddleware) getClientLimiter(identifier string) *clientLimiter {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	limiter, exists := rm.clients[identifier]
	if !exists {
		limiter = &clientLimiter{limiter: rate.NewLimiter(rm.refillRate, rm.bucketSize)}
		rm.clients[identifier] = limiter
	}
	limiter.lastSeen = rm.now()
	return limiter
}

// Cleanup drops clients idle for longer than the idle TTL and returns how
// many were removed.
func (rm *RateLimiterMiddleware) Cleanup() int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	count := 0
	cutoff := rm.now().Add(-rm.idleTTL)
	for id, client := range rm.clients {
		if client.lastSeen.Before(cutoff) {
			delete(rm.clients, id)
			count++
		}
	}
	return count
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (rm *RateLimiterMiddleware) RunCleanup(ctx context.Context, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rm.Cleanup(); n > 0 && log != nil {
				log.Debug("Rate limiter cleanup", zap.Int("removed", n))
			}
		}
	}
}

// Limit creates the Gin middleware handler.
func (rm *RateLimiterMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientKey := c.ClientIP()
		if !rm.getClientLimiter(clientKey).limiter.Allow() {
			logger.FromContext(c, nil).Warn("Rate limit exceeded",
				zap.String("client", clientKey),
				zap.String("path", c.FullPath()),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		c.Next()
	}
}
