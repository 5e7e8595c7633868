// internal/middleware/rate_limit.go
package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/otakughor/backend/internal/config"
	"github.com/otakughor/backend/internal/utils"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	visitors map[string]*visitor
	mtx      sync.Mutex
	rate     rate.Limit
	burst    int
}

func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    b,
	}
}

// Cleanup drops visitors idle for more than three minutes, once a minute,
// until done is closed.
func (rl *RateLimiter) Cleanup(done <-chan struct{}) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			rl.mtx.Lock()
			for ip, v := range rl.visitors {
				if time.Since(v.lastSeen) > 3*time.Minute {
					delete(rl.visitors, ip)
				}
			}
			rl.mtx.Unlock()
		}
	}
}

func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.visitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := rl.getVisitor(c.ClientIP())

		if !limiter.Allow() {
			utils.TooManyRequestsResponse(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RateLimits holds the general and auth limiters built from config.
type RateLimits struct {
	enabled bool
	general *RateLimiter
	auth    *RateLimiter
}

func NewRateLimits(cfg config.RateLimitConfig) *RateLimits {
	authPerMin := cfg.AuthPerMin
	if authPerMin <= 0 {
		authPerMin = 10
	}
	return &RateLimits{
		enabled: cfg.Enabled,
		general: NewRateLimiter(rate.Limit(cfg.GeneralRPS), cfg.GeneralBurst),
		auth:    NewRateLimiter(rate.Every(time.Minute/time.Duration(authPerMin)), cfg.AuthBurst),
	}
}

// Start runs visitor cleanup for both limiters until done is closed.
func (r *RateLimits) Start(done <-chan struct{}) {
	if !r.enabled {
		return
	}
	go r.general.Cleanup(done)
	go r.auth.Cleanup(done)
}

func (r *RateLimits) General() gin.HandlerFunc {
	if !r.enabled {
		return passThrough
	}
	return r.general.Middleware()
}

// Auth limits login, registration and refresh attempts.
func (r *RateLimits) Auth() gin.HandlerFunc {
	if !r.enabled {
		return passThrough
	}
	return r.auth.Middleware()
}

func passThrough(c *gin.Context) {
	c.Next()
}
