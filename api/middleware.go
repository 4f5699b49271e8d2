package api

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterIdle is how long a client bucket may go unused before it is dropped.
const limiterIdle = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters keeps one token bucket per client key. Buckets idle for longer
// than idle are swept on access, at most once per idle period.
type clientLimiters struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	idle      time.Duration
	now       func() time.Time
	lastSweep time.Time
	limiters  map[string]*clientLimiter
}

func newClientLimiters(perSecond float64, burst int) *clientLimiters {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &clientLimiters{
		limit:     limit,
		burst:     burst,
		idle:      limiterIdle,
		now:       time.Now,
		lastSweep: time.Now(),
		limiters:  make(map[string]*clientLimiter),
	}
}

func (l *clientLimiters) get(client string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > l.idle {
		for key, entry := range l.limiters {
			if now.Sub(entry.lastSeen) > l.idle {
				delete(l.limiters, key)
			}
		}
		l.lastSweep = now
	}

	entry, ok := l.limiters[client]
	if !ok {
		// Create a new rate limiter for the client if it doesn't exist
		entry = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[client] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

func (l *clientLimiters) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

func tooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"status": http.StatusTooManyRequests, "msg": "Too Many Requests"})
}

// limitByAddress runs ahead of authentication so rejected keys are throttled too.
func (server *Server) limitByAddress(c *gin.Context) {
	if !server.addrLimiters.get(c.ClientIP()).Allow() {
		tooManyRequests(c)
		return
	}
	c.Next()
}

// limitByKey throttles each authenticated API key on its own bucket.
func (server *Server) limitByKey(c *gin.Context) {
	prefix, ok := c.Get(authorizationClientKey)
	if !ok {
		c.Next()
		return
	}
	if !server.keyLimiters.get(prefix.(string)).Allow() {
		tooManyRequests(c)
		return
	}
	c.Next()
}

func (server *Server) instrument(c *gin.Context) {
	start := time.Now()
	c.Next()

	status := c.Writer.Status()
	server.metrics.requests.WithLabelValues(c.FullPath(), strconv.Itoa(status)).Inc()

	attrs := []any{
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", status,
		"client", c.ClientIP(),
		"elapsed", time.Since(start),
	}
	switch {
	case status >= http.StatusInternalServerError:
		server.logger.Error("request failed", append(attrs, "error", c.Errors.String())...)
	case status >= http.StatusBadRequest:
		server.logger.Warn("request rejected", attrs...)
	default:
		server.logger.Info("request served", attrs...)
	}
}
