// Package middleware agrupa los middlewares gin del gateway.
package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"storefront/internal/api"
	"storefront/internal/auth"
)

const adminKey = "admin_subject"

// Logger registra cada petición terminada con zerolog
func Logger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("client_ip", c.ClientIP()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request completed")
	}
}

// IPRateLimiter guarda un limitador por IP y olvida las IPs inactivas
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewIPRateLimiter(perMinute int) *IPRateLimiter {
	if perMinute <= 0 {
		perMinute = 30
	}
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		idle:     10 * time.Minute,
	}
}

func (rl *IPRateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now

	for key, other := range rl.visitors {
		if now.Sub(other.lastSeen) > rl.idle {
			delete(rl.visitors, key)
		}
	}
	return v.limiter.Allow()
}

// Limit corta con 429 cuando la IP supera su cuota
func (rl *IPRateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, api.ErrorResponse{Error: "Too many requests"})
			return
		}
		c.Next()
	}
}

// AdminSession lee el bearer token de administración.
// Sin issuer (JWT_SECRET vacío) la protección está desactivada y todas las peticiones
// cuentan como admin. Un token presente pero inválido corta con 401.
func AdminSession(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if issuer == nil {
			c.Set(adminKey, "anonymous")
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: api.MsgUnauthorized})
			return
		}
		claims, err := issuer.Verify(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: api.MsgUnauthorized})
			return
		}
		c.Set(adminKey, claims.Subject)
		c.Next()
	}
}

// IsAdmin indica si la petición trae una sesión de administración válida
func IsAdmin(c *gin.Context) bool {
	_, ok := c.Get(adminKey)
	return ok
}
