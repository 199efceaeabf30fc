package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/metrics"
	"jobboard-backend/internal/shared/telemetry"
)

// Logging emits a structured log and request metrics per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		metrics.ObserveRequest(c.Request.Method, c.FullPath(), status, latency.Seconds())

		principal := PrincipalFromContext(c)
		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     principal.ID,
			"role":        string(principal.Role),
			"client_ip":   c.ClientIP(),
		}
		for _, key := range []string{"applicationId", "jobId", "candidateId", "statusTransition"} {
			if v := c.GetString(key); v != "" {
				fields[snake(key)] = v
			}
		}
		telemetry.Info("request.complete", fields)
	}
}

func snake(key string) string {
	var b strings.Builder
	for i, r := range key {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
