package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/apperr"
	"jobboard-backend/internal/shared/server/respond"
	"jobboard-backend/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 envelope. A response that has
// already started streaming (resume relay) is aborted as-is.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			telemetry.Error("request.panic", map[string]any{
				"request_id": RequestIDFromContext(c),
				"user_id":    UserIDFromContext(c),
				"route":      c.FullPath(),
				"method":     c.Request.Method,
				"panic":      rec,
				"stack":      string(debug.Stack()),
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, string(apperr.Internal), "Unexpected server error", nil)
		}()
		c.Next()
	}
}
