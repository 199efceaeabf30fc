package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/apperr"
	"jobboard-backend/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

var kindStatus = map[apperr.Kind]int{
	apperr.ValidationError:      http.StatusBadRequest,
	apperr.Unauthorized:         http.StatusUnauthorized,
	apperr.Forbidden:            http.StatusForbidden,
	apperr.NotFound:             http.StatusNotFound,
	apperr.DuplicateApplication: http.StatusConflict,
	apperr.JobUnavailable:       http.StatusConflict,
	apperr.InvalidTransition:    http.StatusConflict,
	apperr.UpstreamError:        http.StatusBadGateway,
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Problem renders err using its apperr kind. Causes are logged, not sent.
func Problem(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := StatusFor(kind)
	if status == http.StatusInternalServerError || kind == apperr.UpstreamError {
		telemetry.Error("http.cause", map[string]any{
			"request_id": c.GetString("requestId"),
			"path":       c.Request.URL.Path,
			"error":      err,
		})
	}
	if status == http.StatusInternalServerError {
		kind = apperr.Internal
	}
	Error(c, status, string(kind), apperr.MessageOf(err), nil)
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if role := c.GetString("userRole"); role != "" {
		fields["role"] = role
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
