package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"jobboard-backend/internal/identity"
	"jobboard-backend/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)
	prev := telemetry.SetLogger(zap.New(core))
	defer telemetry.SetLogger(prev)

	router := gin.New()
	router.Use(RequestID(), func(c *gin.Context) {
		SetPrincipal(c, identity.Principal{ID: "rec-1", Role: identity.RoleRecruiter})
		c.Next()
	}, Logging())
	router.PUT("/api/v1/applications/:applicationId/status", func(c *gin.Context) {
		c.Set("applicationId", c.Param("applicationId"))
		c.Set("statusTransition", "applied->shortlisted")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/applications/app-1/status", nil)
	req.Header.Set("X-Request-Id", "req-123")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	entries := logs.FilterMessage("request.complete").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()

	for _, key := range []string{"request_id", "user_id", "role", "application_id", "duration_ms", "status", "status_transition", "route"} {
		assert.Contains(t, fields, key)
	}
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "rec-1", fields["user_id"])
	assert.Equal(t, "recruiter", fields["role"])
	assert.Equal(t, "app-1", fields["application_id"])
	assert.Equal(t, "applied->shortlisted", fields["status_transition"])
	assert.Equal(t, "/api/v1/applications/:applicationId/status", fields["route"])
	assert.Equal(t, "req-123", resp.Header().Get("X-Request-Id"))
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFromContext(c))
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Len(t, resp.Body.String(), 36)
	assert.Equal(t, resp.Body.String(), resp.Header().Get("X-Request-Id"))
}

func TestRecoveryReturnsJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	prev := telemetry.SetLogger(zap.NewNop())
	defer telemetry.SetLogger(prev)

	router := gin.New()
	router.Use(RequestID(), Recovery())
	router.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "internal_error")
	assert.NotContains(t, resp.Body.String(), "kaboom")
}

func TestSnake(t *testing.T) {
	assert.Equal(t, "application_id", snake("applicationId"))
	assert.Equal(t, "status_transition", snake("statusTransition"))
}
