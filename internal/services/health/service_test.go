package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStatusWithoutChecks(t *testing.T) {
	report := NewService(map[string]Pinger{"database": nil}).Status(context.Background())
	assert.True(t, report.OK)
	assert.Empty(t, report.Checks)
}

func TestStatusReportsFailingCheck(t *testing.T) {
	svc := NewService(map[string]Pinger{
		"database": PingFunc(func(context.Context) error { return nil }),
		"redis":    PingFunc(func(context.Context) error { return errors.New("dial tcp: refused") }),
	})

	report := svc.Status(context.Background())
	assert.False(t, report.OK)
	assert.Equal(t, map[string]string{"database": "ok", "redis": "unavailable"}, report.Checks)
}

func TestHealthRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewService(map[string]Pinger{
		"redis": PingFunc(func(context.Context) error { return errors.New("down") }),
	}).RegisterRoutes(r.Group("/api/v1"))

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.NotContains(t, resp.Body.String(), "down")
}
