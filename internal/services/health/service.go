package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/server/respond"
)

const defaultCheckTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger, e.g. a redis client's Ping.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// Service reports liveness and the reachability of optional backing stores.
type Service struct {
	Checks  map[string]Pinger
	Timeout time.Duration
}

// NewService constructs a health service. Nil checks are skipped so memory
// fallbacks report healthy.
func NewService(checks map[string]Pinger) *Service {
	s := &Service{Checks: map[string]Pinger{}, Timeout: defaultCheckTimeout}
	for name, p := range checks {
		if p != nil {
			s.Checks[name] = p
		}
	}
	return s
}

// Report is the health payload.
type Report struct {
	OK     bool              `json:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Status runs every check under a shared timeout.
func (s *Service) Status(ctx context.Context) Report {
	report := Report{OK: true}
	if s == nil || len(s.Checks) == 0 {
		return report
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	report.Checks = make(map[string]string, len(s.Checks))
	for name, p := range s.Checks {
		if err := p.PingContext(ctx); err != nil {
			report.OK = false
			report.Checks[name] = "unavailable"
			continue
		}
		report.Checks[name] = "ok"
	}
	return report
}

// RegisterRoutes attaches GET /health.
func (s *Service) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", func(c *gin.Context) {
		report := s.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})
}
